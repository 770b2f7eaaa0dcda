package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ebookconv/internal/appconfig"
	"ebookconv/internal/htmlingest"
	"ebookconv/internal/htmlsynth"
	"ebookconv/internal/ir"
	"ebookconv/internal/kfxbook"
	"ebookconv/internal/kfxerr"
	"ebookconv/internal/kfxexport"
	"ebookconv/internal/kfxschema"
	"ebookconv/internal/links"
	"ebookconv/internal/mdrender"
	"ebookconv/internal/optimize"
)

// chapter is one loaded spine entry, format-agnostic: built either from
// a KFX section or from a single ingested HTML document, optionally
// split further by chunk size.
type chapter struct {
	ID   string
	Path string
	Tree *ir.Chapter
}

// asset is one binary resource a loaded book carries.
type asset struct {
	Name string
	MIME string
	Data []byte
	Font bool
}

// book is the format-neutral in-memory result of loading an input file,
// the shape both back-ends (kfx/html/md) render from.
type book struct {
	Chapters  []chapter
	Metadata  kfxschema.BookMetadata
	TOC       []kfxschema.TocEntry
	Landmarks []kfxschema.Landmark
	Assets    []asset
}

func convertFile(inputPath, outputPath string, cfg appconfig.Config, log *zap.Logger) error {
	b, err := loadInput(inputPath, cfg, log)
	if err != nil {
		return err
	}

	data, err := renderOutput(b, outputPath, cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return userErrorf("write output %s: %w", outputPath, err)
	}
	return nil
}

func loadInput(path string, cfg appconfig.Config, log *zap.Logger) (*book, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".kfx":
		return loadKFX(path, log)
	case ".html", ".htm", ".xhtml":
		return loadHTML(path, cfg, log)
	case ".epub":
		// EPUB container parsing is an out-of-scope external collaborator
		// (spec OUT OF SCOPE: "EPUB container parsing") — there is no
		// ingest adapter in this repo to hand an opaque Book to.
		return nil, kfxerr.New(kfxerr.UnsupportedFeature, "epub ingestion is not implemented")
	default:
		return nil, userErrorf("unrecognized input format %q", ext)
	}
}

func loadKFX(path string, log *zap.Logger) (*book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, userErrorf("read input %s: %w", path, err)
	}
	r, err := kfxbook.Open(data)
	if err != nil {
		return nil, err
	}

	spine := r.Spine()
	chapters := make([]chapter, 0, len(spine))
	for _, se := range spine {
		tree, err := r.LoadChapter(se.ChapterID)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter{ID: se.ChapterID, Path: se.ChapterID, Tree: tree})
	}

	var assets []asset
	var assetErrs error
	for _, info := range r.Assets() {
		data, mime, err := r.LoadAsset(info.Name)
		if err != nil {
			// load_asset failures never invalidate the reader (spec §3.7);
			// collect them and report once, rather than drop them silently.
			assetErrs = multierr.Append(assetErrs, fmt.Errorf("asset %s: %w", info.Name, err))
			continue
		}
		if mime == "" {
			// spec §3.8: resources without a declared type are identified
			// by magic-byte sniffing rather than left untyped.
			if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
				mime = kind.MIME.Value
			}
		}
		assets = append(assets, asset{Name: info.Name, MIME: mime, Data: data, Font: info.Font})
	}
	if assetErrs != nil {
		log.Warn("some assets failed to load", zap.Error(assetErrs))
	}

	return &book{
		Chapters:  chapters,
		Metadata:  r.Metadata(),
		TOC:       r.TOC(),
		Landmarks: r.Landmarks(),
		Assets:    assets,
	}, nil
}

func loadHTML(path string, cfg appconfig.Config, log *zap.Logger) (*book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, userErrorf("read input %s: %w", path, err)
	}

	var sheets [][]byte
	if cfg.Stylesheet.UserAgentPath != "" {
		css, err := os.ReadFile(cfg.Stylesheet.UserAgentPath)
		if err != nil {
			return nil, userErrorf("read stylesheet override %s: %w", cfg.Stylesheet.UserAgentPath, err)
		}
		sheets = append(sheets, css)
	}

	result, err := htmlingest.Ingest(htmlingest.Source{Path: path, HTML: data, Stylesheets: sheets}, log)
	if err != nil {
		return nil, err
	}
	optimize.Run(result.Chapter)

	baseID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	chapters := splitBySize(result.Chapter, baseID, cfg.KFX.ChunkSize)

	toc := make([]kfxschema.TocEntry, len(chapters))
	for i, ch := range chapters {
		toc[i] = kfxschema.TocEntry{Title: chapterTitle(ch.Tree, i+1), Href: ch.ID}
	}

	return &book{
		Chapters: chapters,
		Metadata: kfxschema.BookMetadata{Title: baseID},
		TOC:      toc,
	}, nil
}

// chapterTitle returns the text of a chapter's first heading, or a
// fallback "Chapter N" label.
func chapterTitle(c *ir.Chapter, n int) string {
	for _, id := range c.Children(ir.Root) {
		if c.Nodes[id].Role.HeadingLevel() > 0 {
			if t := collectText(c, id); t != "" {
				return t
			}
		}
	}
	return "Chapter " + strconv.Itoa(n)
}

func collectText(c *ir.Chapter, id ir.NodeId) string {
	if c.Nodes[id].Role == ir.RoleText {
		return c.Text(id)
	}
	var b strings.Builder
	for _, ch := range c.Children(id) {
		b.WriteString(collectText(c, ch))
	}
	return b.String()
}

// splitBySize implements the config-tunable counterpart of spec §3.4's
// SpineEntry.size_estimate: when a single ingested document's rendered
// text exceeds threshold runes, it is split into several spine chapters
// at its top-level heading boundaries instead of staying one oversized
// chapter. threshold <= 0 disables splitting.
func splitBySize(src *ir.Chapter, baseID string, threshold int) []chapter {
	single := []chapter{{ID: baseID, Path: baseID, Tree: src}}
	if threshold <= 0 {
		return single
	}

	var groups [][]ir.NodeId
	var cur []ir.NodeId
	curSize := 0
	for _, child := range src.Children(ir.Root) {
		if curSize >= threshold && src.Nodes[child].Role.HeadingLevel() > 0 && len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
			curSize = 0
		}
		cur = append(cur, child)
		curSize += subtreeTextSize(src, child)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	if len(groups) <= 1 {
		return single
	}

	out := make([]chapter, len(groups))
	for i, g := range groups {
		dst := ir.NewChapter()
		for _, child := range g {
			cloneSubtree(dst, ir.Root, src, child)
		}
		id := fmt.Sprintf("%s-%d", baseID, i+1)
		out[i] = chapter{ID: id, Path: id, Tree: dst}
	}
	return out
}

func subtreeTextSize(c *ir.Chapter, id ir.NodeId) int {
	if c.Nodes[id].Role == ir.RoleText {
		return utf8.RuneCountInString(c.Text(id))
	}
	size := 0
	for _, ch := range c.Children(id) {
		size += subtreeTextSize(c, ch)
	}
	return size
}

// cloneSubtree copies src's subtree rooted at srcID into dst under
// dstParent, interning styles into dst's own pool and carrying semantics
// across (ids, hrefs, etc. survive unchanged so in-document anchors
// still resolve after the split).
func cloneSubtree(dst *ir.Chapter, dstParent ir.NodeId, src *ir.Chapter, srcID ir.NodeId) ir.NodeId {
	n := src.Nodes[srcID]

	var newID ir.NodeId
	if n.Role == ir.RoleText {
		newID = dst.AddText(dstParent, src.Text(srcID))
	} else {
		newID = dst.AddNode(dstParent, n.Role)
	}
	dst.SetStyle(newID, dst.Styles.Intern(src.Styles.Get(n.Style)))
	if src.Semantics.Has(srcID) {
		dst.Semantics.Set(newID, src.Semantics.Get(srcID))
	}
	if !n.Role.Void() {
		for _, ch := range src.Children(srcID) {
			cloneSubtree(dst, newID, src, ch)
		}
	}
	return newID
}

// linkSources builds internal/links.Source entries for b's chapters,
// indexing every node carrying a semantics id so book-wide link
// resolution (spec §4.6) covers cross-chapter references.
func linkSources(b *book) []links.Source {
	sources := make([]links.Source, len(b.Chapters))
	for i, ch := range b.Chapters {
		ids := make(map[string]ir.NodeId)
		for n := range ch.Tree.Nodes {
			id := ir.NodeId(n)
			if sem := ch.Tree.Semantics.Get(id); sem.ID != "" {
				ids[sem.ID] = id
			}
		}
		sources[i] = links.Source{ID: links.ChapterId(i), Path: ch.Path, Tree: ch.Tree, IDs: ids}
	}
	return sources
}

func renderOutput(b *book, outputPath string, cfg appconfig.Config) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(outputPath))
	switch ext {
	case ".kfx":
		return renderKFX(b)
	case ".html", ".htm", ".xhtml":
		return renderHTML(b)
	case ".md", ".markdown":
		return renderMarkdown(b)
	default:
		return nil, userErrorf("unrecognized output format %q", ext)
	}
}

func renderKFX(b *book) ([]byte, error) {
	containerID := kfxschema.DeriveBookID(b.Metadata.Identifier)
	if containerID == "" {
		containerID = kfxschema.DeriveFallbackBookID(b.Metadata.Title, strings.Join(b.Metadata.Authors, ";"))
	}

	chapters := make([]kfxexport.Chapter, len(b.Chapters))
	for i, ch := range b.Chapters {
		chapters[i] = kfxexport.Chapter{ID: ch.ID, Path: ch.Path, Tree: ch.Tree}
	}
	assets := make([]kfxexport.Asset, len(b.Assets))
	for i, a := range b.Assets {
		assets[i] = kfxexport.Asset{Name: a.Name, MIME: a.MIME, Data: a.Data, Font: a.Font}
	}

	return kfxexport.Export(kfxexport.Book{
		ContainerID: containerID,
		Chapters:    chapters,
		Metadata:    b.Metadata,
		TOC:         b.TOC,
		Landmarks:   b.Landmarks,
		Assets:      assets,
	})
}

func renderHTML(b *book) ([]byte, error) {
	sources := linkSources(b)
	res := links.Resolve(sources)
	paths := make([]string, len(b.Chapters))
	for i, ch := range b.Chapters {
		paths[i] = ch.Path
	}

	var out strings.Builder
	out.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"/><title>")
	out.WriteString(b.Metadata.Title)
	out.WriteString("</title></head>\n<body>\n")
	for i, ch := range b.Chapters {
		html, _ := htmlsynth.Synthesize(ch.Tree, htmlsynth.Options{
			ChapterPath: ch.Path,
			ChapterID:   links.ChapterId(i),
			Targets:     res.Targets,
			AnchorNodes: res.AnchorNodes,
			ChapterPathOf: func(id links.ChapterId) string {
				if int(id) < len(paths) {
					return paths[id]
				}
				return ""
			},
		})
		out.WriteString("<section id=\"")
		out.WriteString(ch.ID)
		out.WriteString("\">")
		out.WriteString(html)
		out.WriteString("</section>\n")
	}
	out.WriteString("</body>\n</html>\n")
	return []byte(out.String()), nil
}

func renderMarkdown(b *book) ([]byte, error) {
	sources := linkSources(b)
	res := links.Resolve(sources)

	var out strings.Builder
	if b.Metadata.Title != "" {
		out.WriteString("# " + b.Metadata.Title + "\n\n")
	}
	for i, ch := range b.Chapters {
		result := mdrender.Render(ch.Tree, mdrender.Options{ChapterID: links.ChapterId(i), AnchorNodes: res.AnchorNodes})
		out.WriteString(result.Markdown)
		out.WriteString("\n\n")
		for _, fn := range result.Footnotes {
			out.WriteString(fmt.Sprintf("[^%d]: %s\n", fn.Number, fn.Body))
		}
	}
	return []byte(strings.TrimRight(out.String(), "\n") + "\n"), nil
}
