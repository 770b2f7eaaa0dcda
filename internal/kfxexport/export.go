// Package kfxexport implements the write side of the module: the KFX
// exporter (spec §4.9). It runs two passes over a book's chapters —
// survey, then emit — mirroring the teacher's convert/kfx package, which
// resolves cross-chapter links and sizes its fragments before it commits
// a single byte to the container.
//
// Survey runs the book-wide link resolution (internal/links) across
// every chapter, assigns each cross-reference target a stable anchor id
// and a position (the write-side counterpart of the teacher's
// content_accumulator.go/frag_anchor.go "eid" bookkeeping, renamed since
// this format has no FB2-style ids to key off of), and rewrites every
// link's href to the canonical "section#anchor" shape
// internal/kfxschema's navigation codec already speaks. Emit then turns
// every chapter, the metadata, the navigation tree, the resolved anchors
// and the referenced assets into internal/kfxcontainer.Fragments and
// packs them into a single container.
package kfxexport

import (
	"fmt"
	"sort"

	"ebookconv/internal/ionvalue"
	"ebookconv/internal/ir"
	"ebookconv/internal/kfxcontainer"
	"ebookconv/internal/kfxerr"
	"ebookconv/internal/kfxschema"
	"ebookconv/internal/kfxsymbols"
	"ebookconv/internal/links"
)

// Chapter is one spine entry: its section id (also used to derive its
// section/storyline fragment names) and the content to encode. Path is
// the chapter's original source path, used only to resolve relative
// hrefs during link resolution; it defaults to ID when empty.
type Chapter struct {
	ID   string
	Path string
	Tree *ir.Chapter
}

// Asset is one binary resource some chapter references by name.
type Asset struct {
	Name string
	MIME string
	Data []byte
	Font bool // true emits RawFont ($418) instead of RawMedia ($417)
}

// Book is everything Export needs to produce a single-file KFX
// container.
type Book struct {
	ContainerID string
	Chapters    []Chapter
	Metadata    kfxschema.BookMetadata
	TOC         []kfxschema.TocEntry
	Landmarks   []kfxschema.Landmark
	Assets      []Asset
}

// Export runs the survey/emit passes over book and serializes the
// result (spec §4.9, §7: nothing is written until the full layout is
// computed — Pack itself already holds that invariant).
func Export(book Book) ([]byte, error) {
	ctx := newExportContext(book)
	ctx.survey()
	return ctx.emit()
}

// exportContext carries the registries the survey pass fills in and the
// emit pass reads back out.
type exportContext struct {
	book Book

	sources []links.Source
	res     links.Result

	anchorID  map[links.GlobalNodeId]string // in-chapter anchor id, assigned if the target had none
	anchorFID map[links.GlobalNodeId]string // book-wide unique fragment id for that anchor
	position  map[links.GlobalNodeId]int    // position registry: one slot per referenced target

	sectionByChapterID map[string]string // chapter id -> its section fragment name

	symbols   []string
	symbolSet map[string]bool
}

func newExportContext(book Book) *exportContext {
	return &exportContext{
		book:               book,
		anchorID:           make(map[links.GlobalNodeId]string),
		anchorFID:          make(map[links.GlobalNodeId]string),
		position:           make(map[links.GlobalNodeId]int),
		sectionByChapterID: make(map[string]string),
		symbolSet:          make(map[string]bool),
	}
}

func (ctx *exportContext) addSymbol(name string) {
	if name == "" || ctx.symbolSet[name] {
		return
	}
	ctx.symbolSet[name] = true
	ctx.symbols = append(ctx.symbols, name)
}

// survey is the first pass: build the book-wide element-id index, run
// link resolution over it, populate the anchor/position registries for
// every referenced target, rewrite link hrefs to their resolved form,
// and collect the local symbol table the emit pass's prolog needs.
func (ctx *exportContext) survey() {
	for i, ch := range ctx.book.Chapters {
		path := ch.Path
		if path == "" {
			path = ch.ID
		}
		ids := make(map[string]ir.NodeId)
		for n := range ch.Tree.Nodes {
			id := ir.NodeId(n)
			if sem := ch.Tree.Semantics.Get(id); sem.ID != "" {
				ids[sem.ID] = id
			}
		}
		ctx.sources = append(ctx.sources, links.Source{ID: links.ChapterId(i), Path: path, Tree: ch.Tree, IDs: ids})
		ctx.sectionByChapterID[ch.ID] = sectionName(ch.ID)
	}
	ctx.res = links.Resolve(ctx.sources)

	ctx.assignAnchors()
	ctx.rewriteHrefs()

	for _, ch := range ctx.book.Chapters {
		ctx.addSymbol(sectionName(ch.ID))
		ctx.addSymbol(storyName(ch.ID))
	}
	for _, a := range ctx.book.Assets {
		ctx.addSymbol(a.Name)
	}
	for _, fid := range ctx.anchorFID {
		ctx.addSymbol(fid)
	}
	ctx.addSymbol("book_metadata")
	ctx.addSymbol("book_navigation")
}

// assignAnchors gives every link target a stable, book-wide unique
// fragment id and a position, processing targets in (chapter, node)
// order so re-exporting the same book assigns the same positions.
func (ctx *exportContext) assignAnchors() {
	targets := make([]links.GlobalNodeId, 0, len(ctx.res.AnchorNodes))
	for gid := range ctx.res.AnchorNodes {
		targets = append(targets, gid)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].Chapter != targets[j].Chapter {
			return targets[i].Chapter < targets[j].Chapter
		}
		return targets[i].Node < targets[j].Node
	})

	pos := 1
	for _, gid := range targets {
		tree := ctx.book.Chapters[gid.Chapter].Tree
		id := tree.Semantics.Get(gid.Node).ID
		if id == "" {
			id = anchorName(gid.Node)
			tree.Semantics.Mutate(gid.Node, func(s *ir.Semantics) { s.ID = id })
		}
		ctx.anchorID[gid] = id
		ctx.anchorFID[gid] = ctx.book.Chapters[gid.Chapter].ID + "::" + id
		ctx.position[gid] = pos
		pos++
	}
}

// rewriteHrefs resolves every link's href against the book-wide index
// and overwrites it with the canonical "section#anchor" (or external, or
// bare section) form, so the encoded content tree never carries a
// source-format-relative path.
func (ctx *exportContext) rewriteHrefs() {
	for _, src := range ctx.sources {
		walkLinks(src.Tree, ir.Root, func(linkID ir.NodeId) {
			target := ctx.res.Targets[links.GlobalNodeId{Chapter: src.ID, Node: linkID}]
			href := ctx.resolveHref(target)
			src.Tree.Semantics.Mutate(linkID, func(s *ir.Semantics) { s.Href = href })
		})
	}
}

func (ctx *exportContext) resolveHref(target links.AnchorTarget) string {
	switch target.Kind {
	case links.TargetExternal:
		return target.Href
	case links.TargetChapter:
		return sectionName(ctx.book.Chapters[target.Chapter].ID)
	case links.TargetInternal:
		section := sectionName(ctx.book.Chapters[target.Node.Chapter].ID)
		return section + "#" + ctx.anchorID[target.Node]
	default:
		return target.Href
	}
}

// anchorName mints a synthetic anchor id for a link target that carried
// none of its own, the same scheme internal/htmlsynth's anchorName uses
// for its id attribute so a node's identity agrees across back-ends.
func anchorName(id ir.NodeId) string {
	return fmt.Sprintf("kfx-anchor-%d", int(id))
}

// walkLinks calls fn for every Role::Link node in the tree, in document
// order.
func walkLinks(c *ir.Chapter, id ir.NodeId, fn func(ir.NodeId)) {
	if c.Nodes[id].Role == ir.RoleLink {
		fn(id)
	}
	for _, ch := range c.Children(id) {
		walkLinks(c, ch, fn)
	}
}

func sectionName(chapterID string) string { return "section_" + chapterID }
func storyName(chapterID string) string   { return "story_" + chapterID }

// resolveTOC/resolveLandmarks rewrite a "section#anchor" href authored
// against chapter ids into one against the actual section fragment
// names the content lives under, the same way rewriteHrefs resolves
// in-content links.
func (ctx *exportContext) resolveTOC(entries []kfxschema.TocEntry) []kfxschema.TocEntry {
	if entries == nil {
		return nil
	}
	out := make([]kfxschema.TocEntry, len(entries))
	for i, e := range entries {
		out[i] = kfxschema.TocEntry{
			Title:     e.Title,
			Href:      ctx.resolveNavHref(e.Href),
			PlayOrder: e.PlayOrder,
			HasOrder:  e.HasOrder,
			Children:  ctx.resolveTOC(e.Children),
		}
	}
	return out
}

func (ctx *exportContext) resolveLandmarks(lms []kfxschema.Landmark) []kfxschema.Landmark {
	if lms == nil {
		return nil
	}
	out := make([]kfxschema.Landmark, len(lms))
	for i, lm := range lms {
		out[i] = kfxschema.Landmark{Type: lm.Type, Label: lm.Label, Href: ctx.resolveNavHref(lm.Href)}
	}
	return out
}

func (ctx *exportContext) resolveNavHref(href string) string {
	section, anchor := href, ""
	for i := 0; i < len(href); i++ {
		if href[i] == '#' {
			section, anchor = href[:i], href[i+1:]
			break
		}
	}
	if mapped, ok := ctx.sectionByChapterID[section]; ok {
		section = mapped
	}
	if anchor == "" {
		return section
	}
	return section + "#" + anchor
}

// emit is the second pass: turn the survey's registries and the book's
// own content into fragments and pack them into a container.
func (ctx *exportContext) emit() ([]byte, error) {
	prolog, err := kfxcontainer.NewProlog(ctx.symbols)
	if err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "export: build prolog", err)
	}

	var fragments []kfxcontainer.Fragment
	spine := make([]string, 0, len(ctx.book.Chapters))
	for _, ch := range ctx.book.Chapters {
		fragments = append(fragments,
			kfxcontainer.Fragment{
				FID:   sectionName(ch.ID),
				FType: kfxsymbols.Section.Text(),
				Value: ionvalue.Struct(ionvalue.Field(kfxsymbols.StoryName.Text(), ionvalue.String(storyName(ch.ID)))),
			},
			kfxcontainer.Fragment{
				FID:   storyName(ch.ID),
				FType: kfxsymbols.Storyline.Text(),
				Value: ionvalue.Struct(ionvalue.Field(kfxsymbols.Content.Text(), kfxschema.EncodeChapter(ch.Tree))),
			},
		)
		spine = append(spine, sectionName(ch.ID))
	}

	fragments = append(fragments, kfxcontainer.Fragment{
		FID:   "book_metadata",
		FType: kfxsymbols.BookMetadata.Text(),
		Value: kfxschema.MetadataToIon(ctx.book.Metadata),
	})

	orders := []kfxschema.SpineOrder{{Name: "default", Sections: spine}}
	fragments = append(fragments, kfxcontainer.Fragment{
		FID:   "book_navigation",
		FType: kfxsymbols.BookNavigation.Text(),
		Value: kfxschema.NavigationToIon(orders, ctx.resolveTOC(ctx.book.TOC), ctx.resolveLandmarks(ctx.book.Landmarks)),
	})

	fragments = append(fragments, ctx.anchorFragments()...)
	fragments = append(fragments, ctx.assetFragments()...)

	data, err := kfxcontainer.Pack(kfxcontainer.PackInput{
		ContainerInfo:      ionvalue.Struct(ionvalue.Field(kfxsymbols.ContainerID.Text(), ionvalue.String(ctx.book.ContainerID))),
		FormatCapabilities: ionvalue.Struct(),
		Prolog:             prolog,
		Fragments:          fragments,
	})
	if err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "export: pack container", err)
	}
	return data, nil
}

// anchorFragments builds one $266 anchor fragment per referenced
// cross-reference target: an anchor_name symbol plus a position struct
// holding the target's registry slot, the same shape the teacher's
// buildAnchorFragments produces from its idToEID map.
func (ctx *exportContext) anchorFragments() []kfxcontainer.Fragment {
	out := make([]kfxcontainer.Fragment, 0, len(ctx.anchorFID))
	for gid, fid := range ctx.anchorFID {
		out = append(out, kfxcontainer.Fragment{
			FID:   fid,
			FType: kfxsymbols.Anchor.Text(),
			Value: ionvalue.Struct(
				ionvalue.Field(kfxsymbols.AnchorName.Text(), ionvalue.Symbol(ctx.anchorID[gid])),
				ionvalue.Field(kfxsymbols.Position.Text(), ionvalue.Struct(
					ionvalue.Field(kfxsymbols.EID.Text(), ionvalue.Int(int64(ctx.position[gid]))),
				)),
			),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FID < out[j].FID })
	return out
}

func (ctx *exportContext) assetFragments() []kfxcontainer.Fragment {
	out := make([]kfxcontainer.Fragment, 0, 2*len(ctx.book.Assets))
	for _, a := range ctx.book.Assets {
		out = append(out, kfxcontainer.Fragment{
			FID:   a.Name,
			FType: kfxsymbols.ExternalResrc.Text(),
			Value: ionvalue.Struct(ionvalue.Field("mime", ionvalue.String(a.MIME))),
		})
		ftype := kfxsymbols.RawMedia
		if a.Font {
			ftype = kfxsymbols.RawFont
		}
		out = append(out, kfxcontainer.Fragment{FID: a.Name, FType: ftype.Text(), RawPayload: a.Data})
	}
	return out
}
