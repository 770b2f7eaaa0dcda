// Package htmlsynth is the HTML back-end (spec §4.7): it walks a Chapter
// and emits well-formed XHTML using a caller-supplied role-to-tag mapping
// and style-to-class-name mapping, tracking referenced asset paths.
//
// The teacher's own XHTML emission (convert/epub/xhtml.go) builds an
// *etree.Document and serializes it, which is the right choice when the
// output is assembled incrementally from many small helpers across a
// book. This back-end instead writes directly to a strings.Builder: spec
// §4.7's contract pins exact indentation (two spaces per block depth,
// block tags starting a fresh line) and entity-escaping behavior that a
// generic XML serializer doesn't expose control over. Attribute-setting
// conventions (skip empty values, `xml:lang` for language) follow the
// teacher's own `el.CreateAttr` call sites in xhtml.go.
package htmlsynth

import (
	"strconv"
	"strings"

	"ebookconv/internal/ir"
	"ebookconv/internal/links"
)

// TagMap supplies the role->tag mapping the synthesizer has no opinion
// on by itself (callers may want `<div>` vs `<section>` for Container,
// say).
type TagMap map[ir.Role]string

// DefaultTagMap is the mapping spec §4.7 implies via its examples.
func DefaultTagMap() TagMap {
	return TagMap{
		ir.RoleRoot:                  "body",
		ir.RoleContainer:             "div",
		ir.RoleParagraph:             "p",
		ir.RoleHeading1:              "h1",
		ir.RoleHeading2:              "h2",
		ir.RoleHeading3:              "h3",
		ir.RoleHeading4:              "h4",
		ir.RoleHeading5:              "h5",
		ir.RoleHeading6:              "h6",
		ir.RoleBlockQuote:            "blockquote",
		ir.RoleOrderedList:           "ol",
		ir.RoleUnorderedList:         "ul",
		ir.RoleListItem:              "li",
		ir.RoleDefinitionList:        "dl",
		ir.RoleDefinitionTerm:        "dt",
		ir.RoleDefinitionDescription: "dd",
		ir.RoleCodeBlock:             "pre",
		ir.RoleCaption:               "figcaption",
		ir.RoleTable:                 "table",
		ir.RoleTableHead:             "thead",
		ir.RoleTableBody:             "tbody",
		ir.RoleTableRow:              "tr",
		ir.RoleTableCell:             "td", // overridden to th by IsHeaderCell
		ir.RoleFigure:                "figure",
		ir.RoleSidebar:               "aside",
		ir.RoleFootnote:              "aside",
		ir.RoleImage:                 "img",
		ir.RoleBreak:                 "br",
		ir.RoleRule:                  "hr",
		ir.RoleInline:                "span",
		ir.RoleLink:                  "a",
	}
}

// StyleClassName names the CSS class for an interned style, or "" if the
// back-end should omit a class attribute entirely (e.g. the default
// style).
type StyleClassName func(ir.StyleId) string

// Options configures one synthesis run.
type Options struct {
	Tags        TagMap
	ClassName   StyleClassName
	ChapterPath string                        // this chapter's own source path, for anchor ids
	ChapterID   links.ChapterId                // this chapter's id, to key into Targets/AnchorNodes
	Targets     map[links.GlobalNodeId]links.AnchorTarget
	AnchorNodes map[links.GlobalNodeId]bool
	ChapterPathOf func(links.ChapterId) string // resolves a link's Chapter target to a filename
}

// Synthesize renders c to XHTML and returns the markup plus the set of
// asset paths (image srcs) it referenced.
func Synthesize(c *ir.Chapter, opt Options) (html string, assets []string) {
	if opt.Tags == nil {
		opt.Tags = DefaultTagMap()
	}
	s := &synthesizer{c: c, opt: opt, assetSeen: make(map[string]bool)}
	s.writeNode(ir.Root, 0)
	return s.b.String(), s.assets
}

type synthesizer struct {
	c         *ir.Chapter
	opt       Options
	b         strings.Builder
	assets    []string
	assetSeen map[string]bool
}

func (s *synthesizer) indent(depth int) {
	s.b.WriteString(strings.Repeat("  ", depth))
}

func (s *synthesizer) writeNode(id ir.NodeId, depth int) {
	n := s.c.Nodes[id]

	if n.Role == ir.RoleText {
		s.b.WriteString(escapeText(s.c.Text(id)))
		return
	}

	tag := s.opt.Tags[n.Role]
	if tag == "" {
		tag = "div"
	}
	if n.Role == ir.RoleTableCell && s.c.Semantics.Get(id).IsHeaderCell {
		tag = "th"
	}

	inline := isInlineTag(n.Role)
	if !inline {
		s.b.WriteByte('\n')
		s.indent(depth)
	}

	s.b.WriteByte('<')
	s.b.WriteString(tag)
	s.writeAttrs(id, n, tag)

	if n.Role.Void() {
		s.b.WriteString("/>")
		return
	}
	s.b.WriteByte('>')

	children := s.c.Children(id)
	anyBlock := false
	for _, ch := range children {
		if !isInlineTag(s.c.Nodes[ch].Role) && s.c.Nodes[ch].Role != ir.RoleText {
			anyBlock = true
		}
		s.writeNode(ch, depth+1)
	}
	if anyBlock {
		s.b.WriteByte('\n')
		s.indent(depth)
	}
	s.b.WriteString("</")
	s.b.WriteString(tag)
	s.b.WriteByte('>')
}

func isInlineTag(r ir.Role) bool {
	switch r {
	case ir.RoleText, ir.RoleInline, ir.RoleLink, ir.RoleImage, ir.RoleBreak:
		return true
	default:
		return false
	}
}

func (s *synthesizer) writeAttrs(id ir.NodeId, n ir.Node, tag string) {
	sem := s.c.Semantics.Get(id)

	if sem.ID != "" {
		s.attr("id", sem.ID)
	}
	if cls := s.className(n.Style); cls != "" {
		s.attr("class", cls)
	}
	if sem.Title != "" {
		s.attr("title", sem.Title)
	}
	if sem.Lang != "" {
		s.attr("xml:lang", sem.Lang)
	}

	switch n.Role {
	case ir.RoleLink:
		s.attr("href", s.resolveHref(id, sem.Href))
	case ir.RoleImage:
		if sem.Src != "" {
			s.recordAsset(sem.Src)
			s.attr("src", sem.Src)
		}
		s.attr("alt", sem.Alt)
	case ir.RoleOrderedList:
		if sem.HasListStart {
			s.attr("start", strconv.Itoa(sem.ListStart))
		}
	case ir.RoleTableCell:
		if sem.RowSpan > 1 {
			s.attr("rowspan", strconv.Itoa(sem.RowSpan))
		}
		if sem.ColSpan > 1 {
			s.attr("colspan", strconv.Itoa(sem.ColSpan))
		}
	}

	if gid := (links.GlobalNodeId{Chapter: s.opt.ChapterID, Node: id}); s.opt.AnchorNodes != nil && s.opt.AnchorNodes[gid] && sem.ID == "" {
		s.attr("id", anchorName(id))
	}
}

func (s *synthesizer) className(id ir.StyleId) string {
	if s.opt.ClassName == nil {
		return ""
	}
	return s.opt.ClassName(id)
}

func anchorName(id ir.NodeId) string {
	return "kfx-anchor-" + strconv.Itoa(int(id))
}

func (s *synthesizer) resolveHref(id ir.NodeId, raw string) string {
	if s.opt.Targets == nil {
		return raw
	}
	gid := links.GlobalNodeId{Chapter: s.opt.ChapterID, Node: id}
	target, ok := s.opt.Targets[gid]
	if !ok {
		return raw
	}
	switch target.Kind {
	case links.TargetExternal:
		return target.Href
	case links.TargetChapter:
		if s.opt.ChapterPathOf != nil {
			return s.opt.ChapterPathOf(target.Chapter)
		}
		return raw
	case links.TargetInternal:
		path := s.opt.ChapterPath
		if s.opt.ChapterPathOf != nil && target.Node.Chapter != s.opt.ChapterID {
			path = s.opt.ChapterPathOf(target.Node.Chapter)
		}
		return path + "#" + anchorName(target.Node.Node)
	default:
		return raw
	}
}

func (s *synthesizer) recordAsset(path string) {
	if s.assetSeen[path] {
		return
	}
	s.assetSeen[path] = true
	s.assets = append(s.assets, path)
}

func (s *synthesizer) attr(name, value string) {
	if value == "" {
		return
	}
	s.b.WriteByte(' ')
	s.b.WriteString(name)
	s.b.WriteString(`="`)
	s.b.WriteString(escapeAttr(value))
	s.b.WriteByte('"')
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
