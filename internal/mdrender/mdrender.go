// Package mdrender is the CommonMark back-end (spec §4.8): list
// tightness, markdown-syntax escaping, fenced code blocks (the fence is
// one backtick longer than the longest backtick run in the code, and at
// least three), anchor markers for internal link targets, and numbered
// footnote references with out-of-band footnote bodies. No inline code
// spans are emitted.
//
// Heading slugs use github.com/gosimple/slug, the same library the
// teacher uses for filename/path slugging (convert/output_path.go,
// fb2/transliterate.go) — here repurposed for in-document anchor names
// instead of output filenames.
package mdrender

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"ebookconv/internal/ir"
	"ebookconv/internal/links"
)

// Options configures one render.
type Options struct {
	ChapterID   links.ChapterId
	AnchorNodes map[links.GlobalNodeId]bool
}

// Footnote is one collected footnote body, rendered separately for
// end-of-document placement.
type Footnote struct {
	Number int
	Body   string
}

// Result is one chapter's rendered markdown plus its footnotes, in the
// order they were referenced.
type Result struct {
	Markdown  string
	Footnotes []Footnote
}

// Render converts c to markdown.
func Render(c *ir.Chapter, opt Options) Result {
	r := &renderer{c: c, opt: opt}
	r.writeChildren(ir.Root, 0)
	return Result{Markdown: strings.TrimRight(r.b.String(), "\n"), Footnotes: r.footnotes}
}

type renderer struct {
	c         *ir.Chapter
	opt       Options
	b         strings.Builder
	footnotes []Footnote
}

func (r *renderer) isTarget(id ir.NodeId) bool {
	gid := links.GlobalNodeId{Chapter: r.opt.ChapterID, Node: id}
	return r.opt.AnchorNodes != nil && r.opt.AnchorNodes[gid]
}

func (r *renderer) anchorID(id ir.NodeId) string {
	return "c" + strconv.Itoa(int(r.opt.ChapterID)) + "n" + strconv.Itoa(int(id))
}

func (r *renderer) writeChildren(parent ir.NodeId, depth int) {
	for _, id := range r.c.Children(parent) {
		r.writeBlock(id, depth)
	}
}

func (r *renderer) writeBlock(id ir.NodeId, depth int) {
	n := r.c.Nodes[id]
	isHeading := n.Role.HeadingLevel() > 0

	if r.isTarget(id) && !isHeading {
		r.b.WriteString(`<a id="` + r.anchorID(id) + `"></a>`)
		r.b.WriteByte('\n')
	}

	switch {
	case isHeading:
		level := n.Role.HeadingLevel()
		text := r.inlineText(id)
		r.b.WriteString(`<a id="` + headingSlug(stripEscapes(text)) + `"></a>`)
		r.b.WriteByte('\n')
		r.b.WriteString(strings.Repeat("#", level))
		r.b.WriteByte(' ')
		r.b.WriteString(text)
		r.b.WriteString("\n\n")
	case n.Role == ir.RoleParagraph:
		r.b.WriteString(r.inlineText(id))
		r.b.WriteString("\n\n")
	case n.Role == ir.RoleBlockQuote:
		body := r.renderSubBlocks(id, depth)
		for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
			r.b.WriteString("> ")
			r.b.WriteString(line)
			r.b.WriteByte('\n')
		}
		r.b.WriteByte('\n')
	case n.Role == ir.RoleOrderedList:
		r.writeList(id, true)
	case n.Role == ir.RoleUnorderedList:
		r.writeList(id, false)
	case n.Role == ir.RoleCodeBlock:
		r.writeCodeBlock(id)
	case n.Role == ir.RoleRule:
		r.b.WriteString("---\n\n")
	case n.Role == ir.RoleFootnote:
		num := len(r.footnotes) + 1
		body := strings.TrimSpace(r.renderSubBlocks(id, depth))
		r.footnotes = append(r.footnotes, Footnote{Number: num, Body: body})
		r.b.WriteString("[^" + strconv.Itoa(num) + "]")
	case n.Role == ir.RoleTable:
		r.writeTable(id)
		r.b.WriteByte('\n')
	default:
		// Container, Figure, Sidebar, DefinitionList and other grouping
		// roles with no markdown syntax of their own: recurse into block
		// children directly.
		r.writeChildren(id, depth)
	}
}

func (r *renderer) renderSubBlocks(id ir.NodeId, depth int) string {
	var sub strings.Builder
	saved := r.b
	r.b = sub
	r.writeChildren(id, depth+1)
	out := r.b.String()
	r.b = saved
	return out
}

// isTight reports whether every item of a list has at most one
// block-level child and no nested block structures (spec §4.8).
func isTight(c *ir.Chapter, list ir.NodeId) bool {
	for _, item := range c.Children(list) {
		blocks := 0
		for _, ch := range c.Children(item) {
			role := c.Nodes[ch].Role
			if isInlineRole(role) {
				continue
			}
			if role != ir.RoleParagraph {
				return false
			}
			blocks++
		}
		if blocks > 1 {
			return false
		}
	}
	return true
}

func isInlineRole(r ir.Role) bool {
	switch r {
	case ir.RoleText, ir.RoleInline, ir.RoleLink, ir.RoleImage, ir.RoleBreak:
		return true
	default:
		return false
	}
}

func (r *renderer) writeList(list ir.NodeId, ordered bool) {
	tight := isTight(r.c, list)
	sem := r.c.Semantics.Get(list)
	start := 1
	if sem.HasListStart {
		start = sem.ListStart
	}
	for i, item := range r.c.Children(list) {
		if ordered {
			r.b.WriteString(strconv.Itoa(start + i))
			r.b.WriteString(". ")
		} else {
			r.b.WriteString("- ")
		}
		body := r.renderItemBody(item)
		body = strings.TrimRight(body, "\n")
		lines := strings.Split(body, "\n")
		for i, line := range lines {
			if i > 0 {
				r.b.WriteString("   ")
			}
			r.b.WriteString(line)
			r.b.WriteByte('\n')
		}
		if !tight {
			r.b.WriteByte('\n')
		}
	}
	if tight {
		r.b.WriteByte('\n')
	}
}

func (r *renderer) renderItemBody(item ir.NodeId) string {
	children := r.c.Children(item)
	if len(children) == 1 && r.c.Nodes[children[0]].Role == ir.RoleParagraph {
		return r.inlineText(children[0])
	}
	return strings.TrimSpace(r.renderSubBlocks(item, 0))
}

func (r *renderer) writeCodeBlock(id ir.NodeId) {
	content := r.collectText(id)
	lang := r.c.Semantics.Get(id).Language
	maxRun := maxBacktickRun(content)
	fence := strings.Repeat("`", max(3, maxRun+1))
	r.b.WriteString(fence)
	r.b.WriteString(lang)
	r.b.WriteByte('\n')
	r.b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		r.b.WriteByte('\n')
	}
	r.b.WriteString(fence)
	r.b.WriteString("\n\n")
}

func maxBacktickRun(s string) int {
	maxRun, cur := 0, 0
	for _, c := range s {
		if c == '`' {
			cur++
			if cur > maxRun {
				maxRun = cur
			}
		} else {
			cur = 0
		}
	}
	return maxRun
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (r *renderer) writeTable(id ir.NodeId) {
	var rows [][]string
	headerRow := -1
	for _, section := range r.c.Children(id) {
		isHead := r.c.Nodes[section].Role == ir.RoleTableHead
		rowsToScan := []ir.NodeId{section}
		if r.c.Nodes[section].Role != ir.RoleTableRow {
			rowsToScan = r.c.Children(section)
		}
		for _, row := range rowsToScan {
			if r.c.Nodes[row].Role != ir.RoleTableRow {
				continue
			}
			var cells []string
			for _, cell := range r.c.Children(row) {
				cells = append(cells, r.inlineText(cell))
			}
			if isHead && headerRow == -1 {
				headerRow = len(rows)
			}
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return
	}
	cols := len(rows[0])
	writeRow := func(cells []string) {
		r.b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = escapeTableCell(cells[i])
			}
			r.b.WriteString(" " + cell + " |")
		}
		r.b.WriteByte('\n')
	}
	headerIdx := 0
	if headerRow >= 0 {
		headerIdx = headerRow
	}
	writeRow(rows[headerIdx])
	r.b.WriteString("|")
	for i := 0; i < cols; i++ {
		r.b.WriteString(" --- |")
	}
	r.b.WriteByte('\n')
	for i, row := range rows {
		if i == headerIdx {
			continue
		}
		writeRow(row)
	}
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// inlineText renders id's descendants as a single inline-flow string
// (used for paragraph bodies, headings, and table cells).
func (r *renderer) inlineText(id ir.NodeId) string {
	var b strings.Builder
	r.writeInline(&b, id)
	return b.String()
}

func (r *renderer) collectText(id ir.NodeId) string {
	var b strings.Builder
	var walk func(ir.NodeId)
	walk = func(id ir.NodeId) {
		n := r.c.Nodes[id]
		if n.Role == ir.RoleText {
			b.WriteString(r.c.Text(id))
			return
		}
		for _, ch := range r.c.Children(id) {
			walk(ch)
		}
	}
	walk(id)
	return b.String()
}

func (r *renderer) writeInline(b *strings.Builder, id ir.NodeId) {
	n := r.c.Nodes[id]
	sem := r.c.Semantics.Get(id)

	switch n.Role {
	case ir.RoleText:
		b.WriteString(escapeMarkdown(r.c.Text(id)))
		return
	case ir.RoleBreak:
		b.WriteString("  \n")
		return
	case ir.RoleImage:
		b.WriteString("![" + escapeMarkdown(sem.Alt) + "](" + sem.Src + ")")
		return
	case ir.RoleLink:
		var inner strings.Builder
		for _, ch := range r.c.Children(id) {
			r.writeInline(&inner, ch)
		}
		b.WriteString("[" + inner.String() + "](" + sem.Href + ")")
		return
	case ir.RoleFootnote:
		num := len(r.footnotes) + 1
		body := strings.TrimSpace(r.collectText(id))
		r.footnotes = append(r.footnotes, Footnote{Number: num, Body: body})
		b.WriteString("[^" + strconv.Itoa(num) + "]")
		return
	}

	if r.isTarget(id) {
		b.WriteString(`<a id="` + r.anchorID(id) + `"></a>`)
	}

	// RoleInline carries no syntax of its own; bold/italic come from its
	// ComputedStyle, the only place emphasis is recorded (spec §3.4).
	style := r.c.Styles.Get(n.Style)
	bold := style.FontWeight == ir.FontWeightBold
	italic := style.FontStyle == ir.FontStyleItalic || style.FontStyle == ir.FontStyleOblique

	open, close := "", ""
	switch {
	case bold && italic:
		open, close = "***", "***"
	case bold:
		open, close = "**", "**"
	case italic:
		open, close = "*", "*"
	}
	b.WriteString(open)
	for _, ch := range r.c.Children(id) {
		r.writeInline(b, ch)
	}
	b.WriteString(close)
}

// escapeMarkdown backslash-escapes characters that would otherwise be
// parsed as markdown syntax (spec §4.8).
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '_', '[', ']', '(', ')', '#', '+', '-', '.', '!', '>', '|', '~', '{':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// headingSlug computes the caller-visible anchor name for a heading's
// text (spec §4.8: "headings are assumed to have slug-based anchors
// generated by the caller").
func headingSlug(text string) string {
	return slug.Make(text)
}

// stripEscapes undoes escapeMarkdown's backslash-escaping before slugging,
// so the anchor reflects the heading's plain text rather than its
// markdown-escaped form.
func stripEscapes(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}
