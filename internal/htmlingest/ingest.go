package htmlingest

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"ebookconv/internal/ir"
	"ebookconv/internal/kfxerr"
)

// Source is one ingestible chapter document: its XHTML body plus the
// author stylesheets that apply to it, in cascade order.
type Source struct {
	Path        string
	HTML        []byte
	Stylesheets [][]byte // author CSS, in link order
}

// Result is one ingested chapter plus the element-id -> NodeId map used
// for intra-document anchor targets (spec §4.4 step 7, feeding §4.6).
type Result struct {
	Chapter *ir.Chapter
	IDs     map[string]ir.NodeId
}

// Ingest runs the full pipeline (spec §4.4): parse, cascade, inherit,
// map to IR roles, emit, enforce whitespace discipline, and record
// element ids for later anchor resolution.
func Ingest(src Source, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(src.HTML)); err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "parse html: "+src.Path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, kfxerr.New(kfxerr.InvalidData, "empty document: "+src.Path)
	}

	order := 0
	sheets := []*Stylesheet{uaStylesheet(&order)}
	for _, css := range src.Stylesheets {
		sheets = append(sheets, ParseStylesheet(css, OriginAuthor, &order, log))
	}

	body := findBody(root)
	if body == nil {
		body = root
	}

	w := &walker{
		chapter: ir.NewChapter(),
		sheets:  sheets,
		ids:     make(map[string]ir.NodeId),
		log:     log,
	}
	w.walkChildren(body, nil, ir.Root, ir.DefaultComputedStyle())
	return &Result{Chapter: w.chapter, IDs: w.ids}, nil
}

func findBody(root *etree.Element) *etree.Element {
	if root.Tag == "body" {
		return root
	}
	for _, c := range root.ChildElements() {
		if c.Tag == "body" {
			return c
		}
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

// elementCtx adapts *etree.Element to the cascade's matcher interface
// (spec §4.4 step 2) and threads inherited properties (step 3) down the
// walk without re-parsing ancestors.
type elementCtx struct {
	el        *etree.Element
	par       *elementCtx
	classList []string
}

func newElementCtx(el *etree.Element, par *elementCtx) *elementCtx {
	classes := strings.Fields(el.SelectAttrValue("class", ""))
	return &elementCtx{el: el, par: par, classList: classes}
}

func (e *elementCtx) tag() string { return strings.ToLower(e.el.Tag) }
func (e *elementCtx) id() string  { return e.el.SelectAttrValue("id", "") }
func (e *elementCtx) classes() []string {
	return e.classList
}
func (e *elementCtx) parent() matcher {
	if e.par == nil {
		return nil
	}
	return e.par
}

type walker struct {
	chapter *ir.Chapter
	sheets  []*Stylesheet
	ids     map[string]ir.NodeId
	log     *zap.Logger
}

// walkChildren iterates el's child nodes (elements and text), emitting IR
// under parentIR, inheriting parentStyle per spec §4.4 step 3.
func (w *walker) walkChildren(el *etree.Element, ctx *elementCtx, parentIR ir.NodeId, parentStyle ir.ComputedStyle) {
	// blockAt reports whether position j of el.Child is a block-level
	// element or lies past either end of the child list.
	blockAt := func(j int) bool {
		if j < 0 || j >= len(el.Child) {
			return true
		}
		e, ok := el.Child[j].(*etree.Element)
		if !ok {
			return false
		}
		tag := strings.ToLower(e.Tag)
		role, _ := roleForTag(tag)
		return tag != "span" && role != ir.RoleInline && role != ir.RoleLink && role != ir.RoleImage && role != ir.RoleBreak
	}
	for i, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if strings.TrimSpace(t.Data) == "" && strings.ContainsAny(t.Data, "\n\r") && blockAt(i-1) && blockAt(i+1) {
				continue
			}
			w.emitText(t.Data, parentIR, parentStyle)
		case *etree.Element:
			w.walkElement(t, ctx, parentIR, parentStyle)
		}
	}
}

// emitText applies whitespace discipline (spec §4.4 step 6: collapse
// runs of whitespace to a single space; whitespace-only text containing a
// newline between block-level siblings was already dropped by
// walkChildren) and interns a Text node if anything survives.
func (w *walker) emitText(raw string, parentIR ir.NodeId, style ir.ComputedStyle) {
	collapsed := collapseWhitespace(raw)
	if collapsed == "" {
		return
	}
	if w.chapter.Nodes[parentIR].Role.Void() {
		return
	}
	id := w.chapter.AddText(parentIR, collapsed)
	w.chapter.SetStyle(id, w.chapter.Styles.Intern(style))
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

func (w *walker) walkElement(el *etree.Element, parCtx *elementCtx, parentIR ir.NodeId, parentStyle ir.ComputedStyle) {
	ctx := newElementCtx(el, parCtx)

	props := Cascade(w.sheets, ctx)
	props = ApplyInline(props, el.SelectAttrValue("style", ""))
	style := resolveStyle(parentStyle, props)

	if style.Display == ir.DisplayNone && strings.ToLower(el.Tag) != "br" {
		return
	}

	role, ok := roleForTag(strings.ToLower(el.Tag))
	if !ok {
		// Unknown element: treat as a transparent container so its
		// content still reaches the tree (spec §4.4 step 4 fallback).
		role = ir.RoleContainer
	}

	if role.Void() {
		id := w.chapter.AddNode(parentIR, role)
		w.chapter.SetStyle(id, w.chapter.Styles.Intern(style))
		w.recordSemantics(el, id, role)
		w.recordID(el, id)
		return
	}

	id := w.chapter.AddNode(parentIR, role)
	w.chapter.SetStyle(id, w.chapter.Styles.Intern(style))
	w.recordSemantics(el, id, role)
	w.recordID(el, id)

	w.walkChildren(el, ctx, id, style)
}

func (w *walker) recordID(el *etree.Element, id ir.NodeId) {
	if v := el.SelectAttrValue("id", ""); v != "" {
		w.ids[v] = id
		w.chapter.Semantics.Mutate(id, func(s *ir.Semantics) { s.ID = v })
	}
}

// normalizeLang canonicalizes a lang attribute value to its BCP-47 form
// (e.g. "EN-US" -> "en-US"), grounded on the teacher's use of
// golang.org/x/text/language for FB2's own //lang handling. A value the
// parser can't make sense of is kept verbatim rather than dropped.
func normalizeLang(v string) string {
	tag, err := language.Parse(v)
	if err != nil {
		return v
	}
	return tag.String()
}

// recordSemantics copies the small set of attributes §3.5 lists into the
// node's sparse Semantics entry, role-gated so e.g. rowspan only ever
// lands on table cells.
func (w *walker) recordSemantics(el *etree.Element, id ir.NodeId, role ir.Role) {
	get := func(k string) (string, bool) {
		for _, a := range el.Attr {
			if strings.EqualFold(a.Key, k) {
				return a.Value, true
			}
		}
		return "", false
	}

	w.chapter.Semantics.Mutate(id, func(s *ir.Semantics) {
		if v, ok := get("title"); ok {
			s.Title = v
		}
		if v, ok := get("lang"); ok {
			s.Lang = normalizeLang(v)
		}
		if v := el.SelectAttrValue("epub:type", ""); v != "" {
			s.EpubType = v
		}
		if v, ok := get("role"); ok {
			s.AriaRole = v
		}
		switch role {
		case ir.RoleLink:
			if v, ok := get("href"); ok {
				s.Href = v
			}
		case ir.RoleImage:
			if v, ok := get("src"); ok {
				s.Src = v
			}
			if v, ok := get("alt"); ok {
				s.Alt = v
			}
		case ir.RoleOrderedList:
			if v, ok := get("start"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					s.ListStart = n
					s.HasListStart = true
				}
			}
		case ir.RoleTableCell:
			if v, ok := get("rowspan"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					s.RowSpan = n
				}
			}
			if v, ok := get("colspan"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					s.ColSpan = n
				}
			}
			s.IsHeaderCell = strings.EqualFold(el.Tag, "th")
		case ir.RoleCodeBlock:
			for _, c := range strings.Fields(el.SelectAttrValue("class", "")) {
				if strings.HasPrefix(c, "language-") {
					s.Language = strings.TrimPrefix(c, "language-")
				}
			}
		}
		if v, ok := get("datetime"); ok {
			s.DateTime = v
		}
	})
}

// roleForTag is the element -> Role mapping table (spec §4.4 step 4).
func roleForTag(tag string) (ir.Role, bool) {
	switch tag {
	case "html", "body", "div", "section", "article", "main", "nav", "header", "footer", "span":
		return ir.RoleContainer, true
	case "p":
		return ir.RoleParagraph, true
	case "h1":
		return ir.RoleHeading1, true
	case "h2":
		return ir.RoleHeading2, true
	case "h3":
		return ir.RoleHeading3, true
	case "h4":
		return ir.RoleHeading4, true
	case "h5":
		return ir.RoleHeading5, true
	case "h6":
		return ir.RoleHeading6, true
	case "blockquote":
		return ir.RoleBlockQuote, true
	case "ol":
		return ir.RoleOrderedList, true
	case "ul":
		return ir.RoleUnorderedList, true
	case "li":
		return ir.RoleListItem, true
	case "dl":
		return ir.RoleDefinitionList, true
	case "dt":
		return ir.RoleDefinitionTerm, true
	case "dd":
		return ir.RoleDefinitionDescription, true
	case "pre", "code":
		return ir.RoleCodeBlock, true
	case "figcaption", "caption":
		return ir.RoleCaption, true
	case "table":
		return ir.RoleTable, true
	case "thead":
		return ir.RoleTableHead, true
	case "tbody":
		return ir.RoleTableBody, true
	case "tr":
		return ir.RoleTableRow, true
	case "td", "th":
		return ir.RoleTableCell, true
	case "figure":
		return ir.RoleFigure, true
	case "aside":
		return ir.RoleSidebar, true
	case "img":
		return ir.RoleImage, true
	case "br":
		return ir.RoleBreak, true
	case "hr":
		return ir.RoleRule, true
	case "a":
		return ir.RoleLink, true
	case "em", "strong", "b", "i", "u", "s", "sub", "sup", "small", "mark", "abbr", "cite", "q":
		return ir.RoleInline, true
	default:
		return ir.RoleContainer, false
	}
}

// resolveStyle applies CSS inheritance (spec §4.4 step 3: inheritable
// properties default to the parent's computed value, non-inheritable
// properties reset to their initial value) then layers this element's own
// declarations on top.
func resolveStyle(parent ir.ComputedStyle, props map[string]string) ir.ComputedStyle {
	s := parent // inherit everything, then reset non-inheritable fields
	s.Margin = ir.BoxSides{}
	s.Padding = ir.BoxSides{}
	s.Border = ir.BorderSides{}
	s.Display = ir.DisplayUnset
	s.Width, s.Height = ir.AutoLength, ir.AutoLength
	s.MinWidth, s.MinHeight = ir.AutoLength, ir.AutoLength
	s.MaxWidth, s.MaxHeight = ir.AutoLength, ir.AutoLength
	s.BackgroundColor = ""
	s.VerticalAlign = ir.VAlignBaseline
	s.BreakBefore, s.BreakAfter, s.BreakInside = ir.BreakAuto, ir.BreakAuto, ir.BreakAuto

	for k, v := range props {
		applyProperty(&s, k, v)
	}
	return s
}

func applyProperty(s *ir.ComputedStyle, name, value string) {
	value = strings.TrimSpace(value)
	switch name {
	case "font-family":
		s.FontFamily = value
	case "font-size":
		if u, n, ok := parseLengthValue(value); ok {
			s.FontSize = toLength(u, n)
		}
	case "font-weight":
		switch value {
		case "bold", "bolder", "600", "700", "800", "900":
			s.FontWeight = ir.FontWeightBold
		default:
			s.FontWeight = ir.FontWeightNormal
		}
	case "font-style":
		switch value {
		case "italic":
			s.FontStyle = ir.FontStyleItalic
		case "oblique":
			s.FontStyle = ir.FontStyleOblique
		default:
			s.FontStyle = ir.FontStyleNormal
		}
	case "color":
		s.Color = value
	case "background-color", "background":
		s.BackgroundColor = value
	case "text-align":
		switch value {
		case "left":
			s.TextAlign = ir.AlignLeft
		case "right":
			s.TextAlign = ir.AlignRight
		case "center":
			s.TextAlign = ir.AlignCenter
		case "justify":
			s.TextAlign = ir.AlignJustify
		}
	case "text-indent":
		if u, n, ok := parseLengthValue(value); ok {
			s.TextIndent = toLength(u, n)
		}
	case "line-height":
		if u, n, ok := parseLengthValue(value); ok {
			s.LineHeight = toLength(u, n)
		}
	case "text-decoration", "text-decoration-line":
		s.Decoration = ir.DecorationNone
		if strings.Contains(value, "underline") {
			s.Decoration |= ir.DecorationUnderline
		}
		if strings.Contains(value, "line-through") {
			s.Decoration |= ir.DecorationLineThrough
		}
		if strings.Contains(value, "overline") {
			s.Decoration |= ir.DecorationOverline
		}
	case "vertical-align":
		switch value {
		case "sub":
			s.VerticalAlign = ir.VAlignSub
		case "super":
			s.VerticalAlign = ir.VAlignSuper
		case "top":
			s.VerticalAlign = ir.VAlignTop
		case "middle":
			s.VerticalAlign = ir.VAlignMiddle
		case "bottom":
			s.VerticalAlign = ir.VAlignBottom
		default:
			s.VerticalAlign = ir.VAlignBaseline
		}
	case "display":
		switch value {
		case "none":
			s.Display = ir.DisplayNone
		case "inline":
			s.Display = ir.DisplayInline
		case "list-item":
			s.Display = ir.DisplayListItem
		case "table-cell":
			s.Display = ir.DisplayTableCell
		case "block":
			s.Display = ir.DisplayBlock
		}
	case "list-style-type":
		switch value {
		case "disc":
			s.ListStyleType = ir.ListStyleDisc
		case "circle":
			s.ListStyleType = ir.ListStyleCircle
		case "square":
			s.ListStyleType = ir.ListStyleSquare
		case "decimal":
			s.ListStyleType = ir.ListStyleDecimal
		case "lower-alpha":
			s.ListStyleType = ir.ListStyleLowerAlpha
		case "upper-alpha":
			s.ListStyleType = ir.ListStyleUpperAlpha
		case "lower-roman":
			s.ListStyleType = ir.ListStyleLowerRoman
		case "upper-roman":
			s.ListStyleType = ir.ListStyleUpperRoman
		case "none":
			s.ListStyleType = ir.ListStyleNone
		}
	case "width":
		if u, n, ok := parseLengthValue(value); ok {
			s.Width = toLength(u, n)
		}
	case "height":
		if u, n, ok := parseLengthValue(value); ok {
			s.Height = toLength(u, n)
		}
	case "margin":
		applyBoxShorthand(&s.Margin, value)
	case "margin-top":
		if u, n, ok := parseLengthValue(value); ok {
			s.Margin.Top = toLength(u, n)
		}
	case "margin-right":
		if u, n, ok := parseLengthValue(value); ok {
			s.Margin.Right = toLength(u, n)
		}
	case "margin-bottom":
		if u, n, ok := parseLengthValue(value); ok {
			s.Margin.Bottom = toLength(u, n)
		}
	case "margin-left":
		if u, n, ok := parseLengthValue(value); ok {
			s.Margin.Left = toLength(u, n)
		}
	case "padding":
		applyBoxShorthand(&s.Padding, value)
	case "padding-top":
		if u, n, ok := parseLengthValue(value); ok {
			s.Padding.Top = toLength(u, n)
		}
	case "padding-right":
		if u, n, ok := parseLengthValue(value); ok {
			s.Padding.Right = toLength(u, n)
		}
	case "padding-bottom":
		if u, n, ok := parseLengthValue(value); ok {
			s.Padding.Bottom = toLength(u, n)
		}
	case "padding-left":
		if u, n, ok := parseLengthValue(value); ok {
			s.Padding.Left = toLength(u, n)
		}
	case "lang":
		s.Language = value
	case "page-break-before", "break-before":
		s.BreakBefore = breakValue(value)
	case "page-break-after", "break-after":
		s.BreakAfter = breakValue(value)
	case "page-break-inside", "break-inside":
		s.BreakInside = breakValue(value)
	}
}

func breakValue(v string) ir.BreakControl {
	switch v {
	case "always", "page":
		return ir.BreakAlways
	case "avoid":
		return ir.BreakAvoid
	default:
		return ir.BreakAuto
	}
}

func applyBoxShorthand(box *ir.BoxSides, value string) {
	fields := strings.Fields(value)
	lens := make([]ir.Length, 0, len(fields))
	for _, f := range fields {
		if u, n, ok := parseLengthValue(f); ok {
			lens = append(lens, toLength(u, n))
		}
	}
	switch len(lens) {
	case 1:
		box.Top, box.Right, box.Bottom, box.Left = lens[0], lens[0], lens[0], lens[0]
	case 2:
		box.Top, box.Bottom = lens[0], lens[0]
		box.Right, box.Left = lens[1], lens[1]
	case 3:
		box.Top, box.Right, box.Bottom, box.Left = lens[0], lens[1], lens[2], lens[1]
	case 4:
		box.Top, box.Right, box.Bottom, box.Left = lens[0], lens[1], lens[2], lens[3]
	}
}

func toLength(unit string, v float64) ir.Length {
	switch unit {
	case "auto":
		return ir.AutoLength
	case "em":
		return ir.Length{Unit: ir.LengthEm, Value: v}
	case "rem":
		return ir.Length{Unit: ir.LengthRem, Value: v}
	case "percent":
		return ir.Length{Unit: ir.LengthPercent, Value: v}
	default:
		return ir.Length{Unit: ir.LengthPx, Value: v}
	}
}

// uaStylesheet is the small set of user-agent default rules spec §4.4
// step 1 requires (block-level defaults, heading sizes, list markers)
// so an element with no author CSS at all still gets a sane display.
func uaStylesheet(order *int) *Stylesheet {
	rules := []string{
		"p{display:block}",
		"div{display:block}",
		"section{display:block}",
		"article{display:block}",
		"header{display:block}",
		"footer{display:block}",
		"nav{display:block}",
		"main{display:block}",
		"aside{display:block}",
		"figure{display:block}",
		"figcaption{display:block}",
		"blockquote{display:block}",
		"ol{display:block;list-style-type:decimal}",
		"ul{display:block;list-style-type:disc}",
		"li{display:list-item}",
		"dl{display:block}",
		"dt{display:block;font-weight:bold}",
		"dd{display:block;margin-left:40px}",
		"pre{display:block;font-family:monospace}",
		"table{display:block}",
		"h1{display:block;font-weight:bold;font-size:2em}",
		"h2{display:block;font-weight:bold;font-size:1.5em}",
		"h3{display:block;font-weight:bold;font-size:1.17em}",
		"h4{display:block;font-weight:bold;font-size:1em}",
		"h5{display:block;font-weight:bold;font-size:0.83em}",
		"h6{display:block;font-weight:bold;font-size:0.67em}",
		"em{font-style:italic}",
		"i{font-style:italic}",
		"cite{font-style:italic}",
		"strong{font-weight:bold}",
		"b{font-weight:bold}",
		"u{text-decoration:underline}",
		"s{text-decoration:line-through}",
		"a{text-decoration:underline;color:#0000ee}",
		"sub{vertical-align:sub}",
		"sup{vertical-align:super}",
		"hr{display:block}",
		"br{display:inline}",
		"img{display:inline}",
	}
	sheet := &Stylesheet{}
	for _, r := range rules {
		s := ParseStylesheet([]byte(r), OriginUA, order, zap.NewNop())
		sheet.Rules = append(sheet.Rules, s.Rules...)
	}
	return sheet
}
