package kfxschema

import (
	"strconv"

	"ebookconv/internal/ionvalue"
	"ebookconv/internal/ir"
	"ebookconv/internal/kfxsymbols"
)

// EncodeChapter flattens c's whole node tree to the storyline content-tree
// shape kfxexport writes under a storyline fragment's "content" field and
// kfxbook reads back via DecodeChapter: every node becomes a struct with
// a "type" symbol (see roleName), a "style" sub-struct when non-default
// (StyleToIon), a "semantics" sub-struct when set, and either a "text"
// string (Text nodes) or a "content" list (every other non-void role;
// void roles carry no "content" field).
func EncodeChapter(c *ir.Chapter) ionvalue.Value {
	return encodeChildren(c, ir.Root)
}

func encodeChildren(c *ir.Chapter, parent ir.NodeId) ionvalue.Value {
	children := c.Children(parent)
	items := make([]ionvalue.Value, 0, len(children))
	for _, child := range children {
		items = append(items, encodeNode(c, child))
	}
	return ionvalue.List(items...)
}

func encodeNode(c *ir.Chapter, id ir.NodeId) ionvalue.Value {
	n := c.Nodes[id]
	var fields []ionvalue.StructField
	fields = append(fields, ionvalue.Field(kfxsymbols.Type.Text(), ionvalue.Symbol(roleName(n.Role))))

	if style := c.Styles.Get(n.Style); style != ir.DefaultComputedStyle() {
		fields = append(fields, ionvalue.Field(kfxsymbols.StyleName.Text(), StyleToIon(style)))
	}
	if c.Semantics.Has(id) {
		fields = append(fields, ionvalue.Field("semantics", semanticsToIon(c.Semantics.Get(id))))
	}

	if n.Role == ir.RoleText {
		fields = append(fields, ionvalue.Field(kfxsymbols.Text.Text(), ionvalue.String(c.Text(id))))
	} else if !n.Role.Void() {
		fields = append(fields, ionvalue.Field(kfxsymbols.Content.Text(), encodeChildren(c, id)))
	}
	return ionvalue.Struct(fields...)
}

func semanticsToIon(s ir.Semantics) ionvalue.Value {
	var fields []ionvalue.StructField
	str := func(key, v string) {
		if v != "" {
			fields = append(fields, ionvalue.Field(key, ionvalue.String(v)))
		}
	}
	str(kfxsymbols.ID.Text(), s.ID)
	str(kfxsymbols.URI.Text(), s.Href)
	str("src", s.Src)
	str("alt", s.Alt)
	str(kfxsymbols.Title.Text(), s.Title)
	str("lang", s.Lang)
	str("epub_type", s.EpubType)
	str("aria_role", s.AriaRole)
	str("datetime", s.DateTime)
	str("code_language", s.Language)
	if s.HasListStart {
		fields = append(fields, ionvalue.Field("list_start", ionvalue.Int(int64(s.ListStart))))
	}
	if s.RowSpan != 0 {
		fields = append(fields, ionvalue.Field("row_span", ionvalue.Int(int64(s.RowSpan))))
	}
	if s.ColSpan != 0 {
		fields = append(fields, ionvalue.Field("col_span", ionvalue.Int(int64(s.ColSpan))))
	}
	if s.IsHeaderCell {
		fields = append(fields, ionvalue.Field("is_header_cell", ionvalue.Bool(true)))
	}
	return ionvalue.Struct(fields...)
}

// DecodeChapter rebuilds a Chapter from the content-tree shape EncodeChapter
// produces.
func DecodeChapter(v ionvalue.Value) *ir.Chapter {
	c := ir.NewChapter()
	decodeChildren(c, ir.Root, v)
	return c
}

func decodeChildren(c *ir.Chapter, parent ir.NodeId, list ionvalue.Value) {
	if list.Kind != ionvalue.KindList {
		return
	}
	for _, item := range list.Items {
		decodeNode(c, parent, item)
	}
}

func decodeNode(c *ir.Chapter, parent ir.NodeId, v ionvalue.Value) {
	if v.Kind != ionvalue.KindStruct {
		return
	}
	typeV, _ := v.Get(kfxsymbols.Type.Text())
	role, ok := nameToRole(typeV.Text)
	if !ok {
		return
	}

	if role == ir.RoleText {
		textV, _ := v.Get(kfxsymbols.Text.Text())
		if textV.Text == "" {
			return
		}
		id := c.AddText(parent, textV.Text)
		applyStyleAndSemantics(c, id, v)
		return
	}

	id := c.AddNode(parent, role)
	applyStyleAndSemantics(c, id, v)
	if !role.Void() {
		if contentV, ok := v.Get(kfxsymbols.Content.Text()); ok {
			decodeChildren(c, id, contentV)
		}
	}
}

func applyStyleAndSemantics(c *ir.Chapter, id ir.NodeId, v ionvalue.Value) {
	if styleV, ok := v.Get(kfxsymbols.StyleName.Text()); ok {
		c.SetStyle(id, c.Styles.Intern(IonToStyle(styleV)))
	}
	if semV, ok := v.Get("semantics"); ok && semV.Kind == ionvalue.KindStruct {
		c.Semantics.Set(id, ionToSemantics(semV))
	}
}

func ionToSemantics(v ionvalue.Value) ir.Semantics {
	var s ir.Semantics
	get := func(key string) string {
		if fv, ok := v.Get(key); ok {
			return fv.Text
		}
		return ""
	}
	s.ID = get(kfxsymbols.ID.Text())
	s.Href = get(kfxsymbols.URI.Text())
	s.Src = get("src")
	s.Alt = get("alt")
	s.Title = get(kfxsymbols.Title.Text())
	s.Lang = get("lang")
	s.EpubType = get("epub_type")
	s.AriaRole = get("aria_role")
	s.DateTime = get("datetime")
	s.Language = get("code_language")
	if fv, ok := v.Get("list_start"); ok {
		s.ListStart = int(fv.Int)
		s.HasListStart = true
	}
	if fv, ok := v.Get("row_span"); ok {
		s.RowSpan = int(fv.Int)
	}
	if fv, ok := v.Get("col_span"); ok {
		s.ColSpan = int(fv.Int)
	}
	if fv, ok := v.Get("is_header_cell"); ok {
		s.IsHeaderCell = fv.Bool
	}
	return s
}

// roleName maps every Role to the symbol text stored in a content node's
// "type" field. Heading roles collapse to "headingN" so level survives
// the round trip without a second field.
func roleName(r ir.Role) string {
	if lvl := r.HeadingLevel(); lvl > 0 {
		return "heading" + strconv.Itoa(lvl)
	}
	switch r {
	case ir.RoleRoot:
		return "root"
	case ir.RoleContainer:
		return "container"
	case ir.RoleParagraph:
		return "paragraph"
	case ir.RoleText:
		return "text"
	case ir.RoleBlockQuote:
		return "blockquote"
	case ir.RoleOrderedList:
		return "ordered_list"
	case ir.RoleUnorderedList:
		return "unordered_list"
	case ir.RoleListItem:
		return "list_item"
	case ir.RoleDefinitionList:
		return "definition_list"
	case ir.RoleDefinitionTerm:
		return "definition_term"
	case ir.RoleDefinitionDescription:
		return "definition_description"
	case ir.RoleCodeBlock:
		return "code_block"
	case ir.RoleCaption:
		return "caption"
	case ir.RoleTable:
		return "table"
	case ir.RoleTableHead:
		return "table_head"
	case ir.RoleTableBody:
		return "table_body"
	case ir.RoleTableRow:
		return "table_row"
	case ir.RoleTableCell:
		return "table_cell"
	case ir.RoleFigure:
		return "figure"
	case ir.RoleSidebar:
		return "sidebar"
	case ir.RoleFootnote:
		return "footnote"
	case ir.RoleImage:
		return "image"
	case ir.RoleBreak:
		return "break"
	case ir.RoleRule:
		return "rule"
	case ir.RoleInline:
		return "inline"
	case ir.RoleLink:
		return "link"
	default:
		return "container"
	}
}

func nameToRole(name string) (ir.Role, bool) {
	if len(name) > 7 && name[:7] == "heading" {
		if lvl, err := strconv.Atoi(name[7:]); err == nil && lvl >= 1 && lvl <= 6 {
			return ir.HeadingRole(lvl), true
		}
	}
	switch name {
	case "root":
		return ir.RoleRoot, true
	case "container":
		return ir.RoleContainer, true
	case "paragraph":
		return ir.RoleParagraph, true
	case "text":
		return ir.RoleText, true
	case "blockquote":
		return ir.RoleBlockQuote, true
	case "ordered_list":
		return ir.RoleOrderedList, true
	case "unordered_list":
		return ir.RoleUnorderedList, true
	case "list_item":
		return ir.RoleListItem, true
	case "definition_list":
		return ir.RoleDefinitionList, true
	case "definition_term":
		return ir.RoleDefinitionTerm, true
	case "definition_description":
		return ir.RoleDefinitionDescription, true
	case "code_block":
		return ir.RoleCodeBlock, true
	case "caption":
		return ir.RoleCaption, true
	case "table":
		return ir.RoleTable, true
	case "table_head":
		return ir.RoleTableHead, true
	case "table_body":
		return ir.RoleTableBody, true
	case "table_row":
		return ir.RoleTableRow, true
	case "table_cell":
		return ir.RoleTableCell, true
	case "figure":
		return ir.RoleFigure, true
	case "sidebar":
		return ir.RoleSidebar, true
	case "footnote":
		return ir.RoleFootnote, true
	case "image":
		return ir.RoleImage, true
	case "break":
		return ir.RoleBreak, true
	case "rule":
		return ir.RoleRule, true
	case "inline":
		return ir.RoleInline, true
	case "link":
		return ir.RoleLink, true
	default:
		return ir.RoleRoot, false
	}
}
