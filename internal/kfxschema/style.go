package kfxschema

import (
	"ebookconv/internal/ionvalue"
	"ebookconv/internal/ir"
	"ebookconv/internal/kfxsymbols"
)

// StyleToIon flattens a ComputedStyle to the wire shape kfxexport writes
// into a style_group fragment and kfxbook reads back: one struct field
// per non-default property, keyed by the same style-property symbols
// the KFX format itself uses (font_family, margin_top, border_color_top,
// ...), so a style_group fragment produced here reads like a real KFX
// one rather than an invented dialect. Unset (zero-value) fields are
// omitted, matching KFX's own sparse style encoding.
func StyleToIon(s ir.ComputedStyle) ionvalue.Value {
	var fields []ionvalue.StructField
	add := func(sym kfxsymbols.Symbol, v ionvalue.Value) {
		fields = append(fields, ionvalue.Field(sym.Text(), v))
	}
	addLen := func(sym kfxsymbols.Symbol, l ir.Length) {
		if l.Unit == ir.LengthAuto {
			return
		}
		add(sym, lengthToIon(l))
	}
	if s.FontFamily != "" {
		add(kfxsymbols.FontFamily, ionvalue.String(s.FontFamily))
	}
	addLen(kfxsymbols.FontSize, s.FontSize)
	if s.FontWeight != ir.FontWeightNormal {
		add(kfxsymbols.FontWeightProp, ionvalue.Int(int64(s.FontWeight)))
	}
	if s.FontStyle != ir.FontStyleNormal {
		add(kfxsymbols.FontStyleProp, ionvalue.Symbol(fontStyleName(s.FontStyle)))
	}
	if s.Color != "" {
		add(kfxsymbols.TextColor, ionvalue.String(s.Color))
	}
	if s.BackgroundColor != "" {
		add(kfxsymbols.FillColor, ionvalue.String(s.BackgroundColor))
	}
	if s.TextAlign != ir.AlignUnset {
		add(kfxsymbols.TextAlignment, ionvalue.Symbol(textAlignName(s.TextAlign)))
	}
	addLen(kfxsymbols.TextIndent, s.TextIndent)
	addLen(kfxsymbols.LineHeight, s.LineHeight)
	if s.Decoration != ir.DecorationNone {
		add(kfxsymbols.Symbol(29), ionvalue.Int(int64(s.Decoration))) // underline/strikethrough bitset, text-decoration family ($29 area)
	}
	if s.VerticalAlign != ir.VAlignBaseline {
		add(kfxsymbols.Symbol(31), ionvalue.Int(int64(s.VerticalAlign))) // baseline_shift
	}
	addLen(kfxsymbols.MarginTop, s.Margin.Top)
	addLen(kfxsymbols.MarginRight, s.Margin.Right)
	addLen(kfxsymbols.MarginBottom, s.Margin.Bottom)
	addLen(kfxsymbols.MarginLeft, s.Margin.Left)
	addLen(kfxsymbols.PaddingTop, s.Padding.Top)
	addLen(kfxsymbols.PaddingRight, s.Padding.Right)
	addLen(kfxsymbols.PaddingBottom, s.Padding.Bottom)
	addLen(kfxsymbols.PaddingLeft, s.Padding.Left)
	addBorder(&fields, kfxsymbols.BorderColorTop, kfxsymbols.BorderStyleTop, kfxsymbols.BorderWeightTop, s.Border.Top)
	addBorder(&fields, kfxsymbols.BorderColorRight, kfxsymbols.BorderStyleRight, kfxsymbols.BorderWeightRight, s.Border.Right)
	addBorder(&fields, kfxsymbols.BorderColorBottom, kfxsymbols.BorderStyleBottom, kfxsymbols.BorderWeightBottom, s.Border.Bottom)
	addBorder(&fields, kfxsymbols.BorderColorLeft, kfxsymbols.BorderStyleLeft, kfxsymbols.BorderWeightLeft, s.Border.Left)
	if s.Display != ir.DisplayUnset {
		add(kfxsymbols.Symbol(67), ionvalue.Symbol(displayName(s.Display))) // display, stored under $67 (catalog name "fixed_height")
	}
	if s.ListStyleType != ir.ListStyleUnset {
		add(kfxsymbols.ListStyle, ionvalue.Symbol(listStyleName(s.ListStyleType)))
	}
	addLen(kfxsymbols.Width, s.Width)
	addLen(kfxsymbols.Height, s.Height)
	addLen(kfxsymbols.MinHeight, s.MinHeight)
	if !s.Visible {
		add(kfxsymbols.Visibility, ionvalue.Symbol("hidden"))
	}
	if s.Language != "" {
		add(kfxsymbols.Language, ionvalue.String(s.Language))
	}
	if s.BreakBefore != ir.BreakAuto {
		add(kfxsymbols.BreakBefore, ionvalue.Symbol(breakName(s.BreakBefore)))
	}
	if s.BreakAfter != ir.BreakAuto {
		add(kfxsymbols.BreakAfter, ionvalue.Symbol(breakName(s.BreakAfter)))
	}
	if s.BreakInside != ir.BreakAuto {
		add(kfxsymbols.BreakInside, ionvalue.Symbol(breakName(s.BreakInside)))
	}
	return ionvalue.Struct(fields...)
}

func addBorder(fields *[]ionvalue.StructField, colorSym, styleSym, weightSym kfxsymbols.Symbol, b ir.BorderSide) {
	if b.Style == ir.BorderNone {
		return
	}
	*fields = append(*fields,
		ionvalue.Field(styleSym.Text(), ionvalue.Symbol(borderStyleName(b.Style))),
		ionvalue.Field(weightSym.Text(), lengthToIon(b.Width)),
	)
	if b.Color != "" {
		*fields = append(*fields, ionvalue.Field(colorSym.Text(), ionvalue.String(b.Color)))
	}
}

func lengthToIon(l ir.Length) ionvalue.Value {
	return ionvalue.Struct(
		ionvalue.Field("unit", ionvalue.Symbol(unitName(l.Unit))),
		ionvalue.Field("value", ionvalue.Value{Kind: ionvalue.KindFloat, Float: l.Value}),
	)
}

func ionToLength(v ionvalue.Value) ir.Length {
	if v.Kind != ionvalue.KindStruct {
		return ir.AutoLength
	}
	unitV, _ := v.Get("unit")
	valueV, _ := v.Get("value")
	unit := nameToUnit(unitV.Text)
	if unit == ir.LengthAuto {
		return ir.AutoLength
	}
	return ir.Length{Unit: unit, Value: valueV.Float}
}

// IonToStyle is the inverse of StyleToIon.
func IonToStyle(v ionvalue.Value) ir.ComputedStyle {
	s := ir.DefaultComputedStyle()
	if v.Kind != ionvalue.KindStruct {
		return s
	}
	get := func(sym kfxsymbols.Symbol) (ionvalue.Value, bool) { return v.Get(sym.Text()) }
	if fv, ok := get(kfxsymbols.FontFamily); ok {
		s.FontFamily = fv.Text
	}
	if fv, ok := get(kfxsymbols.FontSize); ok {
		s.FontSize = ionToLength(fv)
	}
	if fv, ok := get(kfxsymbols.FontWeightProp); ok {
		s.FontWeight = ir.FontWeight(fv.Int)
	}
	if fv, ok := get(kfxsymbols.FontStyleProp); ok {
		s.FontStyle = nameToFontStyle(fv.Text)
	}
	if fv, ok := get(kfxsymbols.TextColor); ok {
		s.Color = fv.Text
	}
	if fv, ok := get(kfxsymbols.FillColor); ok {
		s.BackgroundColor = fv.Text
	}
	if fv, ok := get(kfxsymbols.TextAlignment); ok {
		s.TextAlign = nameToTextAlign(fv.Text)
	}
	if fv, ok := get(kfxsymbols.TextIndent); ok {
		s.TextIndent = ionToLength(fv)
	}
	if fv, ok := get(kfxsymbols.LineHeight); ok {
		s.LineHeight = ionToLength(fv)
	}
	if fv, ok := get(kfxsymbols.Symbol(29)); ok {
		s.Decoration = ir.TextDecoration(fv.Int)
	}
	if fv, ok := get(kfxsymbols.Symbol(31)); ok {
		s.VerticalAlign = ir.VerticalAlign(fv.Int)
	}
	s.Margin = ir.BoxSides{
		Top: lenOr(get(kfxsymbols.MarginTop)), Right: lenOr(get(kfxsymbols.MarginRight)),
		Bottom: lenOr(get(kfxsymbols.MarginBottom)), Left: lenOr(get(kfxsymbols.MarginLeft)),
	}
	s.Padding = ir.BoxSides{
		Top: lenOr(get(kfxsymbols.PaddingTop)), Right: lenOr(get(kfxsymbols.PaddingRight)),
		Bottom: lenOr(get(kfxsymbols.PaddingBottom)), Left: lenOr(get(kfxsymbols.PaddingLeft)),
	}
	s.Border = ir.BorderSides{
		Top:    ionToBorder(v, kfxsymbols.BorderColorTop, kfxsymbols.BorderStyleTop, kfxsymbols.BorderWeightTop),
		Right:  ionToBorder(v, kfxsymbols.BorderColorRight, kfxsymbols.BorderStyleRight, kfxsymbols.BorderWeightRight),
		Bottom: ionToBorder(v, kfxsymbols.BorderColorBottom, kfxsymbols.BorderStyleBottom, kfxsymbols.BorderWeightBottom),
		Left:   ionToBorder(v, kfxsymbols.BorderColorLeft, kfxsymbols.BorderStyleLeft, kfxsymbols.BorderWeightLeft),
	}
	if fv, ok := get(kfxsymbols.Symbol(67)); ok {
		s.Display = nameToDisplay(fv.Text)
	}
	if fv, ok := get(kfxsymbols.ListStyle); ok {
		s.ListStyleType = nameToListStyle(fv.Text)
	}
	if fv, ok := get(kfxsymbols.Width); ok {
		s.Width = ionToLength(fv)
	}
	if fv, ok := get(kfxsymbols.Height); ok {
		s.Height = ionToLength(fv)
	}
	if fv, ok := get(kfxsymbols.MinHeight); ok {
		s.MinHeight = ionToLength(fv)
	}
	if fv, ok := get(kfxsymbols.Visibility); ok {
		s.Visible = fv.Text != "hidden"
	}
	if fv, ok := get(kfxsymbols.Language); ok {
		s.Language = fv.Text
	}
	if fv, ok := get(kfxsymbols.BreakBefore); ok {
		s.BreakBefore = nameToBreak(fv.Text)
	}
	if fv, ok := get(kfxsymbols.BreakAfter); ok {
		s.BreakAfter = nameToBreak(fv.Text)
	}
	if fv, ok := get(kfxsymbols.BreakInside); ok {
		s.BreakInside = nameToBreak(fv.Text)
	}
	return s
}

func lenOr(v ionvalue.Value, ok bool) ir.Length {
	if !ok {
		return ir.AutoLength
	}
	return ionToLength(v)
}

func ionToBorder(v ionvalue.Value, colorSym, styleSym, weightSym kfxsymbols.Symbol) ir.BorderSide {
	styleV, ok := v.Get(styleSym.Text())
	if !ok {
		return ir.BorderSide{}
	}
	b := ir.BorderSide{Style: nameToBorderStyle(styleV.Text)}
	if wv, ok := v.Get(weightSym.Text()); ok {
		b.Width = ionToLength(wv)
	}
	if cv, ok := v.Get(colorSym.Text()); ok {
		b.Color = cv.Text
	}
	return b
}

func unitName(u ir.LengthUnit) string {
	switch u {
	case ir.LengthPx:
		return "px"
	case ir.LengthEm:
		return "em"
	case ir.LengthRem:
		return "rem"
	case ir.LengthPercent:
		return "percent"
	default:
		return "auto"
	}
}

func nameToUnit(s string) ir.LengthUnit {
	switch s {
	case "px":
		return ir.LengthPx
	case "em":
		return ir.LengthEm
	case "rem":
		return ir.LengthRem
	case "percent":
		return ir.LengthPercent
	default:
		return ir.LengthAuto
	}
}

func fontStyleName(s ir.FontStyle) string {
	switch s {
	case ir.FontStyleItalic:
		return "italic"
	case ir.FontStyleOblique:
		return "oblique"
	default:
		return "normal"
	}
}

func nameToFontStyle(s string) ir.FontStyle {
	switch s {
	case "italic":
		return ir.FontStyleItalic
	case "oblique":
		return ir.FontStyleOblique
	default:
		return ir.FontStyleNormal
	}
}

func textAlignName(a ir.TextAlign) string {
	switch a {
	case ir.AlignLeft:
		return "left"
	case ir.AlignRight:
		return "right"
	case ir.AlignCenter:
		return "center"
	case ir.AlignJustify:
		return "justify"
	default:
		return "start"
	}
}

func nameToTextAlign(s string) ir.TextAlign {
	switch s {
	case "left":
		return ir.AlignLeft
	case "right":
		return ir.AlignRight
	case "center":
		return ir.AlignCenter
	case "justify":
		return ir.AlignJustify
	default:
		return ir.AlignUnset
	}
}

func displayName(d ir.Display) string {
	switch d {
	case ir.DisplayBlock:
		return "block"
	case ir.DisplayInline:
		return "inline"
	case ir.DisplayNone:
		return "none"
	case ir.DisplayListItem:
		return "list_item"
	case ir.DisplayTableCell:
		return "table_cell"
	default:
		return ""
	}
}

func nameToDisplay(s string) ir.Display {
	switch s {
	case "block":
		return ir.DisplayBlock
	case "inline":
		return ir.DisplayInline
	case "none":
		return ir.DisplayNone
	case "list_item":
		return ir.DisplayListItem
	case "table_cell":
		return ir.DisplayTableCell
	default:
		return ir.DisplayUnset
	}
}

func listStyleName(l ir.ListStyleType) string {
	switch l {
	case ir.ListStyleDisc:
		return "disc"
	case ir.ListStyleCircle:
		return "circle"
	case ir.ListStyleSquare:
		return "square"
	case ir.ListStyleDecimal:
		return "decimal"
	case ir.ListStyleLowerAlpha:
		return "lower_alpha"
	case ir.ListStyleUpperAlpha:
		return "upper_alpha"
	case ir.ListStyleLowerRoman:
		return "lower_roman"
	case ir.ListStyleUpperRoman:
		return "upper_roman"
	case ir.ListStyleNone:
		return "none"
	default:
		return ""
	}
}

func nameToListStyle(s string) ir.ListStyleType {
	switch s {
	case "disc":
		return ir.ListStyleDisc
	case "circle":
		return ir.ListStyleCircle
	case "square":
		return ir.ListStyleSquare
	case "decimal":
		return ir.ListStyleDecimal
	case "lower_alpha":
		return ir.ListStyleLowerAlpha
	case "upper_alpha":
		return ir.ListStyleUpperAlpha
	case "lower_roman":
		return ir.ListStyleLowerRoman
	case "upper_roman":
		return ir.ListStyleUpperRoman
	case "none":
		return ir.ListStyleNone
	default:
		return ir.ListStyleUnset
	}
}

func borderStyleName(b ir.BorderStyle) string {
	switch b {
	case ir.BorderSolid:
		return "solid"
	case ir.BorderDashed:
		return "dashed"
	case ir.BorderDotted:
		return "dotted"
	case ir.BorderDouble:
		return "double"
	default:
		return "none"
	}
}

func nameToBorderStyle(s string) ir.BorderStyle {
	switch s {
	case "solid":
		return ir.BorderSolid
	case "dashed":
		return ir.BorderDashed
	case "dotted":
		return ir.BorderDotted
	case "double":
		return ir.BorderDouble
	default:
		return ir.BorderNone
	}
}

func breakName(b ir.BreakControl) string {
	switch b {
	case ir.BreakAvoid:
		return "avoid"
	case ir.BreakAlways:
		return "always"
	default:
		return "auto"
	}
}

func nameToBreak(s string) ir.BreakControl {
	switch s {
	case "avoid":
		return ir.BreakAvoid
	case "always":
		return ir.BreakAlways
	default:
		return ir.BreakAuto
	}
}
