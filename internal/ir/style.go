package ir

import "math"

// StyleId is an interned ComputedStyle handle. StyleId(0) is always the
// default (all-unset) style.
type StyleId uint32

// LengthUnit is the closed set of length variants (spec §3.4).
type LengthUnit int

const (
	LengthAuto LengthUnit = iota
	LengthPx
	LengthEm
	LengthRem
	LengthPercent
)

// Length is the normalized {Auto, Px, Em, Rem, Percent} sum type.
type Length struct {
	Unit  LengthUnit
	Value float64 // meaningless when Unit == LengthAuto
}

// AutoLength is the zero-value Length (Auto).
var AutoLength = Length{Unit: LengthAuto}

// lengthKey pairs a Length's unit with its value's bit pattern.
type lengthKey struct {
	Unit LengthUnit
	Bits uint64
}

// bits returns a hashable/comparable representation of l, comparing
// floats by bit pattern as spec §3.4 requires.
func (l Length) bits() lengthKey {
	if l.Unit == LengthAuto {
		return lengthKey{}
	}
	return lengthKey{Unit: l.Unit, Bits: math.Float64bits(l.Value)}
}

// TextAlign is a closed alignment enum.
type TextAlign int

const (
	AlignUnset TextAlign = iota
	AlignLeft
	AlignRight
	AlignCenter
	AlignJustify
)

// Display is a closed display-role enum (a small, CSS-independent set the
// style pool stores; cascade-to-Display mapping happens in htmlingest).
type Display int

const (
	DisplayUnset Display = iota
	DisplayBlock
	DisplayInline
	DisplayNone
	DisplayListItem
	DisplayTableCell
)

// ListStyleType is a closed enum for list marker shape.
type ListStyleType int

const (
	ListStyleUnset ListStyleType = iota
	ListStyleDisc
	ListStyleCircle
	ListStyleSquare
	ListStyleDecimal
	ListStyleLowerAlpha
	ListStyleUpperAlpha
	ListStyleLowerRoman
	ListStyleUpperRoman
	ListStyleNone
)

// VerticalAlign is a closed enum for inline vertical alignment.
type VerticalAlign int

const (
	VAlignBaseline VerticalAlign = iota
	VAlignSub
	VAlignSuper
	VAlignTop
	VAlignMiddle
	VAlignBottom
)

// FontStyle and FontWeight are closed enums.
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

type FontWeight int

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

// BorderStyle is a closed enum for per-side borders.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSolid
	BorderDashed
	BorderDotted
	BorderDouble
)

// BreakControl is a closed enum for page-break-before/after/inside.
type BreakControl int

const (
	BreakAuto BreakControl = iota
	BreakAvoid
	BreakAlways
)

// TextDecoration is a bitset: underline/strikethrough/overline may combine.
type TextDecoration int

const (
	DecorationNone          TextDecoration = 0
	DecorationUnderline     TextDecoration = 1 << iota
	DecorationLineThrough
	DecorationOverline
)

// BoxSides groups four per-side Length values (margin, padding).
type BoxSides struct {
	Top, Right, Bottom, Left Length
}

// BorderSide groups one side's border properties.
type BorderSide struct {
	Style BorderStyle
	Width Length
	Color string // normalized "#rrggbb" or "" (unset)
}

// BorderSides groups all four sides.
type BorderSides struct {
	Top, Right, Bottom, Left BorderSide
}

// ComputedStyle is the normalized, cascade-resolved style of one node
// (spec §3.4). All fields use closed variants or Length so two styles
// computed from differently-spelled-but-equivalent CSS intern to the
// same StyleId.
type ComputedStyle struct {
	FontFamily     string
	FontSize       Length
	FontWeight     FontWeight
	FontStyle      FontStyle
	Color          string
	BackgroundColor string
	TextAlign      TextAlign
	TextIndent     Length
	LineHeight     Length
	Decoration     TextDecoration
	VerticalAlign  VerticalAlign
	Margin         BoxSides
	Padding        BoxSides
	Border         BorderSides
	Display        Display
	ListStyleType  ListStyleType
	Width          Length
	Height         Length
	MinWidth       Length
	MinHeight      Length
	MaxWidth       Length
	MaxHeight      Length
	Visible        bool
	Language       string
	BreakBefore    BreakControl
	BreakAfter     BreakControl
	BreakInside    BreakControl
}

// DefaultComputedStyle is StyleId(0)'s value: all-unset, visible.
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{Visible: true}
}

// key returns a comparable, hashable projection of s suitable for a Go
// map key (float fields are pre-normalized to bit patterns via Length.bits
// and string fields are compared directly, which is enough since Go map
// keys support structs of comparable fields — strings are comparable, and
// every float-bearing field here is wrapped in Length).
type styleKey struct {
	FontFamily, Color, BackgroundColor, Language string
	FontSize, TextIndent, LineHeight             lengthKey
	Width, Height, MinWidth, MinHeight            lengthKey
	MaxWidth, MaxHeight                            lengthKey
	MarginTop, MarginRight, MarginBottom, MarginLeft lengthKey
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft lengthKey
	BorderTop, BorderRight, BorderBottom, BorderLeft borderKey
	FontWeight    FontWeight
	FontStyle     FontStyle
	TextAlign     TextAlign
	Decoration    TextDecoration
	VerticalAlign VerticalAlign
	Display       Display
	ListStyleType ListStyleType
	Visible       bool
	BreakBefore, BreakAfter, BreakInside BreakControl
}

type borderKey struct {
	Style BorderStyle
	Width lengthKey
	Color string
}

func toKey(s ComputedStyle) styleKey {
	return styleKey{
		FontFamily: s.FontFamily, Color: s.Color, BackgroundColor: s.BackgroundColor, Language: s.Language,
		FontSize: s.FontSize.bits(), TextIndent: s.TextIndent.bits(), LineHeight: s.LineHeight.bits(),
		Width: s.Width.bits(), Height: s.Height.bits(), MinWidth: s.MinWidth.bits(), MinHeight: s.MinHeight.bits(),
		MaxWidth: s.MaxWidth.bits(), MaxHeight: s.MaxHeight.bits(),
		MarginTop: s.Margin.Top.bits(), MarginRight: s.Margin.Right.bits(), MarginBottom: s.Margin.Bottom.bits(), MarginLeft: s.Margin.Left.bits(),
		PaddingTop: s.Padding.Top.bits(), PaddingRight: s.Padding.Right.bits(), PaddingBottom: s.Padding.Bottom.bits(), PaddingLeft: s.Padding.Left.bits(),
		BorderTop:    borderKey{s.Border.Top.Style, s.Border.Top.Width.bits(), s.Border.Top.Color},
		BorderRight:  borderKey{s.Border.Right.Style, s.Border.Right.Width.bits(), s.Border.Right.Color},
		BorderBottom: borderKey{s.Border.Bottom.Style, s.Border.Bottom.Width.bits(), s.Border.Bottom.Color},
		BorderLeft:   borderKey{s.Border.Left.Style, s.Border.Left.Width.bits(), s.Border.Left.Color},
		FontWeight: s.FontWeight, FontStyle: s.FontStyle, TextAlign: s.TextAlign, Decoration: s.Decoration,
		VerticalAlign: s.VerticalAlign, Display: s.Display, ListStyleType: s.ListStyleType, Visible: s.Visible,
		BreakBefore: s.BreakBefore, BreakAfter: s.BreakAfter, BreakInside: s.BreakInside,
	}
}

// StylePool interns ComputedStyle values.
type StylePool struct {
	byKey  map[styleKey]StyleId
	values []ComputedStyle
}

// NewStylePool returns a pool pre-seeded with StyleId(0) = default style.
func NewStylePool() *StylePool {
	p := &StylePool{byKey: make(map[styleKey]StyleId)}
	def := DefaultComputedStyle()
	p.values = append(p.values, def)
	p.byKey[toKey(def)] = 0
	return p
}

// Intern returns s's StyleId, allocating a new one if s hasn't been seen.
func (p *StylePool) Intern(s ComputedStyle) StyleId {
	k := toKey(s)
	if id, ok := p.byKey[k]; ok {
		return id
	}
	id := StyleId(len(p.values))
	p.values = append(p.values, s)
	p.byKey[k] = id
	return id
}

// Get returns the ComputedStyle for id.
func (p *StylePool) Get(id StyleId) ComputedStyle {
	return p.values[id]
}

// Len returns the number of distinct interned styles.
func (p *StylePool) Len() int { return len(p.values) }
