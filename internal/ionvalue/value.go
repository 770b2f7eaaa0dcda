// Package ionvalue provides a codec-neutral tagged-value tree over Ion
// binary data (spec §3.1, §4.1), plus the BVM+LST "prolog" helpers KFX
// containers need to store a local symbol table once and re-stamp it onto
// every fragment payload.
//
// It wraps github.com/amazon-ion/ion-go/ion rather than parsing Ion's
// type-descriptor byte format by hand, generalizing the pattern in the
// teacher's convert/kfx/ionutil package (a Prolog built once, then
// Marshal/MarshalAnnotatedPayload re-using it per fragment) so the rest of
// this module walks one small Value sum type instead of either ion-go's
// native reader/writer calls or reflection-based struct tags.
package ionvalue

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"github.com/amazon-ion/ion-go/ion"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindTimestamp
	KindString
	KindSymbol
	KindBlob
	KindClob
	KindList
	KindSexp
	KindStruct
)

// Value is a tagged Ion value. Exactly one of the typed fields is
// meaningful, selected by Kind. Struct and annotation order is preserved
// because KFX fragments are read back by field-name lookup, not position,
// but annotations (e.g. "$ion_symbol_table", "$347" content-feature tags)
// are positionally significant on write.
type Value struct {
	Kind        Kind
	Annotations []string

	Bool      bool
	Int       int64
	BigInt    *big.Int // set instead of Int when the value overflows int64
	Float     float64
	Decimal   *ion.Decimal
	Timestamp time.Time
	Text      string // String or Symbol payload
	Bytes     []byte // Blob or Clob payload

	Items  []Value      // List or Sexp
	Fields []StructField // Struct, in source order
}

// StructField is one field of a Struct value.
type StructField struct {
	Name  string
	Value Value
}

// Null returns the Ion null value (typed null.null).
func Null() Value { return Value{Kind: KindNull} }

// String returns a string value with no annotations.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Symbol returns a symbol value carrying text (never a bare SID — SID
// resolution to text happens before a Value is constructed).
func Symbol(s string) Value { return Value{Kind: KindSymbol, Text: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Blob returns a binary blob value.
func Blob(b []byte) Value { return Value{Kind: KindBlob, Bytes: b} }

// List returns a list value.
func List(items ...Value) Value { return Value{Kind: KindList, Items: items} }

// Struct returns a struct value from ordered fields.
func Struct(fields ...StructField) Value { return Value{Kind: KindStruct, Fields: fields} }

// Field builds one StructField.
func Field(name string, v Value) StructField { return StructField{Name: name, Value: v} }

// Get returns the value of the first field named name, if any.
func (v Value) Get(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// IsNull reports whether v is Ion null (any type).
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Annotated returns v with the given annotations attached (replacing any
// existing ones), matching ion-go's positional annotation model.
func (v Value) Annotated(annotations ...string) Value {
	v.Annotations = annotations
	return v
}

// Decode reads a single top-level Ion value (with any prolog-provided
// symbol table already established on r) into a Value tree.
func Decode(r ion.Reader) (Value, error) {
	if !r.Next() {
		if err := r.Err(); err != nil {
			return Value{}, fmt.Errorf("ionvalue: decode: %w", err)
		}
		return Value{}, fmt.Errorf("ionvalue: decode: no value")
	}
	return decodeOne(r)
}

// DecodeAll reads every top-level value in the stream.
func DecodeAll(r ion.Reader) ([]Value, error) {
	var out []Value
	for r.Next() {
		v, err := decodeOne(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("ionvalue: decode all: %w", err)
	}
	return out, nil
}

func decodeOne(r ion.Reader) (Value, error) {
	var anns []string
	if a := r.Annotations(); len(a) > 0 {
		anns = make([]string, len(a))
		for i, tok := range a {
			anns[i] = tok.Text.String()
		}
	}

	if r.IsNull() {
		return Value{Kind: KindNull, Annotations: anns}, nil
	}

	switch r.Type() {
	case ion.BoolType:
		b, err := r.BoolValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBool, Bool: *b, Annotations: anns}, nil
	case ion.IntType:
		iv, err := r.BigIntValue()
		if err != nil {
			return Value{}, err
		}
		if iv.IsInt64() {
			return Value{Kind: KindInt, Int: iv.Int64(), Annotations: anns}, nil
		}
		return Value{Kind: KindInt, BigInt: iv, Annotations: anns}, nil
	case ion.FloatType:
		f, err := r.FloatValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloat, Float: *f, Annotations: anns}, nil
	case ion.DecimalType:
		d, err := r.DecimalValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDecimal, Decimal: d, Annotations: anns}, nil
	case ion.TimestampType:
		ts, err := r.TimestampValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTimestamp, Timestamp: ts.DateTime(), Annotations: anns}, nil
	case ion.StringType:
		s, err := r.StringValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Text: *s, Annotations: anns}, nil
	case ion.SymbolType:
		tok, err := r.SymbolValue()
		if err != nil {
			return Value{}, err
		}
		text := tok.Text.String()
		return Value{Kind: KindSymbol, Text: text, Annotations: anns}, nil
	case ion.BlobType:
		b, err := r.ByteValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBlob, Bytes: b, Annotations: anns}, nil
	case ion.ClobType:
		b, err := r.ByteValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindClob, Bytes: b, Annotations: anns}, nil
	case ion.ListType, ion.SexpType:
		if err := r.StepIn(); err != nil {
			return Value{}, err
		}
		var items []Value
		for r.Next() {
			item, err := decodeOne(r)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		if err := r.Err(); err != nil {
			return Value{}, err
		}
		if err := r.StepOut(); err != nil {
			return Value{}, err
		}
		k := KindList
		if r.Type() == ion.SexpType {
			k = KindSexp
		}
		return Value{Kind: k, Items: items, Annotations: anns}, nil
	case ion.StructType:
		if err := r.StepIn(); err != nil {
			return Value{}, err
		}
		var fields []StructField
		for r.Next() {
			name := r.FieldName().Text.String()
			fv, err := decodeOne(r)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, StructField{Name: name, Value: fv})
		}
		if err := r.Err(); err != nil {
			return Value{}, err
		}
		if err := r.StepOut(); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindStruct, Fields: fields, Annotations: anns}, nil
	default:
		return Value{}, fmt.Errorf("ionvalue: unsupported ion type %v", r.Type())
	}
}

// Encode writes v to w, including its annotations.
func Encode(w ion.Writer, v Value) error {
	if len(v.Annotations) > 0 {
		toks := make([]ion.SymbolToken, len(v.Annotations))
		for i, a := range v.Annotations {
			toks[i] = ion.NewSymbolTokenFromString(a)
		}
		if err := w.Annotations(toks...); err != nil {
			return err
		}
	}
	return encodeOne(w, v)
}

func encodeOne(w ion.Writer, v Value) error {
	switch v.Kind {
	case KindNull:
		return w.WriteNullType(ion.NullType)
	case KindBool:
		return w.WriteBool(v.Bool)
	case KindInt:
		if v.BigInt != nil {
			return w.WriteBigInt(v.BigInt)
		}
		return w.WriteInt(v.Int)
	case KindFloat:
		return w.WriteFloat(v.Float)
	case KindDecimal:
		return w.WriteDecimal(v.Decimal)
	case KindTimestamp:
		ts, err := ion.NewTimestampFromStr(v.Timestamp.Format(time.RFC3339Nano), ion.TimestampPrecisionNanosecond, ion.TimezoneLocal)
		if err != nil {
			return err
		}
		return w.WriteTimestamp(ts)
	case KindString:
		return w.WriteString(v.Text)
	case KindSymbol:
		return w.WriteSymbolFromString(v.Text)
	case KindBlob:
		return w.WriteBlob(v.Bytes)
	case KindClob:
		return w.WriteClob(v.Bytes)
	case KindList, KindSexp:
		begin, end := w.BeginList, w.EndList
		if v.Kind == KindSexp {
			begin, end = w.BeginSexp, w.EndSexp
		}
		if err := begin(); err != nil {
			return err
		}
		for _, item := range v.Items {
			if err := Encode(w, item); err != nil {
				return err
			}
		}
		return end()
	case KindStruct:
		if err := w.BeginStruct(); err != nil {
			return err
		}
		for _, f := range v.Fields {
			if err := w.FieldNameFromString(f.Name); err != nil {
				return err
			}
			if err := Encode(w, f.Value); err != nil {
				return err
			}
		}
		return w.EndStruct()
	default:
		return fmt.Errorf("ionvalue: unsupported kind %v", v.Kind)
	}
}

// MarshalBinary encodes v as a standalone Ion datagram (BVM + value, no
// shared symbol table — use Prolog.MarshalPayload for KFX fragments).
func MarshalBinary(v Value) ([]byte, error) {
	var buf bytes.Buffer
	w := ion.NewBinaryWriter(&buf)
	if err := Encode(w, v); err != nil {
		return nil, err
	}
	if err := w.Finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
