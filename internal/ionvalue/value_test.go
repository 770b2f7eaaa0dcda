package ionvalue

import (
	"testing"

	"github.com/amazon-ion/ion-go/ion"
)

func TestMarshalBinaryRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		v    Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"int", Int(42)},
		{"string", String("hello kfx")},
		{"symbol", Symbol("language")},
		{"list", List(Int(1), Int(2), Int(3))},
		{"struct", Struct(Field("id", Int(155)), Field("title", String("Chapter One")))},
		{"nested", Struct(Field("content", List(Struct(Field("type", String("paragraph"))))))},
		{"annotated", String("v").Annotated("$347")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := MarshalBinary(tc.v)
			if err != nil {
				t.Fatalf("MarshalBinary: %v", err)
			}
			r := ion.NewReaderBytes(b)
			got, err := Decode(r)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !equalValue(tc.v, got) {
				t.Fatalf("round trip mismatch: want %+v, got %+v", tc.v, got)
			}
		})
	}
}

func TestProlog(t *testing.T) {
	shared := ion.NewSharedSymbolTable("YJ_symbols", 10, []string{"$11", "$12", "$13"})
	p, err := NewProlog([]string{"my_local_symbol"}, shared)
	if err != nil {
		t.Fatalf("NewProlog: %v", err)
	}
	if len(p.DocSymbols) == 0 {
		t.Fatal("expected non-empty document symbols datagram")
	}

	payload, err := p.MarshalValue(Struct(Field("title", String("Chapter One"))))
	if err != nil {
		t.Fatalf("MarshalValue: %v", err)
	}

	full, err := WithProlog(p.Bytes, payload)
	if err != nil {
		t.Fatalf("WithProlog: %v", err)
	}
	r := ion.NewReaderBytes(full)
	v, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	title, ok := v.Get("title")
	if !ok || title.Text != "Chapter One" {
		t.Fatalf("expected title field, got %+v", v)
	}
}

func TestFindBVMOffsets(t *testing.T) {
	a, _ := MarshalBinary(String("a"))
	b, _ := MarshalBinary(String("b"))
	buf := append(append([]byte{}, a...), b...)

	offsets := FindBVMOffsets(buf)
	if len(offsets) != 2 {
		t.Fatalf("expected 2 BVM offsets, got %v", offsets)
	}
	if offsets[0] != 0 || offsets[1] != len(a) {
		t.Fatalf("unexpected offsets: %v (len(a)=%d)", offsets, len(a))
	}
}

func equalValue(a, b Value) bool {
	if a.Kind != b.Kind || len(a.Annotations) != len(b.Annotations) {
		return false
	}
	for i := range a.Annotations {
		if a.Annotations[i] != b.Annotations[i] {
			return false
		}
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindInt:
		return a.Int == b.Int
	case KindString, KindSymbol:
		return a.Text == b.Text
	case KindList, KindSexp:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !equalValue(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !equalValue(a.Fields[i].Value, b.Fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
