package kfxcontainer

import (
	"testing"

	"ebookconv/internal/ionvalue"
)

func TestPackOpenRoundTrip(t *testing.T) {
	prolog, err := ionvalue.NewProlog([]string{"section1", "storyline1"}, sharedYJSymbols(842))
	if err != nil {
		t.Fatalf("NewProlog: %v", err)
	}

	in := PackInput{
		ContainerInfo:      ionvalue.Struct(ionvalue.Field("$409", ionvalue.String("BOOK!TEST"))),
		FormatCapabilities: ionvalue.Struct(),
		Prolog:             prolog,
		Fragments: []Fragment{
			{FID: "section1", FType: "$260", Value: ionvalue.Struct(ionvalue.Field("$155", ionvalue.String("section1")))},
			{FID: "storyline1", FType: "$259", Value: ionvalue.Struct(ionvalue.Field("$155", ionvalue.String("storyline1")))},
		},
	}

	data, err := Pack(in)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	c, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if c.ContainerID != "BOOK!TEST" {
		t.Fatalf("ContainerID: got %q", c.ContainerID)
	}
	if len(c.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(c.Fragments))
	}

	byFID := map[string]Fragment{}
	for _, f := range c.Fragments {
		byFID[f.FID] = f
	}
	section, ok := byFID["section1"]
	if !ok {
		t.Fatalf("missing section1 fragment, got %+v", byFID)
	}
	if section.FType != "$260" {
		t.Fatalf("section1 FType: got %q want $260", section.FType)
	}
	id, ok := section.Value.Get("$155")
	if !ok || id.Text != "section1" {
		t.Fatalf("section1 $155: got %+v", id)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	if _, err := Open([]byte("not a kfx file at all")); err == nil {
		t.Fatal("expected error for invalid magic")
	}
}

func TestOpenRejectsTruncated(t *testing.T) {
	if _, err := Open([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated input")
	}
}
