package kfxschema

import (
	"testing"

	"ebookconv/internal/ir"
)

func TestEncodeDecodeChapterRoundTrip(t *testing.T) {
	c := ir.NewChapter()
	p := c.AddNode(ir.Root, ir.RoleParagraph)
	style := ir.DefaultComputedStyle()
	style.FontWeight = ir.FontWeightBold
	style.Color = "#112233"
	c.SetStyle(p, c.Styles.Intern(style))
	c.AddText(p, "hello world")
	c.Semantics.Mutate(p, func(s *ir.Semantics) { s.ID = "intro" })

	wire := EncodeChapter(c)
	got := DecodeChapter(wire)

	children := got.Children(ir.Root)
	if len(children) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(children))
	}
	pid := children[0]
	if got.Nodes[pid].Role != ir.RoleParagraph {
		t.Fatalf("role mismatch: got %v", got.Nodes[pid].Role)
	}
	gotStyle := got.Styles.Get(got.Nodes[pid].Style)
	if gotStyle.FontWeight != ir.FontWeightBold || gotStyle.Color != "#112233" {
		t.Fatalf("style roundtrip: got %+v", gotStyle)
	}
	if got.Semantics.Get(pid).ID != "intro" {
		t.Fatalf("semantics roundtrip: got %+v", got.Semantics.Get(pid))
	}
	textChildren := got.Children(pid)
	if len(textChildren) != 1 || got.Text(textChildren[0]) != "hello world" {
		t.Fatalf("text roundtrip: got %v", textChildren)
	}
}

func TestNavigationRoundTrip(t *testing.T) {
	orders := []SpineOrder{{Name: "default", Sections: []string{"s1", "s2"}}}
	toc := []TocEntry{{Title: "Chapter One", Href: "s1", Children: []TocEntry{
		{Title: "Section 1.1", Href: "s1#sec1"},
	}}}
	landmarks := []Landmark{{Type: LandmarkTOC, Href: "s1#toc", Label: "Table of Contents"}}

	wire := NavigationToIon(orders, toc, landmarks)
	gotOrders, gotTOC, gotLandmarks := NavigationFromIon(wire)

	if len(gotOrders) != 1 || gotOrders[0].Name != "default" || len(gotOrders[0].Sections) != 2 {
		t.Fatalf("orders roundtrip: got %+v", gotOrders)
	}
	if len(gotTOC) != 1 || gotTOC[0].Title != "Chapter One" || len(gotTOC[0].Children) != 1 {
		t.Fatalf("toc roundtrip: got %+v", gotTOC)
	}
	if gotTOC[0].Children[0].Href != "s1#sec1" {
		t.Fatalf("toc child href: got %q", gotTOC[0].Children[0].Href)
	}
	if len(gotLandmarks) != 1 || gotLandmarks[0].Type != LandmarkTOC || gotLandmarks[0].Href != "s1#toc" {
		t.Fatalf("landmarks roundtrip: got %+v", gotLandmarks)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	m := BookMetadata{
		Title: "A Tale", Authors: []string{"Jane Doe"}, Publisher: "Acme",
		Language: "en", Identifier: "urn:isbn:123", Date: "2020-05-04",
		Contributors: []Contributor{{Name: "Ed Itor", Role: "edt"}},
		Collection:   &Collection{Name: "Series", Position: 2},
	}
	wire := MetadataToIon(m)
	got := MetadataFromIon(wire)

	if got.Title != m.Title || len(got.Authors) != 1 || got.Authors[0] != "Jane Doe" {
		t.Fatalf("metadata roundtrip: got %+v", got)
	}
	if len(got.Contributors) != 1 || got.Contributors[0].Name != "Ed Itor" {
		t.Fatalf("contributors roundtrip: got %+v", got.Contributors)
	}
	if got.Collection == nil || got.Collection.Name != "Series" {
		t.Fatalf("collection roundtrip: got %+v", got.Collection)
	}
}
