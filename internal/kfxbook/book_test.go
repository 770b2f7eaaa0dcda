package kfxbook

import (
	"fmt"
	"testing"

	"github.com/amazon-ion/ion-go/ion"

	"ebookconv/internal/ionvalue"
	"ebookconv/internal/ir"
	"ebookconv/internal/kfxcontainer"
	"ebookconv/internal/kfxschema"
	"ebookconv/internal/kfxsymbols"
)

// sharedYJSymbols mirrors kfxcontainer's unexported helper of the same
// name: a shared-table import whose Nth entry is "$<base+N>", so a local
// symbol table importing it resolves global SIDs the way kfxsymbols
// numbers them.
func sharedYJSymbols(maxKnown int) ion.SharedSymbolTable {
	base := kfxsymbols.IonSystemMaxID
	syms := make([]string, 0, maxKnown)
	for i := base + 1; i <= base+maxKnown; i++ {
		syms = append(syms, fmt.Sprintf("$%d", i))
	}
	return ion.NewSharedSymbolTable(kfxsymbols.Name, kfxsymbols.Version, syms)
}

func buildTestBook(t *testing.T) *Reader {
	t.Helper()

	chapter := ir.NewChapter()
	p := chapter.AddNode(ir.Root, ir.RoleParagraph)
	chapter.AddText(p, "Hello, book.")
	chapter.Semantics.Mutate(p, func(s *ir.Semantics) { s.ID = "intro" })
	content := kfxschema.EncodeChapter(chapter)

	meta := kfxschema.MetadataToIon(kfxschema.BookMetadata{Title: "Test Book", Authors: []string{"Ann Author"}})

	orders := []kfxschema.SpineOrder{{Name: "default", Sections: []string{"sec1"}}}
	toc := []kfxschema.TocEntry{{Title: "Chapter One", Href: "sec1#intro"}}
	landmarks := []kfxschema.Landmark{{Type: kfxschema.LandmarkTOC, Href: "sec1", Label: "Table of Contents"}}
	nav := kfxschema.NavigationToIon(orders, toc, landmarks)

	prolog, err := ionvalue.NewProlog([]string{"sec1", "story1", "book_meta", "book_nav", "cover.jpg"}, sharedYJSymbols(842))
	if err != nil {
		t.Fatalf("NewProlog: %v", err)
	}

	data, err := kfxcontainer.Pack(kfxcontainer.PackInput{
		ContainerInfo:      ionvalue.Struct(ionvalue.Field("$409", ionvalue.String("BOOK!TEST"))),
		FormatCapabilities: ionvalue.Struct(),
		Prolog:             prolog,
		Fragments: []kfxcontainer.Fragment{
			{FID: "sec1", FType: kfxsymbols.Section.Text(), Value: ionvalue.Struct(
				ionvalue.Field(kfxsymbols.StoryName.Text(), ionvalue.String("story1")),
			)},
			{FID: "story1", FType: kfxsymbols.Storyline.Text(), Value: ionvalue.Struct(
				ionvalue.Field(kfxsymbols.Content.Text(), content),
			)},
			{FID: "book_meta", FType: kfxsymbols.BookMetadata.Text(), Value: meta},
			{FID: "book_nav", FType: kfxsymbols.BookNavigation.Text(), Value: nav},
			{FID: "cover.jpg", FType: kfxsymbols.ExternalResrc.Text(), Value: ionvalue.Struct(
				ionvalue.Field("mime", ionvalue.String("image/jpeg")),
			)},
			{FID: "cover.jpg", FType: kfxsymbols.RawMedia.Text(), RawPayload: []byte{0xff, 0xd8, 0xff}},
		},
	})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return r
}

func TestReaderMetadata(t *testing.T) {
	r := buildTestBook(t)
	m := r.Metadata()
	if m.Title != "Test Book" || len(m.Authors) != 1 || m.Authors[0] != "Ann Author" {
		t.Fatalf("Metadata: got %+v", m)
	}
}

func TestReaderSpineAndTOC(t *testing.T) {
	r := buildTestBook(t)
	spine := r.Spine()
	if len(spine) != 1 || spine[0].ChapterID != "sec1" {
		t.Fatalf("Spine: got %+v", spine)
	}
	toc := r.TOC()
	if len(toc) != 1 || toc[0].Title != "Chapter One" || toc[0].Href != "sec1#intro" {
		t.Fatalf("TOC: got %+v", toc)
	}
	landmarks := r.Landmarks()
	if len(landmarks) != 1 || landmarks[0].Type != kfxschema.LandmarkTOC {
		t.Fatalf("Landmarks: got %+v", landmarks)
	}
}

func TestReaderLoadChapter(t *testing.T) {
	r := buildTestBook(t)
	chapter, err := r.LoadChapter("sec1")
	if err != nil {
		t.Fatalf("LoadChapter: %v", err)
	}
	children := chapter.Children(ir.Root)
	if len(children) != 1 || chapter.Nodes[children[0]].Role != ir.RoleParagraph {
		t.Fatalf("LoadChapter content: got %+v", children)
	}
}

func TestReaderLoadChapterMissing(t *testing.T) {
	r := buildTestBook(t)
	if _, err := r.LoadChapter("nope"); err == nil {
		t.Fatal("expected error for missing section")
	}
}

func TestReaderResolveHref(t *testing.T) {
	r := buildTestBook(t)

	section, node, ok := r.ResolveHref("sec1#intro")
	if !ok || section != "sec1" || node == ir.Root {
		t.Fatalf("ResolveHref with anchor: got %q %v %v", section, node, ok)
	}

	section, node, ok = r.ResolveHref("sec1")
	if !ok || section != "sec1" || node != ir.Root {
		t.Fatalf("ResolveHref without anchor: got %q %v %v", section, node, ok)
	}

	if _, _, ok := r.ResolveHref("sec1#missing"); ok {
		t.Fatal("expected resolve failure for unknown anchor")
	}
}

func TestReaderLoadAsset(t *testing.T) {
	r := buildTestBook(t)
	data, mime, err := r.LoadAsset("cover.jpg")
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}
	if mime != "image/jpeg" || len(data) != 3 {
		t.Fatalf("LoadAsset: got mime=%q data=%v", mime, data)
	}
	if _, _, err := r.LoadAsset("nope.jpg"); err == nil {
		t.Fatal("expected error for missing asset")
	}
}
