package kfxexport

import (
	"testing"

	"ebookconv/internal/ir"
	"ebookconv/internal/kfxbook"
	"ebookconv/internal/kfxschema"
)

func buildTestBook() Book {
	ch1 := ir.NewChapter()
	p1 := ch1.AddNode(ir.Root, ir.RoleParagraph)
	ch1.AddText(p1, "See the note below.")
	link := ch1.AddNode(p1, ir.RoleLink)
	ch1.AddText(link, "note")
	ch1.Semantics.Mutate(link, func(s *ir.Semantics) { s.Href = "ch2#note1" })

	ch2 := ir.NewChapter()
	p2 := ch2.AddNode(ir.Root, ir.RoleFootnote)
	ch2.AddText(p2, "Here is the note.")
	ch2.Semantics.Mutate(p2, func(s *ir.Semantics) { s.ID = "note1" })

	return Book{
		ContainerID: "BOOK!TESTEXPORT",
		Chapters: []Chapter{
			{ID: "ch1", Tree: ch1},
			{ID: "ch2", Tree: ch2},
		},
		Metadata: kfxschema.BookMetadata{Title: "Exported Book", Authors: []string{"Export Author"}},
		TOC: []kfxschema.TocEntry{
			{Title: "Chapter One", Href: "ch1"},
			{Title: "Chapter Two", Href: "ch2"},
		},
		Landmarks: []kfxschema.Landmark{{Type: kfxschema.LandmarkTOC, Href: "ch1", Label: "Table of Contents"}},
		Assets:    []Asset{{Name: "cover.jpg", MIME: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}},
	}
}

func TestExportProducesOpenableContainer(t *testing.T) {
	data, err := Export(buildTestBook())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	r, err := kfxbook.Open(data)
	if err != nil {
		t.Fatalf("Open exported container: %v", err)
	}

	meta := r.Metadata()
	if meta.Title != "Exported Book" || len(meta.Authors) != 1 || meta.Authors[0] != "Export Author" {
		t.Fatalf("Metadata: got %+v", meta)
	}

	spine := r.Spine()
	if len(spine) != 2 || spine[0].ChapterID != "section_ch1" || spine[1].ChapterID != "section_ch2" {
		t.Fatalf("Spine: got %+v", spine)
	}

	toc := r.TOC()
	if len(toc) != 2 || toc[0].Href != "section_ch1" {
		t.Fatalf("TOC: got %+v", toc)
	}

	data2, _, err := r.LoadAsset("cover.jpg")
	if err != nil || len(data2) != 3 {
		t.Fatalf("LoadAsset: got %v err %v", data2, err)
	}
}

func TestExportRewritesCrossChapterLink(t *testing.T) {
	book := buildTestBook()
	data, err := Export(book)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	r, err := kfxbook.Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	chapter, err := r.LoadChapter("section_ch1")
	if err != nil {
		t.Fatalf("LoadChapter: %v", err)
	}
	p := chapter.Children(ir.Root)[0]
	linkChildren := chapter.Children(p)
	if len(linkChildren) != 2 {
		t.Fatalf("expected text + link children, got %d", len(linkChildren))
	}
	linkNode := linkChildren[1]
	if chapter.Nodes[linkNode].Role != ir.RoleLink {
		t.Fatalf("expected link role, got %v", chapter.Nodes[linkNode].Role)
	}
	href := chapter.Semantics.Get(linkNode).Href
	if href != "section_ch2#note1" {
		t.Fatalf("expected resolved cross-chapter href, got %q", href)
	}

	section, node, ok := r.ResolveHref(href)
	if !ok || section != "section_ch2" || node == ir.Root {
		t.Fatalf("ResolveHref(%q): got %q %v %v", href, section, node, ok)
	}
}
