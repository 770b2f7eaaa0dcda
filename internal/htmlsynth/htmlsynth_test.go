package htmlsynth

import (
	"strings"
	"testing"

	"ebookconv/internal/ir"
)

func TestSynthesizeParagraph(t *testing.T) {
	c := ir.NewChapter()
	p := c.AddNode(ir.Root, ir.RoleParagraph)
	c.AddText(p, "hello & <world>")

	html, _ := Synthesize(c, Options{})
	if !strings.Contains(html, "<p>") || !strings.Contains(html, "</p>") {
		t.Fatalf("missing <p> tags: %s", html)
	}
	if !strings.Contains(html, "hello &amp; &lt;world&gt;") {
		t.Fatalf("text not escaped: %s", html)
	}
}

func TestSynthesizeVoidTags(t *testing.T) {
	c := ir.NewChapter()
	img := c.AddNode(ir.Root, ir.RoleImage)
	c.Semantics.Mutate(img, func(s *ir.Semantics) { s.Src = "cover.jpg"; s.Alt = "cover" })

	html, assets := Synthesize(c, Options{})
	if !strings.Contains(html, `<img src="cover.jpg" alt="cover"/>`) {
		t.Fatalf("img tag: got %s", html)
	}
	if len(assets) != 1 || assets[0] != "cover.jpg" {
		t.Fatalf("assets: got %v", assets)
	}
}

func TestSynthesizeHeaderCell(t *testing.T) {
	c := ir.NewChapter()
	table := c.AddNode(ir.Root, ir.RoleTable)
	row := c.AddNode(table, ir.RoleTableRow)
	cell := c.AddNode(row, ir.RoleTableCell)
	c.Semantics.Mutate(cell, func(s *ir.Semantics) { s.IsHeaderCell = true; s.ColSpan = 2 })
	c.AddText(cell, "H")

	html, _ := Synthesize(c, Options{})
	if !strings.Contains(html, `<th colspan="2">`) {
		t.Fatalf("expected th with colspan: %s", html)
	}
}
