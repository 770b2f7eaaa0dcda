package mdrender

import (
	"strings"
	"testing"

	"ebookconv/internal/ir"
)

func TestRenderParagraphEscaping(t *testing.T) {
	c := ir.NewChapter()
	p := c.AddNode(ir.Root, ir.RoleParagraph)
	c.AddText(p, "1. item *bold*")

	res := Render(c, Options{})
	if !strings.Contains(res.Markdown, `1\. item \*bold\*`) {
		t.Fatalf("escaping: got %q", res.Markdown)
	}
}

func TestRenderTightList(t *testing.T) {
	c := ir.NewChapter()
	list := c.AddNode(ir.Root, ir.RoleUnorderedList)
	for _, text := range []string{"one", "two"} {
		item := c.AddNode(list, ir.RoleListItem)
		p := c.AddNode(item, ir.RoleParagraph)
		c.AddText(p, text)
	}

	res := Render(c, Options{})
	if strings.Contains(res.Markdown, "\n\n- two") {
		t.Fatalf("tight list should have no blank line between items: %q", res.Markdown)
	}
	if !strings.Contains(res.Markdown, "- one") || !strings.Contains(res.Markdown, "- two") {
		t.Fatalf("missing list items: %q", res.Markdown)
	}
}

func TestRenderCodeFenceWidensOnEmbeddedBackticks(t *testing.T) {
	c := ir.NewChapter()
	code := c.AddNode(ir.Root, ir.RoleCodeBlock)
	c.AddText(code, "has ```triple``` ticks")

	res := Render(c, Options{})
	if !strings.Contains(res.Markdown, "````\nhas") {
		t.Fatalf("expected 4-backtick fence: %q", res.Markdown)
	}
}

func TestRenderFootnoteReference(t *testing.T) {
	c := ir.NewChapter()
	p := c.AddNode(ir.Root, ir.RoleParagraph)
	c.AddText(p, "see")
	fn := c.AddNode(p, ir.RoleFootnote)
	c.AddText(fn, "note body")

	res := Render(c, Options{})
	if !strings.Contains(res.Markdown, "[^1]") {
		t.Fatalf("missing footnote ref: %q", res.Markdown)
	}
	if len(res.Footnotes) != 1 || res.Footnotes[0].Body != "note body" {
		t.Fatalf("footnotes: got %+v", res.Footnotes)
	}
}

func TestRenderHeadingSlugAnchor(t *testing.T) {
	c := ir.NewChapter()
	h := c.AddNode(ir.Root, ir.RoleHeading1)
	c.AddText(h, "Chapter One")

	res := Render(c, Options{})
	if !strings.Contains(res.Markdown, `<a id="chapter-one"></a>`) {
		t.Fatalf("heading slug anchor: got %q", res.Markdown)
	}
}
