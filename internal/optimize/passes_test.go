package optimize

import (
	"testing"

	"ebookconv/internal/ir"
)

func TestWrapMixedContent(t *testing.T) {
	c := ir.NewChapter()
	c.AddText(ir.Root, "lead text")
	block := c.AddNode(ir.Root, ir.RoleParagraph)
	c.AddText(block, "inner")

	Run(c)

	kids := c.Children(ir.Root)
	if len(kids) != 2 {
		t.Fatalf("root children after wrap: got %d want 2 (%v)", len(kids), kids)
	}
	if c.Nodes[kids[0]].Role != ir.RoleContainer {
		t.Fatalf("first child: got %v want Container wrapping the inline run", c.Nodes[kids[0]].Role)
	}
}

func TestMergeAdjacentText(t *testing.T) {
	c := ir.NewChapter()
	p := c.AddNode(ir.Root, ir.RoleParagraph)
	c.AddText(p, "hello ")
	c.AddText(p, "world")

	mergeAdjacentText(c, ir.Root)

	kids := c.Children(p)
	if len(kids) != 1 {
		t.Fatalf("paragraph children after merge: got %d want 1", len(kids))
	}
	if got := c.Text(kids[0]); got != "hello world" {
		t.Fatalf("merged text: got %q", got)
	}
}

func TestNormalizeEmptyParagraphs(t *testing.T) {
	c := ir.NewChapter()
	c.AddNode(ir.Root, ir.RoleParagraph)
	kept := c.AddNode(ir.Root, ir.RoleParagraph)
	c.AddText(kept, "x")

	normalizeEmptyParagraphs(c, ir.Root)

	kids := c.Children(ir.Root)
	if len(kids) != 1 || kids[0] != kept {
		t.Fatalf("root children after normalize: got %v want [%v]", kids, kept)
	}
}

func TestHoistListItemSolitaryParagraph(t *testing.T) {
	c := ir.NewChapter()
	list := c.AddNode(ir.Root, ir.RoleUnorderedList)
	item := c.AddNode(list, ir.RoleListItem)
	p := c.AddNode(item, ir.RoleParagraph)
	c.AddText(p, "content")

	hoistListItemSolitaryParagraph(c, ir.Root)

	kids := c.Children(item)
	if len(kids) != 1 || c.Nodes[kids[0]].Role != ir.RoleText {
		t.Fatalf("list item children after hoist: got %v", kids)
	}
}

func TestUnwrapRedundantContainers(t *testing.T) {
	c := ir.NewChapter()
	outer := c.AddNode(ir.Root, ir.RoleContainer)
	inner := c.AddNode(outer, ir.RoleContainer)
	c.AddText(inner, "x")

	unwrapRedundantContainers(c, ir.Root)

	kids := c.Children(outer)
	if len(kids) != 1 || c.Nodes[kids[0]].Role != ir.RoleText {
		t.Fatalf("outer children after unwrap: got %v", kids)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	c := ir.NewChapter()
	block := c.AddNode(ir.Root, ir.RoleParagraph)
	c.AddText(block, "a")
	c.AddText(ir.Root, "b")

	Run(c)
	first := len(c.Nodes)
	Run(c)
	if len(c.Nodes) != first {
		t.Fatalf("Run is not idempotent: node count went from %d to %d", first, len(c.Nodes))
	}
}
