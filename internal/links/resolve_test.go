package links

import (
	"testing"

	"ebookconv/internal/ir"
)

func buildChapterWithLink(t *testing.T, href, targetID string) *ir.Chapter {
	t.Helper()
	c := ir.NewChapter()
	if targetID != "" {
		p := c.AddNode(ir.Root, ir.RoleParagraph)
		c.Semantics.Mutate(p, func(s *ir.Semantics) { s.ID = targetID })
	}
	link := c.AddNode(ir.Root, ir.RoleLink)
	c.AddText(link, "click")
	c.Semantics.Mutate(link, func(s *ir.Semantics) { s.Href = href })
	return c
}

func TestResolveInternalFragment(t *testing.T) {
	c := buildChapterWithLink(t, "#target", "target")
	res := Resolve([]Source{{ID: 0, Path: "c1.xhtml", Tree: c, IDs: map[string]ir.NodeId{"target": 1}}})

	link := findLink(c)
	target := res.Targets[GlobalNodeId{Chapter: 0, Node: link}]
	if target.Kind != TargetInternal {
		t.Fatalf("kind: got %v want Internal", target.Kind)
	}
	if !res.AnchorNodes[target.Node] {
		t.Fatal("resolved internal target should be recorded in AnchorNodes")
	}
}

func TestResolveExternal(t *testing.T) {
	c := buildChapterWithLink(t, "https://example.com/book", "")
	res := Resolve([]Source{{ID: 0, Path: "c1.xhtml", Tree: c}})
	link := findLink(c)
	target := res.Targets[GlobalNodeId{Chapter: 0, Node: link}]
	if target.Kind != TargetExternal || target.Href != "https://example.com/book" {
		t.Fatalf("got %+v", target)
	}
}

func TestResolveChapterLink(t *testing.T) {
	c1 := buildChapterWithLink(t, "c2.xhtml", "")
	c2 := ir.NewChapter()
	res := Resolve([]Source{
		{ID: 0, Path: "c1.xhtml", Tree: c1},
		{ID: 1, Path: "c2.xhtml", Tree: c2},
	})
	link := findLink(c1)
	target := res.Targets[GlobalNodeId{Chapter: 0, Node: link}]
	if target.Kind != TargetChapter || target.Chapter != 1 {
		t.Fatalf("got %+v", target)
	}
}

func TestResolveUnresolvedIsReported(t *testing.T) {
	c := buildChapterWithLink(t, "nowhere.xhtml#ghost", "")
	res := Resolve([]Source{{ID: 0, Path: "c1.xhtml", Tree: c}})
	link := findLink(c)
	target := res.Targets[GlobalNodeId{Chapter: 0, Node: link}]
	if target.Kind != TargetUnresolved {
		t.Fatalf("got %+v", target)
	}
	if len(res.Unresolved) != 1 {
		t.Fatalf("Unresolved: got %d want 1", len(res.Unresolved))
	}
}

func findLink(c *ir.Chapter) ir.NodeId {
	for id, n := range c.Nodes {
		if n.Role == ir.RoleLink {
			return ir.NodeId(id)
		}
	}
	return ir.NoNode
}
