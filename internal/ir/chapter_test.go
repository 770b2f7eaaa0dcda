package ir

import "testing"

func TestChapterBuildAndWalk(t *testing.T) {
	c := NewChapter()
	p := c.AddNode(Root, RoleParagraph)
	c.AddText(p, "hello ")
	c.AddText(p, "world")

	kids := c.Children(Root)
	if len(kids) != 1 || kids[0] != p {
		t.Fatalf("Root children: got %v", kids)
	}

	texts := c.Children(p)
	if len(texts) != 2 {
		t.Fatalf("paragraph children: got %d want 2", len(texts))
	}
	if got := c.Text(texts[0]) + c.Text(texts[1]); got != "hello world" {
		t.Fatalf("text: got %q", got)
	}
}

func TestAddNodeRejectsVoidParent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic adding a child to a void role")
		}
	}()
	c := NewChapter()
	img := c.AddNode(Root, RoleImage)
	c.AddNode(img, RoleText)
}

func TestReplaceChildren(t *testing.T) {
	c := NewChapter()
	a := c.AddNode(Root, RoleParagraph)
	b := c.AddNode(Root, RoleParagraph)
	c.ReplaceChildren(Root, []NodeId{b, a})

	kids := c.Children(Root)
	if len(kids) != 2 || kids[0] != b || kids[1] != a {
		t.Fatalf("ReplaceChildren: got %v want [%v %v]", kids, b, a)
	}
}

func TestStylePoolInterning(t *testing.T) {
	pool := NewStylePool()
	s1 := ComputedStyle{Visible: true, FontSize: Length{Unit: LengthPx, Value: 16}}
	s2 := ComputedStyle{Visible: true, FontSize: Length{Unit: LengthPx, Value: 16}}
	s3 := ComputedStyle{Visible: true, FontSize: Length{Unit: LengthPx, Value: 18}}

	id1 := pool.Intern(s1)
	id2 := pool.Intern(s2)
	id3 := pool.Intern(s3)

	if id1 != id2 {
		t.Fatalf("equal styles should intern to the same id: %d != %d", id1, id2)
	}
	if id1 == id3 {
		t.Fatalf("distinct styles should intern to distinct ids")
	}
	if pool.Intern(DefaultComputedStyle()) != 0 {
		t.Fatalf("default style should always be StyleId(0)")
	}
}

func TestSemanticsTableSparse(t *testing.T) {
	tbl := NewSemanticsTable()
	if tbl.Has(5) {
		t.Fatal("unset node should report Has=false")
	}
	tbl.Mutate(5, func(s *Semantics) { s.Href = "chapter2.xhtml" })
	if !tbl.Has(5) {
		t.Fatal("node should report Has=true after Mutate")
	}
	if got := tbl.Get(5).Href; got != "chapter2.xhtml" {
		t.Fatalf("Href: got %q", got)
	}
}
