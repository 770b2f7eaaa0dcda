package htmlingest

import (
	"testing"

	"ebookconv/internal/ir"
)

func TestIngestBasicStructure(t *testing.T) {
	html := []byte(`<html><body>
		<h1 id="top">Title</h1>
		<p class="lead">Hello <em>world</em>.</p>
		<ul><li>one</li><li>two</li></ul>
	</body></html>`)

	res, err := Ingest(Source{Path: "chapter1.xhtml", HTML: html}, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	c := res.Chapter

	kids := c.Children(ir.Root)
	if len(kids) != 3 {
		t.Fatalf("root children: got %d want 3 (%v)", len(kids), kids)
	}
	if c.Nodes[kids[0]].Role != ir.RoleHeading1 {
		t.Fatalf("first child role: got %v want Heading1", c.Nodes[kids[0]].Role)
	}
	if got, want := res.IDs["top"], kids[0]; got != want {
		t.Fatalf("id index: got %v want %v", got, want)
	}

	p := kids[1]
	if c.Nodes[p].Role != ir.RoleParagraph {
		t.Fatalf("second child role: got %v want Paragraph", c.Nodes[p].Role)
	}
	pkids := c.Children(p)
	if len(pkids) != 3 {
		t.Fatalf("paragraph children: got %d want 3 (text, em, text) (%v)", len(pkids), pkids)
	}

	list := kids[2]
	if c.Nodes[list].Role != ir.RoleUnorderedList {
		t.Fatalf("third child role: got %v want UnorderedList", c.Nodes[list].Role)
	}
	if items := c.Children(list); len(items) != 2 {
		t.Fatalf("list items: got %d want 2", len(items))
	}
}

func TestIngestDisplayNoneSkipsSubtree(t *testing.T) {
	html := []byte(`<html><body><p style="display:none">hidden</p><p>shown</p></body></html>`)
	res, err := Ingest(Source{Path: "c.xhtml", HTML: html}, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	kids := res.Chapter.Children(ir.Root)
	if len(kids) != 1 {
		t.Fatalf("root children: got %d want 1 (display:none should drop its subtree)", len(kids))
	}
}

func TestIngestCascadeSpecificity(t *testing.T) {
	html := []byte(`<html><body><p id="x" class="a">text</p></body></html>`)
	css := []byte(`p{color:black} .a{color:blue} #x{color:red}`)
	res, err := Ingest(Source{Path: "c.xhtml", HTML: html, Stylesheets: [][]byte{css}}, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	p := res.Chapter.Children(ir.Root)[0]
	style := res.Chapter.Styles.Get(res.Chapter.Nodes[p].Style)
	if style.Color != "red" {
		t.Fatalf("cascade: got color %q want red (id beats class beats tag)", style.Color)
	}
}

func TestIngestInlineStyleWins(t *testing.T) {
	html := []byte(`<html><body><p id="x" style="color:green">text</p></body></html>`)
	css := []byte(`#x{color:red}`)
	res, err := Ingest(Source{Path: "c.xhtml", HTML: html, Stylesheets: [][]byte{css}}, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	p := res.Chapter.Children(ir.Root)[0]
	style := res.Chapter.Styles.Get(res.Chapter.Nodes[p].Style)
	if style.Color != "green" {
		t.Fatalf("inline style: got color %q want green", style.Color)
	}
}

func TestIngestWhitespaceCollapse(t *testing.T) {
	html := []byte("<html><body><p>a   \n\t  b</p></body></html>")
	res, err := Ingest(Source{Path: "c.xhtml", HTML: html}, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	p := res.Chapter.Children(ir.Root)[0]
	txt := res.Chapter.Children(p)
	if len(txt) != 1 {
		t.Fatalf("text children: got %d want 1", len(txt))
	}
	if got := res.Chapter.Text(txt[0]); got != "a b" {
		t.Fatalf("whitespace collapse: got %q want %q", got, "a b")
	}
}

func TestIngestTableCellSemantics(t *testing.T) {
	html := []byte(`<html><body><table><tr><th colspan="2">H</th></tr><tr><td>d</td></tr></table></body></html>`)
	res, err := Ingest(Source{Path: "c.xhtml", HTML: html}, nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	table := res.Chapter.Children(ir.Root)[0]
	row := res.Chapter.Children(table)[0]
	cell := res.Chapter.Children(row)[0]
	sem := res.Chapter.Semantics.Get(cell)
	if !sem.IsHeaderCell || sem.ColSpan != 2 {
		t.Fatalf("th semantics: got %+v", sem)
	}
}
