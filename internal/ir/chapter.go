// Package ir implements the language-neutral document tree every
// ingestion front-end builds and every back-end consumes (spec §3.3):
// an arena of nodes addressed by NodeId, an interning text buffer, an
// interning style pool, and a sparse per-node semantics table.
//
// Grounded on the teacher's frag_storyline_* family, which builds a
// similar tree-shaped content model (paragraphs/runs/styles indexed by
// small integer handles rather than pointers) before flattening it to
// KFX fragments; this package generalizes that shape so HTML ingestion,
// the optimizer, and all three back-ends operate on one representation.
package ir

// NodeId indexes Chapter.Nodes. NodeId 0 is always the Root node.
type NodeId uint32

// NoNode is the zero value used for absent parent/child/sibling links.
const NoNode NodeId = 0

// Role is the closed set of node kinds (spec §3.3).
type Role int

const (
	RoleRoot Role = iota
	RoleContainer
	RoleParagraph
	RoleText
	RoleHeading1
	RoleHeading2
	RoleHeading3
	RoleHeading4
	RoleHeading5
	RoleHeading6
	RoleBlockQuote
	RoleOrderedList
	RoleUnorderedList
	RoleListItem
	RoleDefinitionList
	RoleDefinitionTerm
	RoleDefinitionDescription
	RoleCodeBlock
	RoleCaption
	RoleTable
	RoleTableHead
	RoleTableBody
	RoleTableRow
	RoleTableCell
	RoleFigure
	RoleSidebar
	RoleFootnote
	RoleImage // void
	RoleBreak // void
	RoleRule  // void
	RoleInline
	RoleLink
)

// Void reports whether role can never have children.
func (r Role) Void() bool {
	switch r {
	case RoleImage, RoleBreak, RoleRule:
		return true
	default:
		return false
	}
}

// HeadingLevel returns the heading level 1-6 for a RoleHeadingN, or 0 if
// r is not a heading role.
func (r Role) HeadingLevel() int {
	if r >= RoleHeading1 && r <= RoleHeading6 {
		return int(r-RoleHeading1) + 1
	}
	return 0
}

// HeadingRole returns the RoleHeadingN for level 1-6.
func HeadingRole(level int) Role {
	return RoleHeading1 + Role(level-1)
}

func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "Root"
	case RoleContainer:
		return "Container"
	case RoleParagraph:
		return "Paragraph"
	case RoleText:
		return "Text"
	case RoleHeading1, RoleHeading2, RoleHeading3, RoleHeading4, RoleHeading5, RoleHeading6:
		return "Heading"
	case RoleBlockQuote:
		return "BlockQuote"
	case RoleOrderedList:
		return "OrderedList"
	case RoleUnorderedList:
		return "UnorderedList"
	case RoleListItem:
		return "ListItem"
	case RoleDefinitionList:
		return "DefinitionList"
	case RoleDefinitionTerm:
		return "DefinitionTerm"
	case RoleDefinitionDescription:
		return "DefinitionDescription"
	case RoleCodeBlock:
		return "CodeBlock"
	case RoleCaption:
		return "Caption"
	case RoleTable:
		return "Table"
	case RoleTableHead:
		return "TableHead"
	case RoleTableBody:
		return "TableBody"
	case RoleTableRow:
		return "TableRow"
	case RoleTableCell:
		return "TableCell"
	case RoleFigure:
		return "Figure"
	case RoleSidebar:
		return "Sidebar"
	case RoleFootnote:
		return "Footnote"
	case RoleImage:
		return "Image"
	case RoleBreak:
		return "Break"
	case RoleRule:
		return "Rule"
	case RoleInline:
		return "Inline"
	case RoleLink:
		return "Link"
	default:
		return "Unknown"
	}
}

// TextSpan is an (offset, length) window into Chapter.text.
type TextSpan struct {
	Offset uint32
	Length uint32
}

// optionNode mirrors the spec's Option<NodeId>: NoNode doubles as "none"
// since NodeId 0 is reserved for Root and can never be a real sibling or
// child link target.
type optionNode = NodeId

// Node is one arena entry.
type Node struct {
	Role    Role
	Style   StyleId
	Text    TextSpan // meaningful iff Role == RoleText
	Parent  optionNode
	First   optionNode // first_child
	Next    optionNode // next_sibling
}

// Chapter is the arena-of-nodes IR (spec §3.3).
type Chapter struct {
	Nodes     []Node
	text      []byte
	Styles    *StylePool
	Semantics *SemanticsTable
}

// NewChapter returns an empty Chapter with its Root node allocated.
func NewChapter() *Chapter {
	c := &Chapter{
		Nodes:     []Node{{Role: RoleRoot}},
		Styles:    NewStylePool(),
		Semantics: NewSemanticsTable(),
	}
	return c
}

// AddNode appends a new node as the last child of parent and returns its
// id. Adding a child to a void role is a programmer error (callers must
// check Role.Void() before building void content) and panics, matching
// the invariant in spec §3.3 that void roles never have children.
func (c *Chapter) AddNode(parent NodeId, role Role) NodeId {
	if c.Nodes[parent].Role.Void() {
		panic("ir: cannot add child to void role " + c.Nodes[parent].Role.String())
	}
	id := NodeId(len(c.Nodes))
	c.Nodes = append(c.Nodes, Node{Role: role, Parent: parent})
	c.linkChild(parent, id)
	return id
}

// linkChild appends id to parent's sibling chain.
func (c *Chapter) linkChild(parent, id NodeId) {
	p := &c.Nodes[parent]
	if p.First == NoNode {
		p.First = id
		return
	}
	cur := p.First
	for c.Nodes[cur].Next != NoNode {
		cur = c.Nodes[cur].Next
	}
	c.Nodes[cur].Next = id
}

// AddText appends s to the shared text buffer and creates a Text leaf
// node under parent. Empty text is never interned as a node (spec §3.3:
// "Text nodes ... have non-empty text"); callers that need to represent
// empty inline content should simply omit the node.
func (c *Chapter) AddText(parent NodeId, s string) NodeId {
	if s == "" {
		panic("ir: AddText requires non-empty text")
	}
	offset := uint32(len(c.text))
	c.text = append(c.text, s...)
	id := NodeId(len(c.Nodes))
	c.Nodes = append(c.Nodes, Node{
		Role:   RoleText,
		Parent: parent,
		Text:   TextSpan{Offset: offset, Length: uint32(len(s))},
	})
	c.linkChild(parent, id)
	return id
}

// Text returns the text backing a Text node.
func (c *Chapter) Text(id NodeId) string {
	n := c.Nodes[id]
	return string(c.text[n.Text.Offset : n.Text.Offset+n.Text.Length])
}

// Children returns id's children in sibling order.
func (c *Chapter) Children(id NodeId) []NodeId {
	var out []NodeId
	for cur := c.Nodes[id].First; cur != NoNode; cur = c.Nodes[cur].Next {
		out = append(out, cur)
	}
	return out
}

// Root is the always-present root node id.
const Root NodeId = 0

// SetStyle assigns a style to a node.
func (c *Chapter) SetStyle(id NodeId, s StyleId) {
	c.Nodes[id].Style = s
}

// RemoveChild detaches child from parent's sibling chain without
// reparenting it — used by optimize passes that rebuild a subtree.
func (c *Chapter) RemoveChild(parent, child NodeId) {
	p := &c.Nodes[parent]
	if p.First == child {
		p.First = c.Nodes[child].Next
		c.Nodes[child].Next = NoNode
		return
	}
	cur := p.First
	for cur != NoNode && c.Nodes[cur].Next != child {
		cur = c.Nodes[cur].Next
	}
	if cur != NoNode {
		c.Nodes[cur].Next = c.Nodes[child].Next
		c.Nodes[child].Next = NoNode
	}
}

// AppendChild links child as the new last sibling under parent, setting
// child's Parent. Used by optimize passes rebuilding subtrees in place.
func (c *Chapter) AppendChild(parent, child NodeId) {
	c.Nodes[child].Parent = parent
	c.Nodes[child].Next = NoNode
	c.linkChild(parent, child)
}

// ReplaceChildren detaches all of parent's current children (without
// deleting their nodes from the arena — dangling, unreachable nodes are
// harmless, the arena never compacts) and relinks newChildren in order.
func (c *Chapter) ReplaceChildren(parent NodeId, newChildren []NodeId) {
	c.Nodes[parent].First = NoNode
	for _, ch := range newChildren {
		c.Nodes[ch].Next = NoNode
		c.AppendChild(parent, ch)
	}
}
