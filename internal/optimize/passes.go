// Package optimize implements the bottom-up, in-place IR rewrite passes
// (spec §4.5) that run after ingestion and before any back-end: wrap
// mixed content, unwrap redundant containers, merge adjacent text,
// normalize empty paragraphs, hoist a list item's solitary paragraph, and
// flatten trivial structural wrappers.
//
// Grounded on the teacher's frag_storyline_margins_tree.go /
// frag_storyline_margins_collapse.go family, which walks a content tree
// bottom-up collapsing/propagating structure in place before flattening
// to fragments; the passes here generalize that walk-and-rewrite shape to
// the codec-neutral ir.Chapter.
package optimize

import "ebookconv/internal/ir"

// Run applies every pass once, each bottom-up over the whole chapter.
// Passes are idempotent, so a second Run is always a no-op.
func Run(c *ir.Chapter) {
	wrapMixedContent(c, ir.Root)
	unwrapRedundantContainers(c, ir.Root)
	mergeAdjacentText(c, ir.Root)
	normalizeEmptyParagraphs(c, ir.Root)
	hoistListItemSolitaryParagraph(c, ir.Root)
	flattenTrivialWrappers(c, ir.Root)
}

func isInlineRole(r ir.Role) bool {
	switch r {
	case ir.RoleText, ir.RoleInline, ir.RoleLink, ir.RoleImage, ir.RoleBreak:
		return true
	default:
		return false
	}
}

func isBlockContainer(r ir.Role) bool {
	switch r {
	case ir.RoleRoot, ir.RoleContainer, ir.RoleBlockQuote, ir.RoleFigure, ir.RoleSidebar, ir.RoleFootnote:
		return true
	default:
		return false
	}
}

// wrapMixedContent groups each maximal run of consecutive inline children
// of a block container into a new Container node, so no block container
// ever mixes inline and block siblings (spec §4.5). Runs are processed in
// document order into a new child list, which then replaces the old one
// in a single ReplaceChildren call.
func wrapMixedContent(c *ir.Chapter, id ir.NodeId) {
	for _, child := range c.Children(id) {
		wrapMixedContent(c, child)
	}

	if !isBlockContainer(c.Nodes[id].Role) {
		return
	}
	children := c.Children(id)
	if len(children) < 2 {
		return
	}
	hasInline, hasBlock := false, false
	for _, ch := range children {
		if isInlineRole(c.Nodes[ch].Role) {
			hasInline = true
		} else {
			hasBlock = true
		}
	}
	if !hasInline || !hasBlock {
		return
	}

	var rewritten []ir.NodeId
	i := 0
	for i < len(children) {
		if !isInlineRole(c.Nodes[children[i]].Role) {
			rewritten = append(rewritten, children[i])
			i++
			continue
		}
		j := i
		for j < len(children) && isInlineRole(c.Nodes[children[j]].Role) {
			j++
		}
		wrapper := c.AddNode(id, ir.RoleContainer)
		for _, ch := range children[i:j] {
			c.AppendChild(wrapper, ch)
		}
		rewritten = append(rewritten, wrapper)
		i = j
	}
	c.ReplaceChildren(id, rewritten)
}

// unwrapRedundantContainers collapses a Container whose only child is
// itself a Container with an identical style into a single node.
func unwrapRedundantContainers(c *ir.Chapter, id ir.NodeId) {
	for _, child := range c.Children(id) {
		unwrapRedundantContainers(c, child)
	}
	if c.Nodes[id].Role != ir.RoleContainer {
		return
	}
	children := c.Children(id)
	if len(children) != 1 {
		return
	}
	only := children[0]
	if c.Nodes[only].Role != ir.RoleContainer || c.Nodes[only].Style != c.Nodes[id].Style {
		return
	}
	c.ReplaceChildren(id, c.Children(only))
}

// mergeAdjacentText joins consecutive Text siblings sharing a style by
// extending the earlier node's span to cover both and dropping the later
// one. Only siblings whose spans are contiguous in the shared text buffer
// are joined.
func mergeAdjacentText(c *ir.Chapter, id ir.NodeId) {
	for _, child := range c.Children(id) {
		mergeAdjacentText(c, child)
	}

	children := c.Children(id)
	if len(children) < 2 {
		return
	}
	var merged []ir.NodeId
	for _, ch := range children {
		if len(merged) > 0 {
			prev := merged[len(merged)-1]
			if c.Nodes[prev].Role == ir.RoleText && c.Nodes[ch].Role == ir.RoleText &&
				c.Nodes[prev].Style == c.Nodes[ch].Style &&
				c.Nodes[prev].Text.Offset+c.Nodes[prev].Text.Length == c.Nodes[ch].Text.Offset {
				c.Nodes[prev].Text.Length += c.Nodes[ch].Text.Length
				continue
			}
		}
		merged = append(merged, ch)
	}
	c.ReplaceChildren(id, merged)
}

// normalizeEmptyParagraphs drops Paragraph nodes with no text and no
// non-empty children.
func normalizeEmptyParagraphs(c *ir.Chapter, id ir.NodeId) {
	for _, child := range c.Children(id) {
		normalizeEmptyParagraphs(c, child)
	}

	var kept []ir.NodeId
	for _, ch := range c.Children(id) {
		if c.Nodes[ch].Role == ir.RoleParagraph && len(c.Children(ch)) == 0 {
			continue
		}
		kept = append(kept, ch)
	}
	c.ReplaceChildren(id, kept)
}

// hoistListItemSolitaryParagraph promotes a ListItem's single Paragraph
// child's contents directly under the ListItem.
func hoistListItemSolitaryParagraph(c *ir.Chapter, id ir.NodeId) {
	for _, child := range c.Children(id) {
		hoistListItemSolitaryParagraph(c, child)
	}
	if c.Nodes[id].Role != ir.RoleListItem {
		return
	}
	children := c.Children(id)
	if len(children) != 1 || c.Nodes[children[0]].Role != ir.RoleParagraph {
		return
	}
	c.ReplaceChildren(id, c.Children(children[0]))
}

// flattenTrivialWrappers strips a Container whose original element was a
// body/section/article/main wrapper — recognized here as a Container with
// the default style (StyleId 0), a block-container parent, and only
// block-level children — replacing it with its children. Ingestion maps all of these
// tags to RoleContainer, so the distinguishing signal downstream is
// structural: a Container that does nothing but group is redundant once
// wrapMixedContent has already isolated any inline runs.
func flattenTrivialWrappers(c *ir.Chapter, id ir.NodeId) {
	for _, child := range c.Children(id) {
		flattenTrivialWrappers(c, child)
	}
	if c.Nodes[id].Role != ir.RoleContainer || id == ir.Root {
		return
	}
	parent := c.Nodes[id].Parent
	if !isBlockContainer(c.Nodes[parent].Role) {
		return
	}
	if c.Nodes[id].Style != 0 {
		return
	}
	children := c.Children(id)
	for _, ch := range children {
		if isInlineRole(c.Nodes[ch].Role) {
			return
		}
	}
	siblings := c.Children(parent)
	var rewritten []ir.NodeId
	for _, s := range siblings {
		if s == id {
			rewritten = append(rewritten, children...)
			continue
		}
		rewritten = append(rewritten, s)
	}
	c.ReplaceChildren(parent, rewritten)
}
