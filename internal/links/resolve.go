// Package links resolves every Role::Link's href into an AnchorTarget
// across the whole book and tracks which nodes are link targets (spec
// §4.6), so back-ends can decide whether to emit an anchor marker.
package links

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"ebookconv/internal/ir"
)

// ChapterId identifies one chapter within a book's spine order.
type ChapterId int

// GlobalNodeId addresses a node in a specific chapter, since ir.NodeId
// alone is only unique within one Chapter's arena.
type GlobalNodeId struct {
	Chapter ChapterId
	Node    ir.NodeId
}

// TargetKind is the closed AnchorTarget variant set (spec §4.6).
type TargetKind int

const (
	TargetExternal TargetKind = iota
	TargetChapter
	TargetInternal
	TargetUnresolved
)

// AnchorTarget is the resolved destination of one link.
type AnchorTarget struct {
	Kind    TargetKind
	Href    string       // raw href, kept for External and Unresolved
	Chapter ChapterId    // meaningful iff Kind == TargetChapter
	Node    GlobalNodeId // meaningful iff Kind == TargetInternal
}

// Source is one chapter's contribution to the book-wide index: its
// source path (used to resolve relative hrefs and to recognize chapter-
// only links), its IR, and the element-id -> NodeId map htmlingest
// produced for it.
type Source struct {
	ID   ChapterId
	Path string
	Tree *ir.Chapter
	IDs  map[string]ir.NodeId
}

// Result is the book-wide outcome of resolving every link.
type Result struct {
	Targets     map[GlobalNodeId]AnchorTarget
	AnchorNodes map[GlobalNodeId]bool // nodes that are the destination of some Internal link
	Unresolved  []string              // "source path -> href", naturally sorted for stable diagnostics
}

var externalSchemes = []string{"http:", "https:", "mailto:", "tel:"}

// Resolve runs the full book-wide link resolution algorithm (spec §4.6):
// build the (path, id) -> GlobalNodeId index, then resolve every link
// node's href against it.
func Resolve(sources []Source) Result {
	pathToChapter := make(map[string]ChapterId, len(sources))
	idIndex := make(map[string]GlobalNodeId) // "path#id" -> target
	for _, src := range sources {
		pathToChapter[src.Path] = src.ID
		for id, nodeID := range src.IDs {
			idIndex[src.Path+"#"+id] = GlobalNodeId{Chapter: src.ID, Node: nodeID}
		}
	}

	res := Result{
		Targets:     make(map[GlobalNodeId]AnchorTarget),
		AnchorNodes: make(map[GlobalNodeId]bool),
	}
	var unresolved []string

	for _, src := range sources {
		walkLinks(src.Tree, ir.Root, func(linkID ir.NodeId) {
			href := src.Tree.Semantics.Get(linkID).Href
			gid := GlobalNodeId{Chapter: src.ID, Node: linkID}
			target := resolveOne(href, src.Path, pathToChapter, idIndex)
			res.Targets[gid] = target
			if target.Kind == TargetInternal {
				res.AnchorNodes[target.Node] = true
			}
			if target.Kind == TargetUnresolved {
				unresolved = append(unresolved, src.Path+" -> "+href)
			}
		})
	}

	sort.Sort(natural.StringSlice(unresolved))
	res.Unresolved = unresolved
	return res
}

func resolveOne(href, fromPath string, pathToChapter map[string]ChapterId, idIndex map[string]GlobalNodeId) AnchorTarget {
	href = strings.TrimSpace(href)
	if href == "" {
		return AnchorTarget{Kind: TargetUnresolved, Href: href}
	}
	for _, scheme := range externalSchemes {
		if strings.HasPrefix(strings.ToLower(href), scheme) {
			return AnchorTarget{Kind: TargetExternal, Href: href}
		}
	}

	file, fragment, hasFragment := strings.Cut(href, "#")
	if file == "" {
		file = fromPath
	} else {
		file = resolveRelative(fromPath, file)
	}

	if hasFragment {
		if gid, ok := idIndex[file+"#"+fragment]; ok {
			return AnchorTarget{Kind: TargetInternal, Node: gid}
		}
		return AnchorTarget{Kind: TargetUnresolved, Href: href}
	}

	if chID, ok := pathToChapter[file]; ok {
		return AnchorTarget{Kind: TargetChapter, Chapter: chID}
	}
	return AnchorTarget{Kind: TargetUnresolved, Href: href}
}

// resolveRelative joins a possibly-relative file reference against the
// directory of the linking chapter's own path; ebook manifests are always
// flat or one level deep so a simple "strip to last slash, rewrite ../
// and ./" suffices.
func resolveRelative(fromPath, ref string) string {
	if strings.HasPrefix(ref, "/") {
		return strings.TrimPrefix(ref, "/")
	}
	dir := ""
	if i := strings.LastIndexByte(fromPath, '/'); i >= 0 {
		dir = fromPath[:i+1]
	}
	for strings.HasPrefix(ref, "../") {
		ref = strings.TrimPrefix(ref, "../")
		if i := strings.LastIndexByte(strings.TrimSuffix(dir, "/"), '/'); i >= 0 {
			dir = dir[:i+1]
		} else {
			dir = ""
		}
	}
	ref = strings.TrimPrefix(ref, "./")
	return dir + ref
}

// walkLinks calls fn for every Role::Link node in the tree, in document
// order.
func walkLinks(c *ir.Chapter, id ir.NodeId, fn func(ir.NodeId)) {
	if c.Nodes[id].Role == ir.RoleLink {
		fn(id)
	}
	for _, ch := range c.Children(id) {
		walkLinks(c, ch, fn)
	}
}
