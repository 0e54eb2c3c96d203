// Package overview builds the pivoted expense overview of a project: header rows
// laid out from the category tree and per-period values rolled up through it.
//
// The package works on an in-memory adjacency structure loaded once per request.
// It never touches the database; callers feed it a Tree and a Ledger.
package overview

import (
	"cmp"
	"errors"
	"slices"
)

// MaxDepth bounds every walk over a Tree. Hitting it means the parent pointers
// form a cycle or the hierarchy is corrupt.
const MaxDepth = 50

// ErrDepthExceeded is returned when a walk goes deeper than MaxDepth.
var ErrDepthExceeded = errors.New("overview: category tree exceeds maximum depth")

// Node is a category as seen by the overview.
type Node struct {
	ID       string
	Name     string
	Color    string
	Order    int
	ParentID string
}

// Tree indexes the categories of one project by parent.
type Tree struct {
	nodes    map[string]*Node
	children map[string][]*Node
	roots    []*Node
}

// NewTree indexes nodes by parent. A node whose parent is missing from the set
// is treated as a root. Siblings are ordered by (Order, Name, ID).
func NewTree(nodes []Node) *Tree {
	t := &Tree{
		nodes:    make(map[string]*Node, len(nodes)),
		children: make(map[string][]*Node),
	}
	for i := range nodes {
		n := nodes[i]
		t.nodes[n.ID] = &n
	}
	for _, n := range t.nodes {
		if _, ok := t.nodes[n.ParentID]; n.ParentID != "" && ok {
			t.children[n.ParentID] = append(t.children[n.ParentID], n)
			continue
		}
		t.roots = append(t.roots, n)
	}
	slices.SortFunc(t.roots, compareSiblings)
	for _, kids := range t.children {
		slices.SortFunc(kids, compareSiblings)
	}
	return t
}

func compareSiblings(a, b *Node) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Len returns the number of categories in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node looks up a category by ID.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Roots returns the categories without a parent.
func (t *Tree) Roots() []*Node { return t.roots }

// Children returns the ordered children of n. A nil n yields the roots.
func (t *Tree) Children(n *Node) []*Node {
	if n == nil {
		return t.roots
	}
	return t.children[n.ID]
}

// HasChildren reports whether n has at least one child.
func (t *Tree) HasChildren(n *Node) bool { return len(t.Children(n)) > 0 }

// Parent returns the parent of n, or nil for a root.
func (t *Tree) Parent(n *Node) *Node {
	if n == nil || n.ParentID == "" {
		return nil
	}
	return t.nodes[n.ParentID]
}

// Descendants returns the IDs of id and every category below it, parents
// before children.
func (t *Tree) Descendants(id string) ([]string, error) {
	root, ok := t.nodes[id]
	if !ok {
		return nil, nil
	}
	levels, err := BuildLevels(t, root)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, level := range levels {
		for _, cell := range level {
			ids = append(ids, cell.Node.ID)
		}
	}
	return ids, nil
}
