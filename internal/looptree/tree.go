// Package looptree provides an ordered multi-way tree over interval labels
// used to describe the loop nesting of an RNA secondary structure.
//
// Nodes are stored in an arena and addressed by NodeID. The synthetic root
// is always node 0, labelled (-1, -1), and has no parent.
package looptree

import (
	"fmt"
	"strings"
)

// Interval labels a node: a paired region (Start, End) or an unpaired
// position (p, p).
type Interval struct {
	Start, End int
}

// RootLabel is the label of the synthetic root.
var RootLabel = Interval{Start: -1, End: -1}

func (iv Interval) String() string {
	return fmt.Sprintf("(%d, %d)", iv.Start, iv.End)
}

// NodeID addresses a node in a Tree.
type NodeID int

// Root is the ID of the root node of every tree.
const Root NodeID = 0

type node struct {
	label    Interval
	parent   NodeID
	root     bool
	children []NodeID
}

// Tree is an arena-backed ordered tree.
type Tree struct {
	nodes []node
}

// New returns a tree holding only the root.
func New() *Tree {
	return &Tree{nodes: []node{{label: RootLabel, parent: -1, root: true}}}
}

// AddChild appends a child with the given label under parent and returns
// its ID.
func (t *Tree) AddChild(parent NodeID, label Interval) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{label: label, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Label returns the interval label of a node.
func (t *Tree) Label(id NodeID) Interval { return t.nodes[id].label }

// Children returns the ordered children of a node.
func (t *Tree) Children(id NodeID) []NodeID {
	out := make([]NodeID, len(t.nodes[id].children))
	copy(out, t.nodes[id].children)
	return out
}

// Parent returns the parent of a node; ok is false for the root.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	if t.nodes[id].root {
		return 0, false
	}
	return t.nodes[id].parent, true
}

// IsRoot reports whether id is the root.
func (t *Tree) IsRoot(id NodeID) bool { return t.nodes[id].root }

// IsLeaf reports whether a node has no children.
func (t *Tree) IsLeaf(id NodeID) bool { return len(t.nodes[id].children) == 0 }

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	c := &Tree{nodes: make([]node, len(t.nodes))}
	for i, n := range t.nodes {
		n.children = append([]NodeID(nil), n.children...)
		c.nodes[i] = n
	}
	return c
}

// DotBracket serializes the tree: a node with children becomes '(' children
// ')', a childless node becomes '.'. The root contributes no brackets.
func (t *Tree) DotBracket() string {
	type frame struct {
		id    NodeID
		close bool
	}

	var sb strings.Builder
	stack := pushChildren(nil, t.nodes[Root].children, func(id NodeID) frame { return frame{id: id} })
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case f.close:
			sb.WriteByte(')')
		case t.IsLeaf(f.id):
			sb.WriteByte('.')
		default:
			sb.WriteByte('(')
			stack = append(stack, frame{id: f.id, close: true})
			stack = pushChildren(stack, t.nodes[f.id].children, func(id NodeID) frame { return frame{id: id} })
		}
	}
	return sb.String()
}

// Equal reports whether both trees have the same architecture, i.e. the
// same dot-bracket serialization.
func (t *Tree) Equal(other *Tree) bool {
	return t.DotBracket() == other.DotBracket()
}

// pushChildren pushes children in reverse so the first child is popped
// first.
func pushChildren[F any](stack []F, children []NodeID, mk func(NodeID) F) []F {
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, mk(children[i]))
	}
	return stack
}
