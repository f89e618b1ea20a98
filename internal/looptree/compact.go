package looptree

// Compact returns a compacted copy of the tree; the receiver is unchanged.
//
// The vertical pass merges every non-root node whose only child is itself a
// loop into that child, so a helix of stacked pairs becomes a single node.
// The horizontal pass then reduces each run of consecutive leaf siblings to
// its last leaf. The result keeps the nesting order of loops and the
// presence of unpaired runs but not their lengths.
func (t *Tree) Compact() *Tree {
	c := t.Clone()
	c.compactVertical()
	c.compactHorizontal()
	return c.rebuild()
}

func (t *Tree) compactVertical() {
	stack := []NodeID{Root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, v := range t.nodes[id].children {
			for {
				n := &t.nodes[v]
				if len(n.children) != 1 || t.IsLeaf(n.children[0]) {
					break
				}
				only := t.nodes[n.children[0]]
				n.label = only.label
				n.children = append([]NodeID(nil), only.children...)
				for _, gc := range n.children {
					t.nodes[gc].parent = v
				}
			}
			stack = append(stack, v)
		}
	}
}

func (t *Tree) compactHorizontal() {
	stack := []NodeID{Root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children := t.nodes[id].children
		kept := make([]NodeID, 0, len(children))
		for i, c := range children {
			if i+1 < len(children) && t.IsLeaf(c) && t.IsLeaf(children[i+1]) {
				continue
			}
			kept = append(kept, c)
		}
		t.nodes[id].children = kept
		stack = append(stack, kept...)
	}
}

// rebuild copies the nodes reachable from the root into a fresh arena in
// pre-order, dropping nodes detached by compaction.
func (t *Tree) rebuild() *Tree {
	type frame struct {
		old    NodeID
		parent NodeID
	}

	out := New()
	stack := pushChildren(nil, t.nodes[Root].children, func(id NodeID) frame { return frame{old: id, parent: Root} })
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := out.AddChild(f.parent, t.nodes[f.old].label)
		stack = pushChildren(stack, t.nodes[f.old].children, func(c NodeID) frame { return frame{old: c, parent: id} })
	}
	return out
}
