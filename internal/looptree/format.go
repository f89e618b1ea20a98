package looptree

import (
	"fmt"
	"io"
	"strings"
)

const (
	markerStr     = "+- "
	emptyStr      = "   "
	connectionStr = "|  "
)

// Format renders the tree one node per line with "+- " branch markers.
// With tuples set, nodes print their interval; otherwise they print R
// (root), N (inner node) or L (leaf).
func (t *Tree) Format(tuples bool) string {
	type frame struct {
		id      NodeID
		markers []bool // per ancestor level: whether a sibling follows
	}

	var sb strings.Builder
	stack := []frame{{id: Root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		level := len(f.markers)
		if level > 0 {
			for _, draw := range f.markers[:level-1] {
				if draw {
					sb.WriteString(connectionStr)
				} else {
					sb.WriteString(emptyStr)
				}
			}
			sb.WriteString(markerStr)
		}
		sb.WriteString(t.nodeText(f.id, tuples))
		sb.WriteByte('\n')

		children := t.nodes[f.id].children
		for i := len(children) - 1; i >= 0; i-- {
			markers := make([]bool, level+1)
			copy(markers, f.markers)
			markers[level] = i < len(children)-1
			stack = append(stack, frame{id: children[i], markers: markers})
		}
	}
	return sb.String()
}

// Fprint writes Format(tuples) to w.
func (t *Tree) Fprint(w io.Writer, tuples bool) error {
	_, err := io.WriteString(w, t.Format(tuples))
	return err
}

func (t *Tree) nodeText(id NodeID, tuples bool) string {
	switch {
	case tuples:
		return t.nodes[id].label.String()
	case t.IsRoot(id):
		return "R"
	case t.IsLeaf(id):
		return "L"
	default:
		return "N"
	}
}

// Parse builds a tree from a dot-bracket string. Each '(' opens a node
// labelled with the bracket pair, each '.' adds a leaf (p, p).
func Parse(db string) (*Tree, error) {
	t := New()
	open := []NodeID{Root}
	for i, c := range db {
		cur := open[len(open)-1]
		switch c {
		case '.':
			t.AddChild(cur, Interval{Start: i, End: i})
		case '(':
			open = append(open, t.AddChild(cur, Interval{Start: i, End: -1}))
		case ')':
			if cur == Root {
				return nil, fmt.Errorf("unmatched ')' at position %d", i)
			}
			t.nodes[cur].label.End = i
			open = open[:len(open)-1]
		default:
			return nil, fmt.Errorf("invalid character %q at position %d", c, i)
		}
	}
	if len(open) > 1 {
		return nil, fmt.Errorf("unmatched '(' at position %d", t.nodes[open[len(open)-1]].label.Start)
	}
	return t, nil
}
