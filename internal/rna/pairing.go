package rna

import (
	"fmt"
	"sort"
)

// Pair is a base pair between positions I and J (0-based, I < J).
type Pair struct {
	I, J int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.I, p.J)
}

// Span returns J - I.
func (p Pair) Span() int { return p.J - p.I }

// Crosses reports whether p and q are neither nested nor disjoint.
func (p Pair) Crosses(q Pair) bool {
	if q.I < p.I {
		p, q = q, p
	}
	return p.I < q.I && q.I < p.J && p.J < q.J
}

// Pairing is a set of base pairs.
type Pairing []Pair

// Sorted returns a copy ordered by I, then J.
func (p Pairing) Sorted() Pairing {
	out := make(Pairing, len(p))
	copy(out, p)
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}

// Equal reports whether p and o contain the same pairs, in any order.
func (p Pairing) Equal(o Pairing) bool {
	if len(p) != len(o) {
		return false
	}
	a, b := p.Sorted(), o.Sorted()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Partners maps each opening position to its closing position.
func (p Pairing) Partners() map[int]int {
	m := make(map[int]int, len(p))
	for _, bp := range p {
		m[bp.I] = bp.J
	}
	return m
}

// DuplicateIndex returns the first position that takes part in more than
// one pair.
func (p Pairing) DuplicateIndex() (int, bool) {
	seen := make(map[int]bool, 2*len(p))
	for _, bp := range p.Sorted() {
		for _, idx := range [2]int{bp.I, bp.J} {
			if seen[idx] {
				return idx, true
			}
			seen[idx] = true
		}
	}
	return 0, false
}

// Crossing returns the first two pairs that cross each other.
func (p Pairing) Crossing() (Pair, Pair, bool) {
	var open []Pair
	for _, q := range p.Sorted() {
		for len(open) > 0 && open[len(open)-1].J < q.I {
			open = open[:len(open)-1]
		}
		if len(open) > 0 {
			top := open[len(open)-1]
			if top.J < q.J {
				return top, q, true
			}
		}
		open = append(open, q)
	}
	return Pair{}, Pair{}, false
}
