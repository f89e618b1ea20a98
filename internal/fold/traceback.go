package fold

import (
	"github.com/inodb/vibe-fold/internal/rna"
)

type interval struct {
	i, j int
}

// move is one way to explain M[i][j]: an optional pair to record and the
// sub-intervals to visit, in push order.
type move struct {
	pair    rna.Pair
	hasPair bool
	next    []interval
}

// open reports whether an interval can still hold a pair.
func (e *Engine) open(iv interval) bool {
	return iv.j-iv.i > e.minLoop && iv.j > 0
}

func (e *Engine) ps(i, j int) int {
	return e.scores.Score(e.seq.At(i), e.seq.At(j))
}

// moves lists the rules that reproduce M[i][j], in rule order:
// j unpaired, (i, j) paired, then (k, j) paired for increasing k.
// With first set, it stops at the first match.
func (e *Engine) moves(iv interval, first bool) []move {
	i, j := iv.i, iv.j
	m := e.matrix
	target := m[i][j]
	var out []move

	if target == m[i][j-1] {
		out = append(out, move{next: []interval{{i, j - 1}}})
		if first {
			return out
		}
	}

	if s := e.ps(i, j); s > 0 && target == m[i+1][j-1]+s {
		out = append(out, move{
			pair:    rna.Pair{I: i, J: j},
			hasPair: true,
			next:    []interval{{i + 1, j - 1}},
		})
		if first {
			return out
		}
	}

	for k := i + 1; k <= j-e.minLoop-1; k++ {
		s := e.ps(k, j)
		if s <= 0 || target != m[i][k-1]+s+m[k+1][j-1] {
			continue
		}
		out = append(out, move{
			pair:    rna.Pair{I: k, J: j},
			hasPair: true,
			next:    []interval{{i, k - 1}, {k + 1, j - 1}},
		})
		if first {
			return out
		}
	}
	return out
}

// Traceback returns one optimal pairing using an explicit work stack.
func (e *Engine) Traceback() rna.Pairing {
	n := e.seq.Len()
	pairs := rna.Pairing{}
	if n == 0 {
		return pairs
	}

	stack := []interval{{0, n - 1}}
	for len(stack) > 0 {
		iv := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !e.open(iv) {
			continue
		}
		mv := e.moves(iv, true)
		if len(mv) == 0 {
			continue
		}
		if mv[0].hasPair {
			pairs = append(pairs, mv[0].pair)
		}
		stack = append(stack, mv[0].next...)
	}
	return pairs.Sorted()
}

// TracebackRecursive applies the same rules as Traceback by recursion and
// returns the same pairing. Recursion depth grows with sequence length.
func (e *Engine) TracebackRecursive() rna.Pairing {
	pairs := rna.Pairing{}
	if n := e.seq.Len(); n > 0 {
		e.traceRecursive(interval{0, n - 1}, &pairs)
	}
	return pairs.Sorted()
}

func (e *Engine) traceRecursive(iv interval, pairs *rna.Pairing) {
	if !e.open(iv) {
		return
	}
	mv := e.moves(iv, true)
	if len(mv) == 0 {
		return
	}
	if mv[0].hasPair {
		*pairs = append(*pairs, mv[0].pair)
	}
	// Visit in the order the stack variant pops.
	for k := len(mv[0].next) - 1; k >= 0; k-- {
		e.traceRecursive(mv[0].next[k], pairs)
	}
}
