package fold

import (
	"github.com/inodb/vibe-fold/internal/rna"
)

// DefaultMinLoop is the default minimum hairpin span.
const DefaultMinLoop = 3

// Matrix is the upper-triangular score table: M[i][j] is the best total
// pair score achievable on positions i..j.
type Matrix [][]int

// Len returns the sequence length the matrix was filled for.
func (m Matrix) Len() int { return len(m) }

// At returns M[i][j], or 0 outside the filled triangle.
func (m Matrix) At(i, j int) int {
	if i < 0 || j < 0 || i >= len(m) || j >= len(m) {
		return 0
	}
	return m[i][j]
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i := range m {
		out[i] = append([]int(nil), m[i]...)
	}
	return out
}

// fillMatrix runs the Nussinov recurrence column by column. Every cell
// depends only on earlier columns, so the row order within a column is free.
func fillMatrix(seq *rna.Sequence, scores *rna.PairScore, minLoop int) Matrix {
	n := seq.Len()
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
	}

	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			if j-i <= minLoop {
				continue
			}
			best := m[i][j-1]
			if v := m[i+1][j-1] + scores.Score(seq.At(i), seq.At(j)); v > best {
				best = v
			}
			for k := i + 1; k <= j-minLoop-1; k++ {
				v := m[i][k-1] + scores.Score(seq.At(k), seq.At(j)) + m[k+1][j-1]
				if v > best {
					best = v
				}
			}
			m[i][j] = best
		}
	}
	return m
}
