package rna

import (
	"fmt"
	"sort"
	"strings"
)

// Default pair scores.
const (
	DefaultGC = 3
	DefaultAU = 2
	DefaultGU = 1
)

// PairScore maps ordered base pairs to non-negative integer scores.
// Only pairs with a positive score are present and allowed.
type PairScore struct {
	pairs   map[[2]byte]int
	allowed map[string]bool
}

// NewPairScore builds a symmetric pair table. Negative scores are clamped to
// zero, and zero-score pairs are left out of the table.
func NewPairScore(gc, au, gu int) *PairScore {
	p := &PairScore{
		pairs:   make(map[[2]byte]int),
		allowed: make(map[string]bool),
	}
	for _, e := range []struct {
		a, b  byte
		score int
	}{
		{'G', 'C', gc},
		{'A', 'U', au},
		{'G', 'U', gu},
	} {
		if e.score <= 0 {
			continue
		}
		p.pairs[[2]byte{e.a, e.b}] = e.score
		p.pairs[[2]byte{e.b, e.a}] = e.score
		p.allowed[string([]byte{e.a, e.b})] = true
		p.allowed[string([]byte{e.b, e.a})] = true
	}
	return p
}

// DefaultPairScore returns GC=3, AU=2, GU=1.
func DefaultPairScore() *PairScore {
	return NewPairScore(DefaultGC, DefaultAU, DefaultGU)
}

// Score returns the score of the ordered pair (a, b).
// A pair missing from the table scores 0, the same as an explicit zero, so
// the fold never prefers it over leaving both bases unpaired.
func (p *PairScore) Score(a, b byte) int {
	return p.pairs[[2]byte{a, b}]
}

// Allowed reports whether the two-character pair string may form a pair.
// The comparison is case-insensitive.
func (p *PairScore) Allowed(pair string) bool {
	return p.allowed[strings.ToUpper(pair)]
}

// AllowedPairs returns the allowed ordered pairs, sorted.
func (p *PairScore) AllowedPairs() []string {
	out := make([]string, 0, len(p.allowed))
	for k := range p.allowed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Scores returns the score of each unordered pair keyed by its bases in
// alphabetical order (e.g. "CG").
func (p *PairScore) Scores() map[string]int {
	out := make(map[string]int, len(p.pairs)/2)
	for k, v := range p.pairs {
		b := []byte{k[0], k[1]}
		if b[0] > b[1] {
			b[0], b[1] = b[1], b[0]
		}
		out[string(b)] = v
	}
	return out
}

// String renders the scores as "AU=2,CG=3,GU=1".
func (p *PairScore) String() string {
	scores := p.Scores()
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, scores[k])
	}
	return strings.Join(parts, ",")
}
