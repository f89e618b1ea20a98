// Package structure represents one RNA secondary structure: its base pairs,
// its dot-bracket notation, its score and its loop tree.
package structure

import (
	"fmt"

	"github.com/inodb/vibe-fold/internal/looptree"
	"github.com/inodb/vibe-fold/internal/rna"
)

// Structure is a secondary structure over a sequence. It is built from
// either a pairing or a dot-bracket string and derives the other.
type Structure struct {
	seq        *rna.Sequence
	scores     *rna.PairScore
	pairing    rna.Pairing // sorted by opening position
	dotBracket string
	score      int
	err        error // result of Validate
	tree       *looptree.Tree
}

type config struct {
	pairing       rna.Pairing
	hasPairing    bool
	dotBracket    string
	hasDotBracket bool
	scores        *rna.PairScore
}

// Option configures New.
type Option func(*config)

// WithPairing builds the structure from a list of base pairs. A nil or
// empty pairing is a valid fully unpaired structure.
func WithPairing(p rna.Pairing) Option {
	return func(c *config) {
		c.pairing = p
		c.hasPairing = true
	}
}

// WithDotBracket builds the structure from a dot-bracket string.
func WithDotBracket(db string) Option {
	return func(c *config) {
		c.dotBracket = db
		c.hasDotBracket = true
	}
}

// WithScores sets the pair scores. Defaults to rna.DefaultPairScore.
func WithScores(s *rna.PairScore) Option {
	return func(c *config) {
		c.scores = s
	}
}

// New builds a structure. Exactly one of WithPairing and WithDotBracket must
// be given; anything else is a *rna.ConfigurationError, as is a dot-bracket
// of the wrong length or a pair index outside the sequence.
//
// Structural problems (unbalanced brackets, disallowed or crossing pairs)
// do not fail construction: they are reported by Validate.
func New(seq *rna.Sequence, opts ...Option) (*Structure, error) {
	if seq == nil {
		return nil, &rna.ConfigurationError{Field: "sequence", Message: "sequence is required"}
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasPairing == cfg.hasDotBracket {
		return nil, &rna.ConfigurationError{
			SeqID:   seq.ID(),
			Field:   "structure",
			Message: "exactly one of pairing or dot-bracket is required",
		}
	}
	if cfg.scores == nil {
		cfg.scores = rna.DefaultPairScore()
	}

	var (
		pairing rna.Pairing
		db      string
		err     error
	)
	if cfg.hasPairing {
		pairing, err = normalizePairing(seq, cfg.pairing)
		if err != nil {
			return nil, err
		}
		db = PairingToDotBracket(seq.Len(), pairing)
	} else {
		if err := checkDotBracketShape(seq, cfg.dotBracket); err != nil {
			return nil, err
		}
		db = cfg.dotBracket
		pairing = DotBracketToPairing(db)
	}

	return build(seq, cfg.scores, pairing, db), nil
}

// FromPairing is shorthand for New(seq, WithPairing(p), WithScores(scores)).
func FromPairing(seq *rna.Sequence, p rna.Pairing, scores *rna.PairScore) (*Structure, error) {
	return New(seq, WithPairing(p), WithScores(scores))
}

// FromDotBracket is shorthand for New(seq, WithDotBracket(db), WithScores(scores)).
func FromDotBracket(seq *rna.Sequence, db string, scores *rna.PairScore) (*Structure, error) {
	return New(seq, WithDotBracket(db), WithScores(scores))
}

func build(seq *rna.Sequence, scores *rna.PairScore, pairing rna.Pairing, db string) *Structure {
	s := &Structure{
		seq:        seq,
		scores:     scores,
		pairing:    pairing.Sorted(),
		dotBracket: db,
	}
	for _, bp := range s.pairing {
		s.score += scores.Score(seq.At(bp.I), seq.At(bp.J))
	}
	s.err = s.validate()
	if s.err == nil {
		s.tree = buildTree(seq.Len(), s.pairing.Partners())
	}
	return s
}

func normalizePairing(seq *rna.Sequence, in rna.Pairing) (rna.Pairing, error) {
	out := make(rna.Pairing, 0, len(in))
	for _, bp := range in {
		if bp.I > bp.J {
			bp.I, bp.J = bp.J, bp.I
		}
		if bp.I < 0 || bp.J >= seq.Len() {
			return nil, &rna.ConfigurationError{
				SeqID:   seq.ID(),
				Field:   "pairing",
				Message: fmt.Sprintf("pair %s outside sequence of length %d", bp, seq.Len()),
			}
		}
		if bp.I == bp.J {
			return nil, &rna.ConfigurationError{
				SeqID:   seq.ID(),
				Field:   "pairing",
				Message: fmt.Sprintf("position %d paired with itself", bp.I),
			}
		}
		out = append(out, bp)
	}
	return out, nil
}

func checkDotBracketShape(seq *rna.Sequence, db string) error {
	if len(db) != seq.Len() {
		return &rna.ConfigurationError{
			SeqID:   seq.ID(),
			Field:   "dot-bracket",
			Message: fmt.Sprintf("length %d does not match sequence length %d", len(db), seq.Len()),
		}
	}
	if !rna.IsDotBracket(db) {
		return &rna.ConfigurationError{
			SeqID:   seq.ID(),
			Field:   "dot-bracket",
			Message: fmt.Sprintf("%q contains characters outside %q", db, rna.DotBracketAlphabet),
		}
	}
	return nil
}

// Sequence returns the underlying sequence.
func (s *Structure) Sequence() *rna.Sequence { return s.seq }

// Scores returns the pair scores the structure was scored with.
func (s *Structure) Scores() *rna.PairScore { return s.scores }

// Pairing returns a copy of the base pairs sorted by opening position.
func (s *Structure) Pairing() rna.Pairing {
	out := make(rna.Pairing, len(s.pairing))
	copy(out, s.pairing)
	return out
}

// DotBracket returns the dot-bracket notation.
func (s *Structure) DotBracket() string { return s.dotBracket }

// Score returns the sum of pair scores over the pairing.
func (s *Structure) Score() int { return s.score }

// Tree returns the loop tree, or nil when the structure is invalid.
func (s *Structure) Tree() *looptree.Tree { return s.tree }

// Rescore rebuilds the structure under different pair scores. The pairing
// and dot-bracket are unchanged; score and validity are recomputed.
func (s *Structure) Rescore(scores *rna.PairScore) *Structure {
	if scores == nil {
		scores = rna.DefaultPairScore()
	}
	return build(s.seq, scores, s.pairing, s.dotBracket)
}

func (s *Structure) String() string { return s.dotBracket }

// PairingToDotBracket renders pairs as '(' at each opening position, ')' at
// each closing position and '.' elsewhere.
func PairingToDotBracket(n int, p rna.Pairing) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '.'
	}
	for _, bp := range p {
		out[bp.I] = '('
		out[bp.J] = ')'
	}
	return string(out)
}

// DotBracketToPairing matches each ')' with the most recent unmatched '('.
// A ')' with nothing to match is ignored; Validate reports it.
func DotBracketToPairing(db string) rna.Pairing {
	var open []int
	var pairs rna.Pairing
	for i := 0; i < len(db); i++ {
		switch db[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) > 0 {
				pairs = append(pairs, rna.Pair{I: open[len(open)-1], J: i})
				open = open[:len(open)-1]
			}
		}
	}
	return pairs.Sorted()
}
