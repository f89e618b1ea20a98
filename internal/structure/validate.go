package structure

import (
	"fmt"
	"strings"
)

// Reason classifies a validation failure.
type Reason string

const (
	ReasonUnbalanced     Reason = "unbalanced"
	ReasonDisallowedPair Reason = "disallowed_pair"
	ReasonDuplicateIndex Reason = "duplicate_index"
	ReasonCrossing       Reason = "crossing"
	ReasonShortLoop      Reason = "short_loop"
)

// ValidationError describes why a structure is not legal.
type ValidationError struct {
	SeqID   string
	Reason  Reason
	Indices []int // offending 0-based positions
	Detail  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid structure for %s: %s: %s", e.SeqID, e.Reason, e.Detail)
}

// Validate returns nil for a legal structure, or a *ValidationError for the
// first failed check: bracket balance, allowed pairs, unique positions,
// non-crossing pairs.
func (s *Structure) Validate() error { return s.err }

// CheckStructure reports whether Validate succeeds.
func (s *Structure) CheckStructure() bool { return s.err == nil }

// Valid is an alias for CheckStructure.
func (s *Structure) Valid() bool { return s.err == nil }

// ValidateHairpin checks that every pair encloses more than minLoop
// positions' worth of span (j - i > minLoop).
func (s *Structure) ValidateHairpin(minLoop int) error {
	for _, bp := range s.pairing {
		if bp.Span() <= minLoop {
			return &ValidationError{
				SeqID:   s.seq.ID(),
				Reason:  ReasonShortLoop,
				Indices: []int{bp.I, bp.J},
				Detail:  fmt.Sprintf("pair %s closes a loop shorter than %d", bp, minLoop),
			}
		}
	}
	return nil
}

// CheckHairpin reports whether ValidateHairpin succeeds.
func (s *Structure) CheckHairpin(minLoop int) bool {
	return s.ValidateHairpin(minLoop) == nil
}

func (s *Structure) validate() error {
	id := s.seq.ID()

	if idx, ok := unbalancedAt(s.dotBracket); ok {
		return &ValidationError{
			SeqID:   id,
			Reason:  ReasonUnbalanced,
			Indices: []int{idx},
			Detail:  fmt.Sprintf("unmatched %q at position %d in %s", s.dotBracket[idx], idx, s.dotBracket),
		}
	}

	for _, bp := range s.pairing {
		pair := strings.ToUpper(string([]byte{s.seq.At(bp.I), s.seq.At(bp.J)}))
		if !s.scores.Allowed(pair) {
			return &ValidationError{
				SeqID:   id,
				Reason:  ReasonDisallowedPair,
				Indices: []int{bp.I, bp.J},
				Detail:  fmt.Sprintf("pair %s is %s", bp, pair),
			}
		}
	}

	if idx, ok := s.pairing.DuplicateIndex(); ok {
		return &ValidationError{
			SeqID:   id,
			Reason:  ReasonDuplicateIndex,
			Indices: []int{idx},
			Detail:  fmt.Sprintf("position %d is paired more than once", idx),
		}
	}

	if a, b, ok := s.pairing.Crossing(); ok {
		return &ValidationError{
			SeqID:   id,
			Reason:  ReasonCrossing,
			Indices: []int{a.I, a.J, b.I, b.J},
			Detail:  fmt.Sprintf("pairs %s and %s cross", a, b),
		}
	}

	return nil
}

// unbalancedAt returns the position of the first bracket without a partner.
func unbalancedAt(db string) (int, bool) {
	var open []int
	for i := 0; i < len(db); i++ {
		switch db[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return i, true
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return open[0], true
	}
	return 0, false
}
