// Package rna provides the nucleotide sequence, base-pair scoring and
// pairing types shared by the folding engine and the structure model.
package rna

import (
	"fmt"
	"strings"
)

// Alphabets used for validation.
const (
	Alphabet           = "ACGU"
	DotBracketAlphabet = "(.)"
)

// Sequence is an immutable, validated RNA sequence.
type Sequence struct {
	id          string
	description string
	residues    string
}

// NewSequence upper-cases the residues, converts T to U and checks that
// every residue is in the RNA alphabet.
func NewSequence(id, residues string) (*Sequence, error) {
	s := strings.ReplaceAll(strings.ToUpper(residues), "T", "U")
	if IsRNA(s) {
		return &Sequence{id: id, residues: s}, nil
	}
	for i := 0; i < len(s); i++ {
		if !isBase(s[i]) {
			return nil, &ConfigurationError{
				SeqID:   id,
				Field:   "residues",
				Message: fmt.Sprintf("invalid residue %q at position %d", s[i], i),
			}
		}
	}
	return &Sequence{id: id, residues: s}, nil
}

// MustSequence is like NewSequence but panics on invalid input.
// Intended for tests and literals.
func MustSequence(id, residues string) *Sequence {
	s, err := NewSequence(id, residues)
	if err != nil {
		panic(err)
	}
	return s
}

// ID returns the sequence identifier.
func (s *Sequence) ID() string { return s.id }

// Description returns the free text that followed the identifier in the
// input, if any.
func (s *Sequence) Description() string { return s.description }

// WithDescription returns a copy of s carrying desc.
func (s *Sequence) WithDescription(desc string) *Sequence {
	c := *s
	c.description = desc
	return &c
}

// Residues returns the canonical residue string.
func (s *Sequence) Residues() string { return s.residues }

// Len returns the number of residues.
func (s *Sequence) Len() int { return len(s.residues) }

// At returns the residue at position i.
func (s *Sequence) At(i int) byte { return s.residues[i] }

func (s *Sequence) String() string { return s.residues }

// IsRNA reports whether seq contains only upper-case RNA bases.
func IsRNA(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if !isBase(seq[i]) {
			return false
		}
	}
	return true
}

// IsDotBracket reports whether s uses only dot-bracket characters.
func IsDotBracket(s string) bool {
	for _, c := range s {
		switch c {
		case '(', ')', '.':
			continue
		default:
			return false
		}
	}
	return true
}

func isBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'U':
		return true
	}
	return false
}
