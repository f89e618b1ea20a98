// Package fasta provides FASTA sequence parsing.
package fasta

import "github.com/inodb/vibe-fold/internal/rna"

// SequenceReader is the interface for readers that yield RNA sequences.
type SequenceReader interface {
	// Next reads the next sequence.
	// Returns nil, nil when there are no more sequences.
	Next() (*rna.Sequence, error)

	// Close closes the reader and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
