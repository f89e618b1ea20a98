package fasta

import "github.com/inodb/vibe-fold/internal/rna"

// SliceReader serves sequences already in memory, such as one given on the
// command line.
type SliceReader struct {
	seqs []*rna.Sequence
	pos  int
}

// NewSliceReader returns a SequenceReader over seqs.
func NewSliceReader(seqs ...*rna.Sequence) *SliceReader {
	return &SliceReader{seqs: seqs}
}

func (r *SliceReader) Next() (*rna.Sequence, error) {
	if r.pos >= len(r.seqs) {
		return nil, nil
	}
	s := r.seqs[r.pos]
	r.pos++
	return s, nil
}

func (r *SliceReader) Close() error { return nil }

func (r *SliceReader) LineNumber() int { return r.pos }
