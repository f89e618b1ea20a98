package dotbracket

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

// Writer writes predictions as dot-bracket records.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new dot-bracket writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader is a no-op; the format has no header.
func (w *Writer) WriteHeader() error { return nil }

// Write writes the predicted structure of seq.
func (w *Writer) Write(seq *rna.Sequence, p *fold.Prediction) error {
	return w.WriteStructure(p.Structure)
}

// WriteStructure writes one record.
func (w *Writer) WriteStructure(s *structure.Structure) error {
	seq := s.Sequence()
	_, err := fmt.Fprintf(w.w, ">%s\n%s\n%s\n", seq.ID(), seq.Residues(), s.DotBracket())
	return err
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
