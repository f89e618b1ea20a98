package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vibe-fold/internal/connect"
	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
)

// CTWriter writes each prediction as a connect table preceded by a title
// line holding the length and identifier.
type CTWriter struct {
	w *bufio.Writer
}

// NewCTWriter creates a new connect table writer.
func NewCTWriter(w io.Writer) *CTWriter {
	return &CTWriter{w: bufio.NewWriter(w)}
}

// WriteHeader is a no-op.
func (cw *CTWriter) WriteHeader() error { return nil }

// Write writes a title line and the table rows.
func (cw *CTWriter) Write(seq *rna.Sequence, p *fold.Prediction) error {
	if _, err := fmt.Fprintf(cw.w, "%d\t%s\n", seq.Len(), seq.ID()); err != nil {
		return err
	}
	return connect.Write(cw.w, p.Structure)
}

// Flush flushes any buffered data.
func (cw *CTWriter) Flush() error {
	return cw.w.Flush()
}
