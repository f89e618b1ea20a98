package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
)

// MatrixWriter writes a score matrix as delimited text: a header row of
// residues, then one row per residue led by that residue.
type MatrixWriter struct {
	w   *bufio.Writer
	sep string
}

// NewMatrixWriter creates a matrix writer. An empty sep means ",".
func NewMatrixWriter(w io.Writer, sep string) *MatrixWriter {
	if sep == "" {
		sep = ","
	}
	return &MatrixWriter{w: bufio.NewWriter(w), sep: sep}
}

// Write writes m labelled by the residues of seq.
func (mw *MatrixWriter) Write(seq *rna.Sequence, m fold.Matrix) error {
	residues := strings.Split(seq.Residues(), "")

	header := append([]string{" "}, residues...)
	if _, err := mw.w.WriteString(strings.Join(header, mw.sep) + "\n"); err != nil {
		return err
	}

	fields := make([]string, m.Len()+1)
	for i := 0; i < m.Len(); i++ {
		fields[0] = residues[i]
		for j := 0; j < m.Len(); j++ {
			fields[j+1] = strconv.Itoa(m.At(i, j))
		}
		if _, err := mw.w.WriteString(strings.Join(fields, mw.sep) + "\n"); err != nil {
			return err
		}
	}
	return mw.w.Flush()
}
