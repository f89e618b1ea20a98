package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
)

// TabWriter writes one tab-delimited row per prediction.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#ID",
			"Length",
			"Score",
			"Optimal_structures",
			"Dot_bracket",
			"Compact",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single prediction.
func (tw *TabWriter) Write(seq *rna.Sequence, p *fold.Prediction) error {
	optimal := "-"
	if p.All != nil {
		optimal = strconv.Itoa(len(p.All))
		if p.Truncated {
			optimal += "+"
		}
	}

	compact := p.Structure.CompactDotBracket()
	if compact == "" {
		compact = "-"
	}
	dotBracket := p.Structure.DotBracket()
	if dotBracket == "" {
		dotBracket = "-"
	}

	fields := []string{
		seq.ID(),
		strconv.Itoa(seq.Len()),
		strconv.Itoa(p.Score()),
		optimal,
		dotBracket,
		compact,
	}
	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes any buffered data.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
