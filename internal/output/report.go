// Package output provides prediction output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

// bannerBases is how many bases are shown at each end of a long sequence.
const bannerBases = 10

// ReportOptions controls the human-readable report.
type ReportOptions struct {
	ShowAll   bool // list every co-optimal structure
	Positions bool // print a position ruler above the sequence
	Spacing   int  // spaces between columns
}

// ReportWriter writes a human-readable report per prediction.
type ReportWriter struct {
	w    *bufio.Writer
	opts ReportOptions
}

// NewReportWriter creates a new report writer.
func NewReportWriter(w io.Writer, opts ReportOptions) *ReportWriter {
	return &ReportWriter{w: bufio.NewWriter(w), opts: opts}
}

// WriteHeader is a no-op; each prediction carries its own banner.
func (rw *ReportWriter) WriteHeader() error { return nil }

// Write writes the banner, the predicted structure and, if enabled, every
// co-optimal structure.
func (rw *ReportWriter) Write(seq *rna.Sequence, p *fold.Prediction) error {
	if _, err := rw.w.WriteString(Banner(seq, p)); err != nil {
		return err
	}
	if _, err := rw.w.WriteString(FormatStructure(p.Structure, rw.opts.Spacing, rw.opts.Positions)); err != nil {
		return err
	}
	if rw.opts.ShowAll && len(p.All) > 0 {
		if _, err := rw.w.WriteString(FormatAll(seq, p.All)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (rw *ReportWriter) Flush() error {
	return rw.w.Flush()
}

// Banner summarizes a prediction between two rows of '*'.
func Banner(seq *rna.Sequence, p *fold.Prediction) string {
	residues := seq.Residues()
	shown := "[" + residues + "]"
	if len(residues) > 2*bannerBases {
		shown = fmt.Sprintf("[%s...%s]", residues[:bannerBases], residues[len(residues)-bannerBases:])
	}

	lines := []string{fmt.Sprintf("seqID: %s %s (%d bp)", seq.ID(), shown, seq.Len())}
	if d := seq.Description(); d != "" {
		lines = append(lines, "description: "+d)
	}
	lines = append(lines,
		fmt.Sprintf("parameters: [θ=%d - %s]", p.MinLoop, p.Structure.Scores()),
		fmt.Sprintf("score max = %d", p.Score()),
	)
	if len(p.All) > 0 {
		n := fmt.Sprintf("%d", len(p.All))
		if p.Truncated {
			n += "+"
		}
		lines = append(lines, "optimal structures: "+n)
	}
	lines = append(lines, fmt.Sprintf("elapsed: %s", p.Elapsed))

	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	rule := strings.Repeat("*", width)

	var sb strings.Builder
	sb.WriteString(rule + "\n")
	sb.WriteString(strings.Join(lines, "\n") + "\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}

// FormatStructure prints the id, an optional position ruler, the bases and
// the dot-bracket aligned column by column, and the score.
func FormatStructure(s *structure.Structure, spacing int, positions bool) string {
	seq := s.Sequence()
	sep := strings.Repeat(" ", spacing)

	var sb strings.Builder
	fmt.Fprintf(&sb, "id: %s\n", seq.ID())
	if positions {
		for i := 0; i < seq.Len(); i++ {
			label := fmt.Sprintf("%d", i)
			sb.WriteString(label)
			sb.WriteString(strings.Repeat(" ", max(0, spacing-len(label)+1)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Join(strings.Split(seq.Residues(), ""), sep) + "\n")
	sb.WriteString(strings.Join(strings.Split(s.DotBracket(), ""), sep) + "\n")
	fmt.Fprintf(&sb, "score: %d\n", s.Score())
	return sb.String()
}

// FormatAll lists every structure under the sequence.
func FormatAll(seq *rna.Sequence, all []*structure.Structure) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n", seq.Residues())
	for _, s := range all {
		fmt.Fprintf(&sb, "%s  - score: %d\n", s.DotBracket(), s.Score())
	}
	return sb.String()
}
