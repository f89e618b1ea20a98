package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

func predict(t *testing.T, id, residues string, opts fold.PredictOptions) (*rna.Sequence, *fold.Prediction) {
	t.Helper()
	seq := rna.MustSequence(id, residues)
	e, err := fold.NewEngine(seq, nil, fold.DefaultMinLoop)
	require.NoError(t, err)
	p, err := e.Predict(opts)
	require.NoError(t, err)
	return seq, p
}

func mustStructure(t *testing.T, id, residues, db string) *structure.Structure {
	t.Helper()
	s, err := structure.FromDotBracket(rna.MustSequence(id, residues), db, nil)
	require.NoError(t, err)
	return s
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()
	for _, col := range []string{"#ID", "Length", "Score", "Optimal_structures", "Dot_bracket", "Compact"} {
		assert.Contains(t, header, col)
	}
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	seq, p := predict(t, "hp", "GGGGAAACCCC", fold.PredictOptions{})
	require.NoError(t, w.Write(seq, p))
	seq, p = predict(t, "poly", "AAAA", fold.PredictOptions{SkipAll: true})
	require.NoError(t, w.Write(seq, p))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"hp", "11", "12", "1", "((((...))))", "(.)"}, strings.Split(lines[0], "\t"))
	assert.Equal(t, []string{"poly", "4", "0", "-", "....", "."}, strings.Split(lines[1], "\t"))
}

func TestTabWriter_TruncatedCount(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	seq, p := predict(t, "tie", "GAAAACAAAAC", fold.PredictOptions{MaxStructures: 1})
	require.NoError(t, w.Write(seq, p))
	require.NoError(t, w.Flush())

	fields := strings.Split(strings.TrimSpace(buf.String()), "\t")
	assert.Equal(t, "1+", fields[3])
}
