package duckdb

import (
	"fmt"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

// PredictionCache adapts a Store to fold.PredictionCache.
type PredictionCache struct {
	store *Store
}

// NewPredictionCache creates a cache backed by s.
func NewPredictionCache(s *Store) *PredictionCache {
	return &PredictionCache{store: s}
}

// Load rebuilds a stored prediction for seq. Rank 0 becomes the predicted
// structure and higher ranks the co-optimal set.
func (c *PredictionCache) Load(seq *rna.Sequence, minLoop int, scores *rna.PairScore) (*fold.Prediction, bool, error) {
	rows, err := c.store.LookupPredictions(seq.Residues(), minLoop, scores.String())
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 || rows[0].Rank != 0 {
		return nil, false, nil
	}

	p := &fold.Prediction{MinLoop: minLoop}
	for _, r := range rows {
		s, err := structure.FromDotBracket(seq, r.DotBracket, scores)
		if err != nil {
			return nil, false, fmt.Errorf("rebuild %s rank %d: %w", seq.ID(), r.Rank, err)
		}
		if r.Rank == 0 {
			p.Structure = s
			continue
		}
		p.All = append(p.All, s)
	}
	return p, true, nil
}

// Store writes p under the sequence, minimum loop and scores it was
// predicted with.
func (c *PredictionCache) Store(seq *rna.Sequence, scores *rna.PairScore, p *fold.Prediction) error {
	rows := make([]PredictionRow, 0, len(p.All)+1)
	add := func(rank int, s *structure.Structure) {
		var compact string
		if t := s.Tree(); t != nil {
			compact = t.Compact().DotBracket()
		}
		rows = append(rows, PredictionRow{
			SeqID:      seq.ID(),
			Sequence:   seq.Residues(),
			MinLoop:    p.MinLoop,
			Scores:     scores.String(),
			Rank:       rank,
			DotBracket: s.DotBracket(),
			Compact:    compact,
			Score:      s.Score(),
		})
	}
	add(0, p.Structure)
	for i, s := range p.All {
		add(i+1, s)
	}
	return c.store.WritePredictions(rows)
}

var _ fold.PredictionCache = (*PredictionCache)(nil)
