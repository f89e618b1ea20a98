// Package fold predicts RNA secondary structure by base-pair maximization.
//
// An Engine fills the dynamic-programming matrix once for a sequence, pair
// scores and minimum loop length; tracebacks and enumeration then read the
// matrix without changing it. A Predictor folds many sequences in parallel.
package fold

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

// Engine holds a filled matrix for one sequence.
type Engine struct {
	seq      *rna.Sequence
	scores   *rna.PairScore
	minLoop  int
	matrix   Matrix
	fillTime time.Duration
	logger   *zap.Logger
}

// NewEngine fills the matrix for seq. A nil scores uses the default table.
func NewEngine(seq *rna.Sequence, scores *rna.PairScore, minLoop int) (*Engine, error) {
	if seq == nil {
		return nil, &rna.ConfigurationError{Field: "sequence", Message: "sequence is required"}
	}
	if minLoop < 0 {
		return nil, &rna.ConfigurationError{
			SeqID:   seq.ID(),
			Field:   "min_loop",
			Message: fmt.Sprintf("must be non-negative, got %d", minLoop),
		}
	}
	if scores == nil {
		scores = rna.DefaultPairScore()
	}

	e := &Engine{
		seq:     seq,
		minLoop: minLoop,
		logger:  zap.NewNop(),
	}
	e.ChangeScores(scores)
	return e, nil
}

// SetLogger sets the logger for warning and debug messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// ChangeScores refills the matrix under new pair scores.
func (e *Engine) ChangeScores(scores *rna.PairScore) {
	if scores == nil {
		scores = rna.DefaultPairScore()
	}
	start := time.Now()
	e.scores = scores
	e.matrix = fillMatrix(e.seq, scores, e.minLoop)
	e.fillTime = time.Since(start)
}

// Sequence returns the folded sequence.
func (e *Engine) Sequence() *rna.Sequence { return e.seq }

// Scores returns the pair scores in use.
func (e *Engine) Scores() *rna.PairScore { return e.scores }

// MinLoop returns the minimum hairpin span.
func (e *Engine) MinLoop() int { return e.minLoop }

// Matrix returns a copy of the filled matrix.
func (e *Engine) Matrix() Matrix { return e.matrix.Clone() }

// OptimalScore returns M[0][n-1], or 0 for an empty sequence.
func (e *Engine) OptimalScore() int {
	n := e.seq.Len()
	if n == 0 {
		return 0
	}
	return e.matrix[0][n-1]
}

// PredictOptions controls Predict.
type PredictOptions struct {
	SkipAll       bool // only compute the single traceback
	Recursive     bool // use the recursive traceback
	MaxStructures int  // cap on co-optimal structures, 0 for none
}

// Prediction is the result of folding one sequence.
type Prediction struct {
	Structure *structure.Structure
	All       []*structure.Structure // co-optimal structures, nil when skipped
	Rejected  int                    // co-optimal candidates that failed validation
	Truncated bool                   // All stopped at MaxStructures
	Elapsed   time.Duration
	MinLoop   int
}

// Score returns the score of the predicted structure.
func (p *Prediction) Score() int { return p.Structure.Score() }

// Predict traces back one optimal structure and, unless skipped, all
// co-optimal ones.
func (e *Engine) Predict(opts PredictOptions) (*Prediction, error) {
	start := time.Now()

	var pairs rna.Pairing
	if opts.Recursive {
		pairs = e.TracebackRecursive()
	} else {
		pairs = e.Traceback()
	}
	s, err := structure.FromPairing(e.seq, pairs, e.scores)
	if err != nil {
		return nil, fmt.Errorf("build structure: %w", err)
	}

	p := &Prediction{Structure: s, MinLoop: e.minLoop}
	if !opts.SkipAll {
		all, rejected, err := e.TracebackAll(opts.MaxStructures)
		var limitErr *ResourceLimitError
		switch {
		case errors.As(err, &limitErr):
			e.logger.Warn("co-optimal enumeration truncated",
				zap.String("seq_id", e.seq.ID()),
				zap.Int("limit", limitErr.Limit))
			p.Truncated = true
		case err != nil:
			return nil, err
		}
		p.All = all
		p.Rejected = rejected
	}

	p.Elapsed = e.fillTime + time.Since(start)
	e.logger.Debug("predicted structure",
		zap.String("seq_id", e.seq.ID()),
		zap.Int("length", e.seq.Len()),
		zap.Int("score", s.Score()),
		zap.Int("optimal", len(p.All)),
		zap.Duration("elapsed", p.Elapsed))
	return p, nil
}
