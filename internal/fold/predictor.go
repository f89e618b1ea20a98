package fold

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-fold/internal/fasta"
	"github.com/inodb/vibe-fold/internal/rna"
)

// PredictionWriter defines the interface for writing predictions.
type PredictionWriter interface {
	WriteHeader() error
	Write(seq *rna.Sequence, p *Prediction) error
	Flush() error
}

// PredictionCache stores predictions keyed by sequence, minimum loop and
// pair scores.
type PredictionCache interface {
	Load(seq *rna.Sequence, minLoop int, scores *rna.PairScore) (*Prediction, bool, error)
	Store(seq *rna.Sequence, scores *rna.PairScore, p *Prediction) error
}

// Predictor folds sequences with shared settings.
type Predictor struct {
	scores  *rna.PairScore
	minLoop int
	opts    PredictOptions
	workers int
	cache   PredictionCache
	logger  *zap.Logger
}

// NewPredictor creates a predictor. A nil scores uses the default table.
func NewPredictor(scores *rna.PairScore, minLoop int, opts PredictOptions) *Predictor {
	if scores == nil {
		scores = rna.DefaultPairScore()
	}
	return &Predictor{
		scores:  scores,
		minLoop: minLoop,
		opts:    opts,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (p *Predictor) SetLogger(l *zap.Logger) {
	p.logger = l
}

// SetWorkers sets the worker count for PredictAll. 0 means runtime.NumCPU().
func (p *Predictor) SetWorkers(n int) {
	p.workers = n
}

// SetCache enables a prediction cache.
func (p *Predictor) SetCache(c PredictionCache) {
	p.cache = c
}

// Predict folds one sequence, consulting the cache first when one is set.
func (p *Predictor) Predict(seq *rna.Sequence) (*Prediction, error) {
	pred, _, err := p.predict(seq)
	return pred, err
}

// predict is Predict that also reports whether the result came from the
// cache.
func (p *Predictor) predict(seq *rna.Sequence) (*Prediction, bool, error) {
	if p.cache != nil {
		pred, ok, err := p.cache.Load(seq, p.minLoop, p.scores)
		if err != nil {
			p.logger.Warn("prediction cache lookup failed",
				zap.String("seq_id", seq.ID()),
				zap.Error(err))
		} else if ok && (p.opts.SkipAll || pred.All != nil) {
			p.logger.Debug("prediction cache hit", zap.String("seq_id", seq.ID()))
			return pred, true, nil
		}
	}

	e, err := NewEngine(seq, p.scores, p.minLoop)
	if err != nil {
		return nil, false, err
	}
	e.SetLogger(p.logger)

	pred, err := e.Predict(p.opts)
	if err != nil {
		return nil, false, err
	}

	if p.cache != nil && !pred.Truncated {
		if err := p.cache.Store(seq, p.scores, pred); err != nil {
			p.logger.Warn("prediction cache store failed",
				zap.String("seq_id", seq.ID()),
				zap.Error(err))
		}
	}
	return pred, false, nil
}

// PredictAll folds every sequence from reader and writes the predictions in
// input order. Sequences that fail are logged and skipped.
func (p *Predictor) PredictAll(reader fasta.SequenceReader, writer PredictionWriter) error {
	items := make(chan WorkItem, 2*runtime.NumCPU())
	var readErr error
	count := 0

	go func() {
		defer close(items)
		for {
			s, err := reader.Next()
			if err != nil {
				readErr = fmt.Errorf("read sequence: %w", err)
				return
			}
			if s == nil {
				return
			}
			items <- WorkItem{Seq: count, Sequence: s}
			count++
		}
	}()

	results := p.ParallelPredict(items, p.workers)

	var cached, failed int
	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Cached {
			cached++
		}
		if r.Err != nil {
			failed++
			p.logger.Warn("failed to fold sequence",
				zap.String("seq_id", r.Sequence.ID()),
				zap.Int("length", r.Sequence.Len()),
				zap.Error(r.Err))
			return nil
		}
		if err := writer.Write(r.Sequence, r.Prediction); err != nil {
			return fmt.Errorf("write prediction: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if readErr != nil {
		return readErr
	}

	if count == 0 {
		p.logger.Info("0 sequences processed")
	} else {
		p.logger.Debug("folded sequences",
			zap.Int("sequences", count),
			zap.Int("cached", cached),
			zap.Int("failed", failed))
	}

	return writer.Flush()
}
