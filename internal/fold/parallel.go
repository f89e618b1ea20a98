package fold

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-fold/internal/rna"
)

// WorkItem is one sequence queued for folding. Seq numbers items in input
// order starting at 0.
type WorkItem struct {
	Seq      int
	Sequence *rna.Sequence
	Extra    any // caller-specific data
}

// WorkResult is the outcome of folding one WorkItem.
type WorkResult struct {
	Seq        int
	Sequence   *rna.Sequence
	Prediction *Prediction
	Cached     bool // Prediction came from the PredictionCache
	Err        error
	Extra      any
}

// ParallelPredict folds items on a pool of workers sharing the predictor's
// scores, minimum loop, options and cache. Results arrive in completion
// order; OrderedCollect restores input order. workers <= 0 means
// runtime.NumCPU().
func (p *Predictor) ParallelPredict(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				r := WorkResult{Seq: item.Seq, Sequence: item.Sequence, Extra: item.Extra}
				r.Prediction, r.Cached, r.Err = p.predict(item.Sequence)
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in Seq order, holding early
// arrivals until their turn. After fn fails the remaining results are
// drained so workers can finish, and the error is returned.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	var (
		pending = make(map[int]WorkResult)
		next    int
		err     error
	)
	for r := range results {
		if err != nil {
			continue
		}
		pending[r.Seq] = r
		for ready, ok := pending[next]; ok; ready, ok = pending[next] {
			delete(pending, next)
			next++
			if err = fn(ready); err != nil {
				break
			}
		}
	}
	return err
}
