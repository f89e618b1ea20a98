package fold

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-fold/internal/rna"
)

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := 0; i < n; i++ {
		ch <- WorkItem{
			Seq:      i,
			Sequence: rna.MustSequence(fmt.Sprintf("s%d", i), "GGGAAACCC"),
			Extra:    i,
		}
	}
	close(ch)
	return ch
}

func TestParallelPredict_OrderPreservation(t *testing.T) {
	p := NewPredictor(nil, DefaultMinLoop, PredictOptions{SkipAll: true})

	results := p.ParallelPredict(makeItems(200), 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelPredict_SingleWorker(t *testing.T) {
	p := NewPredictor(nil, DefaultMinLoop, PredictOptions{})

	results := p.ParallelPredict(makeItems(20), 1)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		assert.Equal(t, "(((...)))", r.Prediction.Structure.DotBracket())
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, collected, 20)
}

func TestParallelPredict_ExtraPreserved(t *testing.T) {
	p := NewPredictor(nil, DefaultMinLoop, PredictOptions{SkipAll: true})

	results := p.ParallelPredict(makeItems(10), 4)

	err := OrderedCollect(results, func(r WorkResult) error {
		assert.Equal(t, r.Seq, r.Extra.(int))
		assert.Equal(t, fmt.Sprintf("s%d", r.Seq), r.Sequence.ID())
		return nil
	})
	require.NoError(t, err)
}

func TestParallelPredict_EmptyInput(t *testing.T) {
	p := NewPredictor(nil, DefaultMinLoop, PredictOptions{})

	ch := make(chan WorkItem)
	close(ch)
	results := p.ParallelPredict(ch, 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	p := NewPredictor(nil, DefaultMinLoop, PredictOptions{SkipAll: true})

	results := p.ParallelPredict(makeItems(100), 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}

func TestParallelPredict_MarksCacheHits(t *testing.T) {
	cache := &memCache{preds: make(map[string]*Prediction)}
	p := NewPredictor(nil, DefaultMinLoop, PredictOptions{SkipAll: true})
	p.SetCache(cache)

	// One worker so the second item sees the first one's store.
	results := p.ParallelPredict(makeItems(3), 1)

	var cached []bool
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		cached = append(cached, r.Cached)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, cached)
}
