package fold

import (
	"errors"

	"go.uber.org/zap"

	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

// branch is one partial path through the traceback: the pairs recorded so
// far and the intervals still to visit.
type branch struct {
	work  []interval
	pairs rna.Pairing
}

func (b branch) fork(mv move) branch {
	c := branch{
		work:  make([]interval, len(b.work), len(b.work)+len(mv.next)),
		pairs: make(rna.Pairing, len(b.pairs), len(b.pairs)+1),
	}
	copy(c.work, b.work)
	copy(c.pairs, b.pairs)
	c.apply(mv)
	return c
}

func (b *branch) apply(mv move) {
	if mv.hasPair {
		b.pairs = append(b.pairs, mv.pair)
	}
	b.work = append(b.work, mv.next...)
}

// Enumerate visits every distinct co-optimal structure, depth first. The
// first structure visited is the one Traceback returns. Candidates that
// fail structural validation are logged and skipped; the number skipped is
// returned. visit returns false to stop the walk.
func (e *Engine) Enumerate(visit func(*structure.Structure) bool) int {
	n := e.seq.Len()
	if n == 0 {
		s, err := structure.FromPairing(e.seq, nil, e.scores)
		if err == nil {
			visit(s)
		}
		return 0
	}

	seen := make(map[string]bool)
	rejected := 0
	branches := []branch{{work: []interval{{0, n - 1}}}}

	for len(branches) > 0 {
		b := branches[len(branches)-1]
		branches = branches[:len(branches)-1]

		for len(b.work) > 0 {
			iv := b.work[len(b.work)-1]
			b.work = b.work[:len(b.work)-1]
			if !e.open(iv) {
				continue
			}
			mv := e.moves(iv, false)
			if len(mv) == 0 {
				continue
			}
			// Push alternatives so they are explored in rule order.
			for k := len(mv) - 1; k >= 1; k-- {
				branches = append(branches, b.fork(mv[k]))
			}
			b.apply(mv[0])
		}

		s, err := structure.FromPairing(e.seq, b.pairs, e.scores)
		if err != nil {
			rejected++
			e.logger.Warn("discarding co-optimal candidate",
				zap.String("seq_id", e.seq.ID()),
				zap.Error(err))
			continue
		}
		if seen[s.DotBracket()] {
			continue
		}
		seen[s.DotBracket()] = true

		if err := s.Validate(); err != nil {
			rejected++
			fields := []zap.Field{
				zap.String("seq_id", e.seq.ID()),
				zap.String("dot_bracket", s.DotBracket()),
				zap.Error(err),
			}
			var verr *structure.ValidationError
			if errors.As(err, &verr) {
				fields = append(fields, zap.String("reason", string(verr.Reason)))
			}
			e.logger.Warn("discarding invalid co-optimal structure", fields...)
			continue
		}
		if !visit(s) {
			return rejected
		}
	}
	return rejected
}

// TracebackAll collects every co-optimal structure. A limit above zero caps
// the result: when more structures exist, a *ResourceLimitError carrying
// the first limit structures is returned.
func (e *Engine) TracebackAll(limit int) ([]*structure.Structure, int, error) {
	var (
		found    []*structure.Structure
		exceeded bool
	)
	rejected := e.Enumerate(func(s *structure.Structure) bool {
		if limit > 0 && len(found) == limit {
			exceeded = true
			return false
		}
		found = append(found, s)
		return true
	})
	if exceeded {
		return found, rejected, &ResourceLimitError{SeqID: e.seq.ID(), Limit: limit, Found: found}
	}
	return found, rejected, nil
}
