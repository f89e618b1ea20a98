package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/multierr"
)

// PredictionRow is one stored structure.
type PredictionRow struct {
	SeqID      string
	Sequence   string
	MinLoop    int
	Scores     string // rna.PairScore.String()
	Rank       int
	DotBracket string
	Compact    string
	Score      int
}

// predictionKey identifies one folding run.
type predictionKey struct {
	sequence, scores string
	minLoop          int
}

type rowKey struct {
	predictionKey
	rank int
}

// WritePredictions batch-inserts rows using the Appender API. Rows of a run
// already in the table are replaced; duplicate rows in the batch are
// written once.
func (s *Store) WritePredictions(rows []PredictionRow) error {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[rowKey]bool, len(rows))
	runs := make(map[predictionKey]bool)
	deduped := make([]PredictionRow, 0, len(rows))
	for _, r := range rows {
		pk := predictionKey{r.Sequence, r.Scores, r.MinLoop}
		k := rowKey{pk, r.Rank}
		if !seen[k] {
			seen[k] = true
			runs[pk] = true
			deduped = append(deduped, r)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range runs {
		if _, err := s.db.Exec("DELETE FROM predictions WHERE sequence=? AND min_loop=? AND scores=?",
			k.sequence, int64(k.minLoop), k.scores); err != nil {
			return fmt.Errorf("replace predictions: %w", err)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "predictions")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.SeqID, r.Sequence, int64(r.MinLoop), r.Scores, int64(r.Rank),
			r.DotBracket, r.Compact, int64(r.Score),
		); err != nil {
			return multierr.Append(fmt.Errorf("append prediction: %w", err), appender.Close())
		}
	}

	return appender.Close()
}

// ClearPredictions removes all cached predictions.
func (s *Store) ClearPredictions() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM predictions")
	return err
}

// LookupPredictions returns the stored rows for one run in rank order.
func (s *Store) LookupPredictions(sequence string, minLoop int, scores string) ([]PredictionRow, error) {
	rows, err := s.db.Query(`SELECT
		seq_id, sequence, min_loop, scores, rank, dot_bracket, compact, score
		FROM predictions
		WHERE sequence=? AND min_loop=? AND scores=?
		ORDER BY rank`,
		sequence, int64(minLoop), scores)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictionRows(rows)
}

// SearchByTopology returns every stored structure whose compact
// dot-bracket equals compact.
func (s *Store) SearchByTopology(compact string) ([]PredictionRow, error) {
	rows, err := s.db.Query(`SELECT
		seq_id, sequence, min_loop, scores, rank, dot_bracket, compact, score
		FROM predictions
		WHERE compact=?
		ORDER BY seq_id, rank`, compact)
	if err != nil {
		return nil, fmt.Errorf("query by topology: %w", err)
	}
	defer rows.Close()

	return scanPredictionRows(rows)
}

// scanPredictionRows scans rows into PredictionRow slices.
func scanPredictionRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]PredictionRow, error) {
	var results []PredictionRow
	for rows.Next() {
		var r PredictionRow
		var minLoop, rank, score int64
		if err := rows.Scan(
			&r.SeqID, &r.Sequence, &minLoop, &r.Scores, &rank,
			&r.DotBracket, &r.Compact, &score,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		r.MinLoop, r.Rank, r.Score = int(minLoop), int(rank), int(score)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return results, nil
}
