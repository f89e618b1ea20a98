// Package duckdb caches fold predictions in DuckDB so repeated runs can
// skip the matrix fill and stored structures can be searched by topology.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for caching predictions.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex // serializes writers
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
// Rank 0 is the single traceback; ranks 1.. are the co-optimal structures
// in enumeration order.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS predictions (
		seq_id VARCHAR,
		sequence VARCHAR,
		min_loop BIGINT,
		scores VARCHAR,
		rank BIGINT,
		dot_bracket VARCHAR,
		compact VARCHAR,
		score BIGINT,
		PRIMARY KEY (sequence, min_loop, scores, rank)
	)`)
	return err
}
