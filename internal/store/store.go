// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists retrieval runs: the canonical identifier set as a
// JSON artifact, an optional YAML run report, and an optional SQLite
// database accumulating runs over time.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/dedup"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/retrieval"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// Store manages the retrieval-run SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run database at cfg.Path, creating the schema
// if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: empty database path")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dbs TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			batches INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			partial INTEGER NOT NULL,
			recovered INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			expected INTEGER NOT NULL,
			retrieved INTEGER NOT NULL,
			input_pmc INTEGER NOT NULL,
			input_pubmed INTEGER NOT NULL,
			unidentified INTEGER NOT NULL,
			merged INTEGER NOT NULL,
			canonical INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL REFERENCES runs(id),
			key TEXT NOT NULL,
			pmid TEXT,
			pmcid TEXT,
			sources TEXT NOT NULL,
			PRIMARY KEY (run_id, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_pmid ON records(pmid)`,
		`CREATE INDEX IF NOT EXISTS idx_records_pmcid ON records(pmcid)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveRun writes one run row plus its canonical records in a single
// transaction. reports holds one per-source report; their counters are
// summed into the run row.
func (s *Store) SaveRun(ctx context.Context, runID string, started, finished time.Time,
	reports []retrieval.Report, stats dedup.Stats, records []types.CanonicalRecord) error {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var dbs []string
	var batches, succeeded, partial, recovered, failed, expected, retrieved int
	for _, r := range reports {
		dbs = append(dbs, string(r.DB))
		batches += r.Batches
		succeeded += r.Succeeded
		partial += r.Partial
		recovered += r.Recovered
		failed += r.Failed
		expected += r.Expected
		retrieved += r.Retrieved
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, dbs, started, finished, batches, succeeded, partial,
			recovered, failed, expected, retrieved, input_pmc, input_pubmed,
			unidentified, merged, canonical)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, strings.Join(dbs, ","),
		started.UTC().Format(time.RFC3339), finished.UTC().Format(time.RFC3339),
		batches, succeeded, partial, recovered, failed, expected, retrieved,
		stats.InputPMC, stats.InputPubMed, stats.Unidentified, stats.Merged, stats.Canonical)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, key, pmid, pmcid, sources) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		sources := make([]string, len(rec.Sources))
		for i, src := range rec.Sources {
			sources[i] = string(src)
		}
		if _, err := stmt.ExecContext(ctx, runID, rec.Key, rec.PMID, rec.PMCID, strings.Join(sources, ",")); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", runID, err)
	}
	return nil
}

// CountRecords returns the number of stored records for a run.
func (s *Store) CountRecords(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records for run %s: %w", runID, err)
	}
	return n, nil
}
