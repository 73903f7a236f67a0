// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/dedup"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/retrieval"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "runs.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []types.CanonicalRecord {
	return []types.CanonicalRecord{
		{Key: "pmid:200", PMID: "200", PMCID: "PMC100", Sources: []types.Source{types.SourcePMC, types.SourcePubMed}},
		{Key: "pmcid:PMC101", PMCID: "PMC101", Sources: []types.Source{types.SourcePMC}},
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(types.StoreConfig{}); err == nil {
		t.Error("Open with empty path succeeded")
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")
	s, err := Open(types.StoreConfig{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}

func TestSaveRunAndCountRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	reports := []retrieval.Report{
		{RunID: "r", DB: types.SourcePMC, Batches: 3, Succeeded: 2, Partial: 1, Expected: 10, Retrieved: 8},
		{RunID: "r", DB: types.SourcePubMed, Batches: 3, Succeeded: 3, Recovered: 1, Expected: 5, Retrieved: 5},
	}
	stats := dedup.Stats{InputPMC: 8, InputPubMed: 5, Merged: 11, Canonical: 2}

	started := time.Now().Add(-time.Minute)
	if err := s.SaveRun(ctx, "run-1", started, time.Now(), reports, stats, sampleRecords()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	n, err := s.CountRecords(ctx, "run-1")
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if n != 2 {
		t.Errorf("CountRecords = %d, want 2", n)
	}
	if n, _ := s.CountRecords(ctx, "no-such-run"); n != 0 {
		t.Errorf("CountRecords for unknown run = %d, want 0", n)
	}
}

func TestSaveRunDuplicateIDFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.SaveRun(ctx, "run-1", now, now, nil, dedup.Stats{}, nil); err != nil {
		t.Fatalf("first SaveRun: %v", err)
	}
	if err := s.SaveRun(ctx, "run-1", now, now, nil, dedup.Stats{}, nil); err == nil {
		t.Error("duplicate run id accepted")
	}
}

func TestSaveRunRollsBackOnRecordConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	// Duplicate canonical keys violate the records primary key; the whole
	// run, including the runs row, must roll back.
	dup := []types.CanonicalRecord{
		{Key: "pmid:200", PMID: "200", Sources: []types.Source{types.SourcePubMed}},
		{Key: "pmid:200", PMID: "200", Sources: []types.Source{types.SourcePMC}},
	}
	if err := s.SaveRun(ctx, "run-1", now, now, nil, dedup.Stats{}, dup); err == nil {
		t.Fatal("SaveRun with duplicate keys succeeded")
	}

	// The id must be reusable after the rollback.
	if err := s.SaveRun(ctx, "run-1", now, now, nil, dedup.Stats{}, sampleRecords()); err != nil {
		t.Errorf("SaveRun after rollback: %v", err)
	}
}

func TestSaveRunsAccumulate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.SaveRun(ctx, "run-1", now, now, nil, dedup.Stats{}, sampleRecords()); err != nil {
		t.Fatalf("SaveRun run-1: %v", err)
	}
	if err := s.SaveRun(ctx, "run-2", now, now, nil, dedup.Stats{}, sampleRecords()[:1]); err != nil {
		t.Fatalf("SaveRun run-2: %v", err)
	}

	if n, _ := s.CountRecords(ctx, "run-1"); n != 2 {
		t.Errorf("run-1 records = %d, want 2", n)
	}
	if n, _ := s.CountRecords(ctx, "run-2"); n != 1 {
		t.Errorf("run-2 records = %d, want 1", n)
	}
}
