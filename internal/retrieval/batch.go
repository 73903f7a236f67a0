// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval executes partitioned queries as batches over a bounded
// worker pool, retries each failing batch once, and aggregates per-batch
// outcomes into a run report.
package retrieval

import (
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// State is a batch's position in its lifecycle:
//
//	pending → in_flight → {succeeded | partial | failed}
//	partial|failed (with an error) → retrying → {succeeded | partial | failed}
//
// succeeded, partial and failed after the retry are terminal.
type State string

const (
	StatePending   State = "pending"
	StateInFlight  State = "in_flight"
	StateRetrying  State = "retrying"
	StateSucceeded State = "succeeded"
	StatePartial   State = "partial"
	StateFailed    State = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StatePartial || s == StateFailed
}

// Batch is one partitioned query plus its execution state. A batch is the
// unit of parallel work and of retry.
type Batch struct {
	Index    int
	Query    string
	State    State
	Attempts int

	// Expected and Retrieved reflect the attempt whose records were kept.
	Expected  int
	Retrieved int
	Records   []types.ArticleRecord
	Err       error
}

// Kept reports whether the batch's records contribute to the aggregate.
// Permanently failed batches are excluded; partial batches contribute
// their prefix.
func (b *Batch) Kept() bool {
	return b.State == StateSucceeded || b.State == StatePartial
}

// Outcome is the per-batch entry in the run report.
type Outcome struct {
	Index     int    `json:"index" yaml:"index"`
	State     State  `json:"state" yaml:"state"`
	Attempts  int    `json:"attempts" yaml:"attempts"`
	Expected  int    `json:"expected" yaml:"expected"`
	Retrieved int    `json:"retrieved" yaml:"retrieved"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the run-level accounting: what was requested vs. what was
// retrieved, batch by batch. The record sequence concatenates all kept
// batches in batch order.
type Report struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	DB        types.Source `json:"db" yaml:"db"`
	Batches   int          `json:"batches" yaml:"batches"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Partial   int          `json:"partial" yaml:"partial"`
	Recovered int          `json:"recovered" yaml:"recovered"`
	Failed    int          `json:"failed" yaml:"failed"`
	Expected  int          `json:"expected" yaml:"expected"`
	Retrieved int          `json:"retrieved" yaml:"retrieved"`
	Outcomes  []Outcome    `json:"outcomes" yaml:"outcomes"`

	Records []types.ArticleRecord `json:"-" yaml:"-"`
}

// Complete reports whether every batch retrieved everything the API said
// was available. False means the run carries a partial-result warning.
func (r Report) Complete() bool {
	return r.Failed == 0 && r.Partial == 0 && r.Retrieved >= r.Expected
}
