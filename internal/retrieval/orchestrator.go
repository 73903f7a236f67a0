// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/entrez"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// DefaultWorkers is the batch pool size. Deliberately low: workers share
// one rate gate, so concurrency beyond the quota only adds contention.
const DefaultWorkers = 2

// ErrAllBatchesFailed reports a run in which not a single batch produced
// records. Individual batch failures are bookkeeping, not run failures.
var ErrAllBatchesFailed = errors.New("retrieval: all batches failed")

// Fetcher retrieves all records for one query. *entrez.Client implements
// it; tests substitute doubles.
type Fetcher interface {
	FetchQuery(ctx context.Context, db types.Source, term string) (entrez.Result, error)
}

// Orchestrator fans batches out over a fixed worker pool.
type Orchestrator struct {
	Fetcher Fetcher
	Workers int
	Logger  zerolog.Logger
}

// Run executes the ordered query sequence against db and returns the run
// report. Batches complete in nondeterministic order; the report and the
// aggregate record sequence are assembled in batch order after all workers
// join, so aggregation has a single writer.
//
// Each batch is attempted once and, on error, retried exactly once. A batch
// that still errors keeps the attempt that retrieved more: partial if it
// holds any records, failed otherwise. Run returns ErrAllBatchesFailed only
// when every batch failed.
func (o *Orchestrator) Run(ctx context.Context, db types.Source, queries []string) (Report, error) {
	workers := o.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(queries) && len(queries) > 0 {
		workers = len(queries)
	}

	batches := make([]*Batch, len(queries))
	for i, q := range queries {
		batches[i] = &Batch{Index: i, Query: q, State: StatePending}
	}

	jobs := make(chan *Batch)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				o.runBatch(ctx, db, b)
			}
		}()
	}
	for _, b := range batches {
		jobs <- b
	}
	close(jobs)
	wg.Wait()

	report := Report{
		RunID:   uuid.NewString(),
		DB:      db,
		Batches: len(batches),
	}
	for _, b := range batches {
		out := Outcome{
			Index:     b.Index,
			State:     b.State,
			Attempts:  b.Attempts,
			Expected:  b.Expected,
			Retrieved: b.Retrieved,
		}
		if b.Err != nil {
			out.Error = b.Err.Error()
		}
		report.Outcomes = append(report.Outcomes, out)
		report.Expected += b.Expected

		switch b.State {
		case StateSucceeded:
			report.Succeeded++
		case StatePartial:
			report.Partial++
		case StateFailed:
			report.Failed++
		}
		if b.State == StateSucceeded && b.Attempts > 1 {
			report.Recovered++
		}
		if b.Kept() {
			report.Retrieved += b.Retrieved
			report.Records = append(report.Records, b.Records...)
		}
	}

	o.Logger.Info().
		Str("run_id", report.RunID).
		Str("db", string(db)).
		Int("batches", report.Batches).
		Int("succeeded", report.Succeeded).
		Int("partial", report.Partial).
		Int("recovered", report.Recovered).
		Int("failed", report.Failed).
		Int("expected", report.Expected).
		Int("retrieved", report.Retrieved).
		Msg("retrieval run finished")

	if len(batches) > 0 && report.Failed == len(batches) {
		return report, ErrAllBatchesFailed
	}
	return report, nil
}

// runBatch drives one batch through its state machine.
func (o *Orchestrator) runBatch(ctx context.Context, db types.Source, b *Batch) {
	b.State = StateInFlight
	b.Attempts = 1
	res, err := o.Fetcher.FetchQuery(ctx, db, b.Query)
	o.apply(b, res, err)
	if err == nil {
		b.State = StateSucceeded
		o.warnShortfall(b)
		return
	}

	o.Logger.Warn().
		Int("batch", b.Index).
		Int("retrieved", res.Retrieved).
		Int("expected", res.Expected).
		Err(err).
		Msg("batch attempt failed, retrying once")

	// Cancellation is external abort, not a transient request failure;
	// no retry will fare better.
	if ctx.Err() != nil {
		b.State = StateFailed
		return
	}

	b.State = StateRetrying
	b.Attempts = 2
	res, err = o.Fetcher.FetchQuery(ctx, db, b.Query)
	if err == nil {
		o.apply(b, res, nil)
		b.State = StateSucceeded
		o.warnShortfall(b)
		return
	}

	// Both attempts errored. The retry restarts the batch from offset
	// zero, so either attempt may hold the longer prefix; keep that one.
	if res.Retrieved > b.Retrieved {
		o.apply(b, res, err)
	} else {
		b.Err = err
	}
	if b.Retrieved > 0 {
		b.State = StatePartial
	} else {
		b.State = StateFailed
	}
	o.Logger.Error().
		Int("batch", b.Index).
		Str("state", string(b.State)).
		Int("retrieved", b.Retrieved).
		Err(b.Err).
		Msg("batch failed after retry")
}

// apply records an attempt's result on the batch.
func (o *Orchestrator) apply(b *Batch, res entrez.Result, err error) {
	b.Expected = res.Expected
	b.Retrieved = res.Retrieved
	b.Records = res.Records
	b.Err = err
}

// warnShortfall surfaces the partial-result condition for a batch that
// exhausted cleanly but received fewer records than the API advertised.
func (o *Orchestrator) warnShortfall(b *Batch) {
	if b.Retrieved < b.Expected {
		o.Logger.Warn().
			Int("batch", b.Index).
			Int("retrieved", b.Retrieved).
			Int("expected", b.Expected).
			Msg("batch exhausted below advertised count")
	}
}
