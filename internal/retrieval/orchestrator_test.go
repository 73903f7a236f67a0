// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/entrez"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// scriptedFetcher returns per-query results in order, one script entry per
// attempt. Safe for concurrent workers.
type scriptedFetcher struct {
	mu      sync.Mutex
	scripts map[string][]attempt
	calls   map[string]int
}

type attempt struct {
	res entrez.Result
	err error
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{scripts: map[string][]attempt{}, calls: map[string]int{}}
}

func (f *scriptedFetcher) script(query string, attempts ...attempt) {
	f.scripts[query] = attempts
}

func (f *scriptedFetcher) FetchQuery(_ context.Context, _ types.Source, term string) (entrez.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.calls[term]
	f.calls[term]++
	script := f.scripts[term]
	if n >= len(script) {
		return entrez.Result{}, fmt.Errorf("unscripted attempt %d for %q", n+1, term)
	}
	return script[n].res, script[n].err
}

func records(pmcids ...string) []types.ArticleRecord {
	out := make([]types.ArticleRecord, len(pmcids))
	for i, id := range pmcids {
		out[i] = types.ArticleRecord{PMCID: id, Source: types.SourcePMC}
	}
	return out
}

func ok(pmcids ...string) attempt {
	recs := records(pmcids...)
	return attempt{res: entrez.Result{Records: recs, Expected: len(recs), Retrieved: len(recs), Exhausted: true}}
}

func fail(expected int, pmcids ...string) attempt {
	recs := records(pmcids...)
	return attempt{
		res: entrez.Result{Records: recs, Expected: expected, Retrieved: len(recs)},
		err: errors.New("window fetch failed"),
	}
}

func newOrchestrator(f Fetcher, workers int) *Orchestrator {
	return &Orchestrator{Fetcher: f, Workers: workers, Logger: zerolog.Nop()}
}

func TestRunAllSucceed(t *testing.T) {
	f := newScriptedFetcher()
	f.script("q0", ok("PMC1", "PMC2"))
	f.script("q1", ok("PMC3"))
	f.script("q2", ok())

	report, err := newOrchestrator(f, 2).Run(context.Background(), types.SourcePMC, []string{"q0", "q1", "q2"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 3 || report.Failed != 0 || report.Partial != 0 || report.Recovered != 0 {
		t.Errorf("counts = %d/%d/%d/%d (succeeded/partial/recovered/failed), want 3/0/0/0",
			report.Succeeded, report.Partial, report.Recovered, report.Failed)
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if !report.Complete() {
		t.Error("Complete() = false for a clean run")
	}

	// Records aggregate in batch order regardless of completion order.
	want := []string{"PMC1", "PMC2", "PMC3"}
	if len(report.Records) != len(want) {
		t.Fatalf("got %d records, want %d", len(report.Records), len(want))
	}
	for i, id := range want {
		if report.Records[i].PMCID != id {
			t.Errorf("record %d = %q, want %q", i, report.Records[i].PMCID, id)
		}
	}
}

func TestRunRetryRecovers(t *testing.T) {
	f := newScriptedFetcher()
	f.script("q0", fail(2), ok("PMC1", "PMC2"))

	report, err := newOrchestrator(f, 1).Run(context.Background(), types.SourcePMC, []string{"q0"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 1 || report.Recovered != 1 {
		t.Errorf("succeeded/recovered = %d/%d, want 1/1", report.Succeeded, report.Recovered)
	}
	out := report.Outcomes[0]
	if out.State != StateSucceeded || out.Attempts != 2 {
		t.Errorf("outcome = %s after %d attempts, want succeeded after 2", out.State, out.Attempts)
	}
	if out.Error != "" {
		t.Errorf("recovered batch still carries error %q", out.Error)
	}
	if len(report.Records) != 2 {
		t.Errorf("got %d records, want 2", len(report.Records))
	}
}

func TestRunDoubleFailureKeepsLongerPrefix(t *testing.T) {
	f := newScriptedFetcher()
	// First attempt got 1 record before failing, retry got 3.
	f.script("q0", fail(5, "PMC1"), fail(5, "PMC1", "PMC2", "PMC3"))
	// Sibling batch succeeds so the run itself does not fail.
	f.script("q1", ok("PMC9"))

	report, err := newOrchestrator(f, 1).Run(context.Background(), types.SourcePMC, []string{"q0", "q1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := report.Outcomes[0]
	if out.State != StatePartial {
		t.Fatalf("batch 0 state = %s, want partial", out.State)
	}
	if out.Retrieved != 3 {
		t.Errorf("batch 0 retrieved = %d, want the longer 3-record prefix", out.Retrieved)
	}
	if out.Error == "" {
		t.Error("partial batch lost its error")
	}
	if report.Partial != 1 || report.Retrieved != 4 {
		t.Errorf("partial/retrieved = %d/%d, want 1/4", report.Partial, report.Retrieved)
	}
	if report.Complete() {
		t.Error("Complete() = true despite a partial batch")
	}
}

func TestRunDoubleFailureKeepsFirstWhenLonger(t *testing.T) {
	f := newScriptedFetcher()
	f.script("q0", fail(5, "PMC1", "PMC2"), fail(5))
	f.script("q1", ok("PMC9"))

	report, err := newOrchestrator(f, 1).Run(context.Background(), types.SourcePMC, []string{"q0", "q1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := report.Outcomes[0]
	if out.State != StatePartial || out.Retrieved != 2 {
		t.Errorf("batch 0 = %s with %d records, want partial with the first attempt's 2", out.State, out.Retrieved)
	}
}

func TestRunFailedBatchExcluded(t *testing.T) {
	f := newScriptedFetcher()
	f.script("q0", fail(5), fail(5))
	f.script("q1", ok("PMC9"))

	report, err := newOrchestrator(f, 1).Run(context.Background(), types.SourcePMC, []string{"q0", "q1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 1 || report.Succeeded != 1 {
		t.Errorf("failed/succeeded = %d/%d, want 1/1", report.Failed, report.Succeeded)
	}
	if len(report.Records) != 1 || report.Records[0].PMCID != "PMC9" {
		t.Errorf("records = %v, want only the succeeding batch's", report.Records)
	}
}

func TestRunAllBatchesFailed(t *testing.T) {
	f := newScriptedFetcher()
	f.script("q0", fail(5), fail(5))
	f.script("q1", fail(3), fail(3))

	report, err := newOrchestrator(f, 2).Run(context.Background(), types.SourcePMC, []string{"q0", "q1"})
	if !errors.Is(err, ErrAllBatchesFailed) {
		t.Fatalf("got err %v, want ErrAllBatchesFailed", err)
	}
	if report.Failed != 2 {
		t.Errorf("Failed = %d, want 2", report.Failed)
	}
}

func TestRunCancelledSkipsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newScriptedFetcher()
	f.script("q0", fail(5))

	report, err := newOrchestrator(f, 1).Run(ctx, types.SourcePMC, []string{"q0"})
	if !errors.Is(err, ErrAllBatchesFailed) {
		t.Fatalf("got err %v, want ErrAllBatchesFailed", err)
	}
	if report.Outcomes[0].Attempts != 1 {
		t.Errorf("Attempts = %d after cancellation, want 1", report.Outcomes[0].Attempts)
	}
	if got := f.calls["q0"]; got != 1 {
		t.Errorf("fetcher called %d times, want 1", got)
	}
}

func TestRunEmptyQuerySet(t *testing.T) {
	report, err := newOrchestrator(newScriptedFetcher(), 2).Run(context.Background(), types.SourcePMC, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Batches != 0 || len(report.Records) != 0 {
		t.Errorf("got %+v, want an empty report", report)
	}
}

func TestStateTerminal(t *testing.T) {
	terminal := map[State]bool{
		StatePending:   false,
		StateInFlight:  false,
		StateRetrying:  false,
		StateSucceeded: true,
		StatePartial:   true,
		StateFailed:    true,
	}
	for s, want := range terminal {
		if got := s.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, got, want)
		}
	}
}
