// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rate provides the process-wide request gate. Every outbound
// E-utilities call must pass through one shared Gate; the gate only delays
// callers, it never rejects them. The quota is a hard rolling window: no
// more than Limit grants may start within any window-sized interval.
package rate

import (
	"context"
	"sync"
	"time"
)

// Quota per rolling second, per NCBI E-utilities policy.
const (
	LimitWithKey    = 10
	LimitWithoutKey = 3
)

// LimitFor returns the per-second quota for the given credential.
func LimitFor(apiKey string) int {
	if apiKey != "" {
		return LimitWithKey
	}
	return LimitWithoutKey
}

// Gate is a concurrency-safe rolling-window rate limiter. The zero value is
// not usable; construct with NewGate. Waiters are served roughly in arrival
// order; strict FIFO is not guaranteed and not required.
type Gate struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time // grant times within the window, oldest first

	clk   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewGate constructs a gate permitting limit grants per rolling second.
// clk may be nil, in which case time.Now is used; tests inject a fake clock.
func NewGate(limit int, clk func() time.Time) *Gate {
	if limit <= 0 {
		limit = LimitWithoutKey
	}
	if clk == nil {
		clk = time.Now
	}
	return &Gate{
		limit:  limit,
		window: time.Second,
		clk:    clk,
		sleep:  sleepCtx,
	}
}

// Limit returns the configured quota.
func (g *Gate) Limit() int { return g.limit }

// Wait blocks until a grant is available or ctx is cancelled. It never
// returns a quota error: exceeding the quota only delays the caller.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		wait, ok := g.take()
		if ok {
			return nil
		}
		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Try attempts a non-blocking grant.
func (g *Gate) Try() bool {
	_, ok := g.take()
	return ok
}

// take grants immediately when the window has room, or reports how long
// until the oldest in-window grant expires.
func (g *Gate) take() (wait time.Duration, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clk()
	g.prune(now)

	if len(g.stamps) < g.limit {
		g.stamps = append(g.stamps, now)
		return 0, true
	}
	wait = g.window - now.Sub(g.stamps[0])
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait, false
}

// prune drops grant stamps that have aged out of the window.
func (g *Gate) prune(now time.Time) {
	i := 0
	for i < len(g.stamps) && now.Sub(g.stamps[i]) >= g.window {
		i++
	}
	if i > 0 {
		g.stamps = append(g.stamps[:0], g.stamps[i:]...)
	}
}

// sleepCtx sleeps for d in short slices so ctx cancellation is honored
// promptly even for long waits.
func sleepCtx(ctx context.Context, d time.Duration) error {
	const step = 200 * time.Millisecond
	for d > 0 {
		s := d
		if s > step {
			s = step
		}
		t := time.NewTimer(s)
		select {
		case <-ctx.Done():
			if !t.Stop() {
				<-t.C
			}
			return ctx.Err()
		case <-t.C:
		}
		d -= s
	}
	return nil
}
