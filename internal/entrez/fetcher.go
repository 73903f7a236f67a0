// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"context"
	"fmt"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// Result is the outcome of retrieving one query. When FetchQuery returns a
// non-nil error the Result still carries the prefix retrieved before the
// failure, so the caller can keep the partial work.
type Result struct {
	Records   []types.ArticleRecord
	Expected  int
	Retrieved int

	// Exhausted is true when pagination ran to completion: either the
	// cumulative count reached Expected or a window came back short.
	Exhausted bool
}

// FetchQuery retrieves every record matching term in db. It runs esearch
// once for the total count and history handle, then walks fixed-size
// summary windows at strictly increasing offsets until the count is reached
// or a short window signals exhaustion.
//
// Pagination is sequential on purpose: each window's existence depends on
// the previous window's result count, and the shared rate gate makes
// intra-query parallelism pointless anyway.
//
// A page failure truncates this query's retrieval and returns the
// accumulated prefix alongside the error. Retrying is the orchestrator's
// job, at batch granularity.
func (c *Client) FetchQuery(ctx context.Context, db types.Source, term string) (Result, error) {
	h, err := c.search(ctx, db, term)
	if err != nil {
		return Result{}, fmt.Errorf("searching %s: %w", db, err)
	}

	res := Result{Expected: h.Count}
	if h.Count == 0 {
		res.Exhausted = true
		return res, nil
	}

	pageSize := c.cfg.PageSize
	for start := 0; start < h.Count; start += pageSize {
		retmax := pageSize
		if remaining := h.Count - start; remaining < retmax {
			retmax = remaining
		}

		page, err := c.summaryPage(ctx, db, h, start, retmax)
		if err != nil {
			return res, fmt.Errorf("fetching %s summaries at offset %d: %w", db, start, err)
		}

		res.Records = append(res.Records, page...)
		res.Retrieved += len(page)

		c.logger.Debug().
			Str("db", string(db)).
			Int("offset", start).
			Int("page", len(page)).
			Int("retrieved", res.Retrieved).
			Int("expected", res.Expected).
			Msg("summary window fetched")

		// A short window means the server has nothing further for us,
		// whatever the original count said.
		if len(page) < retmax {
			break
		}
	}

	res.Exhausted = true
	return res, nil
}
