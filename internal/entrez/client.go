// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entrez talks to the NCBI E-utilities API: esearch for match
// counts and history handles, esummary for paginated record summaries.
// Every outbound request passes through the shared rate gate before it is
// issued.
package entrez

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/httputil"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/rate"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// BaseURL is the E-utilities endpoint root. Declared as a var so tests can
// substitute an httptest server.
var BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

const (
	defaultPageSize     = 1000
	defaultMaxURLLength = 2000
)

// URLTooLongError reports a request URL over the configured ceiling. The
// partitioner guarantees queries fit, so hitting this is a programming
// error, not a runtime condition to retry.
type URLTooLongError struct {
	Length  int
	Ceiling int
}

func (e *URLTooLongError) Error() string {
	return fmt.Sprintf("entrez: encoded URL is %d bytes, ceiling is %d", e.Length, e.Ceiling)
}

// QueryBudget returns the encoded-query length budget that maxURL leaves
// after the fixed esearch request overhead: the base URL, the endpoint, the
// standing parameters, and the api_key when one is set. Overhead is
// measured against the longest database name, so a query partitioned at
// this budget passes the URL ceiling check for every database. maxURL of
// zero means the default ceiling.
func QueryBudget(maxURL int, apiKey string) int {
	if maxURL <= 0 {
		maxURL = defaultMaxURLLength
	}
	params := url.Values{
		"db":         {string(types.SourcePubMed)},
		"term":       {""},
		"usehistory": {"y"},
		"retmode":    {"json"},
		"retmax":     {"0"},
	}
	if apiKey != "" {
		params.Set("api_key", apiKey)
	}
	overhead := len(BaseURL) + len("esearch.fcgi?") + len(params.Encode())
	return maxURL - overhead
}

// Client issues rate-gated requests against the E-utilities API.
type Client struct {
	http   *http.Client
	gate   *rate.Gate
	cfg    types.EntrezConfig
	logger zerolog.Logger
}

// NewClient builds a client around the shared HTTP client and rate gate.
func NewClient(httpClient *http.Client, gate *rate.Gate, cfg types.EntrezConfig, logger zerolog.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxURLLength <= 0 {
		cfg.MaxURLLength = defaultMaxURLLength
	}
	return &Client{http: httpClient, gate: gate, cfg: cfg, logger: logger}
}

// PageSize returns the summary window size in effect.
func (c *Client) PageSize() int { return c.cfg.PageSize }

// searchHandle carries the esearch outcome needed to page summaries: the
// total match count and the server-side history handle.
type searchHandle struct {
	Count    int
	WebEnv   string
	QueryKey string
}

// search runs esearch with history enabled and returns the match count and
// history handle for the term.
func (c *Client) search(ctx context.Context, db types.Source, term string) (searchHandle, error) {
	params := url.Values{
		"db":         {string(db)},
		"term":       {term},
		"usehistory": {"y"},
		"retmode":    {"json"},
		"retmax":     {"0"},
	}

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return searchHandle{}, err
	}

	var er esearchResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return searchHandle{}, fmt.Errorf("parsing esearch response: %w", err)
	}
	count, err := strconv.Atoi(er.Result.Count)
	if err != nil {
		return searchHandle{}, fmt.Errorf("parsing esearch count %q: %w", er.Result.Count, err)
	}
	return searchHandle{Count: count, WebEnv: er.Result.WebEnv, QueryKey: er.Result.QueryKey}, nil
}

// summaryPage fetches one esummary window via the history handle and
// parses it into article records for the given source.
func (c *Client) summaryPage(ctx context.Context, db types.Source, h searchHandle, retstart, retmax int) ([]types.ArticleRecord, error) {
	params := url.Values{
		"db":        {string(db)},
		"WebEnv":    {h.WebEnv},
		"query_key": {h.QueryKey},
		"retmode":   {"json"},
		"retstart":  {strconv.Itoa(retstart)},
		"retmax":    {strconv.Itoa(retmax)},
	}

	body, err := c.get(ctx, "esummary.fcgi", params)
	if err != nil {
		return nil, err
	}

	var sr esummaryResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing esummary response: %w", err)
	}

	records := make([]types.ArticleRecord, 0, len(sr.Result.UIDs))
	for _, uid := range sr.Result.UIDs {
		raw, ok := sr.Result.Docs[uid]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		records = append(records, parseRecord(db, uid, doc))
	}
	return records, nil
}

// parseRecord maps one esummary document to an ArticleRecord. The primary
// id depends on the database: PMC uids are PMC numbers with an optional
// pmid cross-reference; PubMed uids are pmids with an optional pmcid
// cross-reference.
func parseRecord(db types.Source, uid string, doc esummaryDoc) types.ArticleRecord {
	rec := types.ArticleRecord{Source: db}
	switch db {
	case types.SourcePubMed:
		rec.PMID = uid
		for _, id := range doc.ArticleIDs {
			switch id.IDType {
			case "pmc", "pmcid":
				rec.PMCID = NormalizePMCID(id.Value)
			}
		}
	default:
		rec.PMCID = NormalizePMCID(uid)
		for _, id := range doc.ArticleIDs {
			if id.IDType == "pmid" && id.Value != "0" {
				rec.PMID = id.Value
			}
		}
	}
	return rec
}

// NormalizePMCID upper-cases the PMC prefix and adds it to bare numbers,
// so "8675309", "pmc8675309" and "PMC8675309" all key identically.
func NormalizePMCID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "PMC"); ok {
		return "PMC" + rest
	}
	return "PMC" + s
}

// get performs one rate-gated GET against endpoint and returns the body.
// It enforces the encoded URL ceiling before touching the network.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	reqURL := BaseURL + endpoint + "?" + params.Encode()
	if len(reqURL) > c.cfg.MaxURLLength {
		return nil, &URLTooLongError{Length: len(reqURL), Ceiling: c.cfg.MaxURLLength}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	// The gate is applied inside DoWithRetry so backoff resends are
	// quota-gated like first attempts.
	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0, c.gate, c.logger)
	if err != nil {
		return nil, fmt.Errorf("E-utilities request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("E-utilities returned HTTP %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// E-utilities JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count    string `json:"count"`
	WebEnv   string `json:"webenv"`
	QueryKey string `json:"querykey"`
}

// esummaryResponse's result object maps each uid to its document, plus a
// "uids" array giving the window order; hence the custom unmarshaling.
type esummaryResponse struct {
	Result esummaryResult `json:"result"`
}

type esummaryResult struct {
	UIDs []string
	Docs map[string]json.RawMessage
}

func (r *esummaryResult) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	if raw, ok := all["uids"]; ok {
		if err := json.Unmarshal(raw, &r.UIDs); err != nil {
			return err
		}
		delete(all, "uids")
	}
	r.Docs = all
	return nil
}

type esummaryDoc struct {
	UID        string      `json:"uid"`
	ArticleIDs []articleID `json:"articleids"`
}

type articleID struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}
