// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query partitions a boolean search over two term vocabularies into
// query strings that each stay under the API's encoded URL ceiling.
//
// A full query has the shape
//
//	("device1" OR "device2" OR ...) AND ("indicator1" OR ...) [AND date]
//
// and for realistic vocabularies the full cross product is far too long for
// one request. The partitioner interleaves device and indicator terms
// round-robin into growing batches, closing a batch whenever the next term
// would push the encoded query past the ceiling. Alternation keeps each
// batch balanced between the two sides instead of front-loading devices.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultCeiling bounds the encoded query length. It sits well under the
// E-utilities practical URL limit so the endpoint, fixed request
// parameters and api_key all fit in the remainder; callers that know
// their exact request overhead derive a tighter ceiling from
// entrez.QueryBudget.
const DefaultCeiling = 1800

// ErrEmptyTermSet reports that one of the two term sets is empty; a query
// with an empty AND side matches nothing the caller intended.
var ErrEmptyTermSet = errors.New("query: device and indicator term sets must both be non-empty")

// TermTooLongError reports a single term that cannot fit in an otherwise
// empty query. There is no granularity below a term, so this is fatal.
type TermTooLongError struct {
	Term    string
	Length  int
	Ceiling int
}

func (e *TermTooLongError) Error() string {
	return fmt.Sprintf("query: term %q needs %d encoded bytes alone, ceiling is %d", e.Term, e.Length, e.Ceiling)
}

// DateRange is an optional publication-year filter. Zero on either side
// leaves that side open; the zero value means no date clause.
type DateRange struct {
	FromYear int
	ToYear   int
}

// IsZero reports whether no date filtering was requested.
func (d DateRange) IsZero() bool { return d.FromYear == 0 && d.ToYear == 0 }

// Clause renders the E-utilities publication date clause, e.g.
// "2023[PDAT]:2025[PDAT]".
func (d DateRange) Clause() string {
	switch {
	case d.FromYear != 0 && d.ToYear != 0:
		return fmt.Sprintf("%d[PDAT]:%d[PDAT]", d.FromYear, d.ToYear)
	case d.FromYear != 0:
		return fmt.Sprintf("%d[PDAT]", d.FromYear)
	case d.ToYear != 0:
		return fmt.Sprintf("%d[PDAT]", d.ToYear)
	default:
		return ""
	}
}

// Partitioner builds bounded query strings from term sets.
type Partitioner struct {
	// Ceiling is the maximum encoded query length (DefaultCeiling if 0).
	Ceiling int

	// Dates is the optional publication date filter appended to every query.
	Dates DateRange
}

func (p Partitioner) ceiling() int {
	if p.Ceiling > 0 {
		return p.Ceiling
	}
	return DefaultCeiling
}

// Partition produces the ordered query sequence. Every input term appears
// in at least one query, and every query's encoded length is at or under
// the ceiling. A batch closed after one side's input is exhausted borrows
// that side's first term so the AND shape is preserved; the fit check
// accounts for the borrowed seed, so the ceiling invariant is unconditional.
func (p Partitioner) Partition(devices, indicators []string) ([]string, error) {
	if len(devices) == 0 || len(indicators) == 0 {
		return nil, ErrEmptyTermSet
	}

	date := p.Dates.Clause()
	var queries []string
	var curD, curI []string

	// fits seeds an empty side with that side's first input term, the same
	// seed flush uses, so what is checked is exactly what gets emitted.
	fits := func(d, i []string) bool {
		if len(d) == 0 {
			d = devices[:1]
		}
		if len(i) == 0 {
			i = indicators[:1]
		}
		return encodedLen(buildQuery(d, i, date)) <= p.ceiling()
	}

	flush := func() {
		if len(curD) == 0 && len(curI) == 0 {
			return
		}
		d, i := curD, curI
		if len(d) == 0 {
			d = devices[:1]
		}
		if len(i) == 0 {
			i = indicators[:1]
		}
		queries = append(queries, buildQuery(d, i, date))
		curD, curI = nil, nil
	}

	add := func(term string, cur *[]string, isDevice bool) error {
		cand := append(append([]string(nil), *cur...), term)
		var ok bool
		if isDevice {
			ok = fits(cand, curI)
		} else {
			ok = fits(curD, cand)
		}
		if ok {
			*cur = cand
			return nil
		}
		// The batch is full: close it and open a new one with this term
		// as its first member.
		flush()
		cand = []string{term}
		if isDevice {
			ok = fits(cand, curI)
		} else {
			ok = fits(curD, cand)
		}
		if !ok {
			q := buildQuery(cand, indicators[:1], date)
			if !isDevice {
				q = buildQuery(devices[:1], cand, date)
			}
			return &TermTooLongError{Term: term, Length: encodedLen(q), Ceiling: p.ceiling()}
		}
		*cur = cand
		return nil
	}

	n := len(devices)
	if len(indicators) > n {
		n = len(indicators)
	}
	for i := 0; i < n; i++ {
		if i < len(devices) {
			if err := add(devices[i], &curD, true); err != nil {
				return nil, err
			}
		}
		if i < len(indicators) {
			if err := add(indicators[i], &curI, false); err != nil {
				return nil, err
			}
		}
	}
	flush()

	return queries, nil
}

// buildQuery assembles one boolean query from the two term batches and the
// optional date clause. Terms are quoted so multi-word terms stay phrases.
func buildQuery(devices, indicators []string, dateClause string) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(joinQuoted(devices))
	b.WriteString(") AND (")
	b.WriteString(joinQuoted(indicators))
	b.WriteString(")")
	if dateClause != "" {
		b.WriteString(" AND ")
		b.WriteString(dateClause)
	}
	return b.String()
}

func joinQuoted(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " OR ")
}

// encodedLen is the length the query contributes to the request URL.
func encodedLen(q string) int {
	return len(url.QueryEscape(q))
}
