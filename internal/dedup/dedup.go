// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup merges article records from the PMC and PubMed sources into
// one canonical record per real-world article.
//
// Two records refer to the same article iff they share a PMID, share a
// PMCID, or one's cross-reference matches the other's primary id. The
// relation is transitive, so the merge runs as union-find over normalized
// identifier keys rather than pairwise scanning; result sets of 10,000+
// records stay near-linear.
package dedup

import (
	"sort"
	"strings"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// Stats summarizes one merge for the run report.
type Stats struct {
	InputPMC     int `json:"input_pmc" yaml:"input_pmc"`
	InputPubMed  int `json:"input_pubmed" yaml:"input_pubmed"`
	Unidentified int `json:"unidentified" yaml:"unidentified"`
	Merged       int `json:"merged" yaml:"merged"`
	Canonical    int `json:"canonical" yaml:"canonical"`
}

// Merge collapses the record sequences into canonical records. Records
// with no usable identifier are counted and dropped. The output is sorted
// by canonical key; no two output records share any identifier.
//
// A record whose only PMID is a cross-reference that was never directly
// retrieved still keys by that PMID: the cross-reference is an identity
// claim, and honoring it is what keeps the article counted exactly once.
func Merge(records []types.ArticleRecord) ([]types.CanonicalRecord, Stats) {
	var stats Stats
	uf := newUnionFind()

	identified := make([]types.ArticleRecord, 0, len(records))
	for _, r := range records {
		switch r.Source {
		case types.SourcePubMed:
			stats.InputPubMed++
		default:
			stats.InputPMC++
		}
		keys := idKeys(r)
		if len(keys) == 0 {
			stats.Unidentified++
			continue
		}
		identified = append(identified, r)
		for _, k := range keys[1:] {
			uf.union(keys[0], k)
		}
	}

	byRoot := make(map[string]*types.CanonicalRecord)
	for _, r := range identified {
		root := uf.find(idKeys(r)[0])
		c, ok := byRoot[root]
		if !ok {
			c = &types.CanonicalRecord{}
			byRoot[root] = c
		}
		if c.PMID == "" {
			c.PMID = pmid(r)
		}
		if c.PMCID == "" {
			c.PMCID = pmcid(r)
		}
		c.Sources = addSource(c.Sources, r.Source)
	}

	out := make([]types.CanonicalRecord, 0, len(byRoot))
	for _, c := range byRoot {
		if c.PMID != "" {
			c.Key = "pmid:" + c.PMID
		} else {
			c.Key = "pmcid:" + c.PMCID
		}
		sort.Slice(c.Sources, func(i, j int) bool { return c.Sources[i] < c.Sources[j] })
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	stats.Canonical = len(out)
	stats.Merged = len(identified) - len(out)
	return out, stats
}

// idKeys returns the record's normalized identifier keys, primary first.
func idKeys(r types.ArticleRecord) []string {
	var keys []string
	if id := pmid(r); id != "" {
		keys = append(keys, "pmid:"+id)
	}
	if id := pmcid(r); id != "" {
		keys = append(keys, "pmcid:"+id)
	}
	return keys
}

func pmid(r types.ArticleRecord) string {
	id := strings.TrimSpace(r.PMID)
	if id == "0" {
		return ""
	}
	return id
}

func pmcid(r types.ArticleRecord) string {
	return strings.ToUpper(strings.TrimSpace(r.PMCID))
}

func addSource(sources []types.Source, s types.Source) []types.Source {
	for _, have := range sources {
		if have == s {
			return sources
		}
	}
	return append(sources, s)
}

// unionFind is a disjoint-set forest over string keys with path compression
// and union by rank.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string), rank: make(map[string]int)}
}

func (u *unionFind) find(k string) string {
	p, ok := u.parent[k]
	if !ok {
		u.parent[k] = k
		return k
	}
	if p == k {
		return k
	}
	root := u.find(p)
	u.parent[k] = root
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}
