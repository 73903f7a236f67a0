// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the literature retrieval
// pipeline: article records as reported by each source, the canonical
// de-duplicated record, and the configuration blocks the stages consume.
package types

// Source identifies which E-utilities database reported a record.
type Source string

const (
	SourcePMC    Source = "pmc"
	SourcePubMed Source = "pubmed"
)

// ArticleRecord is one article as reported by a single source. Exactly one
// of PMCID/PMID is the primary identifier (depending on the source); the
// other is a cross-reference and may be empty when the source does not know
// it.
type ArticleRecord struct {
	// PMCID is the PubMed Central identifier, normalized to the "PMC"
	// prefix (e.g. "PMC8675309"). Empty if unknown.
	PMCID string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`

	// PMID is the PubMed identifier (digits only). Empty if unknown.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// Source is the database that reported this record.
	Source Source `json:"source" yaml:"source"`
}

// HasIdentifier reports whether the record carries at least one usable id.
func (r ArticleRecord) HasIdentifier() bool {
	return r.PMCID != "" || r.PMID != ""
}

// CanonicalRecord is the merged representation of one real-world article
// across sources. Key prefers the PMID when any contributing record knows
// it, and falls back to the PMCID otherwise.
type CanonicalRecord struct {
	// Key is the canonical identity: "pmid:<id>" or "pmcid:<id>".
	Key string `json:"-" yaml:"-"`

	// PMCID and PMID are the merged identifier set. Either may be empty,
	// never both.
	PMCID string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`
	PMID  string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// Sources lists the databases that reported this article, sorted.
	Sources []Source `json:"sources" yaml:"sources"`
}
