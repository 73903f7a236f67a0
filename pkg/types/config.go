// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litretrieve/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EntrezConfig holds settings for the E-utilities client.
type EntrezConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional NCBI API key. With a key the request quota is
	// 10 calls per second; without it, 3.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxURLLength is the ceiling on the encoded request URL (default 2000).
	// Queries are partitioned so that no request ever exceeds it.
	MaxURLLength int `json:"max_url_length" yaml:"max_url_length"`

	// PageSize is the summary page window (retmax, default 1000).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// RetrievalConfig holds settings for the batch retrieval run.
type RetrievalConfig struct {
	// Workers is the batch worker pool size (default 2). Kept low on
	// purpose: concurrency beyond the shared request quota buys nothing.
	Workers int `json:"workers" yaml:"workers"`

	// FromYear and ToYear bound the publication date filter. Zero means
	// open-ended on that side; both zero means no date clause.
	FromYear int `json:"from_year" yaml:"from_year"`
	ToYear   int `json:"to_year" yaml:"to_year"`
}

// StoreConfig holds settings for the optional SQLite run store.
type StoreConfig struct {
	// Path is the database file path. Empty disables the store.
	Path string `json:"path" yaml:"path"`
}
