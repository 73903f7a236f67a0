// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

// ResultEntry is the per-article value in the result file: the merged
// identifier set and which source(s) reported it.
type ResultEntry struct {
	PMCID   string         `json:"pmcid,omitempty"`
	PMID    string         `json:"pmid,omitempty"`
	Sources []types.Source `json:"sources"`
}

// WriteResults persists the canonical set as an indented JSON object keyed
// by canonical id. The write goes through a temp file and rename so an
// aborted run never leaves a half-written artifact.
func WriteResults(path string, records []types.CanonicalRecord) error {
	out := make(map[string]ResultEntry, len(records))
	for _, r := range records {
		out[r.Key] = ResultEntry{PMCID: r.PMCID, PMID: r.PMID, Sources: r.Sources}
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating results directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".results-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming results into place: %w", err)
	}
	return nil
}

// ReadResults loads a previously written result file.
func ReadResults(path string) (map[string]ResultEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var out map[string]ResultEntry
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing result file %s: %w", path, err)
	}
	return out, nil
}
