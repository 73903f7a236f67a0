// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/dedup"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/retrieval"
)

// RunFile is the on-disk YAML report of one retrieval run: the per-source
// batch accounting and the dedup statistics. It is the auditable record of
// what was requested vs. what was retrieved.
type RunFile struct {
	RunID     string             `yaml:"run_id"`
	Started   time.Time          `yaml:"started"`
	Finished  time.Time          `yaml:"finished"`
	Reports   []retrieval.Report `yaml:"reports"`
	Dedup     dedup.Stats        `yaml:"dedup"`
	Canonical int                `yaml:"canonical"`
}

// WriteRunFile saves the run report to a YAML file.
func WriteRunFile(path string, rf RunFile) error {
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run report.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file %s: %w", path, err)
	}
	return &rf, nil
}
