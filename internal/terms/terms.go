// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terms models the controlled vocabularies the search queries are
// built from. A vocabulary is an ordered list of groups, each a primary
// term plus synonyms. Vocabularies are loaded once at startup and treated
// as immutable for the run.
package terms

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Group is one primary term and its synonyms.
type Group struct {
	Term     string   `yaml:"term"`
	Synonyms []string `yaml:"synonyms,omitempty"`
}

// Vocabulary is an ordered set of term groups.
type Vocabulary struct {
	Name   string  `yaml:"name"`
	Groups []Group `yaml:"groups"`
}

// Flatten returns every term and synonym in input order, with exact
// duplicates removed (synonym lists overlap across groups; repeating a term
// in a boolean OR buys nothing and wastes ceiling budget).
func (v Vocabulary) Flatten() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, g := range v.Groups {
		add(g.Term)
		for _, s := range g.Synonyms {
			add(s)
		}
	}
	return out
}

// Len returns the number of distinct terms in the vocabulary.
func (v Vocabulary) Len() int { return len(v.Flatten()) }

// Load reads a vocabulary from a YAML file.
func Load(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("reading vocabulary file: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parsing vocabulary file %s: %w", path, err)
	}
	if len(v.Groups) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary file %s contains no groups", path)
	}
	return v, nil
}

// Write saves a vocabulary to a YAML file.
func Write(path string, v Vocabulary) error {
	data, err := yaml.Marshal(&v)
	if err != nil {
		return fmt.Errorf("marshaling vocabulary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
