// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// The retrieval pipeline reads one key file: ncbi-api-key. A missing key is
// not an error; the E-utilities API works without one, at a stricter
// request quota.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NCBIAPIKey is the key-file name carrying the NCBI E-utilities credential.
const NCBIAPIKey = "ncbi-api-key"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr but
// do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey resolves the NCBI credential: an explicit value wins, then the
// secrets directory, then the NCBI_API_KEY environment variable. Empty
// means "no credential" and is a valid outcome.
func APIKey(explicit string, loaded map[string]string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := loaded[NCBIAPIKey]; ok {
		return v
	}
	return os.Getenv("NCBI_API_KEY")
}
