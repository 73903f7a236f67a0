// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/terms"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect or export the term vocabularies",
	Long: `Vocab prints group and term counts for the vocabularies in effect. With
--export-dir it writes the built-in vocabularies as YAML files, which can be
edited and passed back via --devices / --indicators.`,
	RunE: runVocab,
}

func init() {
	vocabCmd.Flags().String("devices", "", "device vocabulary YAML file (default: built-in)")
	vocabCmd.Flags().String("indicators", "", "indicator vocabulary YAML file (default: built-in)")
	vocabCmd.Flags().String("export-dir", "", "write the built-in vocabularies as YAML files to this directory")

	rootCmd.AddCommand(vocabCmd)
}

func runVocab(cmd *cobra.Command, args []string) error {
	if dir, _ := cmd.Flags().GetString("export-dir"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
		for _, v := range []terms.Vocabulary{terms.DefaultDevices(), terms.DefaultIndicators()} {
			path := fmt.Sprintf("%s/%s.yaml", dir, v.Name)
			if err := terms.Write(path, v); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", path)
		}
		return nil
	}

	devices, indicators, err := loadVocabularies(cmd)
	if err != nil {
		return err
	}
	for _, v := range []terms.Vocabulary{devices, indicators} {
		fmt.Fprintf(os.Stdout, "%-24s %3d groups, %3d distinct terms\n", v.Name, len(v.Groups), v.Len())
	}
	return nil
}
