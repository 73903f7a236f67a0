// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Preview the partitioned query batches without fetching",
	Long: `Partition builds the query batches exactly as retrieve would and prints
each one with its encoded length, without touching the network. Useful for
auditing the ceiling invariant and estimating batch counts before a run.`,
	RunE: runPartition,
}

func init() {
	partitionCmd.Flags().String("devices", "", "device vocabulary YAML file (default: built-in)")
	partitionCmd.Flags().String("indicators", "", "indicator vocabulary YAML file (default: built-in)")
	partitionCmd.Flags().Int("from-year", 0, "publication date range start year")
	partitionCmd.Flags().Int("to-year", 0, "publication date range end year")
	partitionCmd.Flags().Int("ceiling", 0, "encoded query length ceiling (default: URL ceiling minus request overhead)")
	partitionCmd.Flags().String("api-key", "", "NCBI API key, counted into the request overhead")
	partitionCmd.Flags().Bool("full", false, "print full query strings instead of truncated previews")

	rootCmd.AddCommand(partitionCmd)
}

func runPartition(cmd *cobra.Command, args []string) error {
	devices, indicators, err := loadVocabularies(cmd)
	if err != nil {
		return err
	}

	p := partitionerFromFlags(cmd)
	queries, err := p.Partition(devices.Flatten(), indicators.Flatten())
	if err != nil {
		return fmt.Errorf("partitioning query: %w", err)
	}

	full, _ := cmd.Flags().GetBool("full")
	for i, q := range queries {
		preview := q
		if !full && len(preview) > 100 {
			preview = preview[:97] + "..."
		}
		fmt.Fprintf(os.Stdout, "%3d  %5d encoded bytes  %s\n", i, len(url.QueryEscape(q)), preview)
	}
	fmt.Fprintf(os.Stdout, "\n%d queries from %d device and %d indicator terms\n",
		len(queries), len(devices.Flatten()), len(indicators.Flatten()))
	return nil
}
