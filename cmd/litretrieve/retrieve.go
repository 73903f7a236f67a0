// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/dedup"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/entrez"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/query"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/rate"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/retrieval"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/secrets"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/store"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/terms"
	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "litretrieve/0.1"
	defaultOutFile   = "results/retrieved_ids.json"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Run the full retrieval pipeline and write the canonical id set",
	Long: `Retrieve partitions the device×indicator query under the URL ceiling,
fetches every matching identifier from the selected databases under the
request quota, merges the sources into one de-duplicated canonical set, and
writes it to a JSON file. Failed batches are retried once; remaining
failures are reported, not fatal, unless every batch fails.`,
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().String("devices", "", "device vocabulary YAML file (default: built-in)")
	retrieveCmd.Flags().String("indicators", "", "indicator vocabulary YAML file (default: built-in)")
	retrieveCmd.Flags().Int("from-year", 0, "publication date range start year")
	retrieveCmd.Flags().Int("to-year", 0, "publication date range end year")
	retrieveCmd.Flags().StringSlice("db", []string{"pmc", "pubmed"}, "databases to search (pmc, pubmed)")
	retrieveCmd.Flags().String("out", defaultOutFile, "output JSON file for the canonical id set")
	retrieveCmd.Flags().String("report", "", "optional YAML run report file")
	retrieveCmd.Flags().String("store", "", "optional SQLite database accumulating runs")
	retrieveCmd.Flags().Int("workers", 0, "batch worker pool size (default 2)")
	retrieveCmd.Flags().Int("page-size", 0, "summary page window (default 1000)")
	retrieveCmd.Flags().Int("ceiling", 0, "encoded query length ceiling (default: URL ceiling minus request overhead)")
	retrieveCmd.Flags().String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key or NCBI_API_KEY)")
	retrieveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	devices, indicators, err := loadVocabularies(cmd)
	if err != nil {
		return err
	}

	p := partitionerFromFlags(cmd)
	queries, err := p.Partition(devices.Flatten(), indicators.Flatten())
	if err != nil {
		return fmt.Errorf("partitioning query: %w", err)
	}
	logger.Info().
		Int("devices", len(devices.Flatten())).
		Int("indicators", len(indicators.Flatten())).
		Int("queries", len(queries)).
		Msg("query partitioned")

	flagKey, _ := cmd.Flags().GetString("api-key")
	apiKey := secrets.APIKey(flagKey, loadedSecrets)
	gate := rate.NewGate(rate.LimitFor(apiKey), nil)
	logger.Info().Int("quota_per_second", gate.Limit()).Bool("api_key", apiKey != "").Msg("request gate configured")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize == 0 {
		pageSize = viper.GetInt("entrez.page_size")
	}
	ceiling, _ := cmd.Flags().GetInt("ceiling")
	if ceiling == 0 {
		ceiling = viper.GetInt("entrez.max_url_length")
	}

	client := entrez.NewClient(
		&http.Client{Timeout: timeout},
		gate,
		types.EntrezConfig{
			HTTPConfig:   types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
			APIKey:       apiKey,
			MaxURLLength: ceiling,
			PageSize:     pageSize,
		},
		logger.With().Str("component", "entrez").Logger(),
	)

	orch := &retrieval.Orchestrator{
		Fetcher: client,
		Workers: retrievalConfigFromFlags(cmd).Workers,
		Logger:  logger.With().Str("component", "retrieval").Logger(),
	}

	dbFlags, _ := cmd.Flags().GetStringSlice("db")
	dbs, err := parseSources(dbFlags)
	if err != nil {
		return err
	}

	started := time.Now()
	var reports []retrieval.Report
	var all []types.ArticleRecord
	failedRuns := 0
	for _, db := range dbs {
		rep, err := orch.Run(ctx, db, queries)
		reports = append(reports, rep)
		all = append(all, rep.Records...)
		if err != nil {
			if !errors.Is(err, retrieval.ErrAllBatchesFailed) {
				return err
			}
			failedRuns++
			fmt.Fprintf(os.Stderr, "warning: every batch failed for %s\n", db)
		}
	}
	if failedRuns == len(dbs) {
		return fmt.Errorf("retrieval produced no records: all batches failed in every database")
	}

	canonical, stats := dedup.Merge(all)
	finished := time.Now()

	outPath, _ := cmd.Flags().GetString("out")
	if err := store.WriteResults(outPath, canonical); err != nil {
		return fmt.Errorf("persisting results: %w", err)
	}

	runID := uuid.NewString()
	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		rf := store.RunFile{
			RunID:     runID,
			Started:   started,
			Finished:  finished,
			Reports:   reports,
			Dedup:     stats,
			Canonical: len(canonical),
		}
		if err := store.WriteRunFile(reportPath, rf); err != nil {
			return fmt.Errorf("writing run report: %w", err)
		}
	}
	if storePath, _ := cmd.Flags().GetString("store"); storePath != "" {
		st, err := store.Open(types.StoreConfig{Path: storePath})
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveRun(ctx, runID, started, finished, reports, stats, canonical); err != nil {
			return err
		}
	}

	printSummary(os.Stdout, reports, stats, outPath, finished.Sub(started))
	return nil
}

// printSummary writes the human-readable run accounting.
func printSummary(w io.Writer, reports []retrieval.Report, stats dedup.Stats, outPath string, elapsed time.Duration) {
	for _, r := range reports {
		fmt.Fprintf(w, "%s: %d batches (%d succeeded, %d partial, %d recovered by retry, %d failed), %d of %d records retrieved\n",
			r.DB, r.Batches, r.Succeeded, r.Partial, r.Recovered, r.Failed, r.Retrieved, r.Expected)
		if !r.Complete() {
			fmt.Fprintf(w, "  warning: partial results for %s\n", r.DB)
		}
	}
	fmt.Fprintf(w, "dedup: %d pmc + %d pubmed records (%d without identifiers) -> %d canonical (%d merged)\n",
		stats.InputPMC, stats.InputPubMed, stats.Unidentified, stats.Canonical, stats.Merged)
	fmt.Fprintf(w, "wrote %s in %s\n", outPath, elapsed.Round(time.Millisecond))
}

// loadVocabularies resolves the two term sets from flags, falling back to
// the built-in defaults.
func loadVocabularies(cmd *cobra.Command) (devices, indicators terms.Vocabulary, err error) {
	devices = terms.DefaultDevices()
	indicators = terms.DefaultIndicators()

	if path, _ := cmd.Flags().GetString("devices"); path != "" {
		devices, err = terms.Load(path)
		if err != nil {
			return devices, indicators, err
		}
	}
	if path, _ := cmd.Flags().GetString("indicators"); path != "" {
		indicators, err = terms.Load(path)
		if err != nil {
			return devices, indicators, err
		}
	}
	return devices, indicators, nil
}

// retrievalConfigFromFlags resolves the run settings from command flags
// with viper config as fallback. Commands that lack a flag (partition has
// no --workers) simply resolve it to its fallback.
func retrievalConfigFromFlags(cmd *cobra.Command) types.RetrievalConfig {
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = viper.GetInt("retrieval.workers")
	}
	from, _ := cmd.Flags().GetInt("from-year")
	to, _ := cmd.Flags().GetInt("to-year")
	return types.RetrievalConfig{Workers: workers, FromYear: from, ToYear: to}
}

// partitionerFromFlags builds the query partitioner from command flags and
// viper config. With no explicit --ceiling the query budget is derived
// from the URL ceiling less the fixed request overhead, so a partitioned
// query can never be rejected by the client's own URL check.
func partitionerFromFlags(cmd *cobra.Command) query.Partitioner {
	ceiling, _ := cmd.Flags().GetInt("ceiling")
	if ceiling == 0 {
		flagKey, _ := cmd.Flags().GetString("api-key")
		apiKey := secrets.APIKey(flagKey, loadedSecrets)
		ceiling = entrez.QueryBudget(viper.GetInt("entrez.max_url_length"), apiKey)
	}
	rcfg := retrievalConfigFromFlags(cmd)
	return query.Partitioner{
		Ceiling: ceiling,
		Dates:   query.DateRange{FromYear: rcfg.FromYear, ToYear: rcfg.ToYear},
	}
}

// parseSources validates the --db flag values.
func parseSources(names []string) ([]types.Source, error) {
	var dbs []types.Source
	for _, name := range names {
		switch name {
		case "pmc":
			dbs = append(dbs, types.SourcePMC)
		case "pubmed":
			dbs = append(dbs, types.SourcePubMed)
		default:
			return nil, fmt.Errorf("unknown database %q (expected pmc or pubmed)", name)
		}
	}
	if len(dbs) == 0 {
		return nil, fmt.Errorf("no databases selected")
	}
	return dbs, nil
}
