// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litretrieve CLI: batched,
// rate-limited retrieval of biomedical literature identifiers from the
// NCBI E-utilities API, de-duplicated across PMC and PubMed.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crazydev-art/hemostatic-urology-literature-retrieval/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide structured logger, configured in the
// persistent pre-run from --log-level and --log-json.
var logger zerolog.Logger

// rootCmd is the base command for the litretrieve CLI.
var rootCmd = &cobra.Command{
	Use:   "litretrieve",
	Short: "Batched literature identifier retrieval from NCBI E-utilities",
	Long: `litretrieve searches PubMed Central and PubMed for articles matching a
boolean query over two controlled vocabularies (hemostatic device terms and
urology indicator terms). Large queries are partitioned under the API's URL
ceiling, result pages are fetched under the published request quota with a
small worker pool, and records from both sources are merged into one
de-duplicated canonical set.

Subcommands: retrieve runs the full pipeline; partition previews the query
batches without touching the network; vocab inspects the vocabularies.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = setupLogging(cmd)

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func setupLogging(cmd *cobra.Command) zerolog.Logger {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	jsonOut, _ := cmd.Flags().GetBool("log-json")
	var w = os.Stderr
	if jsonOut {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litretrieve.yaml or ~/.config/litretrieve/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON instead of console format")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litretrieve")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litretrieve"))
		}
	}

	viper.SetEnvPrefix("LITRETRIEVE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
