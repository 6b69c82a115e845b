// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bibrun CLI. bibrun assembles
// bibliometric data (iCite citation ratios, journal impact factors, and
// Altmetric attention) for a set of PubMed publications and writes a
// summary workbook.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/internal/config"
	"github.com/pdiddy/bibrun/internal/secrets"
	"github.com/pdiddy/bibrun/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded once before any subcommand runs.
var cfg *types.Config

var rootCmd = &cobra.Command{
	Use:   "bibrun",
	Short: "Bibliometric assessment of PubMed publication sets",
	Long: `bibrun collects PubMed identifiers from a search or a PMID list, fetches
citation metrics from iCite, attaches journal impact factors from a ranking
table, adds Altmetric attention counts, and writes a workbook with one row
per publication and a per-category, per-year summary.

Publications no keyword rule can classify, and journal names that only
match the ranking table approximately, are put to the operator unless
--no-prompt is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfgFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(config.New(cfgFile))
		if err != nil {
			return err
		}
		if err := config.InitLogger(c.Log); err != nil {
			return err
		}

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		s.Apply(c)
		if len(s) > 0 {
			zap.L().Debug("loaded secrets", zap.Strings("keys", s.Keys()))
		}

		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bibrun.yaml or ~/.config/bibrun/bibrun.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = zap.L().Sync()
	if err != nil {
		os.Exit(1)
	}
}
