// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/internal/journal"
	"github.com/pdiddy/bibrun/internal/prompt"
	"github.com/pdiddy/bibrun/pkg/types"
)

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Inspect journal impact-factor matching",
}

var journalsMatchCmd = &cobra.Command{
	Use:   "match NAME...",
	Short: "Match journal names against the ranking table",
	Long: `Match resolves each journal name the way a run does: alias table, exact
title, then operator-confirmed fuzzy candidates. Use --save-aliases to keep
confirmed pairs for later runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJournalsMatch,
}

func init() {
	addMatcherFlags(journalsMatchCmd)
	journalsCmd.AddCommand(journalsMatchCmd)
	rootCmd.AddCommand(journalsCmd)
}

// addMatcherFlags registers the flags shared by commands that match
// journal names.
func addMatcherFlags(cmd *cobra.Command) {
	cmd.Flags().String("journals", "", "journal ranking table, .csv or .xlsx (default from config)")
	cmd.Flags().String("aliases", "", "YAML alias file merged over the built-in aliases")
	cmd.Flags().String("save-aliases", "", "write the alias table to this YAML file when done")
	cmd.Flags().Bool("no-prompt", false, "never ask the operator; leave unresolved items unmatched")
}

func interactive(cmd *cobra.Command) bool {
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	return cfg.Interactive && !noPrompt
}

// newMatcher loads the ranking table and alias sources named by flags or
// config. term is nil when prompting is disabled.
func newMatcher(cmd *cobra.Command, term *prompt.Terminal) (*journal.Matcher, error) {
	tablePath, _ := cmd.Flags().GetString("journals")
	if tablePath == "" {
		tablePath = cfg.Journals.TablePath
	}
	table, err := journal.LoadTable(tablePath)
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, eris.Errorf("journal table %s has no ranked rows", tablePath)
	}

	seeds := []map[string]string{journal.DefaultAliases(), cfg.Journals.Aliases}
	aliasPath, _ := cmd.Flags().GetString("aliases")
	if aliasPath == "" {
		aliasPath = cfg.Journals.AliasPath
	}
	if aliasPath != "" {
		fromFile, err := journal.ReadAliases(aliasPath)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, fromFile)
	}
	aliases := journal.NewAliasTable(seeds...)

	var opts []journal.Option
	if len(cfg.Journals.Unmatchable) > 0 {
		opts = append(opts, journal.WithUnmatchable(cfg.Journals.Unmatchable))
	}
	if term != nil {
		opts = append(opts, journal.WithResolver(term))
	}

	zap.L().Info("journal table loaded",
		zap.String("path", tablePath),
		zap.Int("records", table.Len()),
		zap.Int("aliases", aliases.Len()),
	)
	return journal.NewMatcher(table, aliases, opts...), nil
}

// saveAliases writes the matcher's alias table when --save-aliases is set.
func saveAliases(cmd *cobra.Command, m *journal.Matcher) error {
	path, _ := cmd.Flags().GetString("save-aliases")
	if path == "" {
		return nil
	}
	if err := journal.WriteAliases(path, m.Aliases()); err != nil {
		return err
	}
	fmt.Printf("Saved %d journal aliases to %s\n", m.Aliases().Len(), path)
	return nil
}

func runJournalsMatch(cmd *cobra.Command, args []string) error {
	var term *prompt.Terminal
	if interactive(cmd) {
		term = prompt.NewTerminal(os.Stdin, os.Stdout)
	}
	m, err := newMatcher(cmd, term)
	if err != nil {
		return err
	}

	for _, name := range args {
		match, err := m.Match(cmd.Context(), name)
		if err != nil {
			return err
		}
		if !match.Matched() {
			fmt.Printf("%s: unmatched\n", name)
			for _, c := range m.Candidates(name) {
				fmt.Printf("  candidate %s (%s) similarity %.2f\n", c.Record.Title, c.Record.FullTitle, c.Similarity)
			}
			continue
		}
		fmt.Printf("%s -> %s [%s] JIF %.3f, percentile %.1f, quartile %d\n",
			name, match.Record.FullTitle, match.Source, match.JIF(), match.Percentile(),
			types.Quartile(match.Percentile()))
	}
	return saveAliases(cmd, m)
}
