// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bibrun/internal/altmetric"
	"github.com/pdiddy/bibrun/internal/classify"
	"github.com/pdiddy/bibrun/internal/icite"
	"github.com/pdiddy/bibrun/internal/pipeline"
	"github.com/pdiddy/bibrun/internal/prompt"
	"github.com/pdiddy/bibrun/internal/pubmed"
	"github.com/pdiddy/bibrun/internal/workbook"
)

const searchQuestion = "Please copy and paste the URL from your PubMed Search: "

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a bibliometric assessment and write the workbook",
	Long: `Run discovers PubMed identifiers from --search (a PubMed search URL or a
bare search term) or --pmids (a file with one PMID per line), then fetches
iCite records, classifies each publication, matches journals to impact
factors, adds Altmetric counts, and writes the pubData and Summary sheets.

Without --search or --pmids the search URL is read from the terminal.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("search", "", "PubMed search URL or search term")
	runCmd.Flags().String("pmids", "", "file of PMIDs, one per line")
	runCmd.Flags().String("output", "", "workbook path (default from config)")
	runCmd.Flags().Bool("skip-altmetric", false, "do not look up Altmetric attention counts")
	runCmd.MarkFlagsMutuallyExclusive("search", "pmids")
	addMatcherFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var term *prompt.Terminal
	if interactive(cmd) {
		term = prompt.NewTerminal(os.Stdin, os.Stdout)
	}

	in, err := runInput(cmd, term)
	if err != nil {
		return err
	}

	matcher, err := newMatcher(cmd, term)
	if err != nil {
		return err
	}

	var chooser classify.Resolver
	if term != nil {
		chooser = term
	}
	classifier, err := classify.New(cfg.Classify.Rules, cfg.Classify.Categories, chooser)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.Output.Path
	}

	run := pipeline.NewRun()
	run.Discoverer = pubmed.NewClient(cfg.PubMed)
	run.Records = icite.NewClient(cfg.ICite)
	run.Classifier = classifier
	run.Matcher = matcher
	run.Sink = &workbook.Writer{Path: output}
	if skip, _ := cmd.Flags().GetBool("skip-altmetric"); !skip {
		run.Attention = altmetric.NewClient(cfg.Altmetric)
	}

	res, err := run.Execute(ctx, in)
	if err != nil {
		return err
	}
	if err := saveAliases(cmd, matcher); err != nil {
		return err
	}

	printResult(res, output)
	return nil
}

// runInput picks the identifier source: a PMID file, the --search flag, or
// a search URL typed at the terminal.
func runInput(cmd *cobra.Command, term *prompt.Terminal) (pipeline.Input, error) {
	if path, _ := cmd.Flags().GetString("pmids"); path != "" {
		ids, err := pubmed.ReadPMIDFile(path)
		if err != nil {
			return pipeline.Input{}, err
		}
		if len(ids) == 0 {
			return pipeline.Input{}, eris.Errorf("%s lists no PMIDs", path)
		}
		return pipeline.Input{PMIDs: ids}, nil
	}

	if search, _ := cmd.Flags().GetString("search"); search != "" {
		return pipeline.Input{Search: search}, nil
	}

	if term == nil {
		return pipeline.Input{}, eris.New("provide --search or --pmids when prompting is disabled")
	}
	search, err := term.Line(cmd.Context(), searchQuestion)
	if err != nil {
		return pipeline.Input{}, eris.Wrap(err, "reading search URL")
	}
	return pipeline.Input{Search: search}, nil
}

func printResult(res *pipeline.Result, output string) {
	if res.Attention.Incomplete() {
		fmt.Println("Not all articles on Altmetric. Data will be incomplete.")
	}
	if len(res.Unmatched) > 0 {
		fmt.Printf("No impact factor found for %d journal(s):\n", len(res.Unmatched))
		for _, name := range res.Unmatched {
			fmt.Printf("  %s\n", name)
		}
	}
	if res.Unclassified > 0 {
		fmt.Printf("%d publication(s) still need classification.\n", res.Unclassified)
	}
	fmt.Printf("Bibliometric assessment complete: %d publications, %d summary rows. View %s for data.\n",
		len(res.Publications), len(res.Buckets), output)
}
