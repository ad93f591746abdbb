package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxresolve/transcript-engine/internal/batch"
	"github.com/taxresolve/transcript-engine/internal/cli"
	"github.com/taxresolve/transcript-engine/internal/config"
	"github.com/taxresolve/transcript-engine/internal/model"
	"github.com/taxresolve/transcript-engine/internal/parser"
)

func aggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate <directory>",
		Short: "Parse transcripts and summarize income by year",
		Long: `Parse every transcript in a directory, then aggregate the recognized
forms into per-year and overall income, withholding, and estimated AGI.`,
		Args: cobra.ExactArgs(1),
		RunE: runAggregate,
	}

	cmd.Flags().Bool("json", false, "Emit the summary as JSON")
	cmd.Flags().Bool("no-learning", false, "Disable confidence scoring and extraction history")
	cmd.Flags().Int("workers", batch.DefaultWorkers, "Parallel workers")

	return cmd
}

func runAggregate(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	noLearning, _ := cmd.Flags().GetBool("no-learning")
	workers, _ := cmd.Flags().GetInt("workers")

	ctx := cmd.Context()
	eng, err := initEngine(ctx, !noLearning)
	if err != nil {
		return err
	}
	defer eng.close()

	fc, err := config.LoadFilingContext()
	if err != nil {
		return err
	}

	results, err := parseTarget(cmd, args[0], eng, fc, workers, !asJSON)
	if err != nil {
		return err
	}

	var forms []model.ParsedForm
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(fmt.Sprintf("%s: %v", r.FileName, r.Err)))
			continue
		}
		forms = append(forms, r.Forms...)
	}

	summary := parser.Aggregate(forms)

	if asJSON {
		return emitJSON(cmd, summary)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSummary(summary))
	return nil
}
