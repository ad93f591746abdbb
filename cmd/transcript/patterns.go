package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxresolve/transcript-engine/internal/cli"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Show extraction pattern statistics",
		Long: `Show how extraction patterns have performed: attempt counts, success
rates, feedback coverage, and suggestion activity.`,
		RunE: runPatterns,
	}

	cmd.Flags().String("form", "", "Limit statistics to one form type")
	cmd.Flags().Bool("json", false, "Emit statistics as JSON")

	return cmd
}

func runPatterns(cmd *cobra.Command, _ []string) error {
	formType, _ := cmd.Flags().GetString("form")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	eng, err := initEngine(ctx, true)
	if err != nil {
		return err
	}
	defer eng.close()

	stats := eng.learning.PatternStatistics(formType)

	if asJSON {
		return emitJSON(cmd, stats)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderStatistics(stats))
	return nil
}
