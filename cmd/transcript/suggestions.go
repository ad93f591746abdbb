package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxresolve/transcript-engine/internal/cli"
)

func suggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions <pattern-id>",
		Short: "List pattern suggestions for a field",
		Long: `List the replacement patterns suggested for one extraction rule.
Pattern IDs take the form "FORM/Field Name", e.g. "W-2/Wages".`,
		Args: cobra.ExactArgs(1),
		RunE: runSuggestions,
	}

	cmd.AddCommand(adoptCmd())

	return cmd
}

func adoptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adopt <suggestion-id>",
		Short: "Adopt a suggested pattern",
		Long: `Promote one suggestion to the active extraction pattern for its
field. The change takes effect immediately and persists across runs.`,
		Args: cobra.ExactArgs(1),
		RunE: runAdopt,
	}
}

func runSuggestions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng, err := initEngine(ctx, true)
	if err != nil {
		return err
	}
	defer eng.close()

	suggestions := eng.learning.Suggestions(args[0])
	if len(suggestions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No suggestions for "+args[0]))
		return nil
	}
	for _, sug := range suggestions {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSuggestion(sug))
	}
	return nil
}

func runAdopt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng, err := initEngine(ctx, true)
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.learning.AdoptSuggestion(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Suggestion adopted"))
	return nil
}
