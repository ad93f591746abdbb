package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taxresolve/transcript-engine/internal/account"
	"github.com/taxresolve/transcript-engine/internal/batch"
	"github.com/taxresolve/transcript-engine/internal/cli"
	"github.com/taxresolve/transcript-engine/internal/common"
	"github.com/taxresolve/transcript-engine/internal/config"
	"github.com/taxresolve/transcript-engine/internal/model"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file-or-directory>",
		Short: "Parse wage and income transcripts",
		Long: `Parse one transcript file or a directory of transcripts, extracting
every recognized form with per-field confidence scores.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().Bool("json", false, "Emit parsed forms as JSON")
	cmd.Flags().Bool("no-learning", false, "Disable confidence scoring and extraction history")
	cmd.Flags().Int("workers", batch.DefaultWorkers, "Parallel workers for directory parsing")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
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

	detected := false
	for _, r := range results {
		if r.Err != nil || r.Account != nil || len(r.Forms) > 0 {
			detected = true
			break
		}
	}
	if !detected {
		return fmt.Errorf("%w in %s", common.ErrNoFormsDetected, args[0])
	}

	if asJSON {
		return emitJSON(cmd, results)
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatError(fmt.Sprintf("%s: %v", r.FileName, r.Err)))
			continue
		}
		if r.Account != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAccount(r.Account))
			continue
		}
		for i := range r.Forms {
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderForm(&r.Forms[i]))
		}
	}
	return nil
}

// parseTarget parses a file or a whole directory into batch results.
func parseTarget(cmd *cobra.Command, target string, eng *engine, fc *model.FilingContext, workers int, progress bool) ([]batch.Result, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", target, err)
	}

	processor := batch.NewProcessor(eng.parser, account.NewParser())
	opts := batch.Options{
		FilingContext: fc,
		Workers:       workers,
		ShowProgress:  progress && viper.GetString("logging.format") != "json",
	}

	if info.IsDir() {
		results, stats, dirErr := processor.ProcessDirectory(cmd.Context(), target, opts)
		if dirErr != nil {
			return nil, dirErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf(
			"Parsed %d/%d files, %d forms in %s",
			stats.ParsedFiles, stats.TotalFiles, stats.TotalForms, stats.Duration.Round(time.Millisecond))))
		return results, nil
	}

	return processor.ProcessFiles(cmd.Context(), []string{target}, opts), nil
}

func emitJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
