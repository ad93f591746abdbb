package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taxresolve/transcript-engine/internal/cli"
	"github.com/taxresolve/transcript-engine/internal/model"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <extraction-id>",
		Short: "Record whether an extraction was correct",
		Long: `Record a judgement on one extraction result. Marking an extraction
incorrect generates pattern suggestions for review; none is applied
without an explicit adoption.`,
		Args: cobra.ExactArgs(1),
		RunE: runFeedback,
	}

	cmd.Flags().Bool("correct", false, "The extracted value was correct")
	cmd.Flags().Bool("incorrect", false, "The extracted value was wrong")
	cmd.Flags().String("value", "", "The value that should have been extracted")
	cmd.Flags().String("comments", "", "Free-form notes")

	return cmd
}

func runFeedback(cmd *cobra.Command, args []string) error {
	correct, _ := cmd.Flags().GetBool("correct")
	incorrect, _ := cmd.Flags().GetBool("incorrect")
	value, _ := cmd.Flags().GetString("value")
	comments, _ := cmd.Flags().GetString("comments")

	if correct == incorrect {
		return fmt.Errorf("exactly one of --correct or --incorrect is required")
	}

	ctx := cmd.Context()
	eng, err := initEngine(ctx, true)
	if err != nil {
		return err
	}
	defer eng.close()

	suggestions, err := eng.learning.SubmitFeedback(ctx, model.UserFeedback{
		Timestamp:    time.Now(),
		FeedbackID:   uuid.New().String(),
		ExtractionID: args[0],
		CorrectValue: value,
		Comments:     comments,
		IsCorrect:    correct,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Feedback recorded"))
	for _, sug := range suggestions {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSuggestion(sug))
	}
	if len(suggestions) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(
			"Review with 'transcript suggestions' and adopt with 'transcript suggestions adopt <id>'"))
	}
	return nil
}
