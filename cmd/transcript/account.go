package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taxresolve/transcript-engine/internal/account"
	"github.com/taxresolve/transcript-engine/internal/cli"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account <file>",
		Short: "Parse an account transcript",
		Long: `Parse one account transcript file: balances, return figures, filing
status, and the full transaction ledger.`,
		Args: cobra.ExactArgs(1),
		RunE: runAccount,
	}

	cmd.Flags().Bool("json", false, "Emit the record as JSON")

	return cmd
}

func runAccount(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	rec, err := account.ParseFile(string(data), filepath.Base(args[0]))
	if err != nil {
		return err
	}

	if asJSON {
		return emitJSON(cmd, rec)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAccount(rec))
	return nil
}
