package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"parse", "account", "aggregate", "patterns", "feedback", "suggestions", "migrate", "version"} {
		assert.True(t, names[want], "%s subcommand should exist", want)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-format"))
}

func TestParseCmdFlags(t *testing.T) {
	cmd := parseCmd()

	flag := cmd.Flag("workers")
	require.NotNil(t, flag, "workers flag should exist")
	assert.Equal(t, "5", flag.DefValue)

	assert.NotNil(t, cmd.Flag("json"))
	assert.NotNil(t, cmd.Flag("no-learning"))
}

func TestFeedbackCmdRequiresJudgement(t *testing.T) {
	cmd := feedbackCmd()

	assert.NotNil(t, cmd.Flag("correct"))
	assert.NotNil(t, cmd.Flag("incorrect"))
	assert.NotNil(t, cmd.Flag("value"))
}

func TestSuggestionsCmdHasAdopt(t *testing.T) {
	cmd := suggestionsCmd()

	var adopt *cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.Name() == "adopt" {
			adopt = sub
			break
		}
	}
	assert.NotNil(t, adopt, "adopt subcommand should exist")
}
