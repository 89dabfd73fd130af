package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		want       []string
	}{
		{name: "empty input returns all formats", toComplete: "", want: []string{"jsonl", "report", "table"}},
		{name: "prefix filters", toComplete: "r", want: []string{"report"}},
		{name: "case insensitive", toComplete: "TA", want: []string{"table"}},
		{name: "no match", toComplete: "xml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := completeFormats(parseCmd, nil, tt.toComplete)
			require.Equal(t, tt.want, got)
			require.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		})
	}
}

func TestCompletionCmd(t *testing.T) {
	isolate(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := runCLI(t, context.Background(), "completion", shell)
			require.NoError(t, err)
			require.Contains(t, stdout, "fraglog")
		})
	}
}

func TestFormatFlagCompletionRegistered(t *testing.T) {
	isolate(t)

	for _, sub := range []string{"parse", "follow"} {
		t.Run(sub, func(t *testing.T) {
			stdout, _, err := runCLI(t, context.Background(), cobra.ShellCompRequestCmd, sub, "--format", "")
			require.NoError(t, err)
			require.Contains(t, stdout, "jsonl\nreport\ntable\n")
		})
	}
}

func TestCompletionHelpMentionsFormat(t *testing.T) {
	require.Contains(t, completionCmd.Long, "--format")
}
