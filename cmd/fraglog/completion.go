package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for fraglog.

Besides subcommands and flags, the scripts complete the values of
--format (jsonl, report, table) for parse and follow, and the shell
names of this command.

Bash:
  $ source <(fraglog completion bash)
  $ fraglog completion bash > /etc/bash_completion.d/fraglog

Zsh (with compinit enabled):
  $ fraglog completion zsh > "${fpath[1]}/_fraglog"

Fish:
  $ fraglog completion fish > ~/.config/fish/completions/fraglog.fish

PowerShell:
  PS> fraglog completion powershell | Out-String | Invoke-Expression

Start a new shell for the installed scripts to take effect.`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Usage()
		}

		root := cmd.Root()
		out := cmd.OutOrStdout()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeFormats completes --format values.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var candidates []string
	for _, name := range FormatNames() {
		if strings.HasPrefix(name, strings.ToLower(toComplete)) {
			candidates = append(candidates, name)
		}
	}
	return candidates, cobra.ShellCompDirectiveNoFileComp
}

// registerFormatCompletion registers completion for the --format flag.
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}
