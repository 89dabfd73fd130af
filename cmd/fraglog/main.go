package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fraglog/fraglog-go/internal/config"
	"github.com/fraglog/fraglog-go/internal/log"
)

var (
	// Version information (set by ldflags)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	configFile string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fraglog",
	Short: "Quake III Arena games.log parser",
	Long: `fraglog reads Quake III Arena server logs (games.log) and reports,
for every match, the kill count, each player's net frags and the kills
per means of death.

Settings are read from fraglog.yml (home or working directory, or
--config), then FRAGLOG_* environment variables, then flags.`,
	SilenceUsage: true, // Don't show usage on error
}

func init() {
	// Global flags (inherited by all subcommands)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (default: fraglog.yml in $HOME or the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(causesCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagBindings maps config keys to the command flags that override them.
// Flags a command does not define are skipped by config.Load.
var flagBindings = map[string]string{
	config.KeyLogPath:       "log",
	config.KeyFormat:        "format",
	config.KeySkipMalformed: "skip-malformed",
	config.KeyDatabasePath:  "db",
}

// setup loads the configuration for cmd and installs the process logger.
// The returned func releases the log file, if any.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, func(), error) {
	conf, err := config.Load(configFile, cmd.Flags(), flagBindings)
	if err != nil {
		return nil, nil, nil, err
	}

	level := conf.LogLevel()
	if verbose {
		level = log.Debug
	}

	logger, closer, err := log.New(cmd.ErrOrStderr(), conf.Logging.File, level)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(logger)

	return conf, logger, closer, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fraglog %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
