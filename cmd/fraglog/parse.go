package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fraglog/fraglog-go/internal/log"
	"github.com/fraglog/fraglog-go/internal/logfinder"
	"github.com/fraglog/fraglog-go/internal/store"
	"github.com/fraglog/fraglog-go/pkg/fraglog"
)

var (
	// parse flags
	parseLogPath       string
	parseFormat        string
	parseSkipMalformed bool
	parseDB            string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a games.log and report every match",
	Long: `Parse a whole games.log and print one report per match closed by a
ShutdownGame line. A match still running at the end of the log is not
reported.

If a line cannot be parsed, the reports of the matches closed before it
are printed to stderr and the command fails, unless --skip-malformed is
set.

Examples:
  # Parse an explicit file
  fraglog parse /srv/q3/baseq3/games.log

  # Auto-detect games.log (./games.log, ~/.q3a/baseq3/games.log, ...)
  fraglog parse

  # One JSON object per match
  fraglog parse --format jsonl games.log | jq '.total_kills'

  # Archive the reports in SQLite
  fraglog parse --db matches.db games.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseLogPath, "log", "l", "",
		"games.log path (auto-detected if not specified)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "report",
		"Output format: jsonl, report, table")
	parseCmd.Flags().BoolVar(&parseSkipMalformed, "skip-malformed", false,
		"Log and skip lines that cannot be parsed instead of failing")
	parseCmd.Flags().StringVar(&parseDB, "db", "",
		"Archive reports in this SQLite database")

	registerFormatCompletion(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	conf, logger, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := checkFormat(conf.Format); err != nil {
		return err
	}

	explicit := conf.LogPath
	if len(args) == 1 {
		explicit = args[0]
	}
	path, err := logfinder.FindLogFile(explicit)
	if err != nil {
		return err
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports, err := fraglog.ParseFileAll(ctx, path,
		fraglog.WithLogger(logger),
		fraglog.WithSkipMalformed(conf.SkipMalformed),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if errDump := outputReports(conf.Format, reports, cmd.ErrOrStderr()); errDump != nil {
			logger.Error("Failed to dump reports", log.ErrAttr(errDump))
		}
		return fmt.Errorf("failed to parse the entire file, dumped the successful results: %w", err)
	}

	if err := outputReports(conf.Format, reports, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	if conf.Database.Path == "" {
		return nil
	}
	return archive(ctx, logger, conf.Database.Path, path, reports)
}

func outputReports(format string, reports []fraglog.Report, w io.Writer) error {
	for _, r := range reports {
		if err := OutputReport(format, r, w); err != nil {
			return err
		}
	}
	return nil
}

// archive stores reports read from logPath, keyed by its absolute path.
func archive(ctx context.Context, logger *slog.Logger, dbPath, logPath string, reports []fraglog.Report) error {
	source, err := filepath.Abs(logPath)
	if err != nil {
		return fmt.Errorf("resolving source path: %w", err)
	}

	s, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer log.Closer(s)

	if err := s.SaveReports(ctx, source, reports); err != nil {
		return fmt.Errorf("archiving reports: %w", err)
	}
	logger.Info("Archived matches", slog.String("source", source), slog.Int("matches", len(reports)))
	return nil
}
