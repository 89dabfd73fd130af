package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fraglog/fraglog-go/internal/log"
	"github.com/fraglog/fraglog-go/internal/store"
	"github.com/fraglog/fraglog-go/pkg/fraglog"
)

var (
	// follow flags
	followLogPath   string
	followFormat    string
	followDB        string
	followFromStart bool
	followPoll      bool
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Follow a running server's games.log and report matches as they end",
	Long: `Follow a games.log that is still being written and print a report
each time a match is closed by a ShutdownGame line.

Following is best effort. By default only lines written after the
command starts are read, so the first match may be reported with the
kills seen since then. Lines that cannot be parsed are logged and
skipped.

Examples:
  # Follow the auto-detected games.log
  fraglog follow

  # Replay the whole file first, then keep following
  fraglog follow --from-start /srv/q3/baseq3/games.log

  # Archive every finished match
  fraglog follow --db matches.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFollow,
}

func init() {
	followCmd.Flags().StringVarP(&followLogPath, "log", "l", "",
		"games.log path (auto-detected if not specified)")
	followCmd.Flags().StringVarP(&followFormat, "format", "f", "report",
		"Output format: jsonl, report, table")
	followCmd.Flags().StringVar(&followDB, "db", "",
		"Archive finished matches in this SQLite database")
	followCmd.Flags().BoolVar(&followFromStart, "from-start", false,
		"Read the file from the beginning before following")
	followCmd.Flags().BoolVar(&followPoll, "poll", false,
		"Poll for changes instead of using file system notifications")

	registerFormatCompletion(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
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

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	follower, err := fraglog.NewFollower(
		fraglog.WithLogPath(explicit),
		fraglog.WithFollowFromStart(followFromStart),
		fraglog.WithFollowPoll(followPoll),
		fraglog.WithFollowSkipMalformed(conf.SkipMalformed),
		fraglog.WithFollowLogger(logger),
	)
	if err != nil {
		return err
	}
	defer follower.Close()

	source, err := filepath.Abs(follower.LogFile())
	if err != nil {
		return fmt.Errorf("resolving source path: %w", err)
	}

	var archive *store.Store
	if conf.Database.Path != "" {
		archive, err = store.Open(ctx, conf.Database.Path)
		if err != nil {
			return err
		}
		defer log.Closer(archive)
	}

	logger.Info("Following", slog.String("file", source))

	reports, errs := follower.Follow(ctx)

	// Output loop
	for {
		select {
		case r, ok := <-reports:
			if !ok {
				return nil // Channel closed
			}
			if archive != nil {
				if err := archive.SaveReports(ctx, source, []fraglog.Report{r}); err != nil {
					logger.Error("Failed to archive match", slog.String("game", r.Name()), log.ErrAttr(err))
				}
			}
			if err := OutputReport(conf.Format, r, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err, ok := <-errs:
			if !ok {
				return nil // Channel closed
			}
			logger.Warn("Follow error", log.ErrAttr(err))

		case <-ctx.Done():
			return nil
		}
	}
}
