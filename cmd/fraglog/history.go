package main

import (
	"errors"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fraglog/fraglog-go/internal/log"
	"github.com/fraglog/fraglog-go/internal/store"
)

// history flags
var historyDB string

var historyCmd = &cobra.Command{
	Use:   "history [source]",
	Short: "List matches archived by parse --db or follow --db",
	Long: `List the matches stored in a SQLite archive, ordered by source log
and game number. Pass a games.log path to show only its matches.

Examples:
  fraglog history --db matches.db
  fraglog history --db matches.db /srv/q3/baseq3/games.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "",
		"SQLite archive to read")
}

func runHistory(cmd *cobra.Command, args []string) error {
	conf, _, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if conf.Database.Path == "" {
		return errors.New("no archive configured: set --db or database.path")
	}

	var source string
	if len(args) == 1 {
		if source, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	s, err := store.Open(ctx, conf.Database.Path)
	if err != nil {
		return err
	}
	defer log.Closer(s)

	matches, err := s.ListMatches(ctx, source)
	if err != nil {
		return err
	}

	table := tablewriter.NewTable(cmd.OutOrStdout())
	table.Header("Source", "Game", "Total kills", "Players", "Archived")
	for _, m := range matches {
		if err := table.Append(
			m.Source,
			m.Report.Name(),
			strconv.Itoa(m.Report.TotalKills),
			strconv.Itoa(len(m.Report.Kills)),
			humanize.Time(m.ArchivedAt),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
