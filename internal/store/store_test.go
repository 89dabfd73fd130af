package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fraglog/fraglog-go/pkg/fraglog"
	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "fraglog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.now = func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) }
	return s
}

func report(game, kills int, frags map[string]int, causes ...event.Cause) fraglog.Report {
	r := fraglog.Report{Game: game, TotalKills: kills, Kills: frags}
	for _, c := range causes {
		r.Means.Inc(c)
	}
	return r
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	require.Error(t, err)
}

func TestOpen_MigrationsRunOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraglog.db")

	for range 2 {
		s, err := Open(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestSaveReports_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	reports := []fraglog.Report{
		report(0, 0, map[string]int{}),
		report(1, 3, map[string]int{"Isgalamido": 1, "Dono da Bola": -1},
			event.CauseRocket, event.CauseTriggerHurt, event.CauseRocket),
	}
	require.NoError(t, s.SaveReports(ctx, "/srv/q3/games.log", reports))

	got, err := s.ListMatches(ctx, "/srv/q3/games.log")
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, m := range got {
		require.Equal(t, "/srv/q3/games.log", m.Source)
		require.Equal(t, s.now(), m.ArchivedAt)
		require.Equal(t, reports[i], m.Report)
	}
}

func TestSaveReports_ReplacesSameGame(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReports(ctx, "a.log", []fraglog.Report{
		report(0, 1, map[string]int{"Zeh": 1}, event.CauseShotgun),
		report(1, 1, map[string]int{"Mal": 1}, event.CauseRailgun),
	}))
	require.NoError(t, s.SaveReports(ctx, "a.log", []fraglog.Report{
		report(0, 2, map[string]int{"Zeh": -2}, event.CauseLava, event.CauseLava),
	}))

	got, err := s.ListMatches(ctx, "a.log")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, map[string]int{"Zeh": -2}, got[0].Report.Kills)
	require.Equal(t, 2, got[0].Report.Means.Get(event.CauseLava))
	require.Zero(t, got[0].Report.Means.Get(event.CauseShotgun))
	require.Equal(t, map[string]int{"Mal": 1}, got[1].Report.Kills)
}

func TestListMatches_AllSources(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReports(ctx, "b.log", []fraglog.Report{report(0, 0, nil)}))
	require.NoError(t, s.SaveReports(ctx, "a.log", []fraglog.Report{report(0, 0, nil), report(1, 0, nil)}))

	got, err := s.ListMatches(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "a.log", got[0].Source)
	require.Equal(t, 1, got[1].Report.Game)
	require.Equal(t, "b.log", got[2].Source)

	got, err = s.ListMatches(ctx, "c.log")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSaveReports_Validation(t *testing.T) {
	s := openTestStore(t)

	require.Error(t, s.SaveReports(context.Background(), "", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.SaveReports(ctx, "a.log", nil), context.Canceled)

	var nilStore *Store
	require.ErrorIs(t, nilStore.SaveReports(context.Background(), "a.log", nil), ErrNotConfigured)
	_, err := nilStore.ListMatches(context.Background(), "")
	require.ErrorIs(t, err, ErrNotConfigured)
	require.NoError(t, nilStore.Close())
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE x (id INTEGER);\n-- +migrate Down\nDROP TABLE x;\n"
	require.Equal(t, "\nCREATE TABLE x (id INTEGER);\n", extractUpMigration(content))
	require.Equal(t, "SELECT 1;", extractUpMigration("SELECT 1;"))
}
