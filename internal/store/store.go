// Package store archives match reports in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fraglog/fraglog-go/internal/store/migrations"
	"github.com/fraglog/fraglog-go/pkg/fraglog"
	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

// ErrNotConfigured is returned when a nil or closed Store is used.
var ErrNotConfigured = errors.New("store is not configured")

// Match is an archived Report.
type Match struct {
	// Source identifies the log the match was read from, usually its
	// absolute path.
	Source     string
	ArchivedAt time.Time
	Report     fraglog.Report
}

// Store persists match reports in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite archive, creating it if needed, and applies embedded
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveReports archives reports read from source in one transaction.
// A match already archived for the same source and game number is
// replaced.
func (s *Store) SaveReports(ctx context.Context, source string, reports []fraglog.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return ErrNotConfigured
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return fmt.Errorf("source is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	archivedAt := toMillis(s.now())
	for _, r := range reports {
		if err := saveReport(ctx, tx, source, archivedAt, r); err != nil {
			return fmt.Errorf("save %s: %w", r.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func saveReport(ctx context.Context, tx *sql.Tx, source string, archivedAt int64, r fraglog.Report) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM matches WHERE source = ? AND game = ?`,
		source, r.Game,
	); err != nil {
		return fmt.Errorf("delete previous: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO matches (source, game, total_kills, archived_at) VALUES (?, ?, ?, ?)`,
		source, r.Game, r.TotalKills, archivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("match id: %w", err)
	}

	for player, frags := range r.Kills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_kills (match_id, player, frags) VALUES (?, ?, ?)`,
			matchID, player, frags,
		); err != nil {
			return fmt.Errorf("insert kills: %w", err)
		}
	}

	for cause, n := range r.KillsByMeans() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_means (match_id, cause, kills) VALUES (?, ?, ?)`,
			matchID, cause.Keyword(), n,
		); err != nil {
			return fmt.Errorf("insert means: %w", err)
		}
	}
	return nil
}

// ListMatches returns archived matches ordered by source and game number.
// An empty source lists every source.
func (s *Store) ListMatches(ctx context.Context, source string) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}

	query := `SELECT id, source, game, total_kills, archived_at FROM matches`
	var args []any
	if source = strings.TrimSpace(source); source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY source, game`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var (
		ids     []int64
		matches []Match
	)
	for rows.Next() {
		var (
			id         int64
			m          Match
			archivedAt int64
		)
		if err := rows.Scan(&id, &m.Source, &m.Report.Game, &m.Report.TotalKills, &archivedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.ArchivedAt = fromMillis(archivedAt)
		m.Report.Kills = make(map[string]int)
		ids = append(ids, id)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close matches: %w", err)
	}

	for i := range matches {
		if err := s.loadDetails(ctx, ids[i], &matches[i].Report); err != nil {
			return nil, fmt.Errorf("load %s: %w", matches[i].Report.Name(), err)
		}
	}
	return matches, nil
}

func (s *Store) loadDetails(ctx context.Context, matchID int64, r *fraglog.Report) error {
	kills, err := s.sqlDB.QueryContext(ctx,
		`SELECT player, frags FROM match_kills WHERE match_id = ?`, matchID)
	if err != nil {
		return fmt.Errorf("query kills: %w", err)
	}
	defer kills.Close()
	for kills.Next() {
		var (
			player string
			frags  int
		)
		if err := kills.Scan(&player, &frags); err != nil {
			return fmt.Errorf("scan kills: %w", err)
		}
		r.Kills[player] = frags
	}
	if err := kills.Err(); err != nil {
		return fmt.Errorf("iterate kills: %w", err)
	}

	means, err := s.sqlDB.QueryContext(ctx,
		`SELECT cause, kills FROM match_means WHERE match_id = ?`, matchID)
	if err != nil {
		return fmt.Errorf("query means: %w", err)
	}
	defer means.Close()
	for means.Next() {
		var (
			keyword string
			n       int
		)
		if err := means.Scan(&keyword, &n); err != nil {
			return fmt.Errorf("scan means: %w", err)
		}
		cause, err := event.ParseCause(keyword)
		if err != nil {
			return err
		}
		r.Means[cause] = n
	}
	if err := means.Err(); err != nil {
		return fmt.Errorf("iterate means: %w", err)
	}
	return nil
}
