package fraglog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fraglog/fraglog-go/pkg/fraglog"
)

const followTimeout = 3 * time.Second

func TestFollow_FromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.log")
	content := " 0:00 InitGame: \n" +
		" 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET\n" +
		" 1:10 ShutdownGame:\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f, err := fraglog.NewFollower(
		fraglog.WithLogPath(path),
		fraglog.WithFollowFromStart(true),
	)
	require.NoError(t, err)
	defer f.Close()

	reports, errs := f.Follow(ctx)

	select {
	case r := <-reports:
		require.Equal(t, 0, r.Game)
		require.Equal(t, map[string]int{"A": 1}, r.Kills)
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(followTimeout):
		t.Fatal("timeout waiting for report")
	}
}

func TestFollow_AppendedMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports, errs, err := fraglog.Follow(ctx, fraglog.WithLogPath(path))
	require.NoError(t, err)

	// Give tailer a moment to start watching
	time.Sleep(100 * time.Millisecond)

	out, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer out.Close()
	_, err = out.WriteString(" 0:00 InitGame: \n" +
		" 0:10 Kill: 1 2 3: <world> killed Zeh by MOD_LAVA\n" +
		" 0:20 Kill: 1 2 3: bad line\n" +
		" 0:30 ShutdownGame:\n")
	require.NoError(t, err)
	require.NoError(t, out.Sync())

	var gotErr error
	for {
		select {
		case r := <-reports:
			require.Equal(t, map[string]int{"Zeh": -1}, r.Kills)
			if gotErr == nil {
				// Sent before the report, so it is already buffered.
				gotErr = <-errs
			}
			require.ErrorIs(t, gotErr, fraglog.ErrMalformedKillPayload)
			return
		case err := <-errs:
			gotErr = err
		case <-time.After(followTimeout):
			t.Fatal("timeout waiting for report")
		}
	}
}

func TestFollow_LogNotFound(t *testing.T) {
	_, _, err := fraglog.Follow(context.Background(),
		fraglog.WithLogPath(filepath.Join(t.TempDir(), "missing.log")))
	require.ErrorIs(t, err, fraglog.ErrLogNotFound)
}

func TestFollower_CloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	f, err := fraglog.NewFollower(fraglog.WithLogPath(path))
	require.NoError(t, err)

	reports, _ := f.Follow(context.Background())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, ok := <-reports
	require.False(t, ok)

	// A closed follower returns closed channels.
	reports, errs := f.Follow(context.Background())
	_, ok = <-reports
	require.False(t, ok)
	_, ok = <-errs
	require.False(t, ok)
}
