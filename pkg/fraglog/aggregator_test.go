package fraglog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fraglog/fraglog-go/pkg/fraglog"
	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

func feedAll(t *testing.T, a *fraglog.Aggregator, lines ...string) []fraglog.Report {
	t.Helper()
	var reports []fraglog.Report
	for _, line := range lines {
		r, err := a.Feed(line)
		require.NoError(t, err, line)
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports
}

func tallyOf(pairs map[event.Cause]int) event.CauseTally {
	var tally event.CauseTally
	for c, n := range pairs {
		for range n {
			tally.Inc(c)
		}
	}
	return tally
}

func TestAggregator_SingleMatch(t *testing.T) {
	a := fraglog.NewAggregator()
	reports := feedAll(t, a,
		" 0:00 InitGame: \\sv_hostname\\Code Miner Server",
		" 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET",
		" 1:05 Kill: 0 0 0: <world> killed B by MOD_FALLING",
		" 1:10 ShutdownGame:",
	)

	require.Len(t, reports, 1)
	r := reports[0]
	require.Equal(t, 0, r.Game)
	require.Equal(t, 2, r.TotalKills)
	require.Equal(t, map[string]int{"A": 1, "B": -1}, r.Kills)
	require.Equal(t, tallyOf(map[event.Cause]int{
		event.CauseRocket:  1,
		event.CauseFalling: 1,
	}), r.Means)
	require.Equal(t, r.TotalKills, r.Means.Total())
}

func TestAggregator_TwoMatches(t *testing.T) {
	a := fraglog.NewAggregator()
	reports := feedAll(t, a,
		" 0:00 InitGame: ",
		" 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET",
		" 1:10 ShutdownGame:",
		" 0:00 InitGame: ",
		" 0:30 Kill: 2 1 3: B killed A by MOD_SHOTGUN",
		" 0:40 Kill: 2 1 3: B killed A by MOD_SHOTGUN",
		" 0:50 ShutdownGame:",
	)

	require.Len(t, reports, 2)
	require.Equal(t, 0, reports[0].Game)
	require.Equal(t, 1, reports[1].Game)

	require.Equal(t, 2, reports[1].TotalKills)
	require.Equal(t, map[string]int{"B": 2}, reports[1].Kills)
	require.Equal(t, 0, reports[1].Means.Get(event.CauseRocket))
	require.Equal(t, 2, reports[1].Means.Get(event.CauseShotgun))

	// The first report is not touched by the second match.
	require.Equal(t, map[string]int{"A": 1}, reports[0].Kills)
	require.Equal(t, 1, reports[0].Means.Get(event.CauseRocket))
}

func TestAggregator_EmptyMatch(t *testing.T) {
	a := fraglog.NewAggregator()
	reports := feedAll(t, a, " 0:00 InitGame: ", " 0:01 ShutdownGame:")

	require.Len(t, reports, 1)
	require.Zero(t, reports[0].TotalKills)
	require.NotNil(t, reports[0].Kills)
	require.Empty(t, reports[0].Kills)
	require.Empty(t, reports[0].Players())
}

func TestAggregator_UnclosedMatch(t *testing.T) {
	a := fraglog.NewAggregator()
	reports := feedAll(t, a,
		" 0:00 InitGame: ",
		" 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET",
		" 1:05 Exit: Timelimit hit.",
	)
	require.Empty(t, reports)

	pending := a.Pending()
	require.Equal(t, 0, pending.Game)
	require.Equal(t, 1, pending.TotalKills)

	// Pending is a copy.
	pending.Kills["A"] = 100
	require.Equal(t, 1, a.Pending().Kills["A"])
}

func TestAggregator_SelfKillCountsForAssassin(t *testing.T) {
	a := fraglog.NewAggregator()
	reports := feedAll(t, a,
		" 1:00 Kill: 2 2 7: Isgalamido killed Isgalamido by MOD_ROCKET_SPLASH",
		" 1:10 ShutdownGame:",
	)
	require.Equal(t, map[string]int{"Isgalamido": 1}, reports[0].Kills)
}

func TestAggregator_OnlyShutdownCloses(t *testing.T) {
	a := fraglog.NewAggregator()
	reports := feedAll(t, a,
		"  0:00 ------------------------------------------------------------",
		" 0:00 InitGame: ",
		" 0:01 ClientConnect: 2",
		" 0:01 ClientUserinfoChanged: 2 n\\Isgalamido\\t\\0",
		" 0:02 ClientBegin: 2",
		" 0:03 Item: 2 weapon_rocketlauncher",
		" 0:04 say: 2 Isgalamido: hi",
		" 0:05 red:8  blue:6",
		" 0:06 Exit: Fraglimit hit.",
		" 0:06 score: 20  ping: 4  client: 2 Isgalamido",
		" 0:07 ClientDisconnect: 2",
		" 0:08 InitGame: ",
	)
	require.Empty(t, reports)
	require.Equal(t, 0, a.Pending().Game)
}

func TestAggregator_BlankLines(t *testing.T) {
	a := fraglog.NewAggregator()
	reports := feedAll(t, a,
		"",
		"   ",
		" 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET\r",
		"\r",
		" 1:10 ShutdownGame:",
	)
	require.Len(t, reports, 1)
	require.Equal(t, 5, a.Lines())
}

func TestAggregator_ParseError(t *testing.T) {
	a := fraglog.NewAggregator()
	feedAll(t, a, " 0:00 InitGame: ", " 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET")

	r, err := a.Feed(" 1:05 Kill: 1 2 3: A killed B by MOD_SWORD")
	require.Nil(t, r)
	require.ErrorIs(t, err, fraglog.ErrUnrecognizedCause)

	var perr *fraglog.ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, 3, perr.Line)
	require.Equal(t, " 1:05 Kill: 1 2 3: A killed B by MOD_SWORD", perr.Text)
	require.Contains(t, perr.Error(), "line 3")

	// A rejected line leaves the state unchanged.
	require.Equal(t, 1, a.Pending().TotalKills)
}

func TestAggregator_KillWithTrailingTextRejected(t *testing.T) {
	a := fraglog.NewAggregator()

	r, err := a.Feed(" 1:05 Kill: 3 4 6: A killed B by MOD_ROCKET trailing junk")
	require.Nil(t, r)
	require.ErrorIs(t, err, fraglog.ErrMalformedKillPayload)
	require.Zero(t, a.Pending().TotalKills)
	require.Empty(t, a.Pending().Kills)
}

func TestAggregator_SkipMalformed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	a := fraglog.NewAggregator(
		fraglog.WithSkipMalformed(true),
		fraglog.WithLogger(logger),
	)
	reports := feedAll(t, a,
		" 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET",
		" 1:01 Frag: what",
		"garbage",
		" 1:02 Kill: 1 2 3: A killed B by MOD_SWORD",
		" 1:10 ShutdownGame:",
	)

	require.Len(t, reports, 1)
	require.Equal(t, 1, reports[0].TotalKills)
	require.Equal(t, 3, strings.Count(buf.String(), "skipping malformed line"))
}

func TestAggregator_Apply(t *testing.T) {
	a := fraglog.NewAggregator()

	require.Nil(t, a.Apply(fraglog.Event{
		Kind: fraglog.EventKill,
		Kill: &event.KillInfo{Assassin: event.WorldActor(), Victim: "Zeh", Cause: event.CauseLava},
	}))
	require.Nil(t, a.Apply(fraglog.Event{Kind: event.Say}))

	r := a.Apply(fraglog.Event{Kind: fraglog.EventShutdownGame})
	require.NotNil(t, r)
	require.Equal(t, map[string]int{"Zeh": -1}, r.Kills)
	require.Equal(t, 1, r.Means.Get(event.CauseLava))
}

func TestAggregator_IndependentInstances(t *testing.T) {
	a := fraglog.NewAggregator()
	b := fraglog.NewAggregator()

	feedAll(t, a, " 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET")
	require.Zero(t, b.Pending().TotalKills)
	require.Empty(t, b.Pending().Kills)
}
