package fraglog

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/maruel/natural"

	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

// Report is the summary of one match, taken when the match was closed by
// a ShutdownGame line. A Report owns its data; the Aggregator never touches
// it again.
type Report struct {
	// Game is the 0-based number of the match within the log.
	Game int

	// TotalKills counts every Kill line of the match, world kills included.
	TotalKills int

	// Kills maps player names to net frags. A player kill adds one to the
	// assassin; a world kill takes one from the victim.
	Kills map[string]int

	// Means counts kills per means of death.
	Means event.CauseTally
}

// Name returns the report key used by the text renderer, e.g. "game_0".
func (r Report) Name() string {
	return fmt.Sprintf("game_%d", r.Game)
}

// Players returns the players of the match in natural order
// ("player2" sorts before "player10").
func (r Report) Players() []string {
	players := slices.Collect(maps.Keys(r.Kills))
	slices.SortFunc(players, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return players
}

// KillsByMeans yields the means of death used in the match with their
// counts, in registry order. Unused means are omitted.
func (r Report) KillsByMeans() iter.Seq2[event.Cause, int] {
	return r.Means.Counted()
}

// clone returns a deep copy of r.
func (r Report) clone() Report {
	r.Kills = maps.Clone(r.Kills)
	if r.Kills == nil {
		r.Kills = make(map[string]int)
	}
	return r
}
