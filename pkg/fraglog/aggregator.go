package fraglog

import (
	"log/slog"
	"strings"

	"github.com/fraglog/fraglog-go/internal/parser"
	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

// Aggregator folds games.log lines into per-match Reports.
//
// Every Kill line updates the running tallies of the open match. A
// ShutdownGame line closes the match: its Report is returned, the game
// number advances and all tallies are reset. No other line changes state.
//
// An Aggregator is not safe for concurrent use. Independent Aggregators
// share nothing and may run in parallel.
type Aggregator struct {
	logger        *slog.Logger
	skipMalformed bool

	line       int
	game       int
	totalKills int
	kills      map[string]int
	means      event.CauseTally
}

// NewAggregator returns an Aggregator positioned before the first match.
func NewAggregator(opts ...ParseOption) *Aggregator {
	cfg := applyParseOptions(opts)
	return &Aggregator{
		logger:        cfg.logger,
		skipMalformed: cfg.skipMalformed,
		kills:         make(map[string]int),
	}
}

// Feed parses one line and applies it.
//
// Return values:
//   - (*Report, nil): the line closed a match
//   - (nil, nil): the line was applied (or blank) and no match was closed
//   - (nil, *ParseError): the line is malformed; the state is unchanged
//
// With WithSkipMalformed(true), malformed lines are logged and reported as
// (nil, nil).
func (a *Aggregator) Feed(line string) (*Report, error) {
	a.line++
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	ev, err := parser.Line(line)
	if err != nil {
		if a.skipMalformed {
			a.logger.Warn("skipping malformed line",
				slog.Int("line", a.line),
				slog.String("error", err.Error()))
			return nil, nil
		}
		return nil, &ParseError{Line: a.line, Text: strings.Clone(line), Err: err}
	}
	return a.Apply(ev), nil
}

// Apply performs the state transition for an already recognized event.
// It returns the closed match's Report for ShutdownGame and nil otherwise.
func (a *Aggregator) Apply(ev event.Event) *Report {
	switch ev.Kind {
	case event.Kill:
		if ev.Kill != nil {
			a.kill(*ev.Kill)
		}
	case event.ShutdownGame:
		r := a.closeMatch()
		return &r
	}
	return nil
}

// Pending returns a copy of the match that is still open.
// The copy is never emitted as a result: only closed matches are reported.
func (a *Aggregator) Pending() Report {
	return a.snapshot()
}

// Lines returns the number of lines fed so far, blank lines included.
func (a *Aggregator) Lines() int {
	return a.line
}

func (a *Aggregator) kill(k event.KillInfo) {
	a.totalKills++
	if k.Assassin.World {
		a.frag(k.Victim, -1)
	} else {
		a.frag(k.Assassin.Name, 1)
	}
	a.means.Inc(k.Cause)
}

// frag adjusts a player's net frags. Names are cloned on first sight so the
// map never retains the caller's line buffer.
func (a *Aggregator) frag(player string, delta int) {
	if n, ok := a.kills[player]; ok {
		a.kills[player] = n + delta
		return
	}
	a.kills[strings.Clone(player)] = delta
}

func (a *Aggregator) snapshot() Report {
	r := Report{
		Game:       a.game,
		TotalKills: a.totalKills,
		Kills:      a.kills,
		Means:      a.means,
	}
	return r.clone()
}

func (a *Aggregator) closeMatch() Report {
	r := a.snapshot()

	a.logger.Debug("match closed",
		slog.Int("game", r.Game),
		slog.Int("total_kills", r.TotalKills),
		slog.Int("players", len(r.Kills)),
		slog.Int("line", a.line))

	a.game++
	a.totalKills = 0
	clear(a.kills)
	a.means = event.CauseTally{}
	return r
}
