// Package fraglog summarizes Quake III Arena server logs (games.log).
//
// A games.log records every match played on a server as a sequence of
// timestamped lines. This package reads those lines and produces one
// Report per match: the total number of kills, the net frags of each
// player and how many kills each means of death caused.
//
// # Basic Usage
//
// To summarize a whole log file:
//
//	reports, err := fraglog.ParseFileAll(ctx, "games.log")
//	for _, r := range reports {
//	    fmt.Printf("%s: %d kills\n", r.Name(), r.TotalKills)
//	    for _, player := range r.Players() {
//	        fmt.Printf("  %s: %d\n", player, r.Kills[player])
//	    }
//	}
//	if err != nil {
//	    // Reports holds every match closed before the malformed line.
//	    log.Printf("parse stopped early: %v", err)
//	}
//
// To drive the aggregation yourself, one line at a time:
//
//	a := fraglog.NewAggregator()
//	for _, line := range lines {
//	    report, err := a.Feed(line)
//	    if err != nil {
//	        return err
//	    }
//	    if report != nil {
//	        // a match was closed by ShutdownGame
//	    }
//	}
//
// # Scoring
//
// A kill by a player adds one frag to the assassin, including suicides. A
// kill by <world> (falling, lava, trigger hurt, ...) takes one frag from
// the victim. Only ShutdownGame closes a match; a match still open when the
// input ends is not reported.
//
// # Errors
//
// Parsing stops at the first malformed line. The error is a *ParseError
// wrapping one of ErrMalformedTimestamp, ErrUnrecognizedEventKind,
// ErrMalformedKillPayload or ErrUnrecognizedCause, and it is returned
// together with the Reports of every match closed before it. Use
// WithSkipMalformed to drop malformed lines instead.
package fraglog
