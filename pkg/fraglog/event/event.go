// Package event defines the values recognized in a Quake III Arena games.log.
//
// This package is separated from the main fraglog package to avoid import cycles
// between pkg/fraglog and internal/parser.
package event

import "sort"

// Kind is the event keyword that follows the timestamp of a log line.
type Kind string

const (
	ClientBegin           Kind = "ClientBegin"
	ClientConnect         Kind = "ClientConnect"
	ClientDisconnect      Kind = "ClientDisconnect"
	ClientUserinfoChanged Kind = "ClientUserinfoChanged"
	InitGame              Kind = "InitGame"
	Item                  Kind = "Item"
	Kill                  Kind = "Kill"
	Say                   Kind = "Say"
	Score                 Kind = "Score"
	ShutdownGame          Kind = "ShutdownGame"
	Exit                  Kind = "Exit"

	// CtfScore is the "red:N  blue:M" team score line.
	CtfScore Kind = "CtfScore"

	// Dashline is a separator line made of '-'.
	Dashline Kind = "Dashline"
)

// allKinds is the canonical list of all event kinds.
var allKinds = []Kind{
	ClientBegin, ClientConnect, ClientDisconnect, ClientUserinfoChanged,
	InitGame, Item, Kill, Say, Score, ShutdownGame, Exit, CtfScore, Dashline,
}

// KindNames returns a sorted list of all event kind names.
func KindNames() []string {
	names := make([]string, len(allKinds))
	for i, k := range allKinds {
		names[i] = string(k)
	}
	sort.Strings(names)
	return names
}

// WorldName is how the log names the environment when it kills a player.
const WorldName = "<world>"

// Actor is the credited side of a kill: either the world or a player.
type Actor struct {
	// World is true when the kill was caused by the environment.
	World bool

	// Name is the raw player name, spaces included. Empty for the world.
	Name string
}

// WorldActor returns the environment actor.
func WorldActor() Actor {
	return Actor{World: true}
}

// Player returns a player actor.
func Player(name string) Actor {
	return Actor{Name: name}
}

// String returns the name as it appears in the log.
func (a Actor) String() string {
	if a.World {
		return WorldName
	}
	return a.Name
}

// KillInfo is the payload of a Kill line.
type KillInfo struct {
	Assassin Actor
	Victim   string
	Cause    Cause
}

// Timestamp is the "minutes:seconds" prefix of a log line.
// The digits are kept exactly as written.
type Timestamp struct {
	Minutes string
	Seconds string
}

// String returns the timestamp in log form.
func (t Timestamp) String() string {
	return t.Minutes + ":" + t.Seconds
}

// Event is one recognized log line.
type Event struct {
	Timestamp Timestamp
	Kind      Kind

	// Kill is set only for Kill events.
	Kill *KillInfo

	// Rest is the unparsed remainder of the line.
	Rest string
}
