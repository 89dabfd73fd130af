package fraglog

import "github.com/fraglog/fraglog-go/pkg/fraglog/event"

// Re-export event types for convenience.
// Users can import just "github.com/fraglog/fraglog-go/pkg/fraglog"
// and use fraglog.Event, fraglog.Cause, etc.

// Event represents one recognized games.log line.
type Event = event.Event

// EventKind is the keyword that follows the timestamp of a line.
type EventKind = event.Kind

// Cause is a means of death.
type Cause = event.Cause

// CauseTally counts kills per means of death.
type CauseTally = event.CauseTally

// Actor is the credited side of a kill.
type Actor = event.Actor

// Event kinds that change the aggregation state.
const (
	EventKill         = event.Kill
	EventShutdownGame = event.ShutdownGame
)

// ParseCause resolves a MOD_* keyword.
func ParseCause(keyword string) (Cause, error) {
	return event.ParseCause(keyword)
}
