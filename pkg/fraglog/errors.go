package fraglog

import (
	"fmt"

	"github.com/fraglog/fraglog-go/internal/logfinder"
	"github.com/fraglog/fraglog-go/internal/parser"
	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

// Sentinel errors returned by this package.
var (
	// ErrMalformedTimestamp is returned when a line does not start with
	// "minutes:seconds".
	ErrMalformedTimestamp = parser.ErrMalformedTimestamp

	// ErrUnrecognizedEventKind is returned when the keyword after the
	// timestamp is not part of the games.log vocabulary.
	ErrUnrecognizedEventKind = parser.ErrUnrecognizedEventKind

	// ErrMalformedKillPayload is returned when a Kill line lacks the
	// "<ids>: <assassin> killed <victim> by <cause>" shape.
	ErrMalformedKillPayload = parser.ErrMalformedKillPayload

	// ErrUnrecognizedCause is returned when a Kill line names a means of
	// death that is not registered.
	ErrUnrecognizedCause = event.ErrUnrecognizedCause

	// ErrLogNotFound is returned when no games.log can be located.
	ErrLogNotFound = logfinder.ErrLogNotFound
)

// ParseError reports the log line that could not be parsed.
type ParseError struct {
	// Line is the 1-based line number within the parsed input.
	Line int

	// Text is the offending line.
	Text string

	// Err is one of the sentinel errors above, possibly wrapped.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
