// Package parser recognizes the structure of Quake III Arena games.log lines.
//
// Every recognizer takes the input span and returns the recognized value
// together with the unconsumed remainder. Recognizers hold no state and only
// return sub-strings of their input.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

// Sentinel errors returned by the recognizers.
var (
	ErrMalformedTimestamp    = errors.New("malformed timestamp")
	ErrUnrecognizedEventKind = errors.New("unrecognized event kind")
	ErrMalformedKillPayload  = errors.New("malformed kill payload")
)

// kindKeywords is tried in order against the text that follows the timestamp.
// No keyword is a prefix of another.
var kindKeywords = []struct {
	keyword string
	kind    event.Kind
}{
	{"ClientBegin:", event.ClientBegin},
	{"ClientConnect:", event.ClientConnect},
	{"ClientDisconnect:", event.ClientDisconnect},
	{"ClientUserinfoChanged:", event.ClientUserinfoChanged},
	{"InitGame:", event.InitGame},
	{"Item:", event.Item},
	{"Kill:", event.Kill},
	{"say:", event.Say},
	{"score:", event.Score},
	{"ShutdownGame:", event.ShutdownGame},
	{"red:", event.CtfScore},
	{"Exit:", event.Exit},
}

const (
	killedSep = " killed "
	bySep     = " by "
)

// Timestamp recognizes the leading "minutes:seconds" of a line.
//
//	"  20:34 ClientConnect: 2" -> {"20", "34"}, " ClientConnect: 2"
func Timestamp(input string) (event.Timestamp, string, error) {
	rest := trimSpaceLeft(input)

	minutes, rest := digits(rest)
	if minutes == "" {
		return event.Timestamp{}, input, fmt.Errorf("%w: expected minutes", ErrMalformedTimestamp)
	}
	rest, ok := strings.CutPrefix(rest, ":")
	if !ok {
		return event.Timestamp{}, input, fmt.Errorf("%w: expected ':' after minutes", ErrMalformedTimestamp)
	}
	seconds, rest := digits(rest)
	if seconds == "" {
		return event.Timestamp{}, input, fmt.Errorf("%w: expected seconds", ErrMalformedTimestamp)
	}

	return event.Timestamp{Minutes: minutes, Seconds: seconds}, rest, nil
}

// EventKind recognizes the event keyword that follows the timestamp.
// A run of one or more '-' is a dashline and is consumed whole.
//
//	" Exit: Timelimit hit." -> event.Exit, " Timelimit hit."
func EventKind(input string) (event.Kind, string, error) {
	rest := trimSpaceLeft(input)

	for _, kw := range kindKeywords {
		if after, ok := strings.CutPrefix(rest, kw.keyword); ok {
			return kw.kind, after, nil
		}
	}

	if dashes := len(rest) - len(strings.TrimLeft(rest, "-")); dashes > 0 {
		return event.Dashline, rest[dashes:], nil
	}

	return "", input, fmt.Errorf("%w: %q", ErrUnrecognizedEventKind, firstField(rest))
}

// Kill recognizes the payload of a Kill line, i.e. everything after "Kill:".
//
//	" 3 4 6: player1 killed Player 2 by MOD_ROCKET"
//
// The numeric ids before the first ':' are skipped. The assassin ends at the
// first " killed " and the victim at the last " by ", so victim names may hold
// spaces. An assassin written as <world> is the environment. Nothing but
// whitespace may follow the cause keyword.
func Kill(input string) (event.KillInfo, string, error) {
	_, rest, ok := strings.Cut(input, ":")
	if !ok {
		return event.KillInfo{}, input, fmt.Errorf("%w: missing ':' after ids", ErrMalformedKillPayload)
	}
	trimmed := trimSpaceLeft(rest)
	if len(trimmed) == len(rest) {
		return event.KillInfo{}, input, fmt.Errorf("%w: missing space after ids", ErrMalformedKillPayload)
	}
	rest = trimmed

	assassin, rest, ok := strings.Cut(rest, killedSep)
	if !ok || assassin == "" {
		return event.KillInfo{}, input, fmt.Errorf("%w: missing %q", ErrMalformedKillPayload, strings.TrimSpace(killedSep))
	}

	i := strings.LastIndex(rest, bySep)
	if i <= 0 {
		return event.KillInfo{}, input, fmt.Errorf("%w: missing %q", ErrMalformedKillPayload, strings.TrimSpace(bySep))
	}
	victim, rest := rest[:i], rest[i+len(bySep):]

	keyword, rest := nextField(rest)
	if keyword == "" {
		return event.KillInfo{}, input, fmt.Errorf("%w: missing cause", ErrMalformedKillPayload)
	}
	cause, err := event.ParseCause(keyword)
	if err != nil {
		return event.KillInfo{}, input, err
	}
	if rest = trimSpaceLeft(rest); rest != "" {
		return event.KillInfo{}, input, fmt.Errorf("%w: unexpected %q after cause", ErrMalformedKillPayload, rest)
	}

	info := event.KillInfo{
		Assassin: event.Player(assassin),
		Victim:   victim,
		Cause:    cause,
	}
	if assassin == event.WorldName {
		info.Assassin = event.WorldActor()
	}
	return info, rest, nil
}

// Line recognizes a whole line: timestamp, event kind and, for Kill lines,
// the kill payload.
func Line(line string) (event.Event, error) {
	ts, rest, err := Timestamp(line)
	if err != nil {
		return event.Event{}, err
	}
	kind, rest, err := EventKind(rest)
	if err != nil {
		return event.Event{}, err
	}

	ev := event.Event{Timestamp: ts, Kind: kind, Rest: rest}
	if kind == event.Kill {
		info, rest, err := Kill(rest)
		if err != nil {
			return event.Event{}, err
		}
		ev.Kill = &info
		ev.Rest = rest
	}
	return ev, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func trimSpaceLeft(s string) string {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return s[i:]
}

// digits splits s after its leading run of ASCII digits.
func digits(s string) (string, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// nextField returns the first whitespace-delimited token of s and what follows it.
func nextField(s string) (string, string) {
	s = trimSpaceLeft(s)
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func firstField(s string) string {
	f, _ := nextField(s)
	return f
}
