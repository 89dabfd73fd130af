package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/fraglog/fraglog-go/pkg/fraglog"
	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = map[string]bool{
	"report": true,
	"jsonl":  true,
	"table":  true,
}

// FormatNames returns the valid format names, sorted.
func FormatNames() []string {
	return slices.Sorted(maps.Keys(ValidFormats))
}

func checkFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format %q: must be one of: %s", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// OutputReport writes r to w in the given format.
func OutputReport(format string, r fraglog.Report, w io.Writer) error {
	switch format {
	case "report":
		return OutputText(r, w)
	case "jsonl":
		return OutputJSON(r, w)
	case "table":
		return OutputTable(r, w)
	default:
		return checkFormat(format)
	}
}

// OutputText writes the human readable report block followed by a blank
// line:
//
//	"game_1": {
//	  "total_kills": 3,
//	  "players": ["Isgalamido", "Mocinha"],
//	  "kills": {
//	    "Isgalamido": 1,
//	    "Mocinha": 0
//	  },
//	  "kills_by_means": {
//	    "MOD_ROCKET": 3
//	  }
//	}
func OutputText(r fraglog.Report, w io.Writer) error {
	players := r.Players()

	var b strings.Builder
	fmt.Fprintf(&b, "%q: {\n", r.Name())
	fmt.Fprintf(&b, "  \"total_kills\": %d,\n", r.TotalKills)

	quoted := make([]string, len(players))
	for i, p := range players {
		quoted[i] = strconv.Quote(p)
	}
	fmt.Fprintf(&b, "  \"players\": [%s],\n", strings.Join(quoted, ", "))

	kills := make([]string, len(players))
	for i, p := range players {
		kills[i] = fmt.Sprintf("%q: %d", p, r.Kills[p])
	}
	writeObject(&b, "kills", kills)
	b.WriteString(",\n")

	var means []string
	for cause, n := range r.KillsByMeans() {
		means = append(means, fmt.Sprintf("%q: %d", cause.Keyword(), n))
	}
	writeObject(&b, "kills_by_means", means)
	b.WriteString("\n}\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeObject(b *strings.Builder, key string, entries []string) {
	if len(entries) == 0 {
		fmt.Fprintf(b, "  %q: {}", key)
		return
	}
	fmt.Fprintf(b, "  %q: {\n    %s\n  }", key, strings.Join(entries, ",\n    "))
}

type reportJSON struct {
	Game         string         `json:"game"`
	TotalKills   int            `json:"total_kills"`
	Players      []string       `json:"players"`
	Kills        map[string]int `json:"kills"`
	KillsByMeans meansJSON      `json:"kills_by_means"`
}

// meansJSON encodes a tally as an object keyed by cause keyword. Keys keep
// ordinal order, which a map would lose.
type meansJSON event.CauseTally

func (m meansJSON) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for cause, n := range event.CauseTally(m).Counted() {
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(cause.Keyword()))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// OutputJSON writes r as a single JSON object on one line.
func OutputJSON(r fraglog.Report, w io.Writer) error {
	out := reportJSON{
		Game:         r.Name(),
		TotalKills:   r.TotalKills,
		Players:      r.Players(),
		Kills:        r.Kills,
		KillsByMeans: meansJSON(r.Means),
	}
	if out.Players == nil {
		out.Players = []string{}
	}
	if out.Kills == nil {
		out.Kills = map[string]int{}
	}
	return json.NewEncoder(w).Encode(out)
}

// OutputTable writes a title line, a player table and a means of death
// table.
func OutputTable(r fraglog.Report, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s  total kills: %d\n", r.Name(), r.TotalKills); err != nil {
		return err
	}

	players := tablewriter.NewTable(w)
	players.Header("Player", "Kills")
	for _, p := range r.Players() {
		if err := players.Append(p, strconv.Itoa(r.Kills[p])); err != nil {
			return err
		}
	}
	if err := players.Render(); err != nil {
		return err
	}

	means := tablewriter.NewTable(w)
	means.Header("Means of death", "Kills")
	for cause, n := range r.KillsByMeans() {
		if err := means.Append(cause.Keyword(), strconv.Itoa(n)); err != nil {
			return err
		}
	}
	if err := means.Render(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}
