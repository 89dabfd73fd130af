package fraglog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/mmap"

	"github.com/fraglog/fraglog-go/internal/parser"
)

const (
	scanBufferSize = 64 * 1024
	maxLineSize    = 512 * 1024
)

// ParseLine recognizes a single games.log line without aggregating it.
//
// Example:
//
//	ev, err := fraglog.ParseLine(" 1:00 Kill: 1 2 3: A killed B by MOD_ROCKET")
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if ev.Kill != nil {
//	    fmt.Printf("%s fragged %s\n", ev.Kill.Assassin, ev.Kill.Victim)
//	}
func ParseLine(line string) (Event, error) {
	return parser.Line(strings.TrimSuffix(line, "\r"))
}

// Parse aggregates a whole games.log held in memory and returns the Report
// of every closed match, in closing order.
//
// On the first malformed line Parse returns the Reports of all matches
// closed before it together with a *ParseError. A trailing match without
// ShutdownGame produces no Report.
func Parse(data []byte, opts ...ParseOption) ([]Report, error) {
	a := NewAggregator(opts...)
	reports := make([]Report, 0, 16)

	for line := range strings.Lines(string(data)) {
		r, err := a.Feed(strings.TrimSuffix(line, "\n"))
		if err != nil {
			return reports, err
		}
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports, nil
}

// Reports reads a games.log from r and yields the Report of each match as
// soon as its ShutdownGame line is read.
//
// The iterator yields (Report, error) pairs. When an error occurs:
//   - Parse errors: yields (Report{}, *ParseError) and stops, unless
//     WithSkipMalformed is set
//   - Read errors: yields (Report{}, error) and stops
//   - Context cancellation: yields (Report{}, ctx.Err()) and stops
//
// Example:
//
//	for report, err := range fraglog.Reports(ctx, os.Stdin) {
//	    if err != nil {
//	        log.Printf("error: %v", err)
//	        break
//	    }
//	    fmt.Printf("%s: %d kills\n", report.Name(), report.TotalKills)
//	}
func Reports(ctx context.Context, r io.Reader, opts ...ParseOption) iter.Seq2[Report, error] {
	if r == nil {
		return func(yield func(Report, error) bool) {
			yield(Report{}, errors.New("fraglog: reader required"))
		}
	}

	return func(yield func(Report, error) bool) {
		a := NewAggregator(opts...)

		scanner := bufio.NewScanner(r)
		// Increase buffer size for long InitGame lines
		buf := make([]byte, 0, scanBufferSize)
		scanner.Buffer(buf, maxLineSize)

		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(Report{}, err)
				return
			}

			report, err := a.Feed(scanner.Text())
			if err != nil {
				yield(Report{}, err)
				return
			}
			if report == nil {
				continue
			}
			if !yield(*report, nil) {
				return // Consumer requested stop (break)
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Report{}, fmt.Errorf("reading log: %w", err))
		}
	}
}

// ParseReader is like Reports but collects every Report into a slice.
// On error it returns the Reports produced so far together with the error.
func ParseReader(ctx context.Context, r io.Reader, opts ...ParseOption) ([]Report, error) {
	return collect(Reports(ctx, r, opts...))
}

// ParseFile parses a games.log and returns an iterator over its match
// Reports. The file is memory-mapped read-only on first iteration and
// unmapped when iteration ends; it must not be modified meanwhile.
//
// Errors are reported as for Reports; a file that cannot be opened yields
// (Report{}, error) once.
//
// Example:
//
//	for report, err := range fraglog.ParseFile(ctx, "games.log") {
//	    if err != nil {
//	        log.Printf("error: %v", err)
//	        break
//	    }
//	    fmt.Println(report.Name(), report.Players())
//	}
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[Report, error] {
	if path == "" {
		return func(yield func(Report, error) bool) {
			yield(Report{}, errors.New("fraglog: path required"))
		}
	}

	cfg := applyParseOptions(opts)

	return func(yield func(Report, error) bool) {
		ra, err := mmap.Open(path)
		if err != nil {
			yield(Report{}, fmt.Errorf("opening log: %w", err))
			return
		}
		defer ra.Close()

		cfg.logger.Debug("parsing log file",
			"path", path,
			"size", humanize.Bytes(uint64(ra.Len())))

		section := io.NewSectionReader(ra, 0, int64(ra.Len()))
		for report, err := range Reports(ctx, section, opts...) {
			if !yield(report, err) || err != nil {
				return
			}
		}
	}
}

// ParseFileAll is a convenience function that parses a games.log and
// collects all Reports into a slice. Stops on the first error and returns
// the Reports collected so far.
//
// Example:
//
//	reports, err := fraglog.ParseFileAll(ctx, "games.log")
//	for _, r := range reports {
//	    fmt.Printf("%s: %d kills\n", r.Name(), r.TotalKills)
//	}
//	if err != nil {
//	    log.Printf("parse stopped early: %v", err)
//	}
func ParseFileAll(ctx context.Context, path string, opts ...ParseOption) ([]Report, error) {
	return collect(ParseFile(ctx, path, opts...))
}

func collect(seq iter.Seq2[Report, error]) ([]Report, error) {
	reports := make([]Report, 0, 16)
	for report, err := range seq {
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
