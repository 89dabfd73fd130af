// Package tailer follows a games.log that a running server keeps appending
// to and delivers each complete line.
//
// The server truncates or recreates games.log between runs, so the file is
// always reopened when that happens. A missing file is an error.
package tailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// errBuffer lets a few tail errors queue up while the consumer is busy.
const errBuffer = 16

// Config selects how the log is followed. The zero value reads only lines
// written from now on, using file system notifications.
type Config struct {
	// FromStart replays the lines already in the file first.
	FromStart bool

	// Poll checks the file periodically instead of relying on
	// inotify/kqueue, e.g. for logs on network mounts.
	Poll bool

	// Logger receives the diagnostics of nxadm/tail (reopens, truncation)
	// at debug level. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration for following new lines only.
func DefaultConfig() Config {
	return Config{}
}

// Tailer delivers the lines of a followed games.log.
type Tailer struct {
	tail   *tail.Tail
	cancel context.CancelFunc
	lines  chan string
	errs   chan error
	done   chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// New starts following path. The tailer stops when ctx is done or Stop is
// called.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	whence := io.SeekEnd
	if cfg.FromStart {
		whence = io.SeekStart
	}

	tcfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      cfg.Poll,
		Location:  &tail.SeekInfo{Whence: whence},
		Logger:    tail.DiscardingLogger,
	}
	if cfg.Logger != nil {
		handler := cfg.Logger.With(slog.String("component", "tail")).Handler()
		tcfg.Logger = slog.NewLogLogger(handler, slog.LevelDebug)
	}

	tf, err := tail.TailFile(path, tcfg)
	if err != nil {
		return nil, fmt.Errorf("tailing %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Tailer{
		tail:   tf,
		cancel: cancel,
		lines:  make(chan string),
		errs:   make(chan error, errBuffer),
		done:   make(chan struct{}),
	}
	go t.run(ctx)

	return t, nil
}

// Lines returns the followed lines without their terminator ("\n" or
// "\r\n"). It is closed once the tailer stops.
func (t *Tailer) Lines() <-chan string {
	return t.lines
}

// Errors returns read errors. Errors that do not fit in the buffer are
// dropped.
func (t *Tailer) Errors() <-chan error {
	return t.errs
}

// Stop stops following and waits until both channels are closed. It may be
// called more than once.
func (t *Tailer) Stop() error {
	t.stopOnce.Do(func() {
		t.cancel()
		<-t.done
		t.stopErr = t.tail.Stop()
	})
	return t.stopErr
}

func (t *Tailer) run(ctx context.Context) {
	defer close(t.done)
	defer close(t.lines)
	defer close(t.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.tail.Lines:
			if !ok || !t.deliver(ctx, line) {
				return
			}
		}
	}
}

// deliver forwards one tailed line or its error. It returns false once ctx
// is done.
func (t *Tailer) deliver(ctx context.Context, line *tail.Line) bool {
	if line.Err != nil {
		select {
		case t.errs <- fmt.Errorf("tail: %w", line.Err):
		case <-ctx.Done():
			return false
		default:
		}
		return true
	}

	select {
	case t.lines <- strings.TrimSuffix(line.Text, "\r"):
		return true
	case <-ctx.Done():
		return false
	}
}
