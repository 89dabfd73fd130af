package fraglog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fraglog/fraglog-go/internal/logfinder"
	"github.com/fraglog/fraglog-go/internal/tailer"
)

// Follower reports matches from a games.log that is still being written
// by a running server. Delivery is best effort: lines written while the
// follower is not running are never seen, and a match that was already in
// progress when following started is reported with only the kills that
// were observed.
type Follower struct {
	cfg     *followConfig
	logFile string

	mu        sync.Mutex
	closed    bool
	cancel    context.CancelFunc // cancel func to stop the goroutine
	doneCh    chan struct{}      // signals when goroutine has exited
	following bool               // true if Follow() has been called
}

// NewFollower creates a follower.
// Resolves the log file but does NOT start goroutines (cheap to call).
// Returns ErrLogNotFound (wrapped) if no games.log can be located.
func NewFollower(opts ...FollowOption) (*Follower, error) {
	cfg := applyFollowOptions(opts)

	logFile, err := logfinder.FindLogFile(cfg.logPath)
	if err != nil {
		return nil, err
	}

	return &Follower{
		cfg:     cfg,
		logFile: logFile,
	}, nil
}

// LogFile returns the resolved path of the followed games.log.
func (f *Follower) LogFile() string {
	return f.logFile
}

// Follow starts following and returns channels.
// When ctx is cancelled, channels are closed automatically.
// Both channels close on ctx.Done() or fatal error.
// Follow can only be called once per Follower instance.
func (f *Follower) Follow(ctx context.Context) (<-chan Report, <-chan error) {
	f.mu.Lock()
	if f.closed || f.following {
		f.mu.Unlock()
		reportCh := make(chan Report)
		errCh := make(chan error)
		close(reportCh)
		close(errCh)
		return reportCh, errCh
	}
	f.following = true

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.doneCh = make(chan struct{})
	f.mu.Unlock()

	reportCh := make(chan Report)
	errCh := make(chan error, 16)

	go f.run(ctx, reportCh, errCh)

	return reportCh, errCh
}

// Close stops the follower and releases resources.
// Safe to call multiple times.
// Blocks until the goroutine has exited.
func (f *Follower) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true

	if f.cancel != nil {
		f.cancel()
	}
	doneCh := f.doneCh
	f.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (f *Follower) run(ctx context.Context, reportCh chan<- Report, errCh chan<- error) {
	defer close(f.doneCh)
	defer close(reportCh)
	defer close(errCh)

	cfg := tailer.Config{
		FromStart: f.cfg.fromStart,
		Poll:      f.cfg.poll,
		Logger:    f.cfg.logger,
	}

	t, err := tailer.New(ctx, f.logFile, cfg)
	if err != nil {
		sendError(errCh, fmt.Errorf("starting tailer: %w", err))
		return
	}
	defer func() { _ = t.Stop() }()

	f.cfg.logger.Debug("following log file",
		slog.String("path", f.logFile),
		slog.Bool("from_start", cfg.FromStart))

	a := NewAggregator(f.cfg.parseOptions()...)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				return
			}
			report, err := a.Feed(line)
			if err != nil {
				// Malformed lines leave the aggregator untouched, keep going.
				sendError(errCh, err)
				continue
			}
			if report == nil {
				continue
			}
			select {
			case reportCh <- *report:
			case <-ctx.Done():
				return
			}
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			sendError(errCh, err)
		}
	}
}

// sendError sends an error non-blocking.
func sendError(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
		// Drop error if channel is full
	}
}

// Follow is a convenience function that creates a follower and starts
// following. Returns error immediately for initialization failures.
func Follow(ctx context.Context, opts ...FollowOption) (<-chan Report, <-chan error, error) {
	f, err := NewFollower(opts...)
	if err != nil {
		return nil, nil, err
	}
	reports, errs := f.Follow(ctx)
	return reports, errs, nil
}
