// Package log builds the process logger used by the fraglog command.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dotse/slug"
	slogmulti "github.com/samber/slog-multi"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// ParseLevel validates a level name from configuration. Matching ignores
// case and surrounding spaces.
func ParseLevel(name string) (Level, error) {
	switch level := Level(strings.ToLower(strings.TrimSpace(name))); level {
	case Debug, Info, Warn, Error:
		return level, nil
	default:
		return "", fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", name)
	}
}

func ToSlogLevel(level Level) slog.Level {
	switch level {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// New creates a logger writing to w and, when filePath is set, also to
// that file. The returned closer releases the file and must be called
// once the logger is no longer used.
func New(w io.Writer, filePath string, level Level) (*slog.Logger, func(), error) {
	closer := func() {}

	opts := slug.HandlerOptions{
		HandlerOptions: slog.HandlerOptions{
			Level: ToSlogLevel(level),
		},
	}

	handlers := []slog.Handler{slug.NewHandler(opts, w)}

	if filePath != "" {
		logFile, errLogFile := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if errLogFile != nil {
			return nil, closer, fmt.Errorf("opening log file: %w", errLogFile)
		}

		closer = func() { Closer(logFile) }

		handlers = append(handlers, slug.NewHandler(opts, logFile))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("reason", err)
}

func Closer(closer io.Closer) {
	if errClose := closer.Close(); errClose != nil {
		slog.Error("Failed to close", ErrAttr(errClose))
	}
}
