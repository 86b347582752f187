package wiring

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// DefaultLogLevel keeps normal runs quiet.
const DefaultLogLevel = "warn"

// ParseLogLevel accepts debug, info, warn or error (any case).
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		s = DefaultLogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
	}
	return level, nil
}

// NewLogger builds the launcher's structured logger on w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewPluginLogger builds the logger handed to go-plugin clients. Plugin
// stderr is forwarded through it, so it shares the launcher's threshold.
func NewPluginLogger(w io.Writer, level slog.Level) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "engine",
		Output: w,
		Level:  hclogLevel(level),
	})
}

func hclogLevel(level slog.Level) hclog.Level {
	switch {
	case level < slog.LevelDebug:
		return hclog.Trace
	case level < slog.LevelInfo:
		return hclog.Debug
	case level < slog.LevelWarn:
		return hclog.Info
	case level < slog.LevelError:
		return hclog.Warn
	default:
		return hclog.Error
	}
}
