// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("")                       // level from LOG_LEVEL env, default info
//	logging.Setup("debug")                  // explicit level
//	logging.SetupWithLevel(slog.LevelWarn)  // explicit slog level
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging on stderr at the named level. An empty
// name falls back to the LOG_LEVEL env var. Unknown names log at INFO and
// are reported through the returned error.
func Setup(name string) error {
	if name == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	level, err := ParseLevel(name)
	SetupWithLevel(level)
	return err
}

// SetupWithLevel configures colored logging on stderr at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(NewLogger(os.Stderr, level))
}

// NewLogger returns a tint logger writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
	}))
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
// The empty string is INFO.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
