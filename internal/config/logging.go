package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/lmittmann/tint"
	"golang.org/x/exp/slog"
)

// LogLevelEnv overrides the configured log level when set.
const LogLevelEnv = "REGIONPNG_LOG_LEVEL"

// ParseLogLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
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

// NewLogger returns a colorized text logger writing to w at the given level.
// Source locations are added at debug level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	handler := tint.NewHandler(w, &tint.Options{
		AddSource:  lvl == slog.LevelDebug,
		Level:      lvl,
		TimeFormat: "15:04:05.000",
	})
	return slog.New(handler), nil
}
