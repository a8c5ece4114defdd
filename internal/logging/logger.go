package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// #region config
// Config selects level, format, and destination of the process logger.
type Config struct {
	Level   string    // debug | info | warn | error; empty means info
	JSON    bool      // JSON lines instead of logfmt-style text
	Writer  io.Writer // nil means os.Stderr
	Service string    // attached to every record when set
}

// #endregion config

// #region new
// New builds a slog.Logger from cfg. An unknown level falls back to info.
func New(cfg Config) *slog.Logger {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", cfg.Service)})
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// #endregion new
