package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SetupLogging configures the process logger. Output goes to stdout and,
// when the file can be opened, to a dated log file as well.
func SetupLogging(format, level string) *slog.Logger {
	var out io.Writer = os.Stdout

	logFileName := fmt.Sprintf("weave_%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		out = io.MultiWriter(os.Stdout, logFile)
	}

	logger := NewLogger(out, format, level)
	if err != nil {
		// Just write to stdout if we can't create a log file
		logger.Warn("could not create log file", "file", logFileName, "error", err)
	}

	slog.SetDefault(logger)
	return logger
}

// NewLogger builds a slog logger writing to w. Format is "json" or "text".
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h)
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewComponentLogger returns a child logger tagged with a component name
func NewComponentLogger(base *slog.Logger, component string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With("component", component)
}

// DiscardLogger returns a logger that drops everything, for tests
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
