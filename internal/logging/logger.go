// Package logging provides leveled logging and run tracing for radonsim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A RunLogger for structured JSONL simulation events (.radonsim/runs.jsonl)
package logging

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// LevelTrace is a custom slog level below Debug. At this level every
// simulation progress event is traced, on stderr and in the run log.
const LevelTrace = slog.LevelDebug - 4

// Levels lists the level names accepted by the logging.level setting.
var Levels = []string{"info", "debug", "trace"}

// ValidLevel reports whether s is one of Levels. Empty means the default.
func ValidLevel(s string) bool {
	return s == "" || slices.Contains(Levels, s)
}

// ParseLevel maps a level name to a slog.Level, ignoring case.
// Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	}
	return slog.LevelInfo
}

// NewLogger returns a text logger for operational output on w.
// Durations such as a run's elapsed time print rounded to the millisecond.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceAttr,
	}))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	case a.Value.Kind() == slog.KindDuration:
		a.Value = slog.StringValue(a.Value.Duration().Round(time.Millisecond).String())
	}
	return a
}
