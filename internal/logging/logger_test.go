package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase TRACE", "TRACE", LevelTrace},
		{"mixed case Debug", "Debug", slog.LevelDebug},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtDebug bool
		logAtTrace bool
	}{
		{"info filters debug", "info", false, false},
		{"debug passes debug", "debug", true, false},
		{"trace passes everything", "trace", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			if got := strings.Contains(buf.String(), "debug message"); got != tt.logAtDebug {
				t.Errorf("debug message visible = %v, want %v (buf: %q)", got, tt.logAtDebug, buf.String())
			}

			buf.Reset()
			logger.Log(context.Background(), LevelTrace, "trace message")
			if got := strings.Contains(buf.String(), "trace message"); got != tt.logAtTrace {
				t.Errorf("trace message visible = %v, want %v (buf: %q)", got, tt.logAtTrace, buf.String())
			}
			if tt.logAtTrace && !strings.Contains(buf.String(), "level=TRACE") {
				t.Errorf("trace level not labeled: %q", buf.String())
			}

			buf.Reset()
			logger.Info("info message")
			if !strings.Contains(buf.String(), "info message") {
				t.Errorf("info message missing at level %s", tt.level)
			}
		})
	}
}

func TestLevelTrace(t *testing.T) {
	if LevelTrace >= slog.LevelDebug {
		t.Errorf("LevelTrace (%d) should be less than LevelDebug (%d)", LevelTrace, slog.LevelDebug)
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"", "info", "debug", "trace"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"warn", "TRACE", "verbose"} {
		if ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = true, want false", s)
		}
	}
}

func TestNewLogger_RoundsDurations(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)

	logger.Info("simulation finished", "elapsed", 1234567890*time.Nanosecond, "done", 42)
	out := buf.String()
	if !strings.Contains(out, "elapsed=1.235s") {
		t.Errorf("elapsed not rounded to ms: %q", out)
	}
	if !strings.Contains(out, "done=42") {
		t.Errorf("non-duration attr changed: %q", out)
	}
}
