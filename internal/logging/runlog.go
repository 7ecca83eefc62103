package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/simulation"
)

// RunLogger appends simulation events to a JSONL file. It is safe for
// concurrent use, and a nil RunLogger is a valid no-op observer.
type RunLogger struct {
	mu    sync.Mutex
	file  *os.File
	trace bool
}

// NewRunLogger creates a run logger writing to dir/runs.jsonl.
// At "info" level (the default), returns nil and creates no file.
// At "debug", start and finish events are written; "trace" adds progress.
// Returns nil if the file cannot be opened.
func NewRunLogger(dir string, level string) *RunLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, constants.RunLogName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &RunLogger{file: f, trace: lvl <= LevelTrace}
}

type runEvent struct {
	Time      string `json:"time"`
	Event     string `json:"event"`
	Run       string `json:"run"`
	Building  string `json:"building"`
	Mode      string `json:"mode"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// Observe implements simulation.Observer.
func (rl *RunLogger) Observe(e simulation.Event) {
	if rl == nil {
		return
	}
	if e.Kind == simulation.EventProgress && !rl.trace {
		return
	}

	entry := runEvent{
		Time:      time.Now().UTC().Format(time.RFC3339Nano),
		Event:     string(e.Kind),
		Run:       e.RunID,
		Building:  e.Building,
		Mode:      string(e.Mode),
		Done:      e.Done,
		Total:     e.Total,
		ElapsedMS: e.Elapsed.Milliseconds(),
	}
	if e.Err != nil {
		entry.Error = e.Err.Error()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return
	}
	_, _ = rl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (rl *RunLogger) Close() {
	if rl == nil {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.file != nil {
		rl.file.Close()
		rl.file = nil
	}
}
