package simulation

import (
	"log/slog"
	"time"
)

// EventKind identifies the phase of a run an Event reports.
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventProgress EventKind = "progress"
	EventFinished EventKind = "finished"
)

// Event is a side-channel notification about a running simulation.
type Event struct {
	Kind     EventKind
	RunID    string
	Building string
	Mode     Mode
	Done     int
	Total    int
	Elapsed  time.Duration
	Err      error
}

// Observer receives run events. Events of one run are delivered sequentially.
// Observers must not block for long; they run on the engine's goroutines.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans an event out to several observers in order.
type Observers []Observer

// Observe implements Observer.
func (os Observers) Observe(e Event) {
	for _, o := range os {
		if o != nil {
			o.Observe(e)
		}
	}
}

// LogObserver returns an Observer writing events to logger. Progress events
// are logged at debug level.
func LogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(e Event) {
		attrs := []any{
			"run", e.RunID,
			"building", e.Building,
			"mode", e.Mode,
			"done", e.Done,
			"total", e.Total,
		}
		switch e.Kind {
		case EventStarted:
			logger.Info("simulation started", attrs...)
		case EventProgress:
			logger.Debug("simulation progress", attrs...)
		case EventFinished:
			attrs = append(attrs, "elapsed", e.Elapsed)
			if e.Err != nil {
				logger.Warn("simulation failed", append(attrs, "error", e.Err)...)
				return
			}
			logger.Info("simulation finished", attrs...)
		}
	})
}
