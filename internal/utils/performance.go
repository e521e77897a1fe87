package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// slowOperation is the duration above which a timed operation logs a warning
const slowOperation = 10 * time.Second

// Timer measures how long a named operation takes
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
}

// NewTimer starts a timer for the named operation
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
	}
}

// Stop logs and returns the elapsed time
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	logDuration(t.log, t.name, duration)
	return duration
}

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	func Refresh() {
//	    defer utils.OperationTimer("refresh", log)()
//	}
func OperationTimer(operation string, log zerolog.Logger) func() {
	start := time.Now()
	return func() {
		logDuration(log, operation, time.Since(start))
	}
}

func logDuration(log zerolog.Logger, operation string, duration time.Duration) {
	log.Debug().
		Str("operation", operation).
		Dur("duration_ms", duration).
		Msg("Operation completed")

	if duration > slowOperation {
		log.Warn().
			Str("operation", operation).
			Dur("duration", duration).
			Msg("Slow operation detected")
	}
}
