package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// SlowThreshold is the duration above which a timed operation is logged at warn level
const SlowThreshold = 30 * time.Second

// Timer measures how long a simulation operation takes
type Timer struct {
	start     time.Time
	name      string
	log       zerolog.Logger
	threshold time.Duration
}

// NewTimer creates a new timer with the given name
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start:     time.Now(),
		name:      name,
		log:       log,
		threshold: SlowThreshold,
	}
}

// WithThreshold overrides the slow-operation threshold
func (t *Timer) WithThreshold(d time.Duration) *Timer {
	t.threshold = d
	return t
}

// Stop logs the duration with the given fields and returns it
func (t *Timer) Stop(fields map[string]interface{}) time.Duration {
	duration := time.Since(t.start)

	event := t.log.Debug()
	if duration > t.threshold {
		event = t.log.Warn()
	}

	event.
		Str("operation", t.name).
		Fields(fields).
		Dur("duration_ms", duration).
		Float64("duration_seconds", duration.Seconds()).
		Msg("Operation timed")

	return duration
}
