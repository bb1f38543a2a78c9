// Package metrics defines the Recorder abstraction used by the preview
// pipeline and a Prometheus-backed implementation.
package metrics

import "time"

// Debounce event labels.
const (
	DebounceScheduled = "scheduled"
	DebounceCancelled = "cancelled"
	DebounceFired     = "fired"
)

// Recorder observes pipeline activity. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// RecordGeneration observes one generation run for a generator with
	// outcome "success" or "failure".
	RecordGeneration(generator, outcome string, d time.Duration)

	// RecordDebounce counts debouncer slot activity (scheduled, cancelled,
	// fired).
	RecordDebounce(event string)

	// SetLiveSessions reports the current number of live viewer sessions.
	SetLiveSessions(n int)
}

// NopRecorder discards all observations.
type NopRecorder struct{}

func (NopRecorder) RecordGeneration(string, string, time.Duration) {}
func (NopRecorder) RecordDebounce(string)                          {}
func (NopRecorder) SetLiveSessions(int)                            {}
