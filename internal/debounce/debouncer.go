// Package debounce coalesces rapid edit notifications into one delayed
// regeneration trigger per document.
package debounce

import (
	"sync"
	"time"

	"github.com/showgood/html-preview/internal/document"
	"github.com/showgood/html-preview/internal/metrics"
)

// Debouncer owns at most one pending timer per source document. A new
// change cancels and replaces the document's pending timer, so the fire
// delay is measured from the last change, not the first.
type Debouncer struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	disabled map[string]bool

	fire func(*document.Source)
	rec  metrics.Recorder
}

// New returns a debouncer that invokes fire on the configured idle delay
// after the last change to a document.
func New(fire func(*document.Source), rec metrics.Recorder) *Debouncer {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Debouncer{
		timers:   map[string]*time.Timer{},
		disabled: map[string]bool{},
		fire:     fire,
		rec:      rec,
	}
}

// OnChange registers a qualifying edit notification. With no configured
// idle delay (or while the document is disabled) it is a no-op; only
// save-triggered regeneration applies then.
func (d *Debouncer) OnChange(doc *document.Source) {
	delay := doc.IdleDelay
	if delay <= 0 {
		return
	}
	key := doc.Key()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled[key] {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
		d.rec.RecordDebounce(metrics.DebounceCancelled)
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.timers[key] != t {
			// A later change replaced this slot while the timer was
			// expiring; the replacement owns the fire now.
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		suppressed := d.disabled[key]
		d.mu.Unlock()
		if suppressed {
			return
		}
		d.rec.RecordDebounce(metrics.DebounceFired)
		d.fire(doc)
	})
	d.timers[key] = t
	d.rec.RecordDebounce(metrics.DebounceScheduled)
}

// Cancel drops any pending timer for the document. Returns true when a
// timer was pending.
func (d *Debouncer) Cancel(doc *document.Source) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked(doc.Key())
}

// Disable cancels any pending timer and suppresses OnChange for the
// document until Enable.
func (d *Debouncer) Disable(doc *document.Source) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked(doc.Key())
	d.disabled[doc.Key()] = true
}

// Enable lifts a previous Disable.
func (d *Debouncer) Enable(doc *document.Source) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.disabled, doc.Key())
}

// Pending reports whether the document has an outstanding timer.
func (d *Debouncer) Pending(doc *document.Source) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[doc.Key()]
	return ok
}

func (d *Debouncer) cancelLocked(key string) bool {
	t, ok := d.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(d.timers, key)
	d.rec.RecordDebounce(metrics.DebounceCancelled)
	return true
}
