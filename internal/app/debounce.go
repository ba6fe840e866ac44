package app

import "time"

// Debouncer drops key events that arrive within a window of the last
// accepted one, suppressing accidental repeats.
type Debouncer struct {
	window time.Duration
	last   time.Time
}

// NewDebouncer creates a debouncer. A zero window accepts every event.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Allow reports whether an event at t is accepted, and records it if so.
func (d *Debouncer) Allow(t time.Time) bool {
	if d.window > 0 && !d.last.IsZero() && t.Sub(d.last) < d.window {
		return false
	}
	d.last = t
	return true
}

// SetWindow changes the debounce window.
func (d *Debouncer) SetWindow(window time.Duration) {
	d.window = window
}

// Window returns the debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
