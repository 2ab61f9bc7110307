// Package debounce delays delivery of a value until it has stopped changing
// for a quiet period.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = 20 * time.Millisecond

// Debouncer delivers the most recent value passed to Trigger once no newer
// value has arrived for the configured delay. Intermediate values are
// dropped. Safe for concurrent use.
type Debouncer[T any] struct {
	delay   time.Duration
	deliver func(T)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New creates a Debouncer that calls deliver on its own goroutine.
// A non-positive delay uses DefaultDelay.
func New[T any](delay time.Duration, deliver func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, deliver: deliver}
}

// Delay returns the quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Trigger restarts the quiet period with v as the pending value.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen, v)
	})
}

// Cancel drops the pending value, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// fire delivers v unless a later Trigger or Cancel superseded it. Stop does
// not stop a timer func that has already started, hence the generation check.
func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.deliver(v)
}
