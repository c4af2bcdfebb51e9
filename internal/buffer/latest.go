// Package buffer holds the single-slot latest-frame buffers shared between
// the acquisition loops and the HTTP consumers. Each buffer has exactly one
// writer (its acquisition loop) and any number of concurrent readers.
package buffer

import (
	"sync"
	"time"
)

// Latest is a single-slot holder for the most recent successfully acquired
// sample and its capture timestamp. Readers always receive a copy made by
// the clone function, never the stored value itself.
type Latest[T any] struct {
	mu         sync.Mutex
	value      T
	capturedAt time.Time
	hasValue   bool

	clone func(T) T
	now   func() time.Time
}

// NewLatest creates an empty buffer. The clone function produces the copy
// handed to readers; it must not alias mutable state with its input.
func NewLatest[T any](clone func(T) T) *Latest[T] {
	return &Latest[T]{
		clone: clone,
		now:   time.Now,
	}
}

// Set replaces the stored value. Writes carrying a timestamp older than the
// stored one are ignored so the capture time never moves backwards.
func (b *Latest[T]) Set(value T, capturedAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hasValue && capturedAt.Before(b.capturedAt) {
		return
	}
	b.value = value
	b.capturedAt = capturedAt
	b.hasValue = true
}

// Get returns a copy of the stored value and its capture time. It reports
// false if nothing has been written yet, or if the value is older than
// maxAge. A value aged exactly maxAge still counts as fresh.
func (b *Latest[T]) Get(maxAge time.Duration) (T, time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if !b.hasValue {
		return zero, time.Time{}, false
	}
	if b.now().Sub(b.capturedAt) > maxAge {
		return zero, time.Time{}, false
	}
	return b.clone(b.value), b.capturedAt, true
}

// HasValue reports whether anything has ever been written, ignoring age.
func (b *Latest[T]) HasValue() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasValue
}
