// Package history keeps a bounded in-memory record of temperature readings
// served to clients. Entries are created by the /temperature endpoint, not
// by the background sampling loop, so the log reflects requests.
package history

import (
	"math"
	"sync"
	"time"
)

// Entry is one recorded reading. Max and Min are rounded to two decimals.
type Entry struct {
	Time string  `json:"time"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// Log is a fixed-capacity FIFO of entries. When full, appending evicts the
// oldest entry. Iteration order is insertion order, oldest first.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewLog creates a log holding at most capacity entries.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Record appends an entry for the given reading, stamped with the current
// wall-clock time of day.
func (l *Log) Record(maxTemp, minTemp float64) Entry {
	entry := Entry{
		Time: time.Now().Format("15:04:05"),
		Max:  Round2(maxTemp),
		Min:  Round2(minTemp),
	}
	l.Append(entry)
	return entry
}

// Append adds an entry, evicting the oldest one if the log is full.
func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, entry)
}

// Snapshot returns a copy of the entries, oldest first.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the current number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Round2 rounds to two decimal places, the precision reported to clients.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
