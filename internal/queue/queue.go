// Package queue implements the optional jitter-absorption buffer between
// the transport read path and the dispatch loop. Entries are held for a
// configurable input delay and released in arrival order; when the buffer
// is full the oldest entry is evicted, since recent data is worth more
// than stale data for a live control stream.
package queue

import (
	"sync"
	"time"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

// Entry pairs a gesture event with its arrival time.
type Entry struct {
	Event      gesture.Event
	EnqueuedAt time.Time
}

// Queue is a bounded FIFO delay buffer. Push runs on the transport side,
// PopReady on the tick loop, so all access is mutex-guarded.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
}

// New creates a queue holding at most capacity entries. Capacity values
// below one are treated as one.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{cap: capacity}
}

// Push appends an event, evicting the oldest entry first when full.
// It reports whether an eviction occurred.
func (q *Queue) Push(ev gesture.Event, now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	evicted := false
	if len(q.entries) >= q.cap {
		q.entries = q.entries[1:]
		evicted = true
	}
	q.entries = append(q.entries, Entry{Event: ev, EnqueuedAt: now})
	return evicted
}

// PopReady releases up to max entries whose delay has elapsed, in arrival
// order. Entries still inside the delay window stay queued; since order is
// FIFO, the first unready entry stops the scan.
func (q *Queue) PopReady(now time.Time, delay time.Duration, max int) []gesture.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []gesture.Event
	for len(q.entries) > 0 && len(out) < max {
		head := q.entries[0]
		if now.Sub(head.EnqueuedAt) < delay {
			break
		}
		out = append(out, head.Event)
		q.entries = q.entries[1:]
	}
	return out
}

// Clear discards all pending entries without dispatching them.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
}

// Len reports the number of pending entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
