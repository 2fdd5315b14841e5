// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"sort"
	"sync"
	"time"
)

// Telemetry tracks when each worker of an engine last completed an
// iteration, as well as the quickest and longest iteration seen so far over
// all workers. The figures are advisory; Telemetry is safe for concurrent
// use.
type Telemetry struct {
	mu       sync.Mutex
	now      func() time.Time
	lastSeen map[string]time.Time
	quickest time.Duration
	longest  time.Duration
	sampled  bool // at least one iteration interval has been recorded.
}

func newTelemetry() *Telemetry {
	return &Telemetry{
		now:      time.Now,
		lastSeen: map[string]time.Time{},
	}
}

// Touch records that the named worker completed an iteration just now. From
// the second Touch of a worker on, the interval since its previous Touch is
// rolled into the quickest and longest intervals.
func (t *Telemetry) Touch(worker string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if previous, ok := t.lastSeen[worker]; ok {
		interval := now.Sub(previous)
		if !t.sampled {
			t.quickest, t.longest, t.sampled = interval, interval, true
		} else {
			t.quickest = min(t.quickest, interval)
			t.longest = max(t.longest, interval)
		}
	}
	t.lastSeen[worker] = now
}

// Workers returns the names of all workers seen so far, in lexical order.
func (t *Telemetry) Workers() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	workers := make([]string, 0, len(t.lastSeen))
	for worker := range t.lastSeen {
		workers = append(workers, worker)
	}
	sort.Strings(workers)
	return workers
}

// Quickest returns the shortest iteration interval recorded so far; false if
// none has been recorded yet.
func (t *Telemetry) Quickest() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quickest, t.sampled
}

// Longest returns the longest iteration interval recorded so far; false if
// none has been recorded yet.
func (t *Telemetry) Longest() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.longest, t.sampled
}

// Average returns the mean time elapsed since the tracked workers were last
// seen, or zero if no worker has been seen yet.
func (t *Telemetry) Average() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.lastSeen) == 0 {
		return 0
	}
	now := t.now()
	var sum time.Duration
	for _, seen := range t.lastSeen {
		sum += now.Sub(seen)
	}
	return sum / time.Duration(len(t.lastSeen))
}

// Hanging returns the names of the workers that haven't been seen for at
// least the specified threshold, in lexical order.
func (t *Telemetry) Hanging(threshold time.Duration) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	hanging := []string{}
	for worker, seen := range t.lastSeen {
		if now.Sub(seen) >= threshold {
			hanging = append(hanging, worker)
		}
	}
	sort.Strings(hanging)
	return hanging
}
