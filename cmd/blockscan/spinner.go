// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"sync"
	"time"
)

// spinnerPhases are the braille phases of a spinner, each followed by a
// blank.
var spinnerPhases = func() []string {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r)+" ")
	}
	return phases
}()

// spinner advances through its phases in the background until stopped.
type spinner struct {
	mu       sync.Mutex
	phase    int
	done     chan struct{}
	stopOnce sync.Once
}

// newSpinner returns a new spinner; call Start to make it spin, and Stop to
// release its background resources.
func newSpinner() *spinner {
	return &spinner{done: make(chan struct{})}
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spinnerPhases[s.phase]
}

// Start spinning, advancing one phase every interval.
func (s *spinner) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				s.phase = (s.phase + 1) % len(spinnerPhases)
				s.mu.Unlock()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop the spinner; Stop can be called multiple times.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}
