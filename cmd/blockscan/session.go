// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"sync"
	"time"

	"github.com/siemens/blockscan/scan"
)

// engine is implemented by both scan engine flavors.
type engine interface {
	scan.Observable
	ExecuteAndWait(ctx context.Context) error
}

// status is a snapshot of a scan session's progress.
type status struct {
	Label     string
	Job, Jobs int // one-based number of the current job, out of Jobs.
	Running   bool
	Generated uint64
	Accepted  uint64
	QueueLen  int
	QueueCap  int
	Quickest  time.Duration
	Longest   time.Duration
	Average   time.Duration
	Hanging   []string
}

// session tracks the scan jobs of a session, one after another.
type session struct {
	mu        sync.Mutex
	jobs      int
	job       int
	label     string
	current   engine
	finished  bool   // current job has been added to the totals.
	generated uint64 // totals of finished jobs.
	accepted  uint64
}

func newSession(jobs int) *session {
	return &session{jobs: jobs}
}

// start tracking the next job.
func (s *session) start(label string, e engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job++
	s.label = label
	s.current = e
	s.finished = false
}

// finish the current job, adding its counters to the session totals.
func (s *session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.finished {
		return
	}
	s.finished = true
	s.generated += s.current.Generated()
	s.accepted += s.current.Accepted()
}

// snapshot returns the current status, with the counters totalled over all
// jobs so far.
func (s *session) snapshot(hang time.Duration) status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := status{
		Label:     s.label,
		Job:       s.job,
		Jobs:      s.jobs,
		Generated: s.generated,
		Accepted:  s.accepted,
	}
	if s.current == nil {
		return st
	}
	st.Running = s.current.Running()
	if !s.finished {
		st.Generated += s.current.Generated()
		st.Accepted += s.current.Accepted()
	}
	st.QueueLen = s.current.QueueLen()
	st.QueueCap = s.current.MaxQueueSize()
	tele := s.current.Telemetry()
	st.Quickest, _ = tele.Quickest()
	st.Longest, _ = tele.Longest()
	st.Average = tele.Average()
	st.Hanging = tele.Hanging(hang)
	return st
}
