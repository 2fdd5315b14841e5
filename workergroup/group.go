// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package workergroup

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// ErrClosed is returned when submitting to a Group more than once.
var ErrClosed = errors.New("worker group closed for submissions")

// Task is run by each worker of a Group; worker is the zero-based index of
// the task copy.
type Task func(worker int) error

// Group runs copies of a single task on a fixed-size pool of workers.
type Group struct {
	name    string
	size    int
	workers *workerpool.WorkerPool

	mu        sync.Mutex
	submitted bool
	errs      []error

	done chan struct{} // closed after all task copies have finished.
}

// New returns a new Group with the specified number of workers. Negative
// sizes are taken by their absolute value, and a Group always has at least
// one worker. The name is only used in log messages.
func New(name string, size int) *Group {
	if size < 0 {
		size = -size
	}
	if size == 0 {
		size = 1
	}
	return &Group{
		name:    name,
		size:    size,
		workers: workerpool.New(size),
		done:    make(chan struct{}),
	}
}

// Size returns the number of workers.
func (g *Group) Size() int { return g.size }

// SubmitAll submits count copies of the specified task and then closes the
// Group for further submissions. A count of zero or less submits one copy
// per worker. SubmitAll never blocks.
func (g *Group) SubmitAll(task Task, count int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitted {
		return fmt.Errorf("%s: %w", g.name, ErrClosed)
	}
	g.submitted = true
	if count <= 0 {
		count = g.size
	}
	for worker := 0; worker < count; worker++ {
		worker := worker
		g.workers.Submit(func() { g.run(task, worker) })
	}
	log.Debugf("%s: submitted %d task(s) to %d worker(s)", g.name, count, g.size)
	go func() {
		g.workers.StopWait()
		close(g.done)
	}()
	return nil
}

// run a single task copy, turning panics into collected errors.
func (g *Group) run(task Task, worker int) {
	defer func() {
		if r := recover(); r != nil {
			g.fail(fmt.Errorf("%s worker %d panicked: %v", g.name, worker, r))
		}
	}()
	if err := task(worker); err != nil {
		g.fail(fmt.Errorf("%s worker %d: %w", g.name, worker, err))
	}
}

func (g *Group) fail(err error) {
	log.Errorf("%s", err.Error())
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// IsStillWorking returns true as long as any submitted task copy hasn't
// finished yet. It returns false before SubmitAll.
func (g *Group) IsStillWorking() bool {
	g.mu.Lock()
	submitted := g.submitted
	g.mu.Unlock()
	if !submitted {
		return false
	}
	select {
	case <-g.done:
		return false
	default:
		return true
	}
}

// Done returns a channel that gets closed after all submitted task copies
// have finished.
func (g *Group) Done() <-chan struct{} {
	return g.done
}

// Wait blocks until all submitted task copies have finished and returns
// their failures, if any, joined into a single error. If nothing has been
// submitted, Wait returns immediately.
func (g *Group) Wait() error {
	g.mu.Lock()
	submitted := g.submitted
	g.mu.Unlock()
	if !submitted {
		return nil
	}
	<-g.done
	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
