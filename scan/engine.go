// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/siemens/blockscan/ipv4"
	"github.com/siemens/blockscan/workergroup"

	"github.com/thediveo/lxkns/log"
)

// The lifecycle states of an Engine.
const (
	configured int32 = iota
	running
	completed
)

// producerID identifies the producer in the telemetry.
const producerID = "producer"

// Engine scans the addresses of a Target, turning each address into one or
// more items of type T that are then checked and consumed concurrently.
// Please use [NewBlockScan] or [NewBlockPortScan] to create engines.
type Engine[T any] struct {
	target  Target
	threads int

	expand   func(ipv4.Address, func(T) bool) bool // turns an address into items, stops on false.
	accept   func(context.Context, T) bool         // liveness check, or nil to accept everything.
	sink     func(T)                               // consuming callback.
	progress func(T)                               // optional progress callback.
	validate func() error                          // optional flavor-specific configuration check.

	queue    chan T
	stop     chan struct{} // closed on shutdown.
	stopOnce sync.Once
	shutdown atomic.Bool
	state    atomic.Int32

	mu        sync.Mutex // protects the following fields set by Execute.
	ctx       context.Context
	producer  *workergroup.Group
	consumers *workergroup.Group
	finished  chan struct{} // closed after producer and consumers have finished.

	telemetry *Telemetry
	generated atomic.Uint64
	accepted  atomic.Uint64
}

// newEngine returns a new engine in configured state.
func newEngine[T any](target Target, threads int, sink func(T)) *Engine[T] {
	if threads < 0 {
		threads = -threads
	}
	if threads == 0 {
		threads = 1
	}
	return &Engine[T]{
		target:    target,
		threads:   threads,
		sink:      sink,
		queue:     make(chan T, MaxQueueSizeMultiplier*threads),
		stop:      make(chan struct{}),
		finished:  make(chan struct{}),
		telemetry: newTelemetry(),
	}
}

// Target returns the target scanned.
func (e *Engine[T]) Target() Target { return e.target }

// Threads returns the number of consumer threads.
func (e *Engine[T]) Threads() int { return e.threads }

// MaxQueueSize returns the maximum number of queued items.
func (e *Engine[T]) MaxQueueSize() int { return cap(e.queue) }

// QueueLen returns the number of items currently queued.
func (e *Engine[T]) QueueLen() int { return len(e.queue) }

// Generated returns the number of items enqueued so far.
func (e *Engine[T]) Generated() uint64 { return e.generated.Load() }

// Accepted returns the number of items passed to the consuming callback so
// far.
func (e *Engine[T]) Accepted() uint64 { return e.accepted.Load() }

// Telemetry returns the engine's per-worker telemetry.
func (e *Engine[T]) Telemetry() *Telemetry { return e.telemetry }

// Running returns true after Execute and until both producer and consumers
// have finished.
func (e *Engine[T]) Running() bool { return e.state.Load() == running }

// Done returns a channel that gets closed after the producer and all
// consumers have finished. The channel never gets closed unless Execute has
// been called successfully.
func (e *Engine[T]) Done() <-chan struct{} { return e.finished }

// IsShutdown returns true after a shutdown has been requested.
func (e *Engine[T]) IsShutdown() bool { return e.shutdown.Load() }

// Shutdown requests the producer and consumers to terminate early. Shutdown
// does not block and can be called any time from any goroutine, any number of
// times.
func (e *Engine[T]) Shutdown() {
	e.stopOnce.Do(func() {
		e.shutdown.Store(true)
		close(e.stop)
		log.Debugf("scan %s: shutdown requested", e.target)
	})
}

// Execute validates the configuration and then starts the producer and
// consumers, returning immediately. It returns an error wrapping
// [ErrConfiguration] if the engine has been misconfigured or was already
// executed.
//
// The specified context is passed to liveness checks; cancelling it
// additionally shuts down the engine. A nil context is treated as
// [context.Background].
func (e *Engine[T]) Execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.sink == nil {
		return fmt.Errorf("%w: missing consuming callback", ErrConfiguration)
	}
	if err := e.target.validate(); err != nil {
		return err
	}
	if e.validate != nil {
		if err := e.validate(); err != nil {
			return err
		}
	}
	if !e.state.CompareAndSwap(configured, running) {
		return fmt.Errorf("%w: scan already executed", ErrConfiguration)
	}
	log.Debugf("scan %s: starting with %d consumer(s), queue size %d",
		e.target, e.threads, e.MaxQueueSize())

	e.mu.Lock()
	e.ctx = ctx
	e.producer = workergroup.New("producer", 1)
	e.consumers = workergroup.New("consumers", e.threads)
	producer, consumers := e.producer, e.consumers
	e.mu.Unlock()

	stopWatching := context.AfterFunc(ctx, e.Shutdown)
	// Submitting cannot fail on fresh groups.
	_ = producer.SubmitAll(e.produce, 1)
	_ = consumers.SubmitAll(e.consume, e.threads)
	go func() {
		<-producer.Done()
		<-consumers.Done()
		stopWatching()
		e.state.Store(completed)
		close(e.finished)
		log.Debugf("scan %s: completed, %d generated, %d accepted",
			e.target, e.Generated(), e.Accepted())
	}()
	return nil
}

// Wait blocks until the producer and all consumers have finished, either
// naturally or after a shutdown. It returns any failures of the producer or
// consumers joined into a single error. When Wait returns, the engine has
// completed and [Engine.Done] is closed. Wait returns immediately if the
// engine hasn't been executed.
func (e *Engine[T]) Wait() error {
	e.mu.Lock()
	producer, consumers := e.producer, e.consumers
	e.mu.Unlock()
	if producer == nil {
		return nil
	}
	err := errors.Join(producer.Wait(), consumers.Wait())
	<-e.finished
	return err
}

// ExecuteAndWait executes the engine and then waits for it to finish.
func (e *Engine[T]) ExecuteAndWait(ctx context.Context) error {
	if err := e.Execute(ctx); err != nil {
		return err
	}
	return e.Wait()
}

// produce enumerates the target's addresses, expands them into items and
// enqueues them. The queue gets closed when done, signalling the consumers
// that no more items will follow.
func (e *Engine[T]) produce(int) error {
	defer close(e.queue)
	return e.target.walk(func(addr ipv4.Address) bool {
		return e.expand(addr, e.offer)
	})
}

// offer enqueues an item, blocking while the queue is full. It returns false
// when a shutdown has been requested, so that the producer stops.
func (e *Engine[T]) offer(item T) bool {
	if e.shutdown.Load() {
		return false
	}
	select {
	case e.queue <- item:
		e.generated.Add(1)
		e.telemetry.Touch(producerID)
		return true
	case <-e.stop:
		return false
	}
}

// consume drains the queue until it has been closed and emptied, or until a
// shutdown has been requested; shutdown takes priority over draining. A
// failing item doesn't stop the consumer; instead, all failures are
// returned joined when the consumer finishes.
func (e *Engine[T]) consume(worker int) error {
	id := "consumer-" + strconv.Itoa(worker)
	var errs []error
	for {
		if e.shutdown.Load() {
			return errors.Join(errs...)
		}
		var item T
		select {
		case <-e.stop:
			return errors.Join(errs...)
		case next, ok := <-e.queue:
			if !ok {
				return errors.Join(errs...)
			}
			item = next
		}
		if err := e.handle(item); err != nil {
			log.Warnf("scan %s: %s", e.target, err.Error())
			errs = append(errs, err)
		}
		e.telemetry.Touch(id)
	}
}

// handle reports progress on a single item, checks it and passes it on to
// the consuming callback if accepted. Panics are returned as errors.
func (e *Engine[T]) handle(item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item %v panicked: %v", item, r)
		}
	}()
	if e.progress != nil {
		e.progress(item)
	}
	if e.accept == nil || e.accept(e.ctx, item) {
		e.accepted.Add(1)
		e.sink(item)
	}
	return nil
}
