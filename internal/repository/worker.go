// Package repository exposes one facade per store. Each facade serializes
// mutations through a single worker goroutine, appends audit entries inside
// the same serialized write, keeps a continuously refreshed snapshot for
// observers, and owns idempotent seeding of its store.
package repository

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// closeGrace bounds how long Close waits for queued work before abandoning
// whatever has not started yet.
const closeGrace = 3 * time.Second

// ErrClosed is returned for work submitted after Close, and for queued work
// abandoned when the grace period expires.
var ErrClosed = errors.New("repository closed")

// worker executes submitted functions one at a time in submission order.
// A single goroutine consuming a channel gives mutual exclusion per store
// without a global lock; different stores' workers run independently.
type worker struct {
	mu        sync.Mutex
	closed    bool
	abandoned atomic.Bool
	tasks     chan workerTask
	done      chan struct{}
}

type workerTask struct {
	fn   func() error
	errc chan error
}

func newWorker() *worker {
	w := &worker{
		tasks: make(chan workerTask, 64),
		done:  make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *worker) loop() {
	defer close(w.done)
	for t := range w.tasks {
		if w.abandoned.Load() {
			// Queued but never started; report without running.
			t.errc <- ErrClosed
			continue
		}
		t.errc <- t.fn()
	}
}

// submit enqueues fn and returns a channel that yields its result. The
// channel is buffered so the worker never blocks on a caller that gave up.
func (w *worker) submit(fn func() error) <-chan error {
	errc := make(chan error, 1)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		errc <- ErrClosed
		return errc
	}
	// Send under the lock so close cannot close the channel between the
	// closed check and the send. The worker drains independently, so this
	// cannot deadlock.
	w.tasks <- workerTask{fn: fn, errc: errc}
	w.mu.Unlock()
	return errc
}

// run submits fn and blocks until it has executed. Callers on a dedicated
// goroutine get a synchronous result while writes stay strictly ordered.
func (w *worker) run(fn func() error) error {
	return <-w.submit(fn)
}

// close drains queued work for up to grace, then abandons anything that has
// not started. In-flight work is never interrupted mid-task.
func (w *worker) close(grace time.Duration) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.tasks)
	w.mu.Unlock()

	select {
	case <-w.done:
	case <-time.After(grace):
		w.abandoned.Store(true)
		<-w.done
	}
}
