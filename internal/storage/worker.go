package storage

import (
	"fmt"
	"log/slog"
	"sync"
)

// job is a unit of background disk work.
type job struct {
	name string
	fn   func() error
}

// worker runs fire-and-forget disk jobs one at a time, in submission order.
//
// The queue is unbounded so enqueue never blocks the caller. Failures are
// logged and dropped; there is no retry.
type worker struct {
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []job
	closed  bool
	pending sync.WaitGroup
	stopped chan struct{}
}

func newWorker(logger *slog.Logger) *worker {
	w := &worker{
		logger:  logger,
		stopped: make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue schedules fn. Jobs enqueued after close are dropped.
func (w *worker) enqueue(name string, fn func() error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.logger.Warn("Dropping background job after close", "job", name)
		return
	}
	w.pending.Add(1)
	w.queue = append(w.queue, job{name: name, fn: fn})
	w.cond.Signal()
}

// flush blocks until every job enqueued so far has run.
func (w *worker) flush() {
	w.pending.Wait()
}

// close runs the remaining jobs and stops the goroutine.
func (w *worker) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.stopped
		return
	}
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.stopped
}

func (w *worker) run() {
	defer close(w.stopped)
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		j := w.queue[0]
		w.queue[0] = job{}
		w.queue = w.queue[1:]
		w.mu.Unlock()

		if err := w.do(j); err != nil {
			w.logger.Debug("Background write failed", "job", j.name, "err", err)
		}
		w.pending.Done()
	}
}

func (w *worker) do(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return j.fn()
}
