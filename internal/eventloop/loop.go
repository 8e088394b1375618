// Package eventloop is the host task queue used for work that must not run while a
// view is still delivering notifications.
//
// Tasks posted to a Loop run later, in posting order, either when the owner calls
// Drain or from Run. Post is safe for concurrent use; tasks always run on the
// goroutine that drains the loop.
package eventloop

import (
	"context"
	"sync"
)

// Loop is a FIFO queue of deferred tasks.
//
// The zero value is ready to use.
type Loop struct {
	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	running bool
}

// New returns an empty Loop.
func New() *Loop {
	return &Loop{}
}

var defaultLoop = New()

// Default returns the process wide loop used by views created without one.
func Default() *Loop {
	return defaultLoop
}

// Post queues fn to run on the next iteration.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	w := l.wakeLocked()
	l.mu.Unlock()
	select {
	case w <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Drain runs queued tasks until the queue is empty, including tasks posted by the
// tasks themselves, and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		batch := l.take()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
		}
		n += len(batch)
	}
}

// Run drains the loop whenever tasks are posted until ctx is canceled.
//
// Only one Run may be active at a time; a concurrent call returns
// errAlreadyRunning.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errAlreadyRunning
	}
	l.running = true
	w := l.wakeLocked()
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w:
		}
	}
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.tasks
	l.tasks = nil
	return batch
}

func (l *Loop) wakeLocked() chan struct{} {
	if l.wake == nil {
		l.wake = make(chan struct{}, 1)
	}
	return l.wake
}
