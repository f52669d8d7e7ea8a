package core

import (
	"context"
	"sync"
)

// Dispatcher - execution context for callbacks. All player callbacks (bus messages,
// timers) are posted to it and run one by one.
type Dispatcher interface {
	Post(f func())
}

// Loop - single goroutine task queue, plays the role of the UI event loop:
// - Post never blocks and keeps FIFO order
// - tasks posted from a running task go to the end of the queue
// - Run or RunPending execute tasks on the calling goroutine
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (l *Loop) Post(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call - post f and wait until it was executed. Returns false if loop was closed before.
// Never use it from the loop goroutine.
func (l *Loop) Call(f func()) bool {
	ran := make(chan struct{})

	l.Post(func() {
		defer close(ran)
		f()
	})

	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// RunPending - execute queued tasks until queue is empty, return number of tasks
func (l *Loop) RunPending() (n int) {
	for f := l.next(); f != nil; f = l.next() {
		f()
		n++
	}
	return
}

// Run - execute tasks until ctx is done or loop is closed
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		select {
		case <-l.wake:
		case <-l.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close - drop queued tasks and stop Run
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		l.queue = nil
		close(l.done)
	}
	l.mu.Unlock()
}

func (l *Loop) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}

	f := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return f
}
