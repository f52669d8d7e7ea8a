package core

import (
	"sync"
	"time"
)

// Timer - single shot timer delivered through Dispatcher:
// - new Start replaces previous arm
// - fire of replaced or stopped arm is discarded, even if already posted
type Timer struct {
	dispatcher Dispatcher
	f          func()

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	active bool
}

func NewTimer(dispatcher Dispatcher, f func()) *Timer {
	return &Timer{dispatcher: dispatcher, f: f}
}

// Start run f after d
func (t *Timer) Start(d time.Duration) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}

	t.seq++
	t.active = true

	seq := t.seq
	t.timer = time.AfterFunc(d, func() {
		t.dispatcher.Post(func() {
			t.fire(seq)
		})
	})
}

func (t *Timer) Stop() {
	if t == nil {
		return
	}

	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.seq++
	t.active = false
	t.mu.Unlock()
}

// Active - timer armed and not fired yet
func (t *Timer) Active() bool {
	if t == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Timer) fire(seq uint64) {
	t.mu.Lock()
	if seq != t.seq || !t.active {
		t.mu.Unlock()
		return
	}
	t.active = false
	t.mu.Unlock()

	t.f()
}
