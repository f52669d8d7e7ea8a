package core

import "sync"

type EventFunc func(msg any)

// Listener base struct for all classes with support feedback.
// Listen and Unlisten are safe from any goroutine, Fire calls listeners
// in order of registration on the caller goroutine.
type Listener struct {
	mu     sync.Mutex
	events []listener
	id     int
}

type listener struct {
	id int
	f  EventFunc
}

// Listen - register f, return id for Unlisten
func (l *Listener) Listen(f EventFunc) int {
	l.mu.Lock()
	l.id++
	l.events = append(l.events, listener{id: l.id, f: f})
	id := l.id
	l.mu.Unlock()
	return id
}

func (l *Listener) Unlisten(id int) {
	l.mu.Lock()
	for i, e := range l.events {
		if e.id == id {
			l.events = append(l.events[:i:i], l.events[i+1:]...)
			break
		}
	}
	l.mu.Unlock()
}

func (l *Listener) Fire(msg any) {
	l.mu.Lock()
	events := l.events
	l.mu.Unlock()

	for _, e := range events {
		e.f(msg)
	}
}
