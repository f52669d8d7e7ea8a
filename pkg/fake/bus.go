package fake

import (
	"errors"
	"sync"

	"github.com/gstplayer/gstplayer/pkg/media"
)

var ErrWatchExists = errors.New("fake: bus already has a watch")

// Bus delivers messages to the watch on the posting goroutine
type Bus struct {
	mu      sync.Mutex
	handler media.MessageHandler
	posted  []*media.Message
}

func (b *Bus) AddWatch(handler media.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handler != nil {
		return ErrWatchExists
	}
	b.handler = handler
	return nil
}

func (b *Bus) RemoveWatch() {
	b.mu.Lock()
	b.handler = nil
	b.mu.Unlock()
}

func (b *Bus) Watched() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handler != nil
}

// Post - message is lost if there is no watch, but stays in history
func (b *Bus) Post(msg *media.Message) {
	b.mu.Lock()
	b.posted = append(b.posted, msg)
	handler := b.handler
	b.mu.Unlock()

	if handler != nil {
		handler(msg)
	}
}

func (b *Bus) Posted() []*media.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*media.Message(nil), b.posted...)
}
