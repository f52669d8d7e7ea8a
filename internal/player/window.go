package player

import (
	"sync"

	"github.com/gstplayer/gstplayer/pkg/player"
)

// Window - headless top level view hosting the player, web clients mirror its state
type Window struct {
	mu         sync.Mutex
	visibility player.Visibility
	onChange   func(fullscreen bool)
}

func NewWindow() *Window {
	return &Window{visibility: player.VisibilityWindowed}
}

// Parent - window is the root of the chain
func (w *Window) Parent() player.Object {
	return nil
}

func (w *Window) Visibility() player.Visibility {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visibility
}

func (w *Window) IsFullScreen() bool {
	return w.Visibility() == player.VisibilityFullScreen
}

func (w *Window) ShowFullScreen() {
	w.set(player.VisibilityFullScreen)
}

func (w *Window) ShowNormal() {
	w.set(player.VisibilityWindowed)
}

func (w *Window) OnChange(f func(fullscreen bool)) {
	w.mu.Lock()
	w.onChange = f
	w.mu.Unlock()
}

func (w *Window) set(visibility player.Visibility) {
	w.mu.Lock()
	if w.visibility == visibility {
		w.mu.Unlock()
		return
	}
	w.visibility = visibility
	f := w.onChange
	w.mu.Unlock()

	if f != nil {
		f(visibility == player.VisibilityFullScreen)
	}
}
