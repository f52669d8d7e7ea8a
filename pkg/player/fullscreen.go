package player

// Object - node of the UI parenthood chain. Parent must return untyped nil for the root.
type Object interface {
	Parent() Object
}

type Visibility byte

const (
	VisibilityHidden Visibility = iota
	VisibilityWindowed
	VisibilityMaximized
	VisibilityFullScreen
)

// View - declarative UI view, checked only for the immediate parent
type View interface {
	Visibility() Visibility
	ShowFullScreen()
	ShowNormal()
}

// FullscreenTarget - dialog like window, first one in the ancestors chain is used
type FullscreenTarget interface {
	IsFullScreen() bool
	ShowFullScreen()
	ShowNormal()
}

// ToggleFullScreen - switch the hosting window between full screen and normal.
// Returns false if there is no window to toggle.
func (p *Player) ToggleFullScreen() bool {
	if p.fullscreen != nil {
		toggle(p.fullscreen)
		return true
	}

	if p.parent == nil {
		return false
	}

	if view, ok := p.parent.(View); ok {
		if view.Visibility() == VisibilityFullScreen {
			view.ShowNormal()
		} else {
			view.ShowFullScreen()
		}
		return true
	}

	for obj := p.parent; obj != nil; obj = obj.Parent() {
		if target, ok := obj.(FullscreenTarget); ok {
			toggle(target)
			return true
		}
	}

	p.log.Debug().Msg("[player] no window for fullscreen")
	return false
}

func toggle(target FullscreenTarget) {
	if target.IsFullScreen() {
		target.ShowNormal()
	} else {
		target.ShowFullScreen()
	}
}
