package fake

import (
	"fmt"
	"sync"

	"github.com/gstplayer/gstplayer/pkg/media"
)

type Element struct {
	name    string
	factory string

	mu    sync.Mutex
	props map[string]any

	src  *Pad
	sink *Pad

	parent *Pipeline
}

func (e *Element) Name() string {
	return e.name
}

func (e *Element) Factory() string {
	return e.factory
}

func (e *Element) SetProperty(name string, value any) error {
	e.mu.Lock()
	e.props[name] = value
	e.mu.Unlock()
	return nil
}

func (e *Element) Property(name string) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.props[name]
}

// Link - src pad of e with sink pad of dst, both must belong to the same pipeline
func (e *Element) Link(dst media.Element) error {
	d, ok := dst.(*Element)
	if !ok {
		return fmt.Errorf("%w: %s is not a fake element", ErrLink, dst.Name())
	}

	if e.src == nil || d.sink == nil {
		return fmt.Errorf("%w: %s to %s", ErrLink, e.name, d.name)
	}

	if e.parent == nil || e.parent != d.parent {
		return fmt.Errorf("%w: %s and %s have different parents", ErrLink, e.name, d.name)
	}

	if e.src.peer != nil || d.sink.peer != nil {
		return fmt.Errorf("%w: %s to %s, pads already linked", ErrLink, e.name, d.name)
	}

	e.src.peer = d.sink
	d.sink.peer = e.src
	return nil
}

// Parent - pipeline which owns this element or nil
func (e *Element) Parent() *Pipeline {
	return e.parent
}

func (e *Element) unlink() {
	for _, pad := range []*Pad{e.src, e.sink} {
		if pad != nil && pad.peer != nil {
			pad.peer.peer = nil
			pad.peer = nil
		}
	}
}

type Pad struct {
	name      string
	direction media.PadDirection
	parent    *Element
	peer      *Pad
}

func (p *Pad) Name() string {
	return p.parent.name + ":" + p.name
}

func (p *Pad) Direction() media.PadDirection {
	return p.direction
}

func (p *Pad) ParentElement() media.Element {
	return p.parent
}
