package fake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gstplayer/gstplayer/pkg/media"
)

var ErrNotLinked = errors.New("fake: internal data stream error, reason not-linked")

type Pipeline struct {
	Element

	bus *Bus

	mu        sync.Mutex
	elements  []*Element
	state     media.State
	requested []media.State
	eos       int

	// StateError - returned by next SetState calls
	StateError error
}

// SetState - change state step by step (null, ready, paused, playing) and post
// state-changed messages of all children and the pipeline itself for each step
func (p *Pipeline) SetState(state media.State) error {
	if state < media.StateNull || state > media.StatePlaying {
		return fmt.Errorf("fake: wrong state %s", state)
	}

	p.mu.Lock()

	if err := p.StateError; err != nil {
		p.mu.Unlock()
		return err
	}

	p.requested = append(p.requested, state)

	var msgs []*media.Message
	for p.state != state {
		prev := p.state
		if state > prev {
			p.state++
		} else {
			p.state--
		}

		for _, el := range p.elements {
			msgs = append(msgs, newStateChanged(el.name, prev, p.state))
		}
		msgs = append(msgs, newStateChanged(p.name, prev, p.state))

		if prev == media.StateReady && p.state == media.StatePaused {
			if pad := p.findUnlinkedPad(media.DirectionSrc); pad != nil {
				msgs = append(msgs, &media.Message{
					Type:   media.MessageError,
					Source: pad.parent.name,
					Err:    ErrNotLinked,
					Debug:  "pad " + pad.Name() + " is not linked",
				})
			}
		}
	}

	p.mu.Unlock()

	for _, msg := range msgs {
		p.bus.Post(msg)
	}

	return nil
}

// State - current (already reported) state
func (p *Pipeline) State() media.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Requested - all states passed to SetState
func (p *Pipeline) Requested() []media.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]media.State(nil), p.requested...)
}

func (p *Pipeline) Add(element media.Element) error {
	el, ok := element.(*Element)
	if !ok {
		return fmt.Errorf("fake: %s is not a fake element", element.Name())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if el.parent != nil {
		return fmt.Errorf("fake: %s already has parent %s", el.name, el.parent.name)
	}

	el.parent = p
	p.elements = append(p.elements, el)
	return nil
}

func (p *Pipeline) Remove(element media.Element) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, el := range p.elements {
		if media.Element(el) == element {
			el.unlink()
			el.parent = nil
			p.elements = append(p.elements[:i], p.elements[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("fake: %s is not a child of %s", element.Name(), p.name)
}

// Elements - children in order of adding
func (p *Pipeline) Elements() []*Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Element(nil), p.elements...)
}

func (p *Pipeline) FindUnlinkedPad(direction media.PadDirection) media.Pad {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pad := p.findUnlinkedPad(direction); pad != nil {
		return pad
	}
	return nil
}

func (p *Pipeline) Bus() media.Bus {
	return p.bus
}

// FakeBus - same bus with test helpers
func (p *Pipeline) FakeBus() *Bus {
	return p.bus
}

// SendEvent - EOS flows to sinks, playing pipeline answers with EOS message
func (p *Pipeline) SendEvent(event media.Event) bool {
	if event != media.EventEOS {
		return false
	}

	p.mu.Lock()
	p.eos++
	playing := p.state == media.StatePlaying
	p.mu.Unlock()

	if playing {
		p.bus.Post(&media.Message{Type: media.MessageEOS, Source: p.name})
	}

	return true
}

// EOSCount - number of received EOS events
func (p *Pipeline) EOSCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eos
}

// PostError - emulate runtime error from the first element
func (p *Pipeline) PostError(err error) {
	source := p.name
	if els := p.Elements(); len(els) > 0 {
		source = els[0].name
	}
	p.bus.Post(&media.Message{Type: media.MessageError, Source: source, Err: err})
}

func (p *Pipeline) findUnlinkedPad(direction media.PadDirection) *Pad {
	for _, el := range p.elements {
		pad := el.src
		if direction == media.DirectionSink {
			pad = el.sink
		}
		if pad != nil && pad.peer == nil {
			return pad
		}
	}
	return nil
}

func newStateChanged(source string, prev, state media.State) *media.Message {
	return &media.Message{
		Type:     media.MessageStateChanged,
		Source:   source,
		OldState: prev,
		NewState: state,
	}
}
