// Package media describes the part of a media framework (GStreamer or a simulation of it)
// that the player adapter drives: parsing a launch description, state changes, the bus
// and a few element operations.
package media

import "fmt"

type State byte

const (
	StateVoidPending State = iota
	StateNull
	StateReady
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateVoidPending:
		return "void-pending"
	case StateNull:
		return "null"
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	}
	return fmt.Sprintf("state(%d)", byte(s))
}

type PadDirection byte

const (
	DirectionUnknown PadDirection = iota
	DirectionSrc
	DirectionSink
)

type MessageType byte

const (
	MessageUnknown MessageType = iota
	MessageEOS
	MessageError
	MessageWarning
	MessageStateChanged
)

func (t MessageType) String() string {
	switch t {
	case MessageEOS:
		return "eos"
	case MessageError:
		return "error"
	case MessageWarning:
		return "warning"
	case MessageStateChanged:
		return "state-changed"
	}
	return "unknown"
}

// Message - bus message converted from the framework representation.
// Source holds the name of the object that posted the message.
type Message struct {
	Type   MessageType
	Source string

	// StateChanged
	OldState State
	NewState State

	// Error and Warning
	Err   error
	Debug string
}

func (m *Message) String() string {
	switch m.Type {
	case MessageStateChanged:
		return fmt.Sprintf("%s %s: %s -> %s", m.Type, m.Source, m.OldState, m.NewState)
	case MessageError, MessageWarning:
		return fmt.Sprintf("%s %s: %v", m.Type, m.Source, m.Err)
	}
	return m.Type.String() + " " + m.Source
}

type Event byte

const (
	EventEOS Event = iota + 1
)

// Caps - textual caps value for the "caps" property, like "video/x-raw, format=I420"
type Caps string

// MessageHandler receives bus messages on the framework's own goroutine.
type MessageHandler func(msg *Message)

type Framework interface {
	// Parse - build a pipeline from a launch description
	Parse(description string) (Pipeline, error)

	// NewElement - create a single element by factory name
	NewElement(factory string) (Element, error)
}

type Element interface {
	Name() string
	SetProperty(name string, value any) error
	Link(dst Element) error
}

type Pad interface {
	Name() string
	Direction() PadDirection
	ParentElement() Element
}

type Bus interface {
	AddWatch(handler MessageHandler) error
	RemoveWatch()
}

type Pipeline interface {
	Element

	// SetState is asynchronous, result comes later as StateChanged message
	SetState(state State) error

	Add(element Element) error
	Remove(element Element) error

	// FindUnlinkedPad - return nil if all pads with this direction are linked
	FindUnlinkedPad(direction PadDirection) Pad

	Bus() Bus

	SendEvent(event Event) bool
}
