package player

// State - settled playback state, the playing/paused/stopped properties are derived from it
type State byte

const (
	StateStopped State = iota
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	}
	return "unknown"
}

// Value - property value for kind, false for EventMessageBox
func (s State) Value(kind EventKind) bool {
	switch kind {
	case EventPlaying:
		return s == StatePlaying
	case EventPaused:
		return s == StatePaused
	case EventStopped:
		return s == StateStopped
	}
	return false
}

type EventKind byte

const (
	EventPlaying EventKind = iota + 1
	EventPaused
	EventStopped
	EventMessageBox
)

func (k EventKind) String() string {
	switch k {
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventStopped:
		return "stopped"
	case EventMessageBox:
		return "message_box"
	}
	return "unknown"
}

// Event - property change notification (Value) or human readable error (Text)
type Event struct {
	Kind  EventKind
	Value bool
	Text  string
}

// notification orders
var (
	orderPlay = [3]EventKind{EventPlaying, EventPaused, EventStopped}
	orderStop = [3]EventKind{EventStopped, EventPaused, EventPlaying}
)
