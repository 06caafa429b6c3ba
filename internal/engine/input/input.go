// Package input collects host window events into backend-neutral events.
package input

// EventType identifies the kind of host event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventKeyDown
)

// Key is a backend-neutral key the overlay reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyReload
)

// Event represents a processed host event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// Input buffers the events of one loop iteration.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Reset drops the events of the previous iteration.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push appends an event. Events with an unknown key are dropped.
func (i *Input) Push(e Event) {
	if e.Type == EventNone || (e.Type == EventKeyDown && e.Key == KeyUnknown) {
		return
	}
	i.events = append(i.events, e)
}

// Events returns the events pushed since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// QuitRequested reports a close request or an Escape press.
func (i *Input) QuitRequested() bool {
	for _, e := range i.events {
		if e.Type == EventQuit || (e.Type == EventKeyDown && e.Key == KeyEscape) {
			return true
		}
	}
	return false
}

// IsKeyPressed checks if a specific key was pressed this iteration.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// Resized returns the most recent resize of this iteration.
func (i *Input) Resized() (width, height int, ok bool) {
	for j := len(i.events) - 1; j >= 0; j-- {
		if e := i.events[j]; e.Type == EventResize {
			return e.Width, e.Height, true
		}
	}
	return 0, 0, false
}
