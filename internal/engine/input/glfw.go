package input

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// FromGLFWKey converts a GLFW key callback into an event. Only presses count.
func FromGLFWKey(key glfw.Key, action glfw.Action) (Event, bool) {
	if action != glfw.Press {
		return Event{}, false
	}
	switch key {
	case glfw.KeyEscape:
		return Event{Type: EventKeyDown, Key: KeyEscape}, true
	case glfw.KeyR:
		return Event{Type: EventKeyDown, Key: KeyReload}, true
	}
	return Event{}, false
}
