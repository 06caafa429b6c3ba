package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// PollSDL drains the SDL event queue into in.
func PollSDL(in *Input) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := fromSDL(event); ok {
			in.Push(e)
		}
	}
}

func fromSDL(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_RESIZED:
			return Event{Type: EventResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{Type: EventKeyDown, Key: keyFromScancode(e.Keysym.Scancode)}, true
		}
	}
	return Event{}, false
}

func keyFromScancode(sc sdl.Scancode) Key {
	switch sc {
	case sdl.SCANCODE_ESCAPE:
		return KeyEscape
	case sdl.SCANCODE_R:
		return KeyReload
	default:
		return KeyUnknown
	}
}
