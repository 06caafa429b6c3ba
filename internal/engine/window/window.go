// Package window creates the host window and its OpenGL 4.1 core context.
package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Faultbox/layermate/internal/config"
	"github.com/Faultbox/layermate/internal/engine/input"
	"github.com/Faultbox/layermate/internal/engine/surface"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown window backend")

// Config holds window configuration.
type Config struct {
	Title       string
	Width       int
	Height      int
	Transparent bool
	Borderless  bool
	VSync       bool
}

// ConfigFrom converts the window section of the file config.
func ConfigFrom(c config.WindowConfig) Config {
	return Config{
		Title:       c.Title,
		Width:       c.Width,
		Height:      c.Height,
		Transparent: c.Transparent,
		Borderless:  c.Borderless,
		VSync:       c.VSync,
	}
}

// Window is a host window usable as a render surface.
type Window interface {
	surface.Surface
	// PollEvents pushes pending host events into in.
	PollEvents(in *input.Input)
	Close()
}

// Open creates a window with the named backend.
func Open(backend string, cfg Config) (Window, error) {
	switch backend {
	case config.BackendSDL:
		return NewSDL(cfg)
	case config.BackendGLFW:
		return NewGLFW(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func clampSize(w, h int32) (uint32, uint32) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return uint32(w), uint32(h)
}
