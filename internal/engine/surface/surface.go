// Package surface defines what the renderer needs from its host window.
package surface

import (
	"errors"
	"unsafe"
)

// ErrNoContext is returned by MakeCurrent when the host has no GL context.
var ErrNoContext = errors.New("no GL context")

// Surface is a drawable with an OpenGL context.
type Surface interface {
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height uint32)
	MakeCurrent() error
	IsCurrent() bool
	// SwapBuffers presents the back buffer.
	SwapBuffers() error
	// ProcAddress resolves a GL entry point for this surface's context.
	ProcAddress(name string) unsafe.Pointer
}

// Offscreen wraps a Surface so frames land in a fixed-size render target.
// SwapBuffers is a no-op; the caller reads the target back instead.
type Offscreen struct {
	Surface
	Width, Height uint32
	Presented     int
}

func (o *Offscreen) FramebufferSize() (uint32, uint32) {
	return o.Width, o.Height
}

func (o *Offscreen) SwapBuffers() error {
	o.Presented++
	return nil
}
