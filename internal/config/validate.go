package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks value ranges that would otherwise surface as broken frames.
func (c *Config) Validate() error {
	switch c.Window.Backend {
	case BackendSDL, BackendGLFW:
	default:
		return fmt.Errorf("%w: window.backend %q (want %q or %q)", ErrInvalid, c.Window.Backend, BackendSDL, BackendGLFW)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("%w: window.fps %d", ErrInvalid, c.Window.FPS)
	}
	if c.Asset.Path == "" {
		return fmt.Errorf("%w: asset.path is empty", ErrInvalid)
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		return fmt.Errorf("%w: camera.fov_degrees %g", ErrInvalid, c.Camera.FOVDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera near/far %g/%g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Up == ([3]float32{}) {
		return fmt.Errorf("%w: camera.up is zero", ErrInvalid)
	}
	switch c.Render.CullMode {
	case CullBack, CullFront, CullNone:
	default:
		return fmt.Errorf("%w: render.cull_mode %q", ErrInvalid, c.Render.CullMode)
	}
	return nil
}
