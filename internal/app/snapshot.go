package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/config"
	"github.com/Faultbox/layermate/internal/engine/debug"
	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/gpu/glgpu"
	"github.com/Faultbox/layermate/internal/engine/surface"
	"github.com/Faultbox/layermate/internal/logger"
	"github.com/Faultbox/layermate/internal/overlay"
)

// ErrNothingRendered is returned when a snapshot frame was skipped.
var ErrNothingRendered = errors.New("snapshot frame was not rendered")

// Target is an offscreen render target that can be read back.
type Target interface {
	Bind()
	Unbind()
	ReadPixels() []byte
	Destroy()
}

// TargetFunc creates a target on the current context.
type TargetFunc func(width, height int32) (Target, error)

// GLTarget creates an offscreen OpenGL snapshot target.
func GLTarget(width, height int32) (Target, error) {
	t, err := glgpu.NewSnapshotTarget(width, height)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Snapshot loads the asset, renders one frame at the configured window size
// into an offscreen target and writes it to path as PNG. It returns the
// path written.
func Snapshot(cfg *config.Config, s surface.Surface, newDevice overlay.DeviceFunc, newTarget TargetFunc, path string) (string, error) {
	log := logger.Named("snapshot")

	r, err := NewRenderer(cfg)
	if err != nil {
		return "", err
	}

	width, height := cfg.Window.Width, cfg.Window.Height
	off := &surface.Offscreen{Surface: s, Width: uint32(width), Height: uint32(height)}

	// The target needs loaded GL entry points, so it is created right
	// after the device.
	var target Target
	withTarget := func(s surface.Surface) (gpu.Device, error) {
		dev, err := newDevice(s)
		if err != nil {
			return nil, err
		}
		target, err = newTarget(int32(width), int32(height))
		if err != nil {
			return nil, fmt.Errorf("creating offscreen target: %w", err)
		}
		target.Bind()
		return dev, nil
	}

	ov := overlay.New(off, withTarget, overlay.Config{
		AssetPath: cfg.Asset.Path,
		Renderer:  r,
		AutoFit:   cfg.Camera.AutoFit,
	})
	err = ov.OnRealize()
	if target != nil {
		defer func() {
			target.Unbind()
			target.Destroy()
		}()
	}
	if err != nil {
		return "", err
	}
	defer ov.OnUnrealize()

	handled, err := ov.OnRender()
	if err != nil {
		return "", err
	}
	if !handled || off.Presented == 0 {
		return "", ErrNothingRendered
	}

	out := debug.SnapshotPath(path, time.Now())
	if err := debug.WritePNG(out, target.ReadPixels(), width, height); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	log.Info("snapshot written", zap.String("path", out), zap.Int("width", width), zap.Int("height", height))
	return out, nil
}
