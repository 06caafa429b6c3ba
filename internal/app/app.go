// Package app runs the overlay inside a host window: the redraw loop, input
// policy and the one-shot snapshot mode.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/config"
	"github.com/Faultbox/layermate/internal/engine/camera"
	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/gpu/glgpu"
	"github.com/Faultbox/layermate/internal/engine/input"
	"github.com/Faultbox/layermate/internal/engine/scene"
	"github.com/Faultbox/layermate/internal/engine/surface"
	"github.com/Faultbox/layermate/internal/engine/window"
	"github.com/Faultbox/layermate/internal/logger"
	"github.com/Faultbox/layermate/internal/overlay"
)

const defaultFPS = 30

// GLDevice creates the OpenGL device for a surface whose context is current.
func GLDevice(s surface.Surface) (gpu.Device, error) {
	dev, err := glgpu.New(s.ProcAddress)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// NewRenderer builds the per-frame renderer from config.
func NewRenderer(cfg *config.Config) (*scene.Renderer, error) {
	cull, err := cullMode(cfg.Render.CullMode)
	if err != nil {
		return nil, err
	}
	return &scene.Renderer{
		Camera:     camera.FromConfig(cfg.Camera, cfg.Light),
		ClearColor: cfg.Render.ClearColor,
		Cull:       cull,
	}, nil
}

func cullMode(s string) (gpu.CullMode, error) {
	switch s {
	case config.CullBack, "":
		return gpu.CullBack, nil
	case config.CullFront:
		return gpu.CullFront, nil
	case config.CullNone:
		return gpu.CullNone, nil
	default:
		return gpu.CullNone, fmt.Errorf("%w: render.cull_mode %q", config.ErrInvalid, s)
	}
}

// App owns the window, input and overlay.
type App struct {
	cfg     *config.Config
	win     window.Window
	input   *input.Input
	overlay *overlay.Overlay
	log     *zap.Logger
}

// New wires an overlay to win. Nothing is loaded until Run.
func New(cfg *config.Config, win window.Window, newDevice overlay.DeviceFunc) (*App, error) {
	r, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:   cfg,
		win:   win,
		input: input.New(),
		overlay: overlay.New(win, newDevice, overlay.Config{
			AssetPath: cfg.Asset.Path,
			Renderer:  r,
			AutoFit:   cfg.Camera.AutoFit,
		}),
		log: logger.Named("app"),
	}, nil
}

// Overlay returns the overlay driven by the app.
func (a *App) Overlay() *overlay.Overlay {
	return a.overlay
}

// Run loads the asset and redraws it at the configured rate until the window
// asks to quit or ctx is cancelled. A failed initial load is returned.
func (a *App) Run(ctx context.Context) error {
	if err := a.overlay.OnRealize(); err != nil {
		return err
	}
	defer a.overlay.OnUnrealize()

	fps := a.cfg.Window.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting redraw loop", zap.Int("fps", fps), zap.String("asset", a.cfg.Asset.Path))

	for {
		select {
		case <-ctx.Done():
			a.log.Info("redraw loop cancelled")
			return nil
		case <-ticker.C:
		}

		// 1. Process input
		a.input.Reset()
		a.win.PollEvents(a.input)
		if a.input.QuitRequested() {
			a.log.Info("quit requested")
			return nil
		}
		if w, h, ok := a.input.Resized(); ok {
			a.log.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
		}
		if a.input.IsKeyPressed(input.KeyReload) {
			a.reload()
		}

		// 2. Render and present. Draw errors are logged by the overlay,
		// which stops drawing; the window stays up.
		if handled, _ := a.overlay.OnRender(); handled {
			frameCount++
		}

		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// reload re-reads the asset from disk. A failed reload leaves the overlay
// unrealized; the next reload may succeed.
func (a *App) reload() {
	a.log.Info("reloading asset", zap.String("asset", a.cfg.Asset.Path))
	a.overlay.OnUnrealize()
	if err := a.overlay.OnRealize(); err != nil {
		a.log.Warn("reload failed, overlay is empty", zap.Error(err))
	}
}
