// Package overlay drives one loaded model through the host's surface lifecycle:
// realize builds it, render draws it, unrealize tears it down.
package overlay

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/asset"
	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/scene"
	"github.com/Faultbox/layermate/internal/engine/surface"
	"github.com/Faultbox/layermate/internal/logger"
)

// State is the lifecycle state of an Overlay.
type State int

const (
	Unrealized State = iota
	Ready
	// Failed means a frame failed to draw; the model is kept until unrealize.
	Failed
)

func (s State) String() string {
	switch s {
	case Unrealized:
		return "unrealized"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrAlreadyRealized is returned by OnRealize when a model is already loaded.
var ErrAlreadyRealized = errors.New("overlay already realized")

// DeviceFunc returns a device for the surface's current context.
type DeviceFunc func(s surface.Surface) (gpu.Device, error)

// Config configures an Overlay.
type Config struct {
	AssetPath string
	Renderer  *scene.Renderer
	// AutoFit frames the camera on the model bounds after each load.
	AutoFit bool

	// Parse loads the asset; asset.ParseFile when nil.
	Parse func(path string) (*asset.Document, error)
}

// Overlay owns at most one model for its surface.
type Overlay struct {
	surface   surface.Surface
	newDevice DeviceFunc
	cfg       Config
	log       *zap.Logger

	state  State
	model  *scene.Model
	err    error
	frames uint64
}

// New returns an unrealized overlay.
func New(s surface.Surface, newDevice DeviceFunc, cfg Config) *Overlay {
	if cfg.Parse == nil {
		cfg.Parse = asset.ParseFile
	}
	return &Overlay{
		surface:   s,
		newDevice: newDevice,
		cfg:       cfg,
		log:       logger.Named("overlay"),
	}
}

// State returns the current lifecycle state.
func (o *Overlay) State() State { return o.state }

// Err returns the error that caused the last failed transition or frame.
func (o *Overlay) Err() error { return o.err }

// Frames returns the number of frames presented since the last realize.
func (o *Overlay) Frames() uint64 { return o.frames }

// Model returns the loaded model, or nil when unrealized.
func (o *Overlay) Model() *scene.Model { return o.model }

// OnRealize parses the asset and builds its GPU resources on the surface's
// context. On error the overlay stays unrealized and nothing is leaked.
func (o *Overlay) OnRealize() error {
	if o.state != Unrealized {
		return ErrAlreadyRealized
	}
	o.err = nil
	o.frames = 0

	model, err := o.load()
	if err != nil {
		o.err = err
		o.logLoadError(err)
		return err
	}

	o.model = model
	o.state = Ready
	return nil
}

func (o *Overlay) load() (*scene.Model, error) {
	if err := o.surface.MakeCurrent(); err != nil {
		return nil, fmt.Errorf("making context current: %w", err)
	}
	dev, err := o.newDevice(o.surface)
	if err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}

	doc, err := o.cfg.Parse(o.cfg.AssetPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", o.cfg.AssetPath, err)
	}
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			format := "none"
			if prim.Image != nil {
				format = prim.Image.Format.String()
			}
			o.log.Info("primitive loaded",
				zap.String("mesh", mesh.Name),
				zap.Int("primitive", prim.Index),
				zap.Int("vertices", prim.VertexCount()),
				zap.Int("indices", len(prim.Indices)),
				zap.String("image", format),
			)
		}
	}

	model, err := scene.Build(doc, dev, scene.Options{Renderer: o.cfg.Renderer})
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", o.cfg.AssetPath, err)
	}

	if o.cfg.AutoFit && o.cfg.Renderer != nil && o.cfg.Renderer.Camera != nil {
		lo, hi := model.Bounds()
		o.cfg.Renderer.Camera.FitToBounds(lo, hi)
		o.log.Debug("camera fitted to bounds",
			zap.Float32s("eye", o.cfg.Renderer.Camera.Eye[:]),
			zap.Float32s("target", o.cfg.Renderer.Camera.Target[:]),
		)
	}
	return model, nil
}

func (o *Overlay) logLoadError(err error) {
	fields := []zap.Field{zap.Error(err), zap.String("asset", o.cfg.AssetPath)}

	var pe *asset.ParseError
	var be *scene.BuildError
	switch {
	case errors.As(err, &pe):
		fields = append(fields,
			zap.String("kind", pe.Kind.Error()),
			zap.Int("mesh", pe.Mesh),
			zap.Int("primitive", pe.Primitive),
			zap.Int("image", pe.Image),
		)
	case errors.As(err, &be):
		fields = append(fields,
			zap.String("kind", be.Kind.Error()),
			zap.Int("mesh", be.Mesh),
			zap.Int("primitive", be.Primitive),
		)
	}
	o.log.Error("realize failed", fields...)
}

// OnRender draws one frame. handled is false when there is nothing to draw
// or the frame failed; a failed frame moves the overlay to Failed.
func (o *Overlay) OnRender() (handled bool, err error) {
	if o.state != Ready {
		return false, nil
	}

	if err := o.model.Draw(o.surface); err != nil {
		if errors.Is(err, scene.ErrEmptyFramebuffer) {
			// Hosts report zero size while minimized; try again next frame
			return false, nil
		}
		o.err = err
		o.state = Failed
		o.log.Error("frame failed, drawing stopped", zap.Error(err), zap.Uint64("frame", o.frames))
		return false, err
	}

	o.frames++
	o.log.Debug("frame presented", zap.Uint64("frame", o.frames))
	return true, nil
}

// OnUnrealize releases the model. Safe in any state.
func (o *Overlay) OnUnrealize() {
	if o.model == nil {
		o.state = Unrealized
		return
	}
	if err := o.surface.MakeCurrent(); err != nil {
		o.log.Warn("context not current during teardown", zap.Error(err))
	}
	o.model.Destroy()
	o.model = nil
	o.state = Unrealized
	o.log.Info("overlay unrealized", zap.Uint64("frames", o.frames))
}
