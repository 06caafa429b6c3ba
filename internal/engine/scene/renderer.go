package scene

import (
	"fmt"

	"github.com/Faultbox/layermate/internal/engine/camera"
	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/surface"
)

// Renderer holds the per-frame settings: camera, background and culling.
type Renderer struct {
	Camera     *camera.Camera
	ClearColor [4]float32
	Cull       gpu.CullMode
}

// Draw clears target, applies the overlay render state and issues one indexed
// draw per instance in load order, then presents. A failed draw returns
// ErrDrawCallFailed and the frame is not presented.
func (r *Renderer) Draw(m *Model, target surface.Surface) error {
	width, height := target.FramebufferSize()
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyFramebuffer, width, height)
	}
	if !target.IsCurrent() {
		return ErrContextNotCurrent
	}

	dev := m.device
	dev.Viewport(int32(width), int32(height))
	dev.Clear(r.ClearColor, 1.0)

	f := r.Camera.Frame(width, height)
	dev.ApplyState(gpu.OverlayState(r.Cull))

	uniforms := gpu.Uniforms{
		MVP:          f.MVP,
		NormalMatrix: f.Normal,
		LightDir:     f.LightDir,
		TextureUnit:  0,
	}
	for _, inst := range m.instances {
		err := dev.Draw(gpu.DrawCall{
			Program:  m.program,
			Mesh:     inst.GPU,
			Texture:  inst.Texture,
			Uniforms: uniforms,
		})
		if err != nil {
			return fmt.Errorf("%w: mesh %d primitive %d: %w", ErrDrawCallFailed, inst.Mesh, inst.Primitive, err)
		}
	}

	if err := target.SwapBuffers(); err != nil {
		return fmt.Errorf("swapping buffers: %w", err)
	}
	return nil
}
