package scene

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/surface"
)

// MeshInstance is one uploaded primitive: buffers, texture and counts.
type MeshInstance struct {
	Name      string
	Mesh      int
	Primitive int

	GPU     gpu.Mesh
	Texture gpu.Texture // may be shared with other instances

	VertexCount int
	IndexCount  int
}

// Model owns the program and every mesh instance of one loaded asset.
type Model struct {
	device   gpu.Device
	renderer *Renderer
	log      *zap.Logger

	program   gpu.Program
	instances []*MeshInstance
	textures  []gpu.Texture // unique, owned

	min, max  [3]float32
	destroyed bool
}

// Instances returns mesh instances in load order.
func (m *Model) Instances() []*MeshInstance {
	return m.instances
}

// Program returns the shared program.
func (m *Model) Program() gpu.Program {
	return m.program
}

// Bounds returns the axis-aligned bounds of all positions.
func (m *Model) Bounds() (min, max [3]float32) {
	return m.min, m.max
}

// Draw renders one frame of the model into target.
func (m *Model) Draw(target surface.Surface) error {
	if m.destroyed {
		return ErrModelDestroyed
	}
	if m.renderer == nil {
		return errors.New("model built without a renderer")
	}
	return m.renderer.Draw(m, target)
}

// Destroy releases every GPU object. Safe to call more than once.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true

	for _, inst := range m.instances {
		m.device.DeleteMesh(inst.GPU)
	}
	for _, tex := range m.textures {
		m.device.DeleteTexture(tex)
	}
	if m.program != 0 {
		m.device.DeleteProgram(m.program)
	}

	m.log.Debug("model destroyed", zap.Int("instances", len(m.instances)))
	m.instances = nil
	m.textures = nil
	m.program = 0
}
