// Package gpu defines the narrow device interface the scene code draws through.
// glgpu implements it on OpenGL 4.1 core; gputest records calls for tests.
package gpu

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved per-vertex layout uploaded to the GPU.
// Attribute locations: 0 position, 1 normal, 2 texcoord.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexSize is the byte stride of Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Attribute byte offsets within Vertex.
const (
	PositionOffset = 0
	NormalOffset   = 3 * 4
	TexCoordOffset = 6 * 4
)

// Program is a linked shader program handle.
type Program uint32

// Texture is a 2D texture handle.
type Texture uint32

// Mesh is an uploaded vertex/index buffer pair bound to one vertex array.
type Mesh struct {
	VertexArray  uint32
	VertexBuffer uint32
	IndexBuffer  uint32
	VertexCount  int32
	IndexCount   int32
}

// CullMode selects which faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

func (c CullMode) String() string {
	switch c {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	default:
		return "none"
	}
}

// RenderState is the fixed-function state applied once per frame.
type RenderState struct {
	DepthTest    bool // depth func LESS
	DepthWrite   bool
	Cull         CullMode
	FrontFaceCCW bool
	Blend        bool // SRC_ALPHA, ONE_MINUS_SRC_ALPHA
	SRGB         bool // FRAMEBUFFER_SRGB
}

// OverlayState is the state every overlay frame is drawn with.
func OverlayState(cull CullMode) RenderState {
	return RenderState{
		DepthTest:    true,
		DepthWrite:   true,
		Cull:         cull,
		FrontFaceCCW: true,
		Blend:        true,
		SRGB:         true,
	}
}

// Uniforms are the per-draw shader inputs of the lit textured program.
type Uniforms struct {
	MVP          mgl32.Mat4
	NormalMatrix mgl32.Mat3
	LightDir     mgl32.Vec3 // view space, normalized
	TextureUnit  int32
}

// DrawCall is one indexed triangle draw.
type DrawCall struct {
	Program  Program
	Mesh     Mesh
	Texture  Texture
	Uniforms Uniforms
}

// Device creates GPU objects and issues draws on the current context.
// All methods must be called on the thread owning the context.
type Device interface {
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)
	UploadMesh(vertices []Vertex, indices []uint32) (Mesh, error)
	// UploadTexture uploads tightly packed RGBA8 pixels as an sRGB texture.
	UploadTexture(width, height uint32, rgba []byte) (Texture, error)

	Viewport(width, height int32)
	Clear(color [4]float32, depth float32)
	ApplyState(RenderState)
	Draw(DrawCall) error

	DeleteProgram(Program)
	DeleteMesh(Mesh)
	DeleteTexture(Texture)
}
