// Package glgpu implements gpu.Device on an OpenGL 4.1 core context.
package glgpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/shader"
	"github.com/Faultbox/layermate/internal/logger"
)

// ProcAddressFunc resolves GL entry points for the current context.
type ProcAddressFunc func(name string) unsafe.Pointer

type uniformLocations struct {
	mvp, normalMatrix, lightDir, texture int32
}

// Device issues GL calls on the context that was current when New was called.
type Device struct {
	log      *zap.Logger
	uniforms map[gpu.Program]uniformLocations
}

var _ gpu.Device = (*Device)(nil)

// New loads GL function pointers through procAddr and returns a device.
// The context must be current on the calling thread.
func New(procAddr ProcAddressFunc) (*Device, error) {
	if err := gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		return procAddr(name)
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		log:      logger.Named("gl"),
		uniforms: make(map[gpu.Program]uniformLocations),
	}
	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)
	return d, nil
}

// CompileProgram compiles and links a program and caches its uniform locations.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	id, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	p := gpu.Program(id)
	d.uniforms[p] = uniformLocations{
		mvp:          shader.GetUniform(id, shader.UniformMVP),
		normalMatrix: shader.GetUniform(id, shader.UniformNormalMatrix),
		lightDir:     shader.GetUniform(id, shader.UniformLightDir),
		texture:      shader.GetUniform(id, shader.UniformTexture),
	}
	d.log.Debug("program linked", zap.Uint32("program", id))
	return p, nil
}

// UploadMesh creates a vertex array with an interleaved vertex buffer and a
// 32-bit index buffer, each sized to exactly its element count.
func (d *Device) UploadMesh(vertices []gpu.Vertex, indices []uint32) (gpu.Mesh, error) {
	var m gpu.Mesh
	if len(vertices) == 0 || len(indices) == 0 {
		return m, fmt.Errorf("empty mesh: %d vertices, %d indices", len(vertices), len(indices))
	}

	drainErrors()

	gl.GenVertexArrays(1, &m.VertexArray)
	gl.BindVertexArray(m.VertexArray)

	gl.GenBuffers(1, &m.VertexBuffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*gpu.VertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(gpu.VertexSize)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, gpu.PositionOffset)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, gpu.NormalOffset)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, gpu.TexCoordOffset)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.IndexBuffer)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.IndexBuffer)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	m.VertexCount = int32(len(vertices))
	m.IndexCount = int32(len(indices))

	if err := checkError("uploading mesh"); err != nil {
		d.DeleteMesh(m)
		return gpu.Mesh{}, err
	}
	return m, nil
}

// UploadTexture uploads RGBA8 pixels with an sRGB internal format, mipmapped
// with trilinear filtering and repeat wrap.
func (d *Device) UploadTexture(width, height uint32, rgba []byte) (gpu.Texture, error) {
	if width == 0 || height == 0 {
		return 0, fmt.Errorf("empty texture %dx%d", width, height)
	}
	if want := int(width) * int(height) * 4; len(rgba) != want {
		return 0, fmt.Errorf("texture data size mismatch: expected %d, got %d", want, len(rgba))
	}

	drainErrors()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := checkError("uploading texture"); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}
	return gpu.Texture(id), nil
}

// Viewport sets the viewport to the full framebuffer.
func (d *Device) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

// Clear clears color and depth.
func (d *Device) Clear(color [4]float32, depth float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.ClearDepth(float64(depth))
	// Depth writes must be on for the depth clear to take effect
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ApplyState sets depth, cull, blend and sRGB state.
func (d *Device) ApplyState(s gpu.RenderState) {
	setCap(gl.DEPTH_TEST, s.DepthTest)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(s.DepthWrite)

	if s.FrontFaceCCW {
		gl.FrontFace(gl.CCW)
	} else {
		gl.FrontFace(gl.CW)
	}
	switch s.Cull {
	case gpu.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}

	setCap(gl.BLEND, s.Blend)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	setCap(gl.FRAMEBUFFER_SRGB, s.SRGB)
}

// Draw binds the program, texture unit and uniforms, then draws indexed triangles.
func (d *Device) Draw(dc gpu.DrawCall) error {
	loc, ok := d.uniforms[dc.Program]
	if !ok {
		return fmt.Errorf("unknown program %d", dc.Program)
	}

	drainErrors()

	u := dc.Uniforms
	gl.UseProgram(uint32(dc.Program))
	gl.ActiveTexture(gl.TEXTURE0 + uint32(u.TextureUnit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(dc.Texture))

	gl.UniformMatrix4fv(loc.mvp, 1, false, &u.MVP[0])
	gl.UniformMatrix3fv(loc.normalMatrix, 1, false, &u.NormalMatrix[0])
	gl.Uniform3f(loc.lightDir, u.LightDir[0], u.LightDir[1], u.LightDir[2])
	gl.Uniform1i(loc.texture, u.TextureUnit)

	gl.BindVertexArray(dc.Mesh.VertexArray)
	gl.DrawElements(gl.TRIANGLES, dc.Mesh.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	return checkError("drawing")
}

// DeleteProgram releases a program.
func (d *Device) DeleteProgram(p gpu.Program) {
	if p == 0 {
		return
	}
	delete(d.uniforms, p)
	gl.DeleteProgram(uint32(p))
}

// DeleteMesh releases a mesh's vertex array and buffers.
func (d *Device) DeleteMesh(m gpu.Mesh) {
	if m.VertexArray != 0 {
		gl.DeleteVertexArrays(1, &m.VertexArray)
	}
	if m.VertexBuffer != 0 {
		gl.DeleteBuffers(1, &m.VertexBuffer)
	}
	if m.IndexBuffer != 0 {
		gl.DeleteBuffers(1, &m.IndexBuffer)
	}
}

// DeleteTexture releases a texture.
func (d *Device) DeleteTexture(t gpu.Texture) {
	if t == 0 {
		return
	}
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func setCap(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}

// ErrGL is wrapped by errors reported through glGetError.
var ErrGL = errors.New("gl error")

func checkError(op string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	drainErrors()
	return fmt.Errorf("%s: %w 0x%x", op, ErrGL, code)
}

// drainErrors clears stale error flags so checkError reports only new ones.
func drainErrors() {
	for i := 0; i < 8 && gl.GetError() != gl.NO_ERROR; i++ {
	}
}
