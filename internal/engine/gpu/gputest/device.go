// Package gputest provides a recording gpu.Device for tests that run without a GL context.
package gputest

import (
	"errors"
	"fmt"

	"github.com/Faultbox/layermate/internal/engine/gpu"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected failure")

// MeshUpload records one UploadMesh call.
type MeshUpload struct {
	Mesh     gpu.Mesh
	Vertices []gpu.Vertex
	Indices  []uint32
}

// TextureUpload records one UploadTexture call.
type TextureUpload struct {
	Texture gpu.Texture
	Width   uint32
	Height  uint32
	Pixels  []byte
}

// ClearCall records one Clear call.
type ClearCall struct {
	Color [4]float32
	Depth float32
}

// Device records every call. Zero value is ready to use.
type Device struct {
	// Failure injection. A *At field of n fails the n-th call (1-based); 0 never fails.
	FailCompile   bool
	FailMeshAt    int
	FailTextureAt int
	FailDrawAt    int

	Programs  []gpu.Program
	Meshes    []MeshUpload
	Textures  []TextureUpload
	Viewports [][2]int32
	Clears    []ClearCall
	States    []gpu.RenderState
	Draws     []gpu.DrawCall

	nextID    uint32
	drawCalls int

	liveProgram map[gpu.Program]bool
	liveMesh    map[uint32]bool
	liveTexture map[gpu.Texture]bool
}

var _ gpu.Device = (*Device)(nil)

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) init() {
	if d.liveProgram == nil {
		d.liveProgram = make(map[gpu.Program]bool)
		d.liveMesh = make(map[uint32]bool)
		d.liveTexture = make(map[gpu.Texture]bool)
	}
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	d.init()
	if d.FailCompile {
		return 0, fmt.Errorf("vertex shader: %w", ErrInjected)
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, errors.New("empty shader source")
	}
	p := gpu.Program(d.id())
	d.Programs = append(d.Programs, p)
	d.liveProgram[p] = true
	return p, nil
}

func (d *Device) UploadMesh(vertices []gpu.Vertex, indices []uint32) (gpu.Mesh, error) {
	d.init()
	if d.FailMeshAt > 0 && len(d.Meshes)+1 == d.FailMeshAt {
		d.FailMeshAt = 0
		return gpu.Mesh{}, fmt.Errorf("uploading mesh: %w", ErrInjected)
	}
	if len(vertices) == 0 || len(indices) == 0 {
		return gpu.Mesh{}, fmt.Errorf("empty mesh: %d vertices, %d indices", len(vertices), len(indices))
	}
	m := gpu.Mesh{
		VertexArray:  d.id(),
		VertexBuffer: d.id(),
		IndexBuffer:  d.id(),
		VertexCount:  int32(len(vertices)),
		IndexCount:   int32(len(indices)),
	}
	d.Meshes = append(d.Meshes, MeshUpload{
		Mesh:     m,
		Vertices: append([]gpu.Vertex(nil), vertices...),
		Indices:  append([]uint32(nil), indices...),
	})
	d.liveMesh[m.VertexArray] = true
	return m, nil
}

func (d *Device) UploadTexture(width, height uint32, rgba []byte) (gpu.Texture, error) {
	d.init()
	if d.FailTextureAt > 0 && len(d.Textures)+1 == d.FailTextureAt {
		d.FailTextureAt = 0
		return 0, fmt.Errorf("uploading texture: %w", ErrInjected)
	}
	if want := int(width) * int(height) * 4; width == 0 || height == 0 || len(rgba) != want {
		return 0, fmt.Errorf("texture data size mismatch: expected %d, got %d", want, len(rgba))
	}
	t := gpu.Texture(d.id())
	d.Textures = append(d.Textures, TextureUpload{
		Texture: t,
		Width:   width,
		Height:  height,
		Pixels:  append([]byte(nil), rgba...),
	})
	d.liveTexture[t] = true
	return t, nil
}

func (d *Device) Viewport(width, height int32) {
	d.Viewports = append(d.Viewports, [2]int32{width, height})
}

func (d *Device) Clear(color [4]float32, depth float32) {
	d.Clears = append(d.Clears, ClearCall{Color: color, Depth: depth})
}

func (d *Device) ApplyState(s gpu.RenderState) {
	d.States = append(d.States, s)
}

func (d *Device) Draw(dc gpu.DrawCall) error {
	d.init()
	d.drawCalls++
	if d.FailDrawAt > 0 && d.drawCalls == d.FailDrawAt {
		return fmt.Errorf("drawing: %w", ErrInjected)
	}
	if !d.liveProgram[dc.Program] {
		return fmt.Errorf("draw with unknown program %d", dc.Program)
	}
	if !d.liveMesh[dc.Mesh.VertexArray] {
		return fmt.Errorf("draw with unknown mesh %d", dc.Mesh.VertexArray)
	}
	if !d.liveTexture[dc.Texture] {
		return fmt.Errorf("draw with unknown texture %d", dc.Texture)
	}
	d.Draws = append(d.Draws, dc)
	return nil
}

func (d *Device) DeleteProgram(p gpu.Program) {
	d.init()
	delete(d.liveProgram, p)
}

func (d *Device) DeleteMesh(m gpu.Mesh) {
	d.init()
	delete(d.liveMesh, m.VertexArray)
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	d.init()
	delete(d.liveTexture, t)
}

// Live returns how many programs, meshes and textures have not been deleted.
func (d *Device) Live() (programs, meshes, textures int) {
	return len(d.liveProgram), len(d.liveMesh), len(d.liveTexture)
}
