// Package scene turns parsed assets into GPU resources and draws them.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/layermate/internal/asset"
	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/shader/shaders"
	"github.com/Faultbox/layermate/internal/logger"
)

// Options configure Build.
type Options struct {
	// Renderer draws the built model. Required for Model.Draw.
	Renderer *Renderer

	// Shader sources; the embedded Lambert program when empty.
	VertexShader   string
	FragmentShader string

	Log *zap.Logger
}

// CompileVertices zips the primitive's attribute arrays into interleaved
// vertices. Missing normals and texture coordinates are zero.
func CompileVertices(p *asset.Primitive) []gpu.Vertex {
	out := make([]gpu.Vertex, len(p.Positions))
	for i, pos := range p.Positions {
		out[i].Position = pos
		if i < len(p.Normals) {
			out[i].Normal = p.Normals[i]
		}
		if i < len(p.UVs) {
			out[i].TexCoord = p.UVs[i]
		}
	}
	return out
}

// SequentialIndices returns 0..n-1 for an unindexed triangle list.
// n must be a multiple of 3.
func SequentialIndices(n int) ([]uint32, error) {
	if n%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertices is not a whole number of triangles", asset.ErrMalformedBuffer, n)
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out, nil
}

// Build uploads every primitive of doc and compiles the shared program.
// On failure everything already created is released and no Model is returned.
func Build(doc *asset.Document, dev gpu.Device, opts Options) (*Model, error) {
	log := opts.Log
	if log == nil {
		log = logger.Named("scene")
	}
	vs, fs := opts.VertexShader, opts.FragmentShader
	if vs == "" {
		vs = shaders.LambertVertexShader
	}
	if fs == "" {
		fs = shaders.LambertFragmentShader
	}

	m := &Model{
		device:   dev,
		renderer: opts.Renderer,
		log:      log,
	}

	prog, err := dev.CompileProgram(vs, fs)
	if err != nil {
		return nil, &BuildError{Kind: ErrShaderCompile, Mesh: -1, Primitive: -1, Err: err}
	}
	m.program = prog

	b := &builder{model: m, textures: make(map[*asset.ImageData]gpu.Texture)}
	first := true
	for mi := range doc.Meshes {
		mesh := &doc.Meshes[mi]
		for pi := range mesh.Primitives {
			prim := &mesh.Primitives[pi]
			inst, err := b.instance(mi, pi, mesh.Name, prim)
			if err != nil {
				m.Destroy()
				return nil, err
			}
			m.instances = append(m.instances, inst)

			lo, hi := prim.Bounds()
			if first {
				m.min, m.max = lo, hi
				first = false
			} else {
				for k := 0; k < 3; k++ {
					m.min[k] = min(m.min[k], lo[k])
					m.max[k] = max(m.max[k], hi[k])
				}
			}

			log.Debug("mesh instance uploaded",
				zap.String("mesh", mesh.Name),
				zap.Int("primitive", pi),
				zap.Int("vertices", inst.VertexCount),
				zap.Int("indices", inst.IndexCount),
			)
		}
	}

	log.Info("model built",
		zap.Int("instances", len(m.instances)),
		zap.Int("textures", len(m.textures)),
		zap.Float32s("min", m.min[:]),
		zap.Float32s("max", m.max[:]),
	)
	return m, nil
}

type builder struct {
	model    *Model
	textures map[*asset.ImageData]gpu.Texture // shared images upload once
}

func (b *builder) instance(mi, pi int, meshName string, p *asset.Primitive) (*MeshInstance, error) {
	fail := func(kind error, err error) error {
		return &BuildError{Kind: kind, Mesh: mi, Primitive: pi, Err: err}
	}

	if len(p.Positions) == 0 {
		return nil, fail(asset.ErrMissingAttribute, errors.New("no positions"))
	}
	if p.Image == nil {
		return nil, fail(asset.ErrMissingTexture, nil)
	}

	indices := p.Indices
	if indices == nil {
		var err error
		if indices, err = SequentialIndices(len(p.Positions)); err != nil {
			return nil, fail(asset.ErrMalformedBuffer, err)
		}
	}

	tex, err := b.texture(p.Image)
	if err != nil {
		if errors.Is(err, asset.ErrUnsupportedPixelFormat) {
			return nil, fail(asset.ErrUnsupportedPixelFormat, err)
		}
		return nil, fail(ErrTextureUpload, err)
	}

	vertices := CompileVertices(p)
	mesh, err := b.model.device.UploadMesh(vertices, indices)
	if err != nil {
		return nil, fail(ErrBufferUpload, err)
	}

	return &MeshInstance{
		Name:        meshName,
		Mesh:        mi,
		Primitive:   pi,
		GPU:         mesh,
		Texture:     tex,
		VertexCount: len(vertices),
		IndexCount:  len(indices),
	}, nil
}

func (b *builder) texture(img *asset.ImageData) (gpu.Texture, error) {
	if tex, ok := b.textures[img]; ok {
		return tex, nil
	}
	rgba, err := asset.ExpandRGBA(img)
	if err != nil {
		return 0, err
	}
	tex, err := b.model.device.UploadTexture(rgba.Width, rgba.Height, rgba.Pixels)
	if err != nil {
		return 0, err
	}
	b.textures[img] = tex
	b.model.textures = append(b.model.textures, tex)
	return tex, nil
}
