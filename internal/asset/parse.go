package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ParseFile reads a .glb or .gltf file. External buffers and images are
// resolved relative to the file's directory.
func ParseFile(path string) (*Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return FromGLTF(doc, filepath.Dir(path))
}

// Parse reads a scene (GLB or .gltf) from r. External buffer and image URIs
// are resolved relative to baseDir, or the working directory when empty.
func Parse(r io.Reader, baseDir string) (*Document, error) {
	if baseDir == "" {
		baseDir = "."
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(r, os.DirFS(baseDir)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return FromGLTF(doc, baseDir)
}

// FromGLTF converts a decoded glTF document into a Document. Parsing stops at
// the first inconsistency; no partial Document is returned.
func FromGLTF(doc *gltf.Document, baseDir string) (*Document, error) {
	p := &parser{
		doc:     doc,
		baseDir: baseDir,
		images:  make([]*ImageData, len(doc.Images)),
	}

	out := &Document{Meshes: make([]Mesh, 0, len(doc.Meshes))}
	for mi, mesh := range doc.Meshes {
		m := Mesh{Name: mesh.Name, Primitives: make([]Primitive, 0, len(mesh.Primitives))}
		for pi, prim := range mesh.Primitives {
			parsed, err := p.primitive(mi, pi, prim)
			if err != nil {
				return nil, err
			}
			m.Primitives = append(m.Primitives, parsed)
		}
		out.Meshes = append(out.Meshes, m)
	}
	out.Images = p.images
	return out, nil
}

type parser struct {
	doc     *gltf.Document
	baseDir string
	images  []*ImageData // Decode cache by glTF image index
}

func (p *parser) primitive(mi, pi int, prim *gltf.Primitive) (Primitive, error) {
	out := Primitive{Mesh: mi, Index: pi}

	if prim.Mode != gltf.PrimitiveTriangles {
		return out, primitiveError(ErrMalformedBuffer, mi, pi, "primitive mode %v is not a triangle list", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return out, primitiveError(ErrMissingAttribute, mi, pi, "%s", gltf.POSITION)
	}
	acr, err := p.accessor(mi, pi, posIdx)
	if err != nil {
		return out, err
	}
	if out.Positions, err = modeler.ReadPosition(p.doc, acr, nil); err != nil {
		return out, p.readError(mi, pi, gltf.POSITION, err)
	}
	n := len(out.Positions)

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := p.accessor(mi, pi, idx)
		if err != nil {
			return out, err
		}
		if out.Normals, err = modeler.ReadNormal(p.doc, acr, nil); err != nil {
			return out, p.readError(mi, pi, gltf.NORMAL, err)
		}
		if len(out.Normals) != n {
			return out, primitiveError(ErrMalformedBuffer, mi, pi, "%d normals for %d positions", len(out.Normals), n)
		}
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := p.accessor(mi, pi, idx)
		if err != nil {
			return out, err
		}
		if out.UVs, err = modeler.ReadTextureCoord(p.doc, acr, nil); err != nil {
			return out, p.readError(mi, pi, gltf.TEXCOORD_0, err)
		}
		if len(out.UVs) != n {
			return out, primitiveError(ErrMalformedBuffer, mi, pi, "%d uvs for %d positions", len(out.UVs), n)
		}
	}

	if prim.Indices != nil {
		acr, err := p.accessor(mi, pi, *prim.Indices)
		if err != nil {
			return out, err
		}
		if out.Indices, err = modeler.ReadIndices(p.doc, acr, nil); err != nil {
			return out, p.readError(mi, pi, "indices", err)
		}
		if len(out.Indices)%3 != 0 {
			return out, primitiveError(ErrMalformedBuffer, mi, pi, "%d indices is not a whole number of triangles", len(out.Indices))
		}
		for _, v := range out.Indices {
			if int(v) >= n {
				return out, primitiveError(ErrMalformedBuffer, mi, pi, "index %d out of range for %d vertices", v, n)
			}
		}
	}

	img, err := p.baseColorImage(mi, pi, prim)
	if err != nil {
		return out, err
	}
	out.Image = img
	return out, nil
}

func (p *parser) accessor(mi, pi, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(p.doc.Accessors) {
		return nil, primitiveError(ErrMalformedBuffer, mi, pi, "accessor %d out of range", idx)
	}
	return p.doc.Accessors[idx], nil
}

func (p *parser) readError(mi, pi int, attr string, err error) error {
	e := primitiveError(ErrMalformedBuffer, mi, pi, "reading %s", attr)
	e.Err = err
	return e
}

// baseColorImage resolves material -> baseColorTexture -> texture source -> image.
func (p *parser) baseColorImage(mi, pi int, prim *gltf.Primitive) (*ImageData, error) {
	if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(p.doc.Materials) {
		return nil, primitiveError(ErrMissingTexture, mi, pi, "no material")
	}
	mat := p.doc.Materials[*prim.Material]
	if mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
		return nil, primitiveError(ErrMissingTexture, mi, pi, "material %d has no base color texture", *prim.Material)
	}

	texIdx := mat.PBRMetallicRoughness.BaseColorTexture.Index
	if texIdx < 0 || texIdx >= len(p.doc.Textures) {
		return nil, primitiveError(ErrMissingTexture, mi, pi, "texture %d out of range", texIdx)
	}
	tex := p.doc.Textures[texIdx]
	if tex.Source == nil || *tex.Source < 0 || *tex.Source >= len(p.doc.Images) {
		return nil, primitiveError(ErrMissingTexture, mi, pi, "texture %d has no image source", texIdx)
	}

	imgIdx := *tex.Source
	if cached := p.images[imgIdx]; cached != nil {
		return cached, nil
	}

	data, err := p.imageBytes(imgIdx)
	if err != nil {
		return nil, withPrimitive(err, mi, pi)
	}
	img, err := DecodeImage(imgIdx, data)
	if err != nil {
		return nil, withPrimitive(err, mi, pi)
	}
	if err := img.Validate(); err != nil {
		return nil, withPrimitive(err, mi, pi)
	}
	p.images[imgIdx] = img
	return img, nil
}

// imageBytes returns the encoded payload from a buffer view, a data URI, or a file.
func (p *parser) imageBytes(idx int) ([]byte, error) {
	img := p.doc.Images[idx]

	if img.BufferView != nil {
		bvIdx := *img.BufferView
		if bvIdx < 0 || bvIdx >= len(p.doc.BufferViews) {
			return nil, imageError(ErrMalformedBuffer, idx, nil, "buffer view %d out of range", bvIdx)
		}
		bv := p.doc.BufferViews[bvIdx]
		if bv.Buffer < 0 || bv.Buffer >= len(p.doc.Buffers) {
			return nil, imageError(ErrMalformedBuffer, idx, nil, "buffer %d out of range", bv.Buffer)
		}
		data := p.doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if bv.ByteOffset < 0 || end > len(data) {
			return nil, imageError(ErrMalformedBuffer, idx, nil, "buffer view [%d:%d] exceeds buffer of %d bytes", bv.ByteOffset, end, len(data))
		}
		return data[bv.ByteOffset:end], nil
	}

	if img.IsEmbeddedResource() {
		data, err := img.MarshalData()
		if err != nil {
			return nil, imageError(ErrMalformedBuffer, idx, err, "decoding data URI")
		}
		return data, nil
	}

	if img.URI == "" {
		return nil, imageError(ErrMalformedBuffer, idx, nil, "image has neither buffer view nor URI")
	}
	if strings.Contains(img.URI, "://") {
		return nil, imageError(ErrMalformedBuffer, idx, nil, "remote image URI %q", img.URI)
	}
	data, err := os.ReadFile(filepath.Join(p.baseDir, filepath.FromSlash(img.URI)))
	if err != nil {
		return nil, imageError(ErrMalformedBuffer, idx, err, "reading %s", img.URI)
	}
	return data, nil
}

func withPrimitive(err error, mi, pi int) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Mesh, pe.Primitive = mi, pi
	}
	return err
}
