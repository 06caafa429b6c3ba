// Package asset reads glTF 2.0 scene files into a flat list of textured primitives.
package asset

import "fmt"

// PixelFormat identifies the channel layout of decoded image bytes.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatRGB8                // 3 bytes per pixel
	FormatRGBA8               // 4 bytes per pixel
)

// String returns a human-readable format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// BytesPerPixel returns the pixel stride, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGB8:
		return 3
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

// ImageData is a decoded base-color image.
// len(Pixels) == Width*Height*Format.BytesPerPixel().
type ImageData struct {
	Index  int // glTF image index
	Width  uint32
	Height uint32
	Format PixelFormat
	Pixels []byte
}

// Primitive is one drawable triangle list with its resolved base-color image.
type Primitive struct {
	Mesh  int // Index of the owning mesh
	Index int // Index within the mesh

	Positions [][3]float32
	Normals   [][3]float32 // nil when the source has no NORMAL attribute
	UVs       [][2]float32 // nil when the source has no TEXCOORD_0 attribute
	Indices   []uint32     // nil when the source is not indexed
	Image     *ImageData
}

// VertexCount returns the number of vertices.
func (p *Primitive) VertexCount() int {
	return len(p.Positions)
}

// Bounds returns the axis-aligned bounding box of the positions.
func (p *Primitive) Bounds() (min, max [3]float32) {
	if len(p.Positions) == 0 {
		return min, max
	}
	min, max = p.Positions[0], p.Positions[0]
	for _, pos := range p.Positions[1:] {
		for k := 0; k < 3; k++ {
			if pos[k] < min[k] {
				min[k] = pos[k]
			}
			if pos[k] > max[k] {
				max[k] = pos[k]
			}
		}
	}
	return min, max
}

// Mesh is an ordered list of primitives.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Document is the parsed contents of a scene file.
type Document struct {
	Meshes []Mesh
	Images []*ImageData // Decoded images by glTF index; nil entries were never referenced
}

// PrimitiveCount returns the number of primitives across all meshes.
func (d *Document) PrimitiveCount() int {
	n := 0
	for i := range d.Meshes {
		n += len(d.Meshes[i].Primitives)
	}
	return n
}
