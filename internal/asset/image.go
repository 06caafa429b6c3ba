package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // glTF core image type
	_ "image/png"  // glTF core image type

	_ "golang.org/x/image/bmp" // Seen in exported VRM avatars
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // EXT_texture_webp payloads
)

// DecodeImage decodes an encoded image payload into 8-bit RGB or RGBA bytes.
// Layouts other than 8-bit color fail with ErrUnsupportedPixelFormat.
func DecodeImage(index int, data []byte) (*ImageData, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, imageError(ErrMalformedBuffer, index, err, "decoding image")
	}

	out, err := FromImage(img)
	if err != nil {
		return nil, imageError(ErrUnsupportedPixelFormat, index, nil, "%s image of type %T", format, img)
	}
	out.Index = index
	return out, nil
}

// FromImage converts a decoded image to ImageData.
// Opaque truecolor and YCbCr images become RGB8; images with alpha or a palette become RGBA8.
func FromImage(img image.Image) (*ImageData, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.NRGBA:
		return &ImageData{Width: uint32(w), Height: uint32(h), Format: FormatRGBA8, Pixels: packRows(src.Pix, src.Stride, w*4, h)}, nil
	case *image.RGBA:
		if src.Opaque() {
			return &ImageData{Width: uint32(w), Height: uint32(h), Format: FormatRGB8, Pixels: dropAlpha(src.Pix, src.Stride, w, h)}, nil
		}
		return toNRGBA(img), nil
	case *image.YCbCr:
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(rgba, rgba.Bounds(), src, b.Min, xdraw.Src)
		return &ImageData{Width: uint32(w), Height: uint32(h), Format: FormatRGB8, Pixels: dropAlpha(rgba.Pix, rgba.Stride, w, h)}, nil
	case *image.Paletted, *image.NYCbCrA:
		return toNRGBA(img), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPixelFormat, img)
	}
}

func toNRGBA(img image.Image) *ImageData {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(nrgba, nrgba.Bounds(), img, b.Min, xdraw.Src)
	return &ImageData{
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Format: FormatRGBA8,
		Pixels: nrgba.Pix,
	}
}

// packRows copies h rows of rowLen bytes, dropping any stride padding.
func packRows(pix []byte, stride, rowLen, h int) []byte {
	out := make([]byte, 0, rowLen*h)
	for y := 0; y < h; y++ {
		out = append(out, pix[y*stride:y*stride+rowLen]...)
	}
	return out
}

func dropAlpha(pix []byte, stride, w, h int) []byte {
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}

// ExpandRGBA returns the image as RGBA8. RGB8 pixels gain an opaque alpha byte
// after every three source bytes; RGBA8 images are returned unchanged.
func ExpandRGBA(img *ImageData) (*ImageData, error) {
	switch img.Format {
	case FormatRGBA8:
		return img, nil
	case FormatRGB8:
		n := len(img.Pixels) / 3
		out := make([]byte, n*4)
		for i := 0; i < n; i++ {
			out[4*i] = img.Pixels[3*i]
			out[4*i+1] = img.Pixels[3*i+1]
			out[4*i+2] = img.Pixels[3*i+2]
			out[4*i+3] = 255
		}
		return &ImageData{Index: img.Index, Width: img.Width, Height: img.Height, Format: FormatRGBA8, Pixels: out}, nil
	default:
		return nil, imageError(ErrUnsupportedPixelFormat, img.Index, nil, "format %s", img.Format)
	}
}

// Validate checks the pixel length invariant.
func (img *ImageData) Validate() error {
	bpp := img.Format.BytesPerPixel()
	if bpp == 0 {
		return imageError(ErrUnsupportedPixelFormat, img.Index, nil, "format %s", img.Format)
	}
	want := int(img.Width) * int(img.Height) * bpp
	if len(img.Pixels) != want {
		return imageError(ErrMalformedBuffer, img.Index, nil, "%d pixel bytes, want %d for %dx%d %s",
			len(img.Pixels), want, img.Width, img.Height, img.Format)
	}
	return nil
}

// ToImage returns the pixels as an NRGBA image for re-encoding.
func (img *ImageData) ToImage() (*image.NRGBA, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	rgba, err := ExpandRGBA(img)
	if err != nil {
		return nil, err
	}
	out := image.NewNRGBA(image.Rect(0, 0, int(img.Width), int(img.Height)))
	copy(out.Pix, rgba.Pixels)
	return out, nil
}
