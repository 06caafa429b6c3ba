package asset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestExpandRGBA(t *testing.T) {
	src := &ImageData{
		Index:  2,
		Width:  2,
		Height: 2,
		Format: FormatRGB8,
		Pixels: []byte{
			1, 2, 3, 4, 5, 6,
			7, 8, 9, 10, 11, 12,
		},
	}

	out, err := ExpandRGBA(src)
	if err != nil {
		t.Fatalf("ExpandRGBA: %v", err)
	}
	if out.Format != FormatRGBA8 {
		t.Fatalf("expected RGBA8, got %s", out.Format)
	}
	if len(out.Pixels) != 4*len(src.Pixels)/3 {
		t.Fatalf("expected %d bytes, got %d", 4*len(src.Pixels)/3, len(out.Pixels))
	}
	for i := 0; i < 4; i++ {
		for c := 0; c < 3; c++ {
			if out.Pixels[4*i+c] != src.Pixels[3*i+c] {
				t.Errorf("pixel %d channel %d: got %d, want %d", i, c, out.Pixels[4*i+c], src.Pixels[3*i+c])
			}
		}
		if out.Pixels[4*i+3] != 255 {
			t.Errorf("pixel %d alpha: got %d, want 255", i, out.Pixels[4*i+3])
		}
	}
	if out.Index != 2 || out.Width != 2 || out.Height != 2 {
		t.Errorf("metadata not preserved: %+v", out)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("expanded image invalid: %v", err)
	}
}

func TestExpandRGBAPassThrough(t *testing.T) {
	src := &ImageData{Width: 1, Height: 1, Format: FormatRGBA8, Pixels: []byte{1, 2, 3, 4}}
	out, err := ExpandRGBA(src)
	if err != nil {
		t.Fatalf("ExpandRGBA: %v", err)
	}
	if out != src {
		t.Error("expected RGBA8 image to be returned unchanged")
	}
}

func TestExpandRGBAUnknownFormat(t *testing.T) {
	_, err := ExpandRGBA(&ImageData{Width: 1, Height: 1, Format: FormatUnknown, Pixels: []byte{0}})
	if !errors.Is(err, ErrUnsupportedPixelFormat) {
		t.Errorf("expected ErrUnsupportedPixelFormat, got %v", err)
	}
}

func TestImageDataValidate(t *testing.T) {
	tests := []struct {
		name    string
		img     ImageData
		wantErr error
	}{
		{"rgb ok", ImageData{Width: 2, Height: 1, Format: FormatRGB8, Pixels: make([]byte, 6)}, nil},
		{"rgba ok", ImageData{Width: 2, Height: 1, Format: FormatRGBA8, Pixels: make([]byte, 8)}, nil},
		{"short", ImageData{Width: 2, Height: 2, Format: FormatRGBA8, Pixels: make([]byte, 8)}, ErrMalformedBuffer},
		{"unknown", ImageData{Width: 1, Height: 1, Pixels: make([]byte, 4)}, ErrUnsupportedPixelFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFromImageLayouts(t *testing.T) {
	paletted := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.NRGBA{255, 0, 0, 255}})
	translucent := image.NewRGBA(image.Rect(0, 0, 1, 1))
	translucent.SetRGBA(0, 0, color.RGBA{64, 64, 64, 128})
	ycbcr := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)

	tests := []struct {
		name   string
		img    image.Image
		format PixelFormat
	}{
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 3, 2)), FormatRGBA8},
		{"opaque rgba", solidOpaqueRGBA(2, 2, color.RGBA{1, 2, 3, 255}), FormatRGB8},
		{"translucent rgba", translucent, FormatRGBA8},
		{"paletted", paletted, FormatRGBA8},
		{"ycbcr", ycbcr, FormatRGB8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FromImage(tt.img)
			if err != nil {
				t.Fatalf("FromImage: %v", err)
			}
			if out.Format != tt.format {
				t.Errorf("expected %s, got %s", tt.format, out.Format)
			}
			if err := out.Validate(); err != nil {
				t.Errorf("result invalid: %v", err)
			}
		})
	}

	if _, err := FromImage(image.NewGray16(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrUnsupportedPixelFormat) {
		t.Errorf("expected ErrUnsupportedPixelFormat for Gray16, got %v", err)
	}
}

func TestFromImageSubImageDropsStride(t *testing.T) {
	parent := solidNRGBA(4, 4, color.NRGBA{7, 7, 7, 7})
	sub := parent.SubImage(image.Rect(1, 1, 3, 3))

	out, err := FromImage(sub)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if out.Width != 2 || out.Height != 2 || len(out.Pixels) != 16 {
		t.Errorf("expected packed 2x2 RGBA, got %dx%d with %d bytes", out.Width, out.Height, len(out.Pixels))
	}
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidNRGBA(1, 1, color.NRGBA{1, 2, 3, 4})); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeImage(5, buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if img.Index != 5 {
		t.Errorf("expected index 5, got %d", img.Index)
	}

	_, err = DecodeImage(3, []byte{0, 1, 2})
	if !errors.Is(err, ErrMalformedBuffer) {
		t.Fatalf("expected ErrMalformedBuffer, got %v", err)
	}
	if !strings.Contains(err.Error(), "image 3") {
		t.Errorf("expected image index in message, got %q", err.Error())
	}
}

func TestPixelFormatString(t *testing.T) {
	if FormatRGB8.String() != "RGB8" || FormatRGBA8.String() != "RGBA8" {
		t.Errorf("unexpected names %s %s", FormatRGB8, FormatRGBA8)
	}
	if FormatUnknown.BytesPerPixel() != 0 {
		t.Error("unknown format should have zero stride")
	}
}

func TestImageDataToImage(t *testing.T) {
	src := &ImageData{Width: 2, Height: 1, Format: FormatRGB8, Pixels: []byte{10, 20, 30, 40, 50, 60}}
	img, err := src.ToImage()
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{40, 50, 60, 255}) {
		t.Errorf("pixel (1,0) = %v", got)
	}

	bad := &ImageData{Width: 2, Height: 2, Format: FormatRGBA8, Pixels: make([]byte, 3)}
	if _, err := bad.ToImage(); !errors.Is(err, ErrMalformedBuffer) {
		t.Errorf("expected ErrMalformedBuffer, got %v", err)
	}
}
