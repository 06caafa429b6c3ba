// Package debug writes rendered frames to disk.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ErrPixelSize is returned when a readback does not hold width*height RGBA pixels.
var ErrPixelSize = errors.New("pixel data size mismatch")

// FlipRows copies a GL readback (bottom row first) into a top-down image.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if width < 0 || height < 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrPixelSize, width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

// SnapshotPath resolves where a snapshot goes. A path naming an existing
// directory, or ending in a separator, gets a timestamped file inside it.
func SnapshotPath(path string, now time.Time) string {
	name := fmt.Sprintf("layermate_%s.png", now.Format("2006-01-02_15-04-05"))
	if path == "" {
		return name
	}
	if os.IsPathSeparator(path[len(path)-1]) {
		return filepath.Join(path, name)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, name)
	}
	return path
}

// WritePNG flips a readback and writes it to path as PNG, creating the
// parent directory when needed.
func WritePNG(path string, pixels []byte, width, height int) error {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
