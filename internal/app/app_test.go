package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/layermate/internal/config"
	"github.com/Faultbox/layermate/internal/engine/gpu"
	"github.com/Faultbox/layermate/internal/engine/gpu/gputest"
	"github.com/Faultbox/layermate/internal/engine/input"
	"github.com/Faultbox/layermate/internal/engine/surface"
	"github.com/Faultbox/layermate/internal/overlay"
)

// writeTriangleGLB writes a one-triangle textured asset and returns its path.
func writeTriangleGLB(t *testing.T) string {
	t.Helper()
	doc := &gltf.Document{}

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	imgIdx, err := modeler.WriteImage(doc, "base", "image/png", &buf)
	if err != nil {
		t.Fatalf("writing image: %v", err)
	}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(imgIdx)}}
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "avatar",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
			},
			Material: gltf.Index(0),
		}},
	}}

	path := filepath.Join(t.TempDir(), "avatar.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("saving glb: %v", err)
	}
	return path
}

// fakeWindow replays one batch of events per poll.
type fakeWindow struct {
	surface.Fake
	script [][]input.Event
	polls  int
	closed bool
}

func (w *fakeWindow) PollEvents(in *input.Input) {
	if w.polls < len(w.script) {
		for _, e := range w.script[w.polls] {
			in.Push(e)
		}
	}
	w.polls++
}

func (w *fakeWindow) Close() { w.closed = true }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Asset.Path = writeTriangleGLB(t)
	cfg.Window.FPS = 1000
	cfg.Window.Width = 4
	cfg.Window.Height = 2
	return cfg
}

func fakeDevice(dev *gputest.Device) overlay.DeviceFunc {
	return func(surface.Surface) (gpu.Device, error) { return dev, nil }
}

func TestRunQuitsOnEscape(t *testing.T) {
	cfg := testConfig(t)
	dev := &gputest.Device{}
	win := &fakeWindow{
		Fake: surface.Fake{Width: 100, Height: 100},
		script: [][]input.Event{
			nil,
			{{Type: input.EventResize, Width: 100, Height: 100}},
			{{Type: input.EventKeyDown, Key: input.KeyEscape}},
		},
	}

	a, err := New(cfg, win, fakeDevice(dev))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if win.Swaps != 2 {
		t.Errorf("expected 2 presented frames before quit, got %d", win.Swaps)
	}
	if a.Overlay().State() != overlay.Unrealized {
		t.Errorf("Run should unrealize on exit, got %s", a.Overlay().State())
	}
	if p, m, tex := dev.Live(); p+m+tex != 0 {
		t.Errorf("leaked GPU objects: %d %d %d", p, m, tex)
	}
}

func TestRunReload(t *testing.T) {
	cfg := testConfig(t)
	dev := &gputest.Device{}
	win := &fakeWindow{
		Fake: surface.Fake{Width: 100, Height: 100},
		script: [][]input.Event{
			{{Type: input.EventKeyDown, Key: input.KeyReload}},
			{{Type: input.EventQuit}},
		},
	}

	a, err := New(cfg, win, fakeDevice(dev))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(dev.Programs) != 2 {
		t.Errorf("reload should rebuild the model, got %d programs", len(dev.Programs))
	}
	if p, m, tex := dev.Live(); p+m+tex != 0 {
		t.Errorf("leaked GPU objects: %d %d %d", p, m, tex)
	}
}

func TestRunReturnsLoadError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Asset.Path = filepath.Join(t.TempDir(), "missing.glb")
	win := &fakeWindow{Fake: surface.Fake{Width: 100, Height: 100}}

	a, err := New(cfg, win, fakeDevice(&gputest.Device{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if win.polls != 0 {
		t.Error("loop must not start after a failed load")
	}
}

func TestRunKeepsWindowAfterDrawFailure(t *testing.T) {
	cfg := testConfig(t)
	dev := &gputest.Device{FailDrawAt: 1}
	win := &fakeWindow{
		Fake:   surface.Fake{Width: 100, Height: 100},
		script: [][]input.Event{nil, nil, {{Type: input.EventQuit}}},
	}

	a, err := New(cfg, win, fakeDevice(dev))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if win.polls != 3 {
		t.Errorf("loop should keep polling after a failed frame, polls=%d", win.polls)
	}
	if win.Swaps != 0 {
		t.Errorf("failed overlay must not present, swaps=%d", win.Swaps)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	win := &fakeWindow{Fake: surface.Fake{Width: 100, Height: 100}}

	a, err := New(cfg, win, fakeDevice(&gputest.Device{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestNewRendererCullMode(t *testing.T) {
	tests := []struct {
		mode    string
		want    gpu.CullMode
		wantErr bool
	}{
		{config.CullBack, gpu.CullBack, false},
		{config.CullFront, gpu.CullFront, false},
		{config.CullNone, gpu.CullNone, false},
		{"", gpu.CullBack, false},
		{"sideways", gpu.CullNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := config.Default()
			cfg.Render.CullMode = tt.mode
			r, err := NewRenderer(cfg)
			if tt.wantErr {
				if !errors.Is(err, config.ErrInvalid) {
					t.Errorf("expected ErrInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRenderer: %v", err)
			}
			if r.Cull != tt.want {
				t.Errorf("got %s, want %s", r.Cull, tt.want)
			}
		})
	}
}

// fakeTarget returns a readback with a known bottom-left pixel.
type fakeTarget struct {
	width, height int32
	bound         bool
	destroyed     bool
}

func (f *fakeTarget) Bind()   { f.bound = true }
func (f *fakeTarget) Unbind() { f.bound = false }
func (f *fakeTarget) Destroy() {
	f.destroyed = true
}

func (f *fakeTarget) ReadPixels() []byte {
	pixels := make([]byte, f.width*f.height*4)
	copy(pixels, []byte{255, 0, 0, 255})
	return pixels
}

func TestSnapshot(t *testing.T) {
	cfg := testConfig(t)
	dev := &gputest.Device{}
	var target *fakeTarget
	newTarget := func(w, h int32) (Target, error) {
		target = &fakeTarget{width: w, height: h}
		return target, nil
	}
	out := filepath.Join(t.TempDir(), "snap.png")

	written, err := Snapshot(cfg, &surface.Fake{Width: 1, Height: 1}, fakeDevice(dev), newTarget, out)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if written != out {
		t.Errorf("wrote %q, want %q", written, out)
	}

	if len(dev.Viewports) != 1 || dev.Viewports[0] != [2]int32{4, 2} {
		t.Errorf("frame should use the configured size, got %v", dev.Viewports)
	}
	if target == nil || !target.destroyed || target.bound {
		t.Error("target should be unbound and destroyed")
	}
	if p, m, tex := dev.Live(); p+m+tex != 0 {
		t.Errorf("leaked GPU objects: %d %d %d", p, m, tex)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("unexpected size %v", b)
	}
	// Bottom-left of the readback lands bottom-left in the PNG
	if got := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA); got.R != 255 {
		t.Errorf("expected red bottom-left pixel, got %v", got)
	}
}

func TestSnapshotTargetFailure(t *testing.T) {
	cfg := testConfig(t)
	dev := &gputest.Device{}
	boom := errors.New("no FBO")
	newTarget := func(int32, int32) (Target, error) { return nil, boom }

	_, err := Snapshot(cfg, &surface.Fake{Width: 1, Height: 1}, fakeDevice(dev), newTarget, filepath.Join(t.TempDir(), "x.png"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected target error, got %v", err)
	}
	if p, m, tex := dev.Live(); p+m+tex != 0 {
		t.Errorf("leaked GPU objects: %d %d %d", p, m, tex)
	}
}

func TestSnapshotCullFrontKeepsCCWFront(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.CullMode = config.CullFront
	dev := &gputest.Device{}
	newTarget := func(w, h int32) (Target, error) { return &fakeTarget{width: w, height: h}, nil }

	if _, err := Snapshot(cfg, &surface.Fake{}, fakeDevice(dev), newTarget, filepath.Join(t.TempDir(), "f.png")); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(dev.States) != 1 {
		t.Fatalf("expected one applied state, got %d", len(dev.States))
	}
	// front culls counter-clockwise triangles: winding stays CCW, the culled face flips
	if s := dev.States[0]; s.Cull != gpu.CullFront || !s.FrontFaceCCW {
		t.Errorf("unexpected state %+v", s)
	}
}
