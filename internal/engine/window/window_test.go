package window

import (
	"errors"
	"testing"

	"github.com/Faultbox/layermate/internal/config"
)

func TestConfigFrom(t *testing.T) {
	c := config.Default().Window
	got := ConfigFrom(c)
	want := Config{
		Title:       c.Title,
		Width:       c.Width,
		Height:      c.Height,
		Transparent: c.Transparent,
		Borderless:  c.Borderless,
		VSync:       c.VSync,
	}
	if got != want {
		t.Errorf("ConfigFrom() = %+v, want %+v", got, want)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	w, err := Open("wayland-direct", Config{})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
	if w != nil {
		t.Error("expected nil window")
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		w, h         int32
		wantW, wantH uint32
	}{
		{800, 600, 800, 600},
		{-1, 600, 0, 600},
		{0, -5, 0, 0},
	}
	for _, tt := range tests {
		w, h := clampSize(tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("clampSize(%d, %d) = %d, %d", tt.w, tt.h, w, h)
		}
	}
}
