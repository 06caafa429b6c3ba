package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Faultbox/layermate/internal/asset"
)

func TestPrintSummary(t *testing.T) {
	doc := &asset.Document{Meshes: []asset.Mesh{{
		Name: "body",
		Primitives: []asset.Primitive{
			{
				Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Image:     &asset.ImageData{Index: 3, Width: 8, Height: 4, Format: asset.FormatRGB8},
			},
			{
				Index:     1,
				Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
				Indices:   []uint32{0, 1, 2, 2, 1, 3},
			},
		},
	}}}

	var buf bytes.Buffer
	printSummary(&buf, "avatar.glb", doc)
	out := buf.String()

	for _, want := range []string{
		"Meshes: 1  Primitives: 2",
		"[0] body",
		"prim 0: 3 vertices, indices sequential",
		"image #3 8x4 RGB8",
		"prim 1: 4 vertices, indices 6",
		"Total: 7 vertices, 9 indices (3 triangles)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCommandsRequireArgs(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdInfo(&buf, nil); err == nil {
		t.Error("info without a file should fail")
	}
	if err := cmdTextures(&buf, []string{"avatar.glb"}); err == nil {
		t.Error("textures without an output dir should fail")
	}
}
