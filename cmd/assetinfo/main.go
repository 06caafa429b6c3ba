// assetinfo inspects avatar assets without a GPU.
package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/layermate/internal/asset"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "textures", "tex":
		err = cmdTextures(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var pe *asset.ParseError
		if errors.As(err, &pe) {
			fmt.Fprintf(os.Stderr, "  kind:      %v\n  mesh:      %d\n  primitive: %d\n  image:     %d\n",
				pe.Kind, pe.Mesh, pe.Primitive, pe.Image)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`assetinfo - avatar asset inspector

Usage:
  assetinfo <command> [options]

Commands:
  info <file.glb>                Show meshes, primitives and images
  textures <file.glb> <outdir>   Write every base-color image as PNG

Examples:
  assetinfo info avatar.glb
  assetinfo textures avatar.vrm ./textures`)
}

func cmdInfo(w io.Writer, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: assetinfo info <file.glb>")
	}

	doc, err := asset.ParseFile(args[0])
	if err != nil {
		return err
	}
	printSummary(w, args[0], doc)
	return nil
}

func printSummary(w io.Writer, path string, doc *asset.Document) {
	fmt.Fprintf(w, "Asset: %s\n", path)
	fmt.Fprintf(w, "Meshes: %d  Primitives: %d\n", len(doc.Meshes), doc.PrimitiveCount())

	totalVerts, totalIdx := 0, 0
	for mi, mesh := range doc.Meshes {
		fmt.Fprintf(w, "\n[%d] %s\n", mi, mesh.Name)
		for _, p := range mesh.Primitives {
			indices := "sequential"
			if p.Indices != nil {
				indices = fmt.Sprintf("%d", len(p.Indices))
			}
			image := "none"
			if p.Image != nil {
				image = fmt.Sprintf("#%d %dx%d %s", p.Image.Index, p.Image.Width, p.Image.Height, p.Image.Format)
			}
			lo, hi := p.Bounds()
			fmt.Fprintf(w, "  prim %d: %d vertices, indices %s, normals %v, uvs %v, image %s\n",
				p.Index, p.VertexCount(), indices, p.Normals != nil, p.UVs != nil, image)
			fmt.Fprintf(w, "          bounds %v .. %v\n", lo, hi)

			totalVerts += p.VertexCount()
			if p.Indices != nil {
				totalIdx += len(p.Indices)
			} else {
				totalIdx += p.VertexCount()
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d vertices, %d indices (%d triangles)\n", totalVerts, totalIdx, totalIdx/3)
}

func cmdTextures(w io.Writer, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: assetinfo textures <file.glb> <outdir>")
	}

	doc, err := asset.ParseFile(args[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(args[1], 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	written := 0
	for _, img := range doc.Images {
		if img == nil {
			continue
		}
		path := filepath.Join(args[1], fmt.Sprintf("image_%d.png", img.Index))
		if err := writeImage(path, img); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%dx%d %s)\n", path, img.Width, img.Height, img.Format)
		written++
	}
	fmt.Fprintf(w, "Wrote %d images\n", written)
	return nil
}

func writeImage(path string, img *asset.ImageData) error {
	nrgba, err := img.ToImage()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(f, nrgba); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
