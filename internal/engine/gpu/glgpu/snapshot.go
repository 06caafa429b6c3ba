package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// SnapshotTarget is an offscreen framebuffer in the same format as the
// presented one (sRGB color, 24-bit depth), so a read-back frame matches
// what the window would show.
type SnapshotTarget struct {
	fbo, color, depth uint32
	width, height     int32

	// Framebuffer that was bound when Bind was called.
	restore uint32
}

// NewSnapshotTarget allocates a width x height target. The device must have
// been created first so GL entry points are loaded.
func NewSnapshotTarget(width, height int32) (*SnapshotTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("snapshot target size %dx%d", width, height)
	}
	drainErrors()

	t := &SnapshotTarget{width: width, height: height}
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	t.color = attachColor(width, height)
	t.depth = attachDepth(width, height)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Destroy()
		return nil, fmt.Errorf("snapshot target: %w: status 0x%x", ErrGL, status)
	}
	if err := checkError("creating snapshot target"); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// attachColor adds a texture color attachment to the bound framebuffer.
func attachColor(width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	return tex
}

// attachDepth adds a depth renderbuffer to the bound framebuffer.
func attachDepth(width, height int32) uint32 {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rbo)
	return rbo
}

// Bind redirects draws into the target until Unbind.
func (t *SnapshotTarget) Bind() {
	var prev int32
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &prev)
	t.restore = uint32(prev)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
}

// Unbind restores the framebuffer bound before Bind.
func (t *SnapshotTarget) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.restore)
}

// ReadPixels returns the color attachment as tightly packed RGBA bytes,
// bottom row first.
func (t *SnapshotTarget) ReadPixels() []byte {
	pixels := make([]byte, int(t.width)*int(t.height)*4)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.restore)

	return pixels
}

// Destroy releases the framebuffer and its attachments.
func (t *SnapshotTarget) Destroy() {
	if t.depth != 0 {
		gl.DeleteRenderbuffers(1, &t.depth)
	}
	if t.color != 0 {
		gl.DeleteTextures(1, &t.color)
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
	}
	t.fbo, t.color, t.depth = 0, 0, 0
}
