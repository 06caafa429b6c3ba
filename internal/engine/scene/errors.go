package scene

import (
	"errors"
	"fmt"
	"strings"
)

// Build error kinds.
var (
	ErrShaderCompile = errors.New("shader compile failed")
	ErrBufferUpload  = errors.New("buffer upload failed")
	ErrTextureUpload = errors.New("texture upload failed")
)

// Draw error kinds.
var (
	ErrContextNotCurrent = errors.New("GL context not current")
	ErrDrawCallFailed    = errors.New("draw call failed")
	ErrEmptyFramebuffer  = errors.New("framebuffer has zero size")
	ErrModelDestroyed    = errors.New("model destroyed")
)

// BuildError reports which primitive a GPU build failure belongs to.
// Mesh and Primitive are -1 when the failure is not tied to one.
type BuildError struct {
	Kind      error
	Mesh      int
	Primitive int
	Err       error
}

func (e *BuildError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Mesh >= 0 {
		fmt.Fprintf(&b, " (mesh %d primitive %d)", e.Mesh, e.Primitive)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *BuildError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
