package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Parse error kinds. Match with errors.Is.
var (
	ErrMissingAttribute       = errors.New("missing attribute")
	ErrMissingTexture         = errors.New("missing base color texture")
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	ErrMalformedBuffer        = errors.New("malformed buffer")
)

// ParseError reports which primitive or image a parse failure belongs to.
// Coordinates that do not apply are -1.
type ParseError struct {
	Kind      error
	Mesh      int
	Primitive int
	Image     int
	Detail    string
	Err       error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Mesh >= 0 {
		fmt.Fprintf(&b, " (mesh %d", e.Mesh)
		if e.Primitive >= 0 {
			fmt.Fprintf(&b, " primitive %d", e.Primitive)
		}
		b.WriteString(")")
	}
	if e.Image >= 0 {
		fmt.Fprintf(&b, " (image %d)", e.Image)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *ParseError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func primitiveError(kind error, mesh, prim int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Mesh: mesh, Primitive: prim, Image: -1, Detail: fmt.Sprintf(format, args...)}
}

func imageError(kind error, image int, cause error, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Mesh: -1, Primitive: -1, Image: image, Detail: fmt.Sprintf(format, args...), Err: cause}
}
