// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LambertVertexShader transforms positions and passes view-space normals.
//
//go:embed lambert.vert
var LambertVertexShader string

// LambertFragmentShader samples the base color and applies diffuse lighting.
//
//go:embed lambert.frag
var LambertFragmentShader string
