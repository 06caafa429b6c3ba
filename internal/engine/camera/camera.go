// Package camera provides the fixed overlay camera and per-frame transforms.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/layermate/internal/config"
)

// Camera is a fixed look-at camera with a perspective projection and a
// directional light expressed in world space.
type Camera struct {
	FOVDegrees float32
	Near       float32
	Far        float32

	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	// LightDir points from the surface towards the light, world space.
	LightDir mgl32.Vec3
}

// FromConfig builds a camera from the camera and light sections.
func FromConfig(cam config.CameraConfig, light config.LightConfig) *Camera {
	return &Camera{
		FOVDegrees: cam.FOVDegrees,
		Near:       cam.Near,
		Far:        cam.Far,
		Eye:        mgl32.Vec3(cam.Eye),
		Target:     mgl32.Vec3(cam.Target),
		Up:         mgl32.Vec3(cam.Up),
		LightDir:   LightDirection(light.Azimuth, light.Elevation),
	}
}

// Projection returns the perspective matrix for a framebuffer of the given size.
// Only the horizontal scale depends on the aspect ratio.
func (c *Camera) Projection(width, height uint32) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOVDegrees), aspect, c.Near, c.Far)
}

// View returns the world-to-view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// NormalMatrix returns transpose(inverse(upper3x3(modelView))), which keeps
// normals perpendicular to surfaces under non-uniform scale.
func NormalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	return modelView.Mat3().Inv().Transpose()
}

// FitToBounds aims the camera at the center of the box and backs it off along
// +Z far enough for the whole box to fit in the vertical field of view.
func (c *Camera) FitToBounds(min, max [3]float32) {
	lo, hi := mgl32.Vec3(min), mgl32.Vec3(max)
	center := lo.Add(hi).Mul(0.5)
	radius := hi.Sub(lo).Len() / 2
	if radius <= 0 {
		radius = 1
	}

	halfFOV := float64(mgl32.DegToRad(c.FOVDegrees)) / 2
	distance := radius / float32(gomath.Sin(halfFOV)) * 1.1

	c.Target = center
	c.Eye = center.Add(mgl32.Vec3{0, 0, distance})
	c.Up = mgl32.Vec3{0, 1, 0}

	if need := distance + 2*radius; c.Far < need {
		c.Far = need
	}
	if c.Near >= distance-radius && distance-radius > 0 {
		c.Near = (distance - radius) / 2
	}
}

// LightDirection converts azimuth/elevation angles in degrees to a normalized
// direction towards the light. Azimuth rotates around +Y starting at +Z;
// elevation is measured up from the horizon.
func LightDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))

	x := float32(gomath.Cos(el) * gomath.Sin(az))
	y := float32(gomath.Sin(el))
	z := float32(gomath.Cos(el) * gomath.Cos(az))

	return mgl32.Vec3{x, y, z}.Normalize()
}

// Transforms are the matrices for one frame.
type Transforms struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Model      mgl32.Mat4
	ModelView  mgl32.Mat4
	MVP        mgl32.Mat4
	Normal     mgl32.Mat3
	// LightDir is the light direction in view space, normalized.
	LightDir mgl32.Vec3
}

// Frame computes the transforms for a framebuffer of the given size with an
// identity model matrix.
func (c *Camera) Frame(width, height uint32) Transforms {
	proj := c.Projection(width, height)
	view := c.View()
	model := mgl32.Ident4()
	modelView := view.Mul4(model)

	return Transforms{
		Projection: proj,
		View:       view,
		Model:      model,
		ModelView:  modelView,
		MVP:        proj.Mul4(modelView),
		Normal:     NormalMatrix(modelView),
		LightDir:   view.Mat3().Mul3x1(c.LightDir).Normalize(),
	}
}
