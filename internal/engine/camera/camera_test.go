package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/layermate/internal/config"
)

const epsilon = 1e-5

// mgl32's ApproxEqual helpers scale the threshold when one side is zero, so
// float32 noise against an exact 0 fails them. These compare absolutely.
func approxVec3(a, b mgl32.Vec3) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

func approxMat3(a, b mgl32.Mat3) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

func defaultCamera() *Camera {
	cfg := config.Default()
	return FromConfig(cfg.Camera, cfg.Light)
}

func TestFromConfig(t *testing.T) {
	c := defaultCamera()

	if c.Eye != (mgl32.Vec3{0, 1, 3}) || c.Target != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("unexpected eye/target %v %v", c.Eye, c.Target)
	}
	if !mgl32.FloatEqualThreshold(c.LightDir.Len(), 1, epsilon) {
		t.Errorf("light direction not normalized: %v", c.LightDir)
	}
}

func TestNormalMatrixRotatedView(t *testing.T) {
	c := defaultCamera()
	c.Eye = mgl32.Vec3{2, 3, -4}
	c.Target = mgl32.Vec3{0.5, 0, 1}
	view := c.View()
	model := mgl32.HomogRotate3DY(0.7).Mul4(mgl32.Scale3D(1, 2, 0.5))
	modelView := view.Mul4(model)

	got := NormalMatrix(modelView)

	m := modelView.Mat3()
	want := m.Inv().Transpose()
	if !approxMat3(got, want) {
		t.Errorf("normal matrix mismatch:\n got %v\nwant %v", got, want)
	}

	// A normal transformed this way stays perpendicular to transformed tangents
	tangent := mgl32.Vec3{1, 0, 0}
	normal := mgl32.Vec3{0, 1, 0}
	tt := m.Mul3x1(tangent)
	nn := got.Mul3x1(normal)
	if d := tt.Dot(nn); d > 1e-4 || d < -1e-4 {
		t.Errorf("transformed normal not perpendicular: dot=%f", d)
	}
}

func TestNormalMatrixPureRotationIsRotation(t *testing.T) {
	rot := mgl32.HomogRotate3DX(0.3).Mul4(mgl32.HomogRotate3DZ(-1.1))
	got := NormalMatrix(rot)
	if !approxMat3(got, rot.Mat3()) {
		t.Errorf("expected rotation to be its own normal matrix, got %v", got)
	}
}

func TestProjectionAspect(t *testing.T) {
	c := defaultCamera()

	a := c.Projection(800, 600)
	b := c.Projection(1600, 1200)
	if !a.ApproxEqualThreshold(b, epsilon) {
		t.Error("projections with equal aspect should be identical")
	}

	wide := c.Projection(1920, 600)
	for i := 1; i < 16; i++ {
		if !mgl32.FloatEqualThreshold(a[i], wide[i], epsilon) {
			t.Errorf("element %d differs: %f vs %f", i, a[i], wide[i])
		}
	}
	if mgl32.FloatEqualThreshold(a[0], wide[0], epsilon) {
		t.Error("horizontal scale should depend on aspect")
	}
}

func TestProjectionZeroHeight(t *testing.T) {
	c := defaultCamera()
	p := c.Projection(100, 0)
	for i, v := range p {
		if v != v {
			t.Fatalf("element %d is NaN", i)
		}
	}
}

func TestLightDirection(t *testing.T) {
	tests := []struct {
		name          string
		azimuth, elev float32
		want          mgl32.Vec3
	}{
		{"front horizon", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"right horizon", 90, 0, mgl32.Vec3{1, 0, 0}},
		{"zenith", 0, 90, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LightDirection(tt.azimuth, tt.elev)
			if !approxVec3(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitToBounds(t *testing.T) {
	c := defaultCamera()
	c.FitToBounds([3]float32{-1, 0, -1}, [3]float32{1, 2, 1})

	if !approxVec3(c.Target, mgl32.Vec3{0, 1, 0}) {
		t.Errorf("target should be bounds center, got %v", c.Target)
	}
	if c.Eye.Z() <= c.Target.Z() {
		t.Errorf("eye should be in front of target, got %v", c.Eye)
	}
	dist := c.Eye.Sub(c.Target).Len()
	if c.Far < dist {
		t.Errorf("far plane %f closer than target distance %f", c.Far, dist)
	}
}

func TestFrame(t *testing.T) {
	c := defaultCamera()
	f := c.Frame(100, 100)

	if !f.Model.ApproxEqualThreshold(mgl32.Ident4(), epsilon) {
		t.Error("model matrix should be identity")
	}
	if !f.MVP.ApproxEqualThreshold(f.Projection.Mul4(f.View), epsilon) {
		t.Error("MVP should equal projection * view for identity model")
	}
	if !mgl32.FloatEqualThreshold(f.LightDir.Len(), 1, epsilon) {
		t.Errorf("view-space light not normalized: %v", f.LightDir)
	}

	// The target projects to the center of clip space
	clip := f.MVP.Mul4x1(c.Target.Vec4(1))
	if mgl32.Abs(clip.X()/clip.W()) > epsilon || mgl32.Abs(clip.Y()/clip.W()) > epsilon {
		t.Errorf("target not centered: %v", clip)
	}
}
