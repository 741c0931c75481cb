package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

var (
	_ Camera = (*FirstPersonCamera)(nil)
	_ Camera = (*OrbitCamera)(nil)
	_ Camera = (*LightCamera)(nil)
)

func TestFirstPersonLookTo(t *testing.T) {
	tests := []struct {
		name string
		dir  math.Vec3
	}{
		{"forward", math.V3(0, 0, 1)},
		{"backward", math.V3(0, 0, -1)},
		{"oblique", math.V3(1, -0.5, 2)},
		{"straight down", math.V3(0, -1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := math.V3(3, 4, 5)
			c := NewFirstPersonCamera(DefaultLens(), pos, tc.dir)

			if got := c.Forward(); !got.ApproxEqual(tc.dir.Normalize(), 1e-4) {
				t.Errorf("Forward = %v, want %v", got, tc.dir.Normalize())
			}
			view := c.ViewMatrix()
			if got := view.TransformPoint(pos); !got.ApproxEqual(math.Vec3{}, 1e-4) {
				t.Errorf("position in view space = %v, want origin", got)
			}
			ahead := pos.Add(tc.dir.Normalize().Scale(10))
			if got := view.TransformPoint(ahead); !got.ApproxEqual(math.V3(0, 0, 10), 1e-3) {
				t.Errorf("point ahead in view space = %v, want (0, 0, 10)", got)
			}
		})
	}
}

func TestFirstPersonRotateYKeepsPosition(t *testing.T) {
	c := NewFirstPersonCamera(DefaultLens(), math.V3(1, 2, 3), math.V3(0, 0, 1))
	c.RotateY(math32.Pi / 2)

	if c.Position != math.V3(1, 2, 3) {
		t.Errorf("RotateY moved the camera to %v", c.Position)
	}
	if got := c.Forward(); !got.ApproxEqual(math.V3(1, 0, 0), 1e-5) {
		t.Errorf("Forward after quarter turn = %v, want (1, 0, 0)", got)
	}
	if got := c.LocalToWorldMatrix().Mul(c.ViewMatrix()); !got.ApproxEqual(math.Identity(), 1e-5) {
		t.Errorf("LocalToWorld * View should be identity, got %v", got)
	}
}

func TestFirstPersonWalkStrafe(t *testing.T) {
	c := NewFirstPersonCamera(DefaultLens(), math.Vec3{}, math.V3(0, 0, 1))
	c.Walk(5)
	c.Strafe(2)
	if !c.Position.ApproxEqual(math.V3(2, 0, 5), 1e-5) {
		t.Errorf("Position = %v, want (2, 0, 5)", c.Position)
	}
}

func TestLensProjection(t *testing.T) {
	l := DefaultLens()
	f := geom.FrustumFromProjection(l.ProjMatrix())
	if math32.Abs(f.Near-l.NearZ()) > 1e-3 {
		t.Errorf("projection near = %v, want %v", f.Near, l.NearZ())
	}
	if math32.Abs(f.Far-l.FarZ()) > 0.5 {
		t.Errorf("projection far = %v, want %v", f.Far, l.FarZ())
	}
}

func TestLightCameraStraightDown(t *testing.T) {
	l := NewLightCamera(math.V3(0, -1, 0))
	view := l.ViewMatrix()

	if got := view.TransformPoint(math.V3(0, 50, 0)); !got.ApproxEqual(math.V3(0, 0, -50), 1e-5) {
		t.Errorf("point above the light origin = %v, want z=-50", got)
	}
	if got := view.TransformPoint(math.V3(0, -50, 0)); !got.ApproxEqual(math.V3(0, 0, 50), 1e-5) {
		t.Errorf("point below the light origin = %v, want z=50", got)
	}
}

func TestLightCameraFitScene(t *testing.T) {
	scene := geom.AABB{Center: math.V3(10, 0, -20), Extents: math.V3(30, 5, 30)}
	l := NewLightCamera(math.V3(1, -2, 0.5))
	l.FitScene(scene)

	viewProj := l.ProjMatrix().Mul(l.ViewMatrix())
	for i, c := range scene.Corners() {
		p := viewProj.TransformPoint(c)
		if p.X < -1 || p.X > 1 || p.Y < -1 || p.Y > 1 || p.Z < 0 || p.Z > 1 {
			t.Errorf("scene corner %d projects outside the light volume: %v", i, p)
		}
	}
}

func TestLightCameraRotate(t *testing.T) {
	l := NewLightCamera(math.V3(1, 0, 0))
	l.Rotate(math.QuatFromAxisAngle(math.V3(0, 1, 0), math32.Pi/2))
	if !l.Direction.ApproxEqual(math.V3(0, 0, -1), 1e-5) {
		t.Errorf("Direction = %v, want (0, 0, -1)", l.Direction)
	}
}

func TestOrbitCameraView(t *testing.T) {
	c := NewOrbitCamera(DefaultLens())
	c.Center = math.V3(5, 0, 5)
	c.Distance = 40

	if got := c.ViewMatrix().TransformPoint(c.Center); !got.ApproxEqual(math.V3(0, 0, 40), 1e-3) {
		t.Errorf("orbit center in view space = %v, want (0, 0, 40)", got)
	}

	c.HandleZoom(100)
	if c.Distance != c.MinDistance {
		t.Errorf("zoom should clamp to MinDistance, got %v", c.Distance)
	}
	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("drag should clamp pitch, got %v", c.RotationX)
	}
}

func TestOrbitCameraFitToBounds(t *testing.T) {
	c := NewOrbitCamera(DefaultLens())
	c.FitToBounds(geom.AABB{Center: math.V3(0, -3, 0), Extents: math.V3(200, 50, 200)})
	if c.Center != math.V3(0, -3, 0) {
		t.Errorf("Center = %v", c.Center)
	}
	if math32.Abs(c.Distance-120) > 1e-3 {
		t.Errorf("Distance = %v, want 120", c.Distance)
	}
}
