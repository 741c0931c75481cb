package geom

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

func TestFrustumFromProjection(t *testing.T) {
	fov := float32(gomath.Pi / 3)
	aspect := float32(16.0 / 9.0)
	f := FrustumFromProjection(math.PerspectiveFovLH(fov, aspect, 0.5, 300))

	tanHalf := float32(gomath.Tan(float64(fov) / 2))
	tests := []struct {
		name string
		got  float32
		want float32
		tol  float32
	}{
		{"right", f.RightSlope, tanHalf * aspect, 1e-4},
		{"left", f.LeftSlope, -tanHalf * aspect, 1e-4},
		{"top", f.TopSlope, tanHalf, 1e-4},
		{"bottom", f.BottomSlope, -tanHalf, 1e-4},
		{"near", f.Near, 0.5, 1e-3},
		{"far", f.Far, 300, 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if abs32(tc.got-tc.want) > tc.tol {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestFrustumCorners(t *testing.T) {
	f := Frustum{RightSlope: 1, LeftSlope: -1, TopSlope: 0.5, BottomSlope: -0.5}.Slice(2, 10)
	c := f.Corners()

	if c[0] != math.V3(-2, -1, 2) {
		t.Errorf("near bottom-left = %v", c[0])
	}
	if c[2] != math.V3(2, 1, 2) {
		t.Errorf("near top-right = %v", c[2])
	}
	if c[6] != math.V3(10, 5, 10) {
		t.Errorf("far top-right = %v", c[6])
	}
	for i, p := range c {
		if !f.Contains(p) {
			t.Errorf("corner %d %v should be inside its own frustum", i, p)
		}
	}
}

func TestFrustumZeroNearCollapses(t *testing.T) {
	f := Frustum{RightSlope: 1, LeftSlope: -1, TopSlope: 1, BottomSlope: -1}.Slice(0, 5)
	c := f.Corners()
	for i := 0; i < 4; i++ {
		if c[i] != (math.Vec3{}) {
			t.Errorf("near corner %d = %v, want apex", i, c[i])
		}
	}
}
