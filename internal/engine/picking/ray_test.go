package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

func TestScreenToRayCenter(t *testing.T) {
	view := math.LookAtLH(math.V3(0, 10, -20), math.V3(0, 0, 0), math.V3(0, 1, 0))
	proj := math.PerspectiveFovLH(math32.Pi/3, 1, 0.5, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 300, 800, 600, inv)
	want := math.V3(0, -10, 20).Normalize()
	if !r.Direction.ApproxEqual(want, 1e-3) {
		t.Errorf("direction = %+v, want %+v", r.Direction, want)
	}
	if d := r.Origin.Distance(math.V3(0, 10, -20)); math32.Abs(d-0.5) > 1e-2 {
		t.Errorf("origin %v from eye, want 0.5", d)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.V3(0, 10, 0), Direction: math.V3(0, -1, 0)}
	if d, ok := r.IntersectPlaneY(2); !ok || d != 8 {
		t.Errorf("IntersectPlaneY = %v, %v, want 8, true", d, ok)
	}
	if _, ok := r.IntersectPlaneY(20); ok {
		t.Error("plane behind the ray should miss")
	}
	flat := Ray{Origin: math.V3(0, 10, 0), Direction: math.V3(1, 0, 0)}
	if _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray should miss")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := geom.AABB{Center: math.V3(0, 0, 10), Extents: math.V3(1, 1, 1)}

	tests := []struct {
		name  string
		ray   Ray
		want  float32
		wantH bool
	}{
		{"hit front", Ray{math.V3(0, 0, 0), math.V3(0, 0, 1)}, 9, true},
		{"inside", Ray{math.V3(0, 0, 10), math.V3(0, 0, 1)}, 1, true},
		{"miss", Ray{math.V3(5, 0, 0), math.V3(0, 0, 1)}, 0, false},
		{"behind", Ray{math.V3(0, 0, 20), math.V3(0, 0, 1)}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, hit := tc.ray.IntersectAABB(box)
			if hit != tc.wantH || (hit && d != tc.want) {
				t.Errorf("IntersectAABB = %v, %v, want %v, %v", d, hit, tc.want, tc.wantH)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	r := Ray{Origin: math.V3(0, 0, 0), Direction: math.V3(0, 0, 1)}
	boxes := []geom.AABB{
		{Center: math.V3(0, 0, 30), Extents: math.V3(1, 1, 1)},
		{Center: math.V3(0, 0, 10), Extents: math.V3(1, 1, 1)},
		{Center: math.V3(9, 0, 5), Extents: math.V3(1, 1, 1)},
	}
	if i, d := r.Nearest(boxes); i != 1 || d != 9 {
		t.Errorf("Nearest = %d, %v, want 1, 9", i, d)
	}
	if i, _ := r.Nearest(boxes[2:]); i != -1 {
		t.Errorf("Nearest = %d, want -1", i)
	}
	if p := r.At(4); p != math.V3(0, 0, 4) {
		t.Errorf("At(4) = %+v", p)
	}
}
