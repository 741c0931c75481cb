// Package picking casts rays from the cursor into the scene.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of a view-projection with depth in [0,1].
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 0, 1})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1, 1})

	origin := perspectiveDivide(nearWorld)
	dir := perspectiveDivide(farWorld).Sub(origin).Normalize()
	return Ray{Origin: origin, Direction: dir}
}

func perspectiveDivide(v math.Vec4) math.Vec3 {
	if v[3] != 0 {
		return math.V3(v[0]/v[3], v[1]/v[3], v[2]/v[3])
	}
	return math.V3(v[0], v[1], v[2])
}

// IntersectPlaneY intersects the ray with the horizontal plane y = planeY.
func (r Ray) IntersectPlaneY(planeY float32) (t float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, false // Parallel
	}
	t = (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, false // Behind the origin
	}
	return t, true
}

// IntersectAABB runs a slab test against box. It returns the entry
// distance, or the exit distance when the ray starts inside.
func (r Ray) IntersectAABB(box geom.AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)
	lo, hi := box.Min(), box.Max()

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Component(axis)
		d := r.Direction.Component(axis)
		bmin, bmax := lo.Component(axis), hi.Component(axis)

		if d == 0 {
			if o < bmin || o > bmax {
				return 0, false
			}
			continue
		}
		t1 := (bmin - o) / d
		t2 := (bmax - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Nearest returns the index of the closest box hit by the ray and the hit
// distance, or -1 when nothing is hit.
func (r Ray) Nearest(boxes []geom.AABB) (index int, t float32) {
	index, t = -1, math32.MaxFloat32
	for i, b := range boxes {
		if d, ok := r.IntersectAABB(b); ok && d < t {
			index, t = i, d
		}
	}
	return index, t
}
