package geom

import "github.com/Faultbox/midgard-csm/pkg/math"

// Frustum is a view frustum in its own view space (left-handed, looking
// down +Z from the origin), described by the tangent of each side plane.
type Frustum struct {
	RightSlope  float32
	LeftSlope   float32
	TopSlope    float32
	BottomSlope float32
	Near        float32
	Far         float32
}

// FrustumFromProjection recovers the frustum of a left-handed perspective
// projection by unprojecting the clip-space side and depth points.
func FrustumFromProjection(proj math.Mat4) Frustum {
	inv := proj.Inverse()
	unproject := func(x, y, z float32) math.Vec3 {
		p := inv.MulVec4(math.Vec4{x, y, z, 1})
		return math.Vec3{X: p[0] / p[3], Y: p[1] / p[3], Z: p[2] / p[3]}
	}

	right := unproject(1, 0, 1)
	left := unproject(-1, 0, 1)
	top := unproject(0, 1, 1)
	bottom := unproject(0, -1, 1)

	return Frustum{
		RightSlope:  right.X / right.Z,
		LeftSlope:   left.X / left.Z,
		TopSlope:    top.Y / top.Z,
		BottomSlope: bottom.Y / bottom.Z,
		Near:        unproject(0, 0, 0).Z,
		Far:         unproject(0, 0, 1).Z,
	}
}

// Slice returns the same frustum cut to the [near, far] depth interval.
func (f Frustum) Slice(near, far float32) Frustum {
	f.Near = near
	f.Far = far
	return f
}

// Corners returns the eight view-space corners. Indices 0-3 lie on the near
// plane and 4-7 on the far plane, each running (-x,-y), (+x,-y), (+x,+y),
// (-x,+y). A near depth of zero collapses the first four onto the apex.
func (f Frustum) Corners() [8]math.Vec3 {
	var c [8]math.Vec3
	for i, z := range [2]float32{f.Near, f.Far} {
		c[i*4+0] = math.Vec3{X: f.LeftSlope * z, Y: f.BottomSlope * z, Z: z}
		c[i*4+1] = math.Vec3{X: f.RightSlope * z, Y: f.BottomSlope * z, Z: z}
		c[i*4+2] = math.Vec3{X: f.RightSlope * z, Y: f.TopSlope * z, Z: z}
		c[i*4+3] = math.Vec3{X: f.LeftSlope * z, Y: f.TopSlope * z, Z: z}
	}
	return c
}

// Contains reports whether a view-space point lies inside the frustum.
func (f Frustum) Contains(p math.Vec3) bool {
	if p.Z < f.Near || p.Z > f.Far {
		return false
	}
	return p.X >= f.LeftSlope*p.Z && p.X <= f.RightSlope*p.Z &&
		p.Y >= f.BottomSlope*p.Z && p.Y <= f.TopSlope*p.Z
}
