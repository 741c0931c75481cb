package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// OBB is an oriented bounding box: a box with half-extents Extents, rotated
// by Orientation and centered at Center.
type OBB struct {
	Center      math.Vec3
	Extents     math.Vec3
	Orientation math.Quat
}

// OBBFromAABB returns an unrotated OBB matching b.
func OBBFromAABB(b AABB) OBB {
	return OBB{Center: b.Center, Extents: b.Extents, Orientation: math.QuatIdentity()}
}

// Transform applies a rigid transform (rotation + translation) to the box.
func (o OBB) Transform(m math.Mat4) OBB {
	return OBB{
		Center:      m.TransformPoint(o.Center),
		Extents:     o.Extents,
		Orientation: math.QuatFromMat4(m).Mul(o.Orientation).Normalize(),
	}
}

// Axes returns the box's local X, Y and Z axes in world space.
func (o OBB) Axes() [3]math.Vec3 {
	return [3]math.Vec3{
		o.Orientation.Rotate(math.V3(1, 0, 0)),
		o.Orientation.Rotate(math.V3(0, 1, 0)),
		o.Orientation.Rotate(math.V3(0, 0, 1)),
	}
}

// Corners returns the eight corners in the same order as AABB.Corners.
func (o OBB) Corners() [8]math.Vec3 {
	local := AABB{Extents: o.Extents}.Corners()
	for i := range local {
		local[i] = o.Orientation.Rotate(local[i]).Add(o.Center)
	}
	return local
}

// Contains reports whether p is inside the box.
func (o OBB) Contains(p math.Vec3) bool {
	local := o.Orientation.Conjugate().Rotate(p.Sub(o.Center))
	return AABB{Extents: o.Extents}.Contains(local)
}

// IntersectsAABB runs a separating axis test against b over the 15
// candidate axes.
func (o OBB) IntersectsAABB(b AABB) bool {
	const eps = 1e-6

	axes := o.Axes()
	a := [3]float32{b.Extents.X, b.Extents.Y, b.Extents.Z}
	e := [3]float32{o.Extents.X, o.Extents.Y, o.Extents.Z}
	d := o.Center.Sub(b.Center)
	t := [3]float32{d.X, d.Y, d.Z}

	// r[i][j] is world axis i dotted with box axis j.
	var r, absR [3][3]float32
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = axes[j].Component(i)
			absR[i][j] = math32.Abs(r[i][j]) + eps
		}
	}

	for i := 0; i < 3; i++ {
		rb := e[0]*absR[i][0] + e[1]*absR[i][1] + e[2]*absR[i][2]
		if math32.Abs(t[i]) > a[i]+rb {
			return false
		}
	}

	for j := 0; j < 3; j++ {
		ra := a[0]*absR[0][j] + a[1]*absR[1][j] + a[2]*absR[2][j]
		proj := t[0]*r[0][j] + t[1]*r[1][j] + t[2]*r[2][j]
		if math32.Abs(proj) > ra+e[j] {
			return false
		}
	}

	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			ra := a[i1]*absR[i2][j] + a[i2]*absR[i1][j]
			rb := e[j1]*absR[i][j2] + e[j2]*absR[i][j1]
			if math32.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) > ra+rb {
				return false
			}
		}
	}

	return true
}
