// Package geom provides the bounding volumes and clipping primitives used
// to fit shadow cascades: axis-aligned and oriented boxes, view frustums and
// a fixed-capacity triangle clipper.
package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// AABB is an axis-aligned bounding box stored as center and half-extents.
type AABB struct {
	Center  math.Vec3
	Extents math.Vec3
}

// AABBFromMinMax builds a box from its min and max corners.
func AABBFromMinMax(min, max math.Vec3) AABB {
	return AABB{
		Center:  min.Add(max).Scale(0.5),
		Extents: max.Sub(min).Scale(0.5),
	}
}

// AABBFromPoints returns the smallest box enclosing pts.
// An empty slice yields a zero box at the origin.
func AABBFromPoints(pts ...math.Vec3) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return AABBFromMinMax(lo, hi)
}

// Min returns the minimum corner.
func (b AABB) Min() math.Vec3 {
	return b.Center.Sub(b.Extents)
}

// Max returns the maximum corner.
func (b AABB) Max() math.Vec3 {
	return b.Center.Add(b.Extents)
}

// Size returns the full edge lengths.
func (b AABB) Size() math.Vec3 {
	return b.Extents.Scale(2)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Extents.Length()
}

// Corners returns the eight corners. Bit 0 of the index selects max X,
// bit 1 max Y and bit 2 max Z, so corner 0 is Min() and corner 7 is Max().
func (b AABB) Corners() [8]math.Vec3 {
	lo, hi := b.Min(), b.Max()
	var c [8]math.Vec3
	for i := range c {
		c[i] = lo
		if i&1 != 0 {
			c[i].X = hi.X
		}
		if i&2 != 0 {
			c[i].Y = hi.Y
		}
		if i&4 != 0 {
			c[i].Z = hi.Z
		}
	}
	return c
}

// Contains reports whether p is inside the box (bounds inclusive).
func (b AABB) Contains(p math.Vec3) bool {
	d := p.Sub(b.Center).Abs()
	return d.X <= b.Extents.X && d.Y <= b.Extents.Y && d.Z <= b.Extents.Z
}

// ContainsWithin is Contains with a tolerance added to every extent.
func (b AABB) ContainsWithin(p math.Vec3, tol float32) bool {
	d := p.Sub(b.Center).Abs()
	return d.X <= b.Extents.X+tol && d.Y <= b.Extents.Y+tol && d.Z <= b.Extents.Z+tol
}

// Intersects reports whether two boxes overlap.
func (b AABB) Intersects(o AABB) bool {
	d := b.Center.Sub(o.Center).Abs()
	e := b.Extents.Add(o.Extents)
	return d.X <= e.X && d.Y <= e.Y && d.Z <= e.Z
}

// Transform returns the box enclosing the eight corners transformed by m.
func (b AABB) Transform(m math.Mat4) AABB {
	c := b.Corners()
	for i := range c {
		c[i] = m.TransformPoint(c[i])
	}
	return AABBFromPoints(c[:]...)
}

// ClampExtents raises every extent to at least minExtent.
func (b AABB) ClampExtents(minExtent float32) AABB {
	b.Extents = math.Vec3{
		X: math32.Max(b.Extents.X, minExtent),
		Y: math32.Max(b.Extents.Y, minExtent),
		Z: math32.Max(b.Extents.Z, minExtent),
	}
	return b
}
