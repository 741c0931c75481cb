package geom

import (
	"fmt"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// MaxClipTriangles is the capacity of a TriangleList. Clipping one seed
// triangle against a half-plane at most doubles the slot count (a triangle
// with two vertices inside splits in two), so four planes need 1<<4 slots.
const MaxClipTriangles = 16

// MaxClipPlanes is the number of half-planes a seeded list can be clipped
// against without exceeding MaxClipTriangles.
const MaxClipPlanes = 4

// Triangle is a working triangle of the clipper. Culled triangles keep
// their slot but contribute nothing.
type Triangle struct {
	Pt     [3]math.Vec3
	Culled bool
}

// HalfPlane keeps the points whose Axis component is strictly greater than
// Bound (Greater) or strictly less than it.
type HalfPlane struct {
	Axis    int
	Bound   float32
	Greater bool
}

func (h HalfPlane) inside(p math.Vec3) bool {
	if h.Greater {
		return p.Component(h.Axis) > h.Bound
	}
	return p.Component(h.Axis) < h.Bound
}

// TriangleList is a fixed-capacity triangle set clipped in place.
type TriangleList struct {
	tris  [MaxClipTriangles]Triangle
	n     int
	clips int
}

// Reset empties the list and seeds it with a single triangle.
func (l *TriangleList) Reset(a, b, c math.Vec3) {
	l.tris[0] = Triangle{Pt: [3]math.Vec3{a, b, c}}
	l.n = 1
	l.clips = 0
}

// Len returns the number of occupied slots, culled or not.
func (l *TriangleList) Len() int {
	return l.n
}

// At returns the triangle in slot i.
func (l *TriangleList) At(i int) Triangle {
	return l.tris[i]
}

// Live calls fn for every triangle that has not been culled.
func (l *TriangleList) Live(fn func(Triangle)) {
	for i := 0; i < l.n; i++ {
		if !l.tris[i].Culled {
			fn(l.tris[i])
		}
	}
}

// Clip cuts every live triangle against h. Triangles with no vertex inside
// are culled, triangles with one vertex inside are shrunk, and triangles
// with two vertices inside become two triangles. It panics if the list has
// already been clipped MaxClipPlanes times since the last Reset.
func (l *TriangleList) Clip(h HalfPlane) {
	if l.clips >= MaxClipPlanes {
		panic(fmt.Sprintf("geom: more than %d clip planes on one triangle list", MaxClipPlanes))
	}
	l.clips++

	count := l.n
	for i := 0; i < count; i++ {
		tri := &l.tris[i]
		if tri.Culled {
			continue
		}

		var in [3]bool
		inside := 0
		for k, p := range tri.Pt {
			in[k] = h.inside(p)
			if in[k] {
				inside++
			}
		}

		// Move inside vertices to the front.
		if in[1] && !in[0] {
			tri.Pt[0], tri.Pt[1] = tri.Pt[1], tri.Pt[0]
			in[0], in[1] = true, false
		}
		if in[2] && !in[1] {
			tri.Pt[1], tri.Pt[2] = tri.Pt[2], tri.Pt[1]
			in[1], in[2] = true, false
		}
		if in[1] && !in[0] {
			tri.Pt[0], tri.Pt[1] = tri.Pt[1], tri.Pt[0]
		}

		switch inside {
		case 0:
			tri.Culled = true
		case 1:
			p0 := tri.Pt[0]
			tri.Pt[1], tri.Pt[2] = h.intersect(p0, tri.Pt[2]), h.intersect(p0, tri.Pt[1])
		case 2:
			p0, p1, p2 := tri.Pt[0], tri.Pt[1], tri.Pt[2]
			hit20 := h.intersect(p2, p0)
			hit21 := h.intersect(p2, p1)
			l.tris[l.n] = Triangle{Pt: [3]math.Vec3{p0, p1, hit20}}
			l.n++
			tri.Pt = [3]math.Vec3{p1, hit20, hit21}
		}
	}
}

// intersect returns the point on segment from-to where it crosses the
// plane. The endpoints must lie on opposite sides.
func (h HalfPlane) intersect(from, to math.Vec3) math.Vec3 {
	d := to.Sub(from)
	t := (h.Bound - from.Component(h.Axis)) / d.Component(h.Axis)
	return from.Add(d.Scale(t))
}
