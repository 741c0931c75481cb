package renderer

import (
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// cubeVertexStride is the float count per cube vertex: position + normal.
const cubeVertexStride = 6

// cubeFaces lists each face normal with two tangents whose cross product
// is the inward normal, so every face winds counter-clockwise on screen
// when seen from outside through a left-handed view.
var cubeFaces = [6][3]math.Vec3{
	{{X: 1}, {Z: 1}, {Y: 1}},
	{{X: -1}, {Y: 1}, {Z: 1}},
	{{Y: 1}, {X: 1}, {Z: 1}},
	{{Y: -1}, {Z: 1}, {X: 1}},
	{{Z: 1}, {Y: 1}, {X: 1}},
	{{Z: -1}, {X: 1}, {Y: 1}},
}

// cubeMesh returns an indexed unit cube spanning [-1, 1] on every axis
// with per-face normals.
func cubeMesh() (vertices []float32, indices []uint32) {
	vertices = make([]float32, 0, 24*cubeVertexStride)
	indices = make([]uint32, 0, 36)

	for f, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		quad := [4]math.Vec3{
			n.Sub(u).Sub(v),
			n.Add(u).Sub(v),
			n.Add(u).Add(v),
			n.Sub(u).Add(v),
		}
		for _, p := range quad {
			vertices = append(vertices, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
		}
		base := uint32(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// boxModel maps the unit cube onto b.
func boxModel(b geom.AABB) math.Mat4 {
	return math.Translate(b.Center.X, b.Center.Y, b.Center.Z).
		Mul(math.Scale(b.Extents.X, b.Extents.Y, b.Extents.Z))
}

// palette colors scene objects by index; object 0 is usually the ground.
var palette = []math.Vec3{
	{X: 0.55, Y: 0.55, Z: 0.52},
	{X: 0.80, Y: 0.35, Z: 0.30},
	{X: 0.30, Y: 0.60, Z: 0.80},
	{X: 0.85, Y: 0.75, Z: 0.30},
	{X: 0.45, Y: 0.75, Z: 0.40},
	{X: 0.70, Y: 0.45, Z: 0.80},
}

func objectColor(i int) math.Vec3 {
	return palette[i%len(palette)]
}

// cascadeColors tints each cascade when cascade visualization is on.
var cascadeColors = [8]math.Vec3{
	{X: 1.0, Y: 0.3, Z: 0.3},
	{X: 0.3, Y: 1.0, Z: 0.3},
	{X: 0.3, Y: 0.3, Z: 1.0},
	{X: 1.0, Y: 1.0, Z: 0.3},
	{X: 1.0, Y: 0.3, Z: 1.0},
	{X: 0.3, Y: 1.0, Z: 1.0},
	{X: 1.0, Y: 0.6, Z: 0.2},
	{X: 0.8, Y: 0.8, Z: 0.8},
}

// CascadeColor returns the overlay color of cascade i.
func CascadeColor(i int) math.Vec3 {
	return cascadeColors[i%len(cascadeColors)]
}
