// Package debug provides visualization helpers for cascade fitting.
package debug

import "github.com/Faultbox/midgard-csm/pkg/math"

// WireframeVertexCount is the number of line vertices in a box or frustum
// wireframe (12 edges x 2).
const WireframeVertexCount = 24

// boxEdges pairs corners in geom.AABB.Corners bit order.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// frustumEdges pairs corners in geom.Frustum.Corners ring order.
var frustumEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // near ring
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // far ring
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // sides
}

// BoxWireframe returns line vertices (x, y, z per vertex) for corners of
// an AABB or OBB.
func BoxWireframe(corners [8]math.Vec3) []float32 {
	return wireframe(corners, &boxEdges)
}

// FrustumWireframe returns line vertices for frustum corners.
func FrustumWireframe(corners [8]math.Vec3) []float32 {
	return wireframe(corners, &frustumEdges)
}

func wireframe(corners [8]math.Vec3, edges *[12][2]int) []float32 {
	out := make([]float32, 0, WireframeVertexCount*3)
	for _, e := range edges {
		a, b := corners[e[0]], corners[e[1]]
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}

// TransformCorners maps eight points through m.
func TransformCorners(corners [8]math.Vec3, m math.Mat4) [8]math.Vec3 {
	for i := range corners {
		corners[i] = m.TransformPoint(corners[i])
	}
	return corners
}
