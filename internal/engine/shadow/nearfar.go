package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// sceneTriangles indexes the 12 faces of a box whose corners follow the
// geom.AABB.Corners bit order.
var sceneTriangles = [12][3]int{
	{0, 1, 2}, {1, 2, 3},
	{4, 5, 6}, {5, 6, 7},
	{0, 2, 4}, {2, 4, 6},
	{1, 3, 5}, {3, 5, 7},
	{0, 1, 4}, {1, 4, 5},
	{2, 3, 6}, {3, 6, 7},
}

// ComputeNearAndFar finds the light-space depth range of the scene box
// inside the cascade's XY rectangle [minXY, maxXY]. sceneLS holds the scene
// corners already in light space. Each box face is clipped against the
// four rectangle edges and the Z of the surviving pieces is folded into
// the result. When nothing survives the full scene Z range is returned.
func ComputeNearAndFar(minXY, maxXY math.Vec2, sceneLS [8]math.Vec3) (near, far float32) {
	near, far = math32.MaxFloat32, -math32.MaxFloat32

	planes := [geom.MaxClipPlanes]geom.HalfPlane{
		{Axis: 0, Bound: minXY.X, Greater: true},
		{Axis: 0, Bound: maxXY.X},
		{Axis: 1, Bound: minXY.Y, Greater: true},
		{Axis: 1, Bound: maxXY.Y},
	}

	var list geom.TriangleList
	for _, tri := range sceneTriangles {
		list.Reset(sceneLS[tri[0]], sceneLS[tri[1]], sceneLS[tri[2]])
		for _, p := range planes {
			list.Clip(p)
		}
		list.Live(func(t geom.Triangle) {
			for _, p := range t.Pt {
				near = math32.Min(near, p.Z)
				far = math32.Max(far, p.Z)
			}
		})
	}

	if near > far {
		box := geom.AABBFromPoints(sceneLS[:]...)
		return box.Min().Z, box.Max().Z
	}
	return near, far
}
