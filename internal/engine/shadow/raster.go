package shadow

import (
	"fmt"

	"github.com/fogleman/fauxgl"

	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Clear resets every texel of a layer to the far depth.
func (s *MemoryStorage) Clear(layer int) {
	d := s.Layers[layer]
	for i := range d {
		d[i] = 1
	}
}

// DrawBoxes renders the depth of boxes into layer using viewProj, which
// must map into [-1,1]x[-1,1]x[0,1]. Row 0 of the layer is the top of the
// map, matching the texture space used by ShaderData. Existing texels keep
// their depth where they are nearer.
func (s *MemoryStorage) DrawBoxes(layer int, viewProj math.Mat4, boxes []geom.AABB) error {
	if layer < 0 || layer >= len(s.Layers) {
		return fmt.Errorf("layer %d out of range [0, %d)", layer, len(s.Layers))
	}
	if len(boxes) == 0 {
		return nil
	}

	ctx := s.rasterContext()
	ctx.ClearDepthBuffer()
	ctx.Shader = fauxgl.NewSolidColorShader(clipMatrix(viewProj), fauxgl.White)

	triangles := make([]*fauxgl.Triangle, 0, len(boxes)*len(sceneTriangles))
	for _, b := range boxes {
		var corners [8]fauxgl.Vector
		for i, c := range b.Corners() {
			corners[i] = fauxgl.V(float64(c.X), float64(c.Y), float64(c.Z))
		}
		for _, tri := range sceneTriangles {
			triangles = append(triangles, fauxgl.NewTriangleForPoints(
				corners[tri[0]], corners[tri[1]], corners[tri[2]]))
		}
	}
	ctx.DrawTriangles(triangles)

	// Untouched texels still hold the cleared maximum.
	depth := s.Layers[layer]
	for i, z := range ctx.DepthBuffer {
		if z <= 1 && float32(z) < depth[i] {
			depth[i] = float32(z)
		}
	}
	return nil
}

// rasterContext returns a depth-only context sized to the layers, reusing
// the previous one while the size holds.
func (s *MemoryStorage) rasterContext() *fauxgl.Context {
	if s.raster == nil || s.raster.Width != s.Size {
		ctx := fauxgl.NewContext(s.Size, s.Size)
		ctx.WriteColor = false
		ctx.AlphaBlend = false
		ctx.Cull = fauxgl.CullNone
		s.raster = ctx
	}
	return s.raster
}

// clipMatrix converts a column-major projection with depth in [0,1] into
// a row-major fauxgl matrix with depth in [-1,1] (z' = 2z - w).
func clipMatrix(m math.Mat4) fauxgl.Matrix {
	at := func(row, col int) float64 { return float64(m[col*4+row]) }
	z := func(col int) float64 { return 2*at(2, col) - at(3, col) }
	return fauxgl.Matrix{
		X00: at(0, 0), X01: at(0, 1), X02: at(0, 2), X03: at(0, 3),
		X10: at(1, 0), X11: at(1, 1), X12: at(1, 2), X13: at(1, 3),
		X20: z(0), X21: z(1), X22: z(2), X23: z(3),
		X30: at(3, 0), X31: at(3, 1), X32: at(3, 2), X33: at(3, 3),
	}
}
