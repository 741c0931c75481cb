package renderer

import (
	"testing"

	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

func vertexAt(vertices []float32, i uint32) (pos, normal math.Vec3) {
	o := int(i) * cubeVertexStride
	return math.V3(vertices[o], vertices[o+1], vertices[o+2]),
		math.V3(vertices[o+3], vertices[o+4], vertices[o+5])
}

func TestCubeMeshShape(t *testing.T) {
	vertices, indices := cubeMesh()
	if got := len(vertices) / cubeVertexStride; got != 24 {
		t.Fatalf("vertex count = %d, want 24", got)
	}
	if len(indices) != 36 {
		t.Fatalf("index count = %d, want 36", len(indices))
	}

	for i := 0; i < len(vertices)/cubeVertexStride; i++ {
		p, n := vertexAt(vertices, uint32(i))
		for _, c := range []float32{p.X, p.Y, p.Z} {
			if c != 1 && c != -1 {
				t.Fatalf("vertex %d = %+v, not a cube corner", i, p)
			}
		}
		if p.Dot(n) != 1 {
			t.Errorf("vertex %d at %+v does not lie on its face %+v", i, p, n)
		}
	}
}

func TestCubeMeshWinding(t *testing.T) {
	vertices, indices := cubeMesh()
	for i := 0; i < len(indices); i += 3 {
		a, n := vertexAt(vertices, indices[i])
		b, _ := vertexAt(vertices, indices[i+1])
		c, _ := vertexAt(vertices, indices[i+2])

		// Counter-clockwise from outside in a left-handed frame means the
		// right-handed cross product points inward.
		cross := b.Sub(a).Cross(c.Sub(a))
		if cross.Dot(n) >= 0 {
			t.Errorf("triangle %d winds the wrong way for face %+v", i/3, n)
		}
	}
}

func TestBoxModel(t *testing.T) {
	b := geom.AABB{Center: math.V3(1, 2, 3), Extents: math.V3(4, 5, 6)}
	m := boxModel(b)

	tests := []struct {
		in, want math.Vec3
	}{
		{math.V3(0, 0, 0), b.Center},
		{math.V3(1, 1, 1), b.Max()},
		{math.V3(-1, -1, -1), b.Min()},
	}
	for _, tt := range tests {
		if got := m.TransformPoint(tt.in); !got.ApproxEqual(tt.want, 1e-5) {
			t.Errorf("boxModel(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestColorsWrap(t *testing.T) {
	if objectColor(len(palette)) != objectColor(0) {
		t.Error("object colors should repeat")
	}
	if CascadeColor(9) != CascadeColor(1) {
		t.Error("cascade colors should repeat")
	}
}
