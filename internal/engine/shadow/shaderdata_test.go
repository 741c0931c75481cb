package shadow

import (
	"testing"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

func TestShaderDataConstants(t *testing.T) {
	viewer, light, scene := demoScene()
	m := newTestManager(t, demoSettings())
	m.UpdateFrame(viewer, light, scene)

	d := m.ShaderData()
	if d.CascadeLevels != 4 {
		t.Errorf("CascadeLevels = %d, want 4", d.CascadeLevels)
	}
	if d.TexelSize != 1.0/1024 {
		t.Errorf("TexelSize = %v, want %v", d.TexelSize, 1.0/1024)
	}
	if d.MinBorderPadding != 2.0/1024 || d.MaxBorderPadding != 1021.0/1024 {
		t.Errorf("border padding = %v/%v, want %v/%v", d.MinBorderPadding, d.MaxBorderPadding, 2.0/1024, 1021.0/1024)
	}
	if d.PCFBlurStart != -2 || d.PCFBlurEnd != 3 {
		t.Errorf("PCF loop = [%d, %d), want [-2, 3)", d.PCFBlurStart, d.PCFBlurEnd)
	}
	if d.PartitionDepths != m.PartitionDepths() {
		t.Errorf("PartitionDepths = %v, want %v", d.PartitionDepths, m.PartitionDepths())
	}
	if d.LightView != m.LightView() {
		t.Error("LightView does not match the manager")
	}
	if d.BlendRange != 0.2 || !d.BlendBetweenCascades {
		t.Errorf("blend = %v/%v, want true/0.2", d.BlendBetweenCascades, d.BlendRange)
	}
}

func TestShaderDataMapsBoxToTexture(t *testing.T) {
	viewer, light, scene := demoScene()
	m := newTestManager(t, demoSettings())
	m.UpdateFrame(viewer, light, scene)
	d := m.ShaderData()

	toTex := func(i int, p math.Vec3) math.Vec3 {
		s, o := d.Scale[i], d.Offset[i]
		return math.V3(p.X*s[0]+o[0], p.Y*s[1]+o[1], p.Z*s[2]+o[2])
	}

	for i := 0; i < m.CascadeLevels(); i++ {
		box := m.ShadowBoundingBox(i)
		// Texture V runs downward, so the box minimum lands at (0, 1).
		if got := toTex(i, box.Min()); !got.ApproxEqual(math.V3(0, 1, 0), 1e-3) {
			t.Errorf("cascade %d min maps to %+v, want (0, 1, 0)", i, got)
		}
		if got := toTex(i, box.Max()); !got.ApproxEqual(math.V3(1, 0, 1), 1e-3) {
			t.Errorf("cascade %d max maps to %+v, want (1, 0, 1)", i, got)
		}
	}
}

func TestSelectCascade(t *testing.T) {
	viewer, light, scene := demoScene()
	m := newTestManager(t, demoSettings())
	m.UpdateFrame(viewer, light, scene)

	tests := []struct {
		depth     float32
		wantIndex int
		wantBlend float32
	}{
		{0, 0, 0},
		{10, 0, 0},
		// Band location 1 - 29/29.95 is inside the 0.2 blend range.
		{29, 0, 1 - (1-29/29.95)/0.2},
		{30, 1, 0},
		{50, 1, 0},
		{179, 2, 1 - (1-(179-89.85)/(179.7-89.85))/0.2},
		{299, 3, 0},
		{1000, 3, 0},
	}

	for _, tc := range tests {
		idx, blend := m.SelectCascade(tc.depth)
		if idx != tc.wantIndex {
			t.Errorf("SelectCascade(%v) index = %d, want %d", tc.depth, idx, tc.wantIndex)
		}
		if !approx(blend, tc.wantBlend, 1e-3) {
			t.Errorf("SelectCascade(%v) blend = %v, want %v", tc.depth, blend, tc.wantBlend)
		}
	}
}

func TestSelectCascadeWithoutBlending(t *testing.T) {
	viewer, light, scene := demoScene()
	s := demoSettings()
	s.BlendBetweenCascades = false
	m := newTestManager(t, s)
	m.UpdateFrame(viewer, light, scene)

	if idx, blend := m.SelectCascade(29); idx != 0 || blend != 0 {
		t.Errorf("SelectCascade(29) = %d, %v, want 0, 0", idx, blend)
	}
}
