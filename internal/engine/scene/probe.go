package scene

import (
	"fmt"

	"github.com/Faultbox/midgard-csm/internal/engine/picking"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Probe describes the shadow lookup for the surface under a screen pixel.
type Probe struct {
	Hit    bool
	Object int
	Point  math.Vec3
	// Depth is the eye-space depth of Point for the fitted camera.
	Depth float32

	// Cascade and Blend follow interval selection.
	Cascade int
	Blend   float32
	// MapCascade is the first cascade whose light volume holds Point, -1
	// when none does.
	MapCascade int
}

// ProbeScreen casts a ray through pixel (x, y) of a width x height
// viewport and reports which cascade shades the first object it hits.
func (s *Scene) ProbeScreen(x, y, width, height float32) Probe {
	ray := picking.ScreenToRay(x, y, width, height, s.ViewProjection().Inverse())
	return s.ProbeRay(ray)
}

// ProbeRay reports which cascade shades the first object hit by ray.
func (s *Scene) ProbeRay(ray picking.Ray) Probe {
	idx, t := ray.Nearest(s.Objects)
	if idx < 0 {
		return Probe{Object: -1, MapCascade: -1}
	}
	return s.ProbePoint(idx, ray.At(t))
}

// ProbePoint reports which cascade shades a world-space point on object
// idx.
func (s *Scene) ProbePoint(idx int, p math.Vec3) Probe {
	pr := Probe{Hit: true, Object: idx, Point: p, MapCascade: -1}
	pr.Depth = s.FitViewer().ViewMatrix().TransformPoint(p).Z
	pr.Cascade, pr.Blend = s.Shadows.SelectCascade(pr.Depth)

	ls := s.Shadows.LightView().TransformPoint(p)
	for i := 0; i < s.Shadows.CascadeLevels(); i++ {
		if s.Shadows.ShadowBoundingBox(i).Contains(ls) {
			pr.MapCascade = i
			break
		}
	}
	return pr
}

// CascadeReport summarizes one fitted cascade.
type CascadeReport struct {
	Index         int        `yaml:"index"`
	IntervalBegin float32    `yaml:"interval_begin"`
	IntervalEnd   float32    `yaml:"interval_end"`
	LightMin      [3]float32 `yaml:"light_min,flow"`
	LightMax      [3]float32 `yaml:"light_max,flow"`
	TexelSize     float32    `yaml:"texel_world_size"`
	Visible       []int      `yaml:"visible_objects,flow"`
}

// Report summarizes every cascade of the last Update.
func (s *Scene) Report() []CascadeReport {
	m := s.Shadows
	size := float32(m.Settings().ShadowSize)

	out := make([]CascadeReport, 0, m.CascadeLevels())
	for _, c := range m.Cascades() {
		lo, hi := c.Bounds.Min(), c.Bounds.Max()
		visible := m.VisibleObjects(c.Index, s.Objects)
		if visible == nil {
			visible = []int{}
		}
		out = append(out, CascadeReport{
			Index:         c.Index,
			IntervalBegin: c.IntervalBegin,
			IntervalEnd:   c.IntervalEnd,
			LightMin:      [3]float32{lo.X, lo.Y, lo.Z},
			LightMax:      [3]float32{hi.X, hi.Y, hi.Z},
			TexelSize:     (hi.X - lo.X) / size,
			Visible:       visible,
		})
	}
	return out
}

// RenderDepth rasterizes every caster into the CPU-side cascade layers.
func (s *Scene) RenderDepth(maps *shadow.MemoryStorage) error {
	if !s.Shadows.Enabled() {
		return nil
	}
	for i := 0; i < s.Shadows.CascadeLevels(); i++ {
		maps.Clear(i)
		boxes := make([]geom.AABB, 0, len(s.Objects))
		for _, idx := range s.Shadows.VisibleObjects(i, s.Objects) {
			boxes = append(boxes, s.Objects[idx])
		}
		if err := maps.DrawBoxes(i, s.Shadows.ShadowViewProjection(i), boxes); err != nil {
			return fmt.Errorf("cascade %d: %w", i, err)
		}
	}
	return nil
}
