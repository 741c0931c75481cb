// Package shadow fits cascaded shadow maps for a directional light.
//
// Each frame the viewer's depth range is split into cascades, and every
// cascade gets a light-space orthographic projection that tightly bounds
// its slice of the view frustum. Stabilization options keep the
// projections from shimmering as the viewer moves.
package shadow

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Light-space depth bounds used by FitNearFarZeroOne.
const (
	zeroOneNear = 0.1
	zeroOneFar  = 10000
)

// minExtent is the smallest half-extent a cascade box is allowed to have.
const minExtent = 1e-4

// Cascade is the fitted result for one cascade slot.
type Cascade struct {
	Index int

	// Eye-space depth interval of the viewer frustum slice.
	IntervalBegin float32
	IntervalEnd   float32

	// Projection is the light-space orthographic projection.
	Projection math.Mat4
	// Bounds is the light-space box, Z spanning [near, far].
	Bounds geom.AABB
}

// CascadedShadowManager partitions the viewer frustum into cascades and
// fits a light-space projection to each one. It is not safe for
// concurrent use.
type CascadedShadowManager struct {
	settings Settings
	storage  Storage
	log      *zap.Logger

	enabled         bool
	allocatedSize   int
	allocatedLevels int

	lightView math.Mat4
	cascades  [MaxCascades]Cascade

	warnedDegenerate bool
}

// NewCascadedShadowManager creates a manager and allocates its storage.
// A nil storage gets a MemoryStorage and a nil logger a no-op one. When the
// allocation fails the manager is still returned, with shadows disabled,
// together with the error.
func NewCascadedShadowManager(storage Storage, settings Settings, log *zap.Logger) (*CascadedShadowManager, error) {
	if storage == nil {
		storage = &MemoryStorage{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	m := &CascadedShadowManager{
		storage:   storage,
		log:       log,
		lightView: math.Identity(),
	}
	m.settings = m.sanitize(settings)

	if err := m.InitResource(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *CascadedShadowManager) sanitize(s Settings) Settings {
	s, notes := s.Sanitize()
	for _, n := range notes {
		m.log.Warn("shadow settings adjusted", zap.String("change", n))
	}
	return s
}

// InitResource (re)allocates the shadow map array for the current cascade
// count and resolution. On failure shadows are disabled until the next
// successful call; fitting keeps working either way.
func (m *CascadedShadowManager) InitResource() error {
	size, levels := m.settings.ShadowSize, m.settings.CascadeLevels

	if err := m.storage.Allocate(size, levels); err != nil {
		m.enabled = false
		m.allocatedSize, m.allocatedLevels = 0, 0
		m.log.Error("shadow map allocation failed, shadows disabled",
			zap.Int("size", size),
			zap.Int("cascades", levels),
			zap.Error(err),
		)
		return fmt.Errorf("allocating %dx%d shadow map array with %d cascades: %w", size, size, levels, err)
	}

	m.enabled = true
	m.allocatedSize, m.allocatedLevels = size, levels
	m.log.Info("shadow map array allocated",
		zap.Int("size", size),
		zap.Int("cascades", levels),
	)
	return nil
}

// Release frees the backing storage and disables shadows.
func (m *CascadedShadowManager) Release() {
	m.storage.Release()
	m.enabled = false
	m.allocatedSize, m.allocatedLevels = 0, 0
}

// Settings returns the active (sanitized) settings.
func (m *CascadedShadowManager) Settings() Settings {
	return m.settings
}

// SetSettings applies new settings, reallocating storage only when the
// cascade count or resolution changed.
func (m *CascadedShadowManager) SetSettings(s Settings) error {
	m.settings = m.sanitize(s)
	if m.settings.ShadowSize == m.allocatedSize && m.settings.CascadeLevels == m.allocatedLevels {
		return nil
	}
	return m.InitResource()
}

// Enabled reports whether the shadow map storage is allocated.
func (m *CascadedShadowManager) Enabled() bool {
	return m.enabled
}

// CascadeLevels returns the active cascade count.
func (m *CascadedShadowManager) CascadeLevels() int {
	return m.settings.CascadeLevels
}

// Viewport returns the width and height of one shadow map layer.
func (m *CascadedShadowManager) Viewport() (width, height float32) {
	s := float32(m.settings.ShadowSize)
	return s, s
}

// UpdateFrame fits every cascade for the current viewer, light and scene.
// Degenerate input (far <= near, empty scene box) yields clamped but
// meaningless projections rather than an error.
func (m *CascadedShadowManager) UpdateFrame(viewer, light camera.Camera, scene geom.AABB) {
	s := m.settings

	viewerView := viewer.ViewMatrix()
	lightView := light.ViewMatrix()
	viewToLight := lightView.Mul(viewerView.Inverse())
	m.lightView = lightView

	nearFarRange := viewer.FarZ() - viewer.NearZ()
	if !(nearFarRange > 0) {
		if !m.warnedDegenerate {
			m.log.Warn("viewer depth range is empty, cascades will be degenerate",
				zap.Float32("near", viewer.NearZ()),
				zap.Float32("far", viewer.FarZ()),
			)
			m.warnedDegenerate = true
		}
		nearFarRange = 0
	}

	frustum := geom.FrustumFromProjection(viewer.ProjMatrix())

	sceneCorners := scene.Corners()
	var sceneLS [8]math.Vec3
	for i, c := range sceneCorners {
		sceneLS[i] = lightView.TransformPoint(c)
	}
	sceneBoxLS := geom.AABBFromPoints(sceneLS[:]...)

	shadowSize := float32(s.ShadowSize)

	for i := 0; i < s.CascadeLevels; i++ {
		begin := float32(0)
		if s.FitProjection == FitToCascade && i > 0 {
			begin = s.PartitionPercentages[i-1]
		}
		end := s.PartitionPercentages[i]
		begin *= nearFarRange
		end *= nearFarRange

		// Corners are built in the viewer's own frustum shape, then taken
		// to world space and on into light space. An empty depth range
		// collapses them onto the eye.
		var corners [8]math.Vec3
		if nearFarRange > 0 {
			corners = frustum.Slice(begin, end).Corners()
		}
		var cornersLS [8]math.Vec3
		for k, c := range corners {
			cornersLS[k] = viewToLight.TransformPoint(c)
		}
		box := geom.AABBFromPoints(cornersLS[:]...)
		lo, hi := box.Min(), box.Max()

		if s.FixedSizeFrustumAABB {
			// The slice diagonal and the far plane diagonal do not change
			// as the viewer rotates, so neither does the box size.
			bound := math32.Max(corners[0].Distance(corners[6]), corners[4].Distance(corners[6]))
			lo, hi = growXY(lo, hi, (bound-(hi.X-lo.X))/2, (bound-(hi.Y-lo.Y))/2)
		}

		// Leave room for filter taps at the edge of the map.
		blur := float32(s.BlurKernelSize) / shadowSize
		lo, hi = growXY(lo, hi, (hi.X-lo.X)*0.5*blur, (hi.Y-lo.Y)*0.5*blur)

		if s.MoveLightTexelSize {
			unitsX := (hi.X - lo.X) / shadowSize
			unitsY := (hi.Y - lo.Y) / shadowSize
			lo.X, hi.X = SnapToTexel(lo.X, unitsX), SnapToTexel(hi.X, unitsX)
			lo.Y, hi.Y = SnapToTexel(lo.Y, unitsY), SnapToTexel(hi.Y, unitsY)
		}

		var near, far float32
		switch s.FitNearFar {
		case FitNearFarZeroOne:
			near, far = zeroOneNear, zeroOneFar
		case FitNearFarCascadeAABB:
			near, far = lo.Z, hi.Z
		case FitNearFarSceneAABB:
			near, far = sceneBoxLS.Min().Z, sceneBoxLS.Max().Z
		default:
			near, far = ComputeNearAndFar(lo.XY(), hi.XY(), sceneLS)
		}

		bounds := geom.AABBFromMinMax(
			math.Vec3{X: lo.X, Y: lo.Y, Z: near},
			math.Vec3{X: hi.X, Y: hi.Y, Z: far},
		).ClampExtents(minExtent)
		bmin, bmax := bounds.Min(), bounds.Max()

		m.cascades[i] = Cascade{
			Index:         i,
			IntervalBegin: begin,
			IntervalEnd:   end,
			Projection:    math.OrthographicOffCenterLH(bmin.X, bmax.X, bmin.Y, bmax.Y, bmin.Z, bmax.Z),
			Bounds:        bounds,
		}
	}
}

// growXY pads the X and Y bounds by dx and dy on each side.
func growXY(lo, hi math.Vec3, dx, dy float32) (math.Vec3, math.Vec3) {
	lo.X -= dx
	lo.Y -= dy
	hi.X += dx
	hi.Y += dy
	return lo, hi
}

// SnapToTexel floors v to a multiple of unitsPerTexel. A non-positive unit
// leaves v unchanged.
func SnapToTexel(v, unitsPerTexel float32) float32 {
	if !(unitsPerTexel > 0) {
		return v
	}
	return math32.Floor(v/unitsPerTexel) * unitsPerTexel
}

// LightView returns the light view matrix of the last UpdateFrame.
func (m *CascadedShadowManager) LightView() math.Mat4 {
	return m.lightView
}

// Cascade returns the fitted cascade i.
func (m *CascadedShadowManager) Cascade(i int) Cascade {
	return m.cascades[i]
}

// Cascades returns the active cascades.
func (m *CascadedShadowManager) Cascades() []Cascade {
	out := make([]Cascade, m.settings.CascadeLevels)
	copy(out, m.cascades[:m.settings.CascadeLevels])
	return out
}

// ShadowProjection returns the light-space projection of cascade i.
func (m *CascadedShadowManager) ShadowProjection(i int) math.Mat4 {
	return m.cascades[i].Projection
}

// ShadowViewProjection returns projection * light view for cascade i.
func (m *CascadedShadowManager) ShadowViewProjection(i int) math.Mat4 {
	return m.cascades[i].Projection.Mul(m.lightView)
}

// ShadowBoundingBox returns the light-space box of cascade i.
func (m *CascadedShadowManager) ShadowBoundingBox(i int) geom.AABB {
	return m.cascades[i].Bounds
}

// CascadePartitionDepth returns the eye-space depth where cascade i ends.
func (m *CascadedShadowManager) CascadePartitionDepth(i int) float32 {
	return m.cascades[i].IntervalEnd
}

// PartitionDepths returns the end depth of every cascade slot. Unused
// slots repeat the last active depth.
func (m *CascadedShadowManager) PartitionDepths() [MaxCascades]float32 {
	var d [MaxCascades]float32
	n := m.settings.CascadeLevels
	for i := range d {
		if i < n {
			d[i] = m.cascades[i].IntervalEnd
		} else {
			d[i] = m.cascades[n-1].IntervalEnd
		}
	}
	return d
}
