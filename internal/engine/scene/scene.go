// Package scene holds the box scene the shadow tools render: the scene
// bounds and casters, the viewer and sun, and the cascade manager that
// fits shadow maps to them. It has no graphics dependency.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/config"
	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/debug"
	"github.com/Faultbox/midgard-csm/internal/engine/lighting"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Scene is a set of axis-aligned shadow casters lit by the sun.
type Scene struct {
	Bounds  geom.AABB
	Objects []geom.AABB

	Sun   lighting.Sun
	Light *camera.LightCamera

	Orbit       *camera.OrbitCamera
	FirstPerson *camera.FirstPersonCamera
	UseOrbit    bool
	// Detached fits cascades to the first-person camera while the orbit
	// camera looks on.
	Detached bool

	Shadows *shadow.CascadedShadowManager

	log *zap.Logger
}

// New builds the scene described by cfg. The shadow manager allocates its
// maps from storage; when that fails the scene is still returned, with
// shadows disabled, together with the error.
func New(cfg *config.Config, aspect float32, storage shadow.Storage, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scene{
		Bounds:   cfg.Scene.Bounds.AABB(),
		UseOrbit: cfg.Viewer.Orbit,
		log:      log,
	}
	for _, o := range cfg.Scene.Objects {
		s.Objects = append(s.Objects, o.AABB())
	}

	lens := cfg.Viewer.Lens(aspect)
	s.FirstPerson = camera.NewFirstPersonCamera(lens, cfg.Viewer.Position.Vec(), cfg.Viewer.Direction.Vec())
	s.Orbit = camera.NewOrbitCamera(lens)
	s.Orbit.FitToBounds(s.Bounds)

	s.Sun = lighting.SunFromDirection(cfg.Light.Direction.Vec())
	s.Light = camera.NewLightCamera(s.Sun.Direction())
	s.Light.FitScene(s.Bounds)

	var err error
	s.Shadows, err = shadow.NewCascadedShadowManager(storage, cfg.Shadow.Settings(), log)

	log.Debug("scene created",
		zap.Int("objects", len(s.Objects)),
		zap.Float32("sun_azimuth", s.Sun.Azimuth),
		zap.Float32("sun_elevation", s.Sun.Elevation),
		zap.Bool("orbit", s.UseOrbit),
	)
	return s, err
}

// Viewer returns the active viewing camera.
func (s *Scene) Viewer() camera.Camera {
	if s.UseOrbit {
		return s.Orbit
	}
	return s.FirstPerson
}

// FitViewer returns the camera the cascades are fitted to.
func (s *Scene) FitViewer() camera.Camera {
	if s.Detached {
		return s.FirstPerson
	}
	return s.Viewer()
}

// SetAspect updates the aspect ratio of both viewing cameras.
func (s *Scene) SetAspect(aspect float32) {
	s.Orbit.Aspect = aspect
	s.FirstPerson.Aspect = aspect
}

// SetSun moves the sun and re-aims the light camera.
func (s *Scene) SetSun(sun lighting.Sun) {
	s.Sun = sun
	s.Light.Direction = sun.Direction()
	s.Light.FitScene(s.Bounds)
}

// Update refits every cascade to the current viewer and sun.
func (s *Scene) Update() {
	s.Shadows.UpdateFrame(s.FitViewer(), s.Light, s.Bounds)
}

// ViewProjection returns the viewer's projection * view.
func (s *Scene) ViewProjection() math.Mat4 {
	v := s.Viewer()
	return v.ProjMatrix().Mul(v.ViewMatrix())
}

// CascadeWireframe returns world-space line vertices outlining the light
// volume of cascade i.
func (s *Scene) CascadeWireframe(i int) []float32 {
	return debug.BoxWireframe(s.Shadows.CascadeOBB(i).Corners())
}

// SliceWireframe returns world-space line vertices outlining the part of
// the fitted camera's frustum covered by cascade i.
func (s *Scene) SliceWireframe(i int) []float32 {
	v := s.FitViewer()
	c := s.Shadows.Cascade(i)
	slice := geom.FrustumFromProjection(v.ProjMatrix()).Slice(c.IntervalBegin, c.IntervalEnd)
	return debug.FrustumWireframe(debug.TransformCorners(slice.Corners(), v.LocalToWorldMatrix()))
}
