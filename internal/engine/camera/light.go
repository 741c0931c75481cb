package camera

import (
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// LightCamera treats a directional light as a camera. Only its
// orientation matters for cascade fitting; the orthographic volume is used
// when a single shadow map covers the whole scene.
type LightCamera struct {
	Position  math.Vec3
	Direction math.Vec3 // Direction the light travels

	Width  float32
	Height float32
	Near   float32
	Far    float32
}

// NewLightCamera creates a light at the origin shining along dir.
func NewLightCamera(dir math.Vec3) *LightCamera {
	return &LightCamera{
		Direction: dir.Normalize(),
		Width:     100,
		Height:    100,
		Near:      0.1,
		Far:       1000,
	}
}

// ViewMatrix returns the world-to-light-space transform.
func (l *LightCamera) ViewMatrix() math.Mat4 {
	return math.LookToLH(l.Position, l.Direction, pickUp(l.Direction, worldUp))
}

// ProjMatrix returns the orthographic projection of the light volume.
func (l *LightCamera) ProjMatrix() math.Mat4 {
	return math.OrthographicOffCenterLH(-l.Width/2, l.Width/2, -l.Height/2, l.Height/2, l.Near, l.Far)
}

// NearZ returns the near plane distance.
func (l *LightCamera) NearZ() float32 { return l.Near }

// FarZ returns the far plane distance.
func (l *LightCamera) FarZ() float32 { return l.Far }

// LocalToWorldMatrix returns the light-to-world transform.
func (l *LightCamera) LocalToWorldMatrix() math.Mat4 {
	return l.ViewMatrix().RigidInverse()
}

// Rotate turns the light direction by q.
func (l *LightCamera) Rotate(q math.Quat) {
	l.Direction = q.Rotate(l.Direction).Normalize()
}

// FitScene places the light behind the scene and sizes the orthographic
// volume to enclose its bounding sphere.
func (l *LightCamera) FitScene(scene geom.AABB) {
	radius := scene.Radius()

	// Two radii back along the light leaves one radius of clearance
	// between the camera and the nearest point of the bounding sphere.
	lightDistance := radius * 2
	l.Position = scene.Center.Sub(l.Direction.Scale(lightDistance))

	// The volume is a square of the sphere diameter plus 10%, and its far
	// plane sits just past the back of the sphere.
	padding := radius * 0.1
	halfSize := radius + padding
	l.Width = halfSize * 2
	l.Height = halfSize * 2
	l.Near = 0.1
	l.Far = lightDistance + radius + padding
}
