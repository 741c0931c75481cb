// Package camera provides the viewer and light cameras consumed by the
// cascaded shadow fitter.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Camera is the read-only view of a camera used by shadow fitting.
// ProjMatrix must encode a finite far plane equal to FarZ.
type Camera interface {
	ViewMatrix() math.Mat4
	ProjMatrix() math.Mat4
	NearZ() float32
	FarZ() float32
	LocalToWorldMatrix() math.Mat4
}

// Lens holds perspective projection parameters.
type Lens struct {
	FovY   float32 // Vertical field of view (radians)
	Aspect float32 // Width / height
	Near   float32
	Far    float32
}

// DefaultLens returns a 60 degree 16:9 lens spanning [0.5, 300].
func DefaultLens() Lens {
	return Lens{FovY: math32.Pi / 3, Aspect: 16.0 / 9.0, Near: 0.5, Far: 300}
}

// ProjMatrix returns the left-handed perspective projection of the lens.
func (l Lens) ProjMatrix() math.Mat4 {
	return math.PerspectiveFovLH(l.FovY, l.Aspect, l.Near, l.Far)
}

// NearZ returns the near plane distance.
func (l Lens) NearZ() float32 { return l.Near }

// FarZ returns the far plane distance.
func (l Lens) FarZ() float32 { return l.Far }

var (
	worldUp      = math.V3(0, 1, 0)
	worldForward = math.V3(0, 0, 1)
	worldRight   = math.V3(1, 0, 0)
)

// FirstPersonCamera is a free camera with a position and an orientation.
// Its local +Z is the look direction.
type FirstPersonCamera struct {
	Lens
	Position    math.Vec3
	Orientation math.Quat
}

// NewFirstPersonCamera creates a camera at pos looking along dir.
func NewFirstPersonCamera(lens Lens, pos, dir math.Vec3) *FirstPersonCamera {
	c := &FirstPersonCamera{Lens: lens, Position: pos, Orientation: math.QuatIdentity()}
	c.LookTo(dir, worldUp)
	return c
}

// LookTo points the camera along dir keeping up as close to up as possible.
func (c *FirstPersonCamera) LookTo(dir, up math.Vec3) {
	view := math.LookToLH(math.Vec3{}, dir, pickUp(dir, up))
	c.Orientation = math.QuatFromMat4(view.RigidInverse())
}

// Forward returns the look direction.
func (c *FirstPersonCamera) Forward() math.Vec3 {
	return c.Orientation.Rotate(worldForward)
}

// Right returns the camera's right direction.
func (c *FirstPersonCamera) Right() math.Vec3 {
	return c.Orientation.Rotate(worldRight)
}

// Up returns the camera's up direction.
func (c *FirstPersonCamera) Up() math.Vec3 {
	return c.Orientation.Rotate(worldUp)
}

// RotateY turns the camera about the world Y axis through its position.
func (c *FirstPersonCamera) RotateY(angle float32) {
	c.Orientation = math.QuatFromAxisAngle(worldUp, angle).Mul(c.Orientation).Normalize()
}

// Pitch tilts the camera about its own right axis.
func (c *FirstPersonCamera) Pitch(angle float32) {
	c.Orientation = math.QuatFromAxisAngle(c.Right(), angle).Mul(c.Orientation).Normalize()
}

// Walk moves along the look direction.
func (c *FirstPersonCamera) Walk(d float32) {
	c.Position = c.Position.Add(c.Forward().Scale(d))
}

// Strafe moves along the right direction.
func (c *FirstPersonCamera) Strafe(d float32) {
	c.Position = c.Position.Add(c.Right().Scale(d))
}

// ViewMatrix returns the world-to-view transform.
func (c *FirstPersonCamera) ViewMatrix() math.Mat4 {
	return c.LocalToWorldMatrix().RigidInverse()
}

// LocalToWorldMatrix returns the view-to-world transform.
func (c *FirstPersonCamera) LocalToWorldMatrix() math.Mat4 {
	p := c.Position
	return math.Translate(p.X, p.Y, p.Z).Mul(c.Orientation.ToMat4())
}

// pickUp returns up unless it is nearly parallel to dir.
func pickUp(dir, up math.Vec3) math.Vec3 {
	d := dir.Normalize()
	if math32.Abs(d.Dot(up.Normalize())) > 0.99 {
		if math32.Abs(d.Z) < 0.99 {
			return worldForward
		}
		return worldRight
	}
	return up
}
