package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Lens

	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera(lens Lens) *OrbitCamera {
	return &OrbitCamera{
		Lens:            lens,
		Distance:        60.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     2.0,
		MaxDistance:     lens.Far * 0.9,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosX := math32.Cos(c.RotationX)
	offset := math.Vec3{
		X: c.Distance * cosX * math32.Sin(c.RotationY),
		Y: c.Distance * math32.Sin(c.RotationX),
		Z: c.Distance * cosX * math32.Cos(c.RotationY),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAtLH(c.Position(), c.Center, worldUp)
}

// LocalToWorldMatrix returns the view-to-world transform.
func (c *OrbitCamera) LocalToWorldMatrix() math.Mat4 {
	return c.ViewMatrix().RigidInverse()
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = clamp(c.RotationX, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dirX := math32.Sin(c.RotationY)
	dirZ := math32.Cos(c.RotationY)

	// The camera looks toward -offset, so "forward" moves against it.
	c.Center.X += (-dirX*forward - dirZ*right) * speed
	c.Center.Z += (-dirZ*forward + dirX*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds adjusts camera to view the given bounding box.
func (c *OrbitCamera) FitToBounds(b geom.AABB) {
	c.Center = b.Center
	c.Distance = clamp(math32.Max(b.Extents.X, b.Extents.Z)*0.6, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
