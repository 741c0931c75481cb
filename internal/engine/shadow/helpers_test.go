package shadow

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// countingStorage records allocations without holding any memory.
type countingStorage struct {
	allocs   int
	releases int
	size     int
	layers   int
	fail     error
}

func (s *countingStorage) Allocate(size, layers int) error {
	s.allocs++
	if s.fail != nil {
		return s.fail
	}
	s.size, s.layers = size, layers
	return nil
}

func (s *countingStorage) Release() { s.releases++ }

var errNoDevice = errors.New("no device")

func newTestManager(t *testing.T, s Settings) *CascadedShadowManager {
	t.Helper()
	m, err := NewCascadedShadowManager(&countingStorage{}, s, nil)
	if err != nil {
		t.Fatalf("NewCascadedShadowManager: %v", err)
	}
	return m
}

// demoScene is the viewer/light/scene setup of the cascaded shadow demo:
// viewer at the origin looking down +Z, light shining straight down.
func demoScene() (*camera.FirstPersonCamera, *camera.LightCamera, geom.AABB) {
	viewer := camera.NewFirstPersonCamera(camera.DefaultLens(), math.V3(0, 0, 0), math.V3(0, 0, 1))
	light := camera.NewLightCamera(math.V3(0, -1, 0))
	scene := geom.AABB{Center: math.V3(0, -3, 0), Extents: math.V3(200, 50, 200)}
	return viewer, light, scene
}

// sliceCorners returns the light-space corners of the viewer frustum
// between eye depths begin and end, built directly from the lens.
func sliceCorners(viewer *camera.FirstPersonCamera, lightView math.Mat4, begin, end float32) [8]math.Vec3 {
	tanY := math32.Tan(viewer.FovY / 2)
	tanX := tanY * viewer.Aspect
	toWorld := viewer.LocalToWorldMatrix()

	var c [8]math.Vec3
	for i, z := range [2]float32{begin, end} {
		for k, s := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := math.V3(s[0]*tanX*z, s[1]*tanY*z, z)
			c[i*4+k] = lightView.TransformPoint(toWorld.TransformPoint(p))
		}
	}
	return c
}

func approx(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}
