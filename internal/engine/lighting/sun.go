// Package lighting describes the directional sun light.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Sun is a directional light given by compass angles in degrees.
// Azimuth rotates around +Y starting at +Z, elevation is measured up from
// the horizon.
type Sun struct {
	Azimuth   float32
	Elevation float32
}

// MinElevation keeps the sun from grazing the horizon, where cascades
// stretch without bound.
const MinElevation = 5

// SunFromDirection returns the sun whose light travels along dir.
func SunFromDirection(dir math.Vec3) Sun {
	toSun := dir.Negate().Normalize()
	elev := math32.Asin(math32.Max(-1, math32.Min(toSun.Y, 1)))
	az := math32.Atan2(toSun.X, toSun.Z)
	s := Sun{Azimuth: az * 180 / math32.Pi, Elevation: elev * 180 / math32.Pi}
	return s.normalized()
}

// ToSun returns the unit vector pointing from the ground toward the sun.
func (s Sun) ToSun() math.Vec3 {
	lon := s.Azimuth * math32.Pi / 180
	lat := s.Elevation * math32.Pi / 180
	return math.V3(
		math32.Cos(lat)*math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat)*math32.Cos(lon),
	)
}

// Direction returns the unit vector the light travels along.
func (s Sun) Direction() math.Vec3 {
	return s.ToSun().Negate()
}

// Rotate moves the sun by the given angle deltas, wrapping azimuth into
// [0, 360) and clamping elevation to [MinElevation, 90].
func (s Sun) Rotate(dAzimuth, dElevation float32) Sun {
	s.Azimuth += dAzimuth
	s.Elevation += dElevation
	return s.normalized()
}

func (s Sun) normalized() Sun {
	s.Azimuth = math32.Mod(s.Azimuth, 360)
	if s.Azimuth < 0 {
		s.Azimuth += 360
	}
	s.Elevation = math32.Max(MinElevation, math32.Min(s.Elevation, 90))
	return s
}
