package shadow

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// MaxCascades is the largest supported cascade count.
const MaxCascades = 8

// Shadow map resolution bounds.
const (
	MinShadowSize     = 256
	MaxShadowSize     = 8192
	DefaultShadowSize = 1024
)

// MaxBlurKernelSize is the widest PCF kernel accounted for in padding.
const MaxBlurKernelSize = 9

// FitProjection selects how cascade depth intervals relate to each other.
type FitProjection int

const (
	// FitToCascade gives each cascade its own contiguous interval.
	FitToCascade FitProjection = iota
	// FitToScene starts every cascade at the viewer and nests them.
	FitToScene
)

// FitNearFar selects how the light-space near and far planes are found.
type FitNearFar int

const (
	// FitNearFarZeroOne uses fixed wide bounds.
	FitNearFarZeroOne FitNearFar = iota
	// FitNearFarCascadeAABB uses the Z range of the cascade box.
	FitNearFarCascadeAABB
	// FitNearFarSceneAABB uses the Z range of the whole scene box.
	FitNearFarSceneAABB
	// FitNearFarSceneAABBIntersection clips the scene box against the
	// cascade's XY bounds and uses the Z range of what survives.
	FitNearFarSceneAABBIntersection
)

// CascadeSelection selects how the renderer picks a cascade per pixel.
type CascadeSelection int

const (
	// SelectionMap picks the first cascade whose texture bounds contain the pixel.
	SelectionMap CascadeSelection = iota
	// SelectionInterval compares view depth against the partition depths.
	SelectionInterval
)

var (
	fitProjectionNames    = []string{"to_cascade", "to_scene"}
	fitNearFarNames       = []string{"zero_one", "cascade_aabb", "scene_aabb", "scene_aabb_intersection"}
	cascadeSelectionNames = []string{"map", "interval"}
)

func enumString(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

func parseEnum(kind string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func (f FitProjection) String() string { return enumString(fitProjectionNames, int(f)) }

// ParseFitProjection parses a name such as "to_cascade".
func ParseFitProjection(s string) (FitProjection, error) {
	v, err := parseEnum("fit projection", fitProjectionNames, s)
	return FitProjection(v), err
}

// MarshalText implements encoding.TextMarshaler.
func (f FitProjection) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FitProjection) UnmarshalText(b []byte) error {
	v, err := ParseFitProjection(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f FitNearFar) String() string { return enumString(fitNearFarNames, int(f)) }

// ParseFitNearFar parses a name such as "scene_aabb_intersection".
func ParseFitNearFar(s string) (FitNearFar, error) {
	v, err := parseEnum("near/far fit", fitNearFarNames, s)
	return FitNearFar(v), err
}

// MarshalText implements encoding.TextMarshaler.
func (f FitNearFar) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FitNearFar) UnmarshalText(b []byte) error {
	v, err := ParseFitNearFar(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (c CascadeSelection) String() string { return enumString(cascadeSelectionNames, int(c)) }

// ParseCascadeSelection parses "map" or "interval".
func ParseCascadeSelection(s string) (CascadeSelection, error) {
	v, err := parseEnum("cascade selection", cascadeSelectionNames, s)
	return CascadeSelection(v), err
}

// MarshalText implements encoding.TextMarshaler.
func (c CascadeSelection) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CascadeSelection) UnmarshalText(b []byte) error {
	v, err := ParseCascadeSelection(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Settings configures cascade partitioning and fitting.
type Settings struct {
	CascadeLevels int
	ShadowSize    int

	// PartitionPercentages[i] is the cumulative fraction of the viewer's
	// depth range covered by cascades 0..i.
	PartitionPercentages [MaxCascades]float32

	FitProjection    FitProjection
	FitNearFar       FitNearFar
	CascadeSelection CascadeSelection

	FixedSizeFrustumAABB bool
	MoveLightTexelSize   bool

	BlurKernelSize int

	BlendBetweenCascades bool
	BlendRange           float32

	PCFDepthBias          float32
	DerivativeBasedOffset bool
}

// DefaultSettings returns the settings of the cascaded shadow demo.
func DefaultSettings() Settings {
	return Settings{
		CascadeLevels:         4,
		ShadowSize:            DefaultShadowSize,
		PartitionPercentages:  [MaxCascades]float32{0.04, 0.10, 0.25, 1.0, 1.0, 1.0, 1.0, 1.0},
		FitProjection:         FitToCascade,
		FitNearFar:            FitNearFarSceneAABBIntersection,
		CascadeSelection:      SelectionMap,
		FixedSizeFrustumAABB:  true,
		MoveLightTexelSize:    true,
		BlurKernelSize:        5,
		BlendBetweenCascades:  true,
		BlendRange:            0.2,
		PCFDepthBias:          0.001,
		DerivativeBasedOffset: false,
	}
}

// Sanitize clamps every field into its valid range and returns the
// adjusted settings together with a description of each change.
func (s Settings) Sanitize() (Settings, []string) {
	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	if s.CascadeLevels < 1 || s.CascadeLevels > MaxCascades {
		c := clampInt(s.CascadeLevels, 1, MaxCascades)
		note("cascade levels %d clamped to %d", s.CascadeLevels, c)
		s.CascadeLevels = c
	}

	if size := sanitizeShadowSize(s.ShadowSize); size != s.ShadowSize {
		note("shadow size %d adjusted to %d", s.ShadowSize, size)
		s.ShadowSize = size
	}

	if k := sanitizeKernel(s.BlurKernelSize); k != s.BlurKernelSize {
		note("blur kernel size %d adjusted to %d", s.BlurKernelSize, k)
		s.BlurKernelSize = k
	}

	prev := float32(0)
	for i := 0; i < s.CascadeLevels; i++ {
		p := s.PartitionPercentages[i]
		c := p
		if math32.IsNaN(c) {
			c = prev
		}
		c = math32.Max(prev, math32.Min(c, 1))
		if i == s.CascadeLevels-1 {
			c = 1
		}
		if c != p {
			note("partition %d percentage %v adjusted to %v", i, p, c)
			s.PartitionPercentages[i] = c
		}
		prev = c
	}
	for i := s.CascadeLevels; i < MaxCascades; i++ {
		s.PartitionPercentages[i] = 1
	}

	if s.FitProjection < FitToCascade || s.FitProjection > FitToScene {
		note("fit projection %d reset to %s", int(s.FitProjection), FitToCascade)
		s.FitProjection = FitToCascade
	}
	if s.FitNearFar < FitNearFarZeroOne || s.FitNearFar > FitNearFarSceneAABBIntersection {
		note("near/far fit %d reset to %s", int(s.FitNearFar), FitNearFarSceneAABBIntersection)
		s.FitNearFar = FitNearFarSceneAABBIntersection
	}
	if s.CascadeSelection < SelectionMap || s.CascadeSelection > SelectionInterval {
		note("cascade selection %d reset to %s", int(s.CascadeSelection), SelectionMap)
		s.CascadeSelection = SelectionMap
	}

	if math32.IsNaN(s.BlendRange) || s.BlendRange < 0 || s.BlendRange > 1 {
		b := float32(0)
		if !math32.IsNaN(s.BlendRange) {
			b = math32.Max(0, math32.Min(s.BlendRange, 1))
		}
		note("blend range %v clamped to %v", s.BlendRange, b)
		s.BlendRange = b
	}

	return s, notes
}

// sanitizeShadowSize rounds up to a power of two inside the allowed range.
func sanitizeShadowSize(size int) int {
	if size <= MinShadowSize {
		return MinShadowSize
	}
	if size >= MaxShadowSize {
		return MaxShadowSize
	}
	p := MinShadowSize
	for p < size {
		p <<= 1
	}
	return p
}

// sanitizeKernel forces an odd kernel in [1, MaxBlurKernelSize].
func sanitizeKernel(k int) int {
	k = clampInt(k, 1, MaxBlurKernelSize)
	if k%2 == 0 {
		k++
	}
	return k
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UniformPartitions splits the depth range into n equal intervals.
func UniformPartitions(n int) [MaxCascades]float32 {
	n = clampInt(n, 1, MaxCascades)
	var p [MaxCascades]float32
	for i := range p {
		if i < n {
			p[i] = float32(i+1) / float32(n)
		} else {
			p[i] = 1
		}
	}
	return p
}

// LogPartitions blends logarithmic and uniform splits of [near, far] with
// weight lambda in [0, 1] (1 is fully logarithmic) and returns them as
// percentages of far - near.
func LogPartitions(n int, near, far, lambda float32) [MaxCascades]float32 {
	n = clampInt(n, 1, MaxCascades)
	lambda = math32.Max(0, math32.Min(lambda, 1))
	p := UniformPartitions(n)
	if near <= 0 || far <= near {
		return p
	}
	for i := 0; i < n-1; i++ {
		f := float32(i+1) / float32(n)
		logSplit := near * math32.Pow(far/near, f)
		uniSplit := near + (far-near)*f
		split := lambda*logSplit + (1-lambda)*uniSplit
		p[i] = (split - near) / (far - near)
	}
	return p
}
