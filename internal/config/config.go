// Package config handles configuration loading for the shadow tools.
package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/internal/logger"
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Config holds all settings.
type Config struct {
	Shadow  ShadowConfig  `yaml:"shadow"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Light   LightConfig   `yaml:"light"`
	Scene   SceneConfig   `yaml:"scene"`
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// Vec3 is a vector written as a YAML flow sequence.
type Vec3 [3]float32

// Vec returns v as a math.Vec3.
func (v Vec3) Vec() math.Vec3 {
	return math.V3(v[0], v[1], v[2])
}

// ShadowConfig holds cascade fitting settings.
type ShadowConfig struct {
	Cascades   int       `yaml:"cascades"`
	ShadowSize int       `yaml:"shadow_size"`
	Partitions []float32 `yaml:"partitions,flow"`

	Fit       shadow.FitProjection    `yaml:"fit"`
	NearFar   shadow.FitNearFar       `yaml:"near_far"`
	Selection shadow.CascadeSelection `yaml:"selection"`

	FixedSize   bool `yaml:"fixed_size"`
	SnapToTexel bool `yaml:"snap_to_texel"`
	BlurKernel  int  `yaml:"blur_kernel"`

	Blend      bool    `yaml:"blend"`
	BlendRange float32 `yaml:"blend_range"`

	DepthBias        float32 `yaml:"depth_bias"`
	DerivativeOffset bool    `yaml:"derivative_offset"`

	// MemoryBudgetMB caps the CPU-side shadow storage of headless runs.
	MemoryBudgetMB int `yaml:"memory_budget_mb"`
}

// Settings converts the config into shadow fitting settings. Missing
// partitions keep the defaults; unused slots are filled by Sanitize.
func (c ShadowConfig) Settings() shadow.Settings {
	s := shadow.DefaultSettings()
	s.CascadeLevels = c.Cascades
	s.ShadowSize = c.ShadowSize
	if len(c.Partitions) > 0 {
		s.PartitionPercentages = [shadow.MaxCascades]float32{}
		copy(s.PartitionPercentages[:], c.Partitions)
	}
	s.FitProjection = c.Fit
	s.FitNearFar = c.NearFar
	s.CascadeSelection = c.Selection
	s.FixedSizeFrustumAABB = c.FixedSize
	s.MoveLightTexelSize = c.SnapToTexel
	s.BlurKernelSize = c.BlurKernel
	s.BlendBetweenCascades = c.Blend
	s.BlendRange = c.BlendRange
	s.PCFDepthBias = c.DepthBias
	s.DerivativeBasedOffset = c.DerivativeOffset
	return s
}

// SetSettings stores s back into the config, keeping the memory budget.
func (c *ShadowConfig) SetSettings(s shadow.Settings) {
	c.Cascades = s.CascadeLevels
	c.ShadowSize = s.ShadowSize
	c.Partitions = append([]float32(nil), s.PartitionPercentages[:s.CascadeLevels]...)
	c.Fit = s.FitProjection
	c.NearFar = s.FitNearFar
	c.Selection = s.CascadeSelection
	c.FixedSize = s.FixedSizeFrustumAABB
	c.SnapToTexel = s.MoveLightTexelSize
	c.BlurKernel = s.BlurKernelSize
	c.Blend = s.BlendBetweenCascades
	c.BlendRange = s.BlendRange
	c.DepthBias = s.PCFDepthBias
	c.DerivativeOffset = s.DerivativeBasedOffset
}

// ViewerConfig holds the viewing camera.
type ViewerConfig struct {
	FovDeg    float32 `yaml:"fov_deg"`
	Near      float32 `yaml:"near"`
	Far       float32 `yaml:"far"`
	Position  Vec3    `yaml:"position,flow"`
	Direction Vec3    `yaml:"direction,flow"`
	Orbit     bool    `yaml:"orbit"`
}

// Lens returns the viewer lens for the given aspect ratio.
func (v ViewerConfig) Lens(aspect float32) camera.Lens {
	return camera.Lens{
		FovY:   v.FovDeg * math32.Pi / 180,
		Aspect: aspect,
		Near:   v.Near,
		Far:    v.Far,
	}
}

// LightConfig holds the directional light.
type LightConfig struct {
	Direction Vec3 `yaml:"direction,flow"`
}

// BoxConfig is an axis-aligned box given by center and half-extents.
type BoxConfig struct {
	Center  Vec3 `yaml:"center,flow"`
	Extents Vec3 `yaml:"extents,flow"`
}

// AABB returns the box as a geom.AABB.
func (b BoxConfig) AABB() geom.AABB {
	return geom.AABB{Center: b.Center.Vec(), Extents: b.Extents.Vec()}
}

// SceneConfig holds the scene bounds and the shadow casters in it.
type SceneConfig struct {
	Bounds  BoxConfig   `yaml:"bounds"`
	Objects []BoxConfig `yaml:"objects"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	MSAA       int    `yaml:"msaa"`
}

// Aspect returns width / height, or 16:9 for an empty window.
func (w WindowConfig) Aspect() float32 {
	if w.Width <= 0 || w.Height <= 0 {
		return 16.0 / 9.0
	}
	return float32(w.Width) / float32(w.Height)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// FileConfig returns the rotating file settings, empty when no log file
// is configured.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	if l.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(l.LogFile)
}

// Validate reports settings no tool can run with. Shadow settings are not
// checked here; the shadow manager clamps them.
func (c *Config) Validate() error {
	v := c.Viewer
	if !(v.FovDeg > 0 && v.FovDeg < 180) {
		return fmt.Errorf("viewer fov_deg %v outside (0, 180)", v.FovDeg)
	}
	if !(v.Near > 0) || !(v.Far > v.Near) {
		return fmt.Errorf("viewer planes near %v far %v: need 0 < near < far", v.Near, v.Far)
	}
	if c.Viewer.Direction.Vec().Length() == 0 {
		return errors.New("viewer direction is zero")
	}
	if c.Light.Direction.Vec().Length() == 0 {
		return errors.New("light direction is zero")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is empty", c.Window.Width, c.Window.Height)
	}
	if c.Shadow.MemoryBudgetMB < 0 {
		return fmt.Errorf("memory_budget_mb %d is negative", c.Shadow.MemoryBudgetMB)
	}
	return nil
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shadow: ShadowConfig{
			Cascades:   4,
			ShadowSize: shadow.DefaultShadowSize,
			Partitions: []float32{0.04, 0.10, 0.25, 1.0},
			Fit:        shadow.FitToCascade,
			NearFar:    shadow.FitNearFarSceneAABBIntersection,
			Selection:  shadow.SelectionMap,

			FixedSize:   true,
			SnapToTexel: true,
			BlurKernel:  5,
			Blend:       true,
			BlendRange:  0.2,
			DepthBias:   0.001,

			MemoryBudgetMB: 512,
		},
		Viewer: ViewerConfig{
			FovDeg:    60,
			Near:      0.5,
			Far:       300,
			Position:  Vec3{0, 10, -60},
			Direction: Vec3{0, -0.2, 1},
			Orbit:     true,
		},
		Light: LightConfig{
			Direction: Vec3{-0.4, -1, 0.3},
		},
		Scene: SceneConfig{
			Bounds: BoxConfig{Center: Vec3{0, -3, 0}, Extents: Vec3{200, 50, 200}},
			Objects: []BoxConfig{
				{Center: Vec3{0, -50, 0}, Extents: Vec3{200, 1, 200}},
				{Center: Vec3{0, -40, 20}, Extents: Vec3{5, 10, 5}},
				{Center: Vec3{-30, -30, 60}, Extents: Vec3{8, 20, 8}},
				{Center: Vec3{45, -35, 120}, Extents: Vec3{10, 15, 10}},
				{Center: Vec3{-80, -20, 180}, Extents: Vec3{15, 30, 15}},
			},
		},
		Window: WindowConfig{
			Title:  "Cascaded Shadow Maps",
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
