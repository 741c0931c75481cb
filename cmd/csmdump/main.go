// csmdump fits cascaded shadow maps for the configured scene without a
// window and prints a YAML report of every cascade. With -png it also
// rasterizes each cascade's depth map to a PNG file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-csm/internal/config"
	"github.com/Faultbox/midgard-csm/internal/engine/debug"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/internal/logger"
)

var (
	flagPNG    = flag.String("png", "", "Directory to write cascade depth maps to")
	flagProbeX = flag.Float64("probe-x", -1, "Screen X of a cascade probe (pixels)")
	flagProbeY = flag.Float64("probe-y", -1, "Screen Y of a cascade probe (pixels)")
)

// report is the YAML document printed to stdout.
type report struct {
	Settings settingsReport        `yaml:"settings"`
	Viewer   viewerReport          `yaml:"viewer"`
	Cascades []scene.CascadeReport `yaml:"cascades"`
	Probe    *probeReport          `yaml:"probe,omitempty"`
}

type settingsReport struct {
	Cascades   int                     `yaml:"cascades"`
	ShadowSize int                     `yaml:"shadow_size"`
	Fit        shadow.FitProjection    `yaml:"fit"`
	NearFar    shadow.FitNearFar       `yaml:"near_far"`
	Selection  shadow.CascadeSelection `yaml:"selection"`
	FixedSize  bool                    `yaml:"fixed_size"`
	Snap       bool                    `yaml:"snap_to_texel"`
}

type viewerReport struct {
	Orbit bool    `yaml:"orbit"`
	Near  float32 `yaml:"near"`
	Far   float32 `yaml:"far"`
}

type probeReport struct {
	X          float32    `yaml:"x"`
	Y          float32    `yaml:"y"`
	Hit        bool       `yaml:"hit"`
	Object     int        `yaml:"object"`
	Point      [3]float32 `yaml:"point,flow"`
	Depth      float32    `yaml:"depth"`
	Cascade    int        `yaml:"cascade"`
	Blend      float32    `yaml:"blend"`
	MapCascade int        `yaml:"map_cascade"`
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.FileConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger.Log); err != nil {
		logger.Log.Error("csmdump failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	storage := &shadow.MemoryStorage{MaxBytes: cfg.Shadow.MemoryBudgetMB << 20}

	s, err := scene.New(cfg, cfg.Window.Aspect(), storage, log)
	if err != nil && *flagPNG != "" {
		return fmt.Errorf("depth maps requested but unavailable: %w", err)
	}
	s.Update()

	out := report{
		Settings: newSettingsReport(s.Shadows.Settings()),
		Viewer: viewerReport{
			Orbit: s.UseOrbit,
			Near:  s.Viewer().NearZ(),
			Far:   s.Viewer().FarZ(),
		},
		Cascades: s.Report(),
	}

	if *flagProbeX >= 0 && *flagProbeY >= 0 {
		x, y := float32(*flagProbeX), float32(*flagProbeY)
		p := s.ProbeScreen(x, y, float32(cfg.Window.Width), float32(cfg.Window.Height))
		out.Probe = &probeReport{
			X:          x,
			Y:          y,
			Hit:        p.Hit,
			Object:     p.Object,
			Point:      [3]float32{p.Point.X, p.Point.Y, p.Point.Z},
			Depth:      p.Depth,
			Cascade:    p.Cascade,
			Blend:      p.Blend,
			MapCascade: p.MapCascade,
		}
	}

	if *flagPNG != "" {
		if err := writeDepthMaps(s, storage, *flagPNG, log); err != nil {
			return err
		}
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

func newSettingsReport(s shadow.Settings) settingsReport {
	return settingsReport{
		Cascades:   s.CascadeLevels,
		ShadowSize: s.ShadowSize,
		Fit:        s.FitProjection,
		NearFar:    s.FitNearFar,
		Selection:  s.CascadeSelection,
		FixedSize:  s.FixedSizeFrustumAABB,
		Snap:       s.MoveLightTexelSize,
	}
}

func writeDepthMaps(s *scene.Scene, storage *shadow.MemoryStorage, dir string, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := s.RenderDepth(storage); err != nil {
		return fmt.Errorf("rendering depth: %w", err)
	}

	for i, layer := range storage.Layers {
		path := filepath.Join(dir, fmt.Sprintf("cascade_%d.png", i))
		if err := debug.SaveDepthPNG(path, layer, storage.Size); err != nil {
			return err
		}
		log.Info("depth map written", zap.Int("cascade", i), zap.String("path", path))
	}
	return nil
}
