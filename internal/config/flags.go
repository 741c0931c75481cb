package config

import (
	"flag"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagCascades   = flag.Int("cascades", 0, "Number of shadow cascades (1-8)")
	flagShadowSize = flag.Int("shadow-size", 0, "Shadow map resolution per cascade")
	flagFit        = flag.String("fit", "", "Cascade fit: to_cascade or to_scene")
	flagNearFar    = flag.String("near-far", "", "Near/far fit: zero_one, cascade_aabb, scene_aabb, scene_aabb_intersection")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagCascades > 0 {
		cfg.Shadow.Cascades = *flagCascades
	}
	if *flagShadowSize > 0 {
		cfg.Shadow.ShadowSize = *flagShadowSize
	}
	if *flagFit != "" {
		fit, err := shadow.ParseFitProjection(*flagFit)
		if err != nil {
			return err
		}
		cfg.Shadow.Fit = fit
	}
	if *flagNearFar != "" {
		nf, err := shadow.ParseFitNearFar(*flagNearFar)
		if err != nil {
			return err
		}
		cfg.Shadow.NearFar = nf
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	return nil
}
