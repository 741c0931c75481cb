// csmviewer renders a box scene lit by the sun with cascaded shadow maps
// and lets the cascade fitting options be changed live.
//
// Controls:
//
//	drag, wheel     orbit and zoom (look around in first-person mode)
//	W A S D Q E     move
//	arrow keys      move the sun
//	C               switch orbit / first-person camera
//	T               fit cascades to the first-person camera while orbiting
//	F N M           cycle fit, near/far fit and cascade selection
//	B X Z K         toggle blending, texel snapping, fixed size; cycle blur kernel
//	1-8 U L         cascade count, uniform or logarithmic partitions
//	- =             halve or double the shadow map size
//	V O             cascade colors, cascade volume overlay
//	P               save the current settings
//	Esc             quit
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/config"
	"github.com/Faultbox/midgard-csm/internal/logger"
)

func main() {
	// Parse CLI flags first
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

	logger.Log.Info("=== Cascaded Shadow Map Viewer ===")
	logger.Log.Sugar().Debugf("Config: %+v", cfg)

	app, err := newApp(cfg, logger.Log)
	if err != nil {
		logger.Log.Error("failed to start viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
	logger.Log.Info("viewer closed normally")
}
