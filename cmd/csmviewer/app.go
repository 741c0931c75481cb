package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/config"
	"github.com/Faultbox/midgard-csm/internal/engine/input"
	"github.com/Faultbox/midgard-csm/internal/engine/renderer"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow/glstorage"
	"github.com/Faultbox/midgard-csm/internal/engine/window"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Per-frame movement rates.
const (
	lookSpeed = 0.004 // radians per pixel of drag
	moveSpeed = 0.5   // first-person units per frame
	sunSpeed  = 1.0   // degrees per frame
	statsMS   = 500
)

var frustumColor = math.V3(1, 1, 1)

type app struct {
	cfg *config.Config
	log *zap.Logger

	win      *window.Window
	input    *input.Input
	renderer *renderer.Renderer
	maps     *glstorage.Array
	scene    *scene.Scene

	visualize bool
	overlay   bool

	frames    int
	lastStats uint32
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, input: input.New(), maps: &glstorage.Array{}}

	var err error
	a.win, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.MSAA,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w, h := a.win.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: w, Height: h}, log)
	if err != nil {
		a.win.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	// A failed allocation only disables shadows; the manager logs it.
	a.scene, _ = scene.New(cfg, aspect(w, h), a.maps, log)
	return a, nil
}

func aspect(w, h int) float32 {
	if w <= 0 || h <= 0 {
		return 16.0 / 9.0
	}
	return float32(w) / float32(h)
}

// Close releases GPU resources and the window.
func (a *app) Close() {
	a.scene.Shadows.Release()
	a.renderer.Close()
	a.win.Close()
}

// Run drives the frame loop until the window is closed.
func (a *app) Run() {
	for {
		if a.input.Update() || a.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			return
		}
		a.handleInput()

		a.scene.Update()
		a.draw()
		a.win.SwapBuffers()
		a.updateStats()
	}
}

func (a *app) handleInput() {
	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			// Mouse probes stay in window units; the viewport is in pixels.
			a.renderer.Resize(a.win.DrawableSize())
			a.scene.SetAspect(aspect(e.Width, e.Height))
		case input.EventMouseMove:
			if a.input.IsButtonHeld(sdl.BUTTON_LEFT) {
				a.look(e.DeltaX, e.DeltaY)
			}
		case input.EventMouseWheel:
			a.scene.Orbit.HandleZoom(e.DeltaY)
		case input.EventKeyDown:
			a.handleKey(e.Key)
		}
	}

	a.move()
	a.moveSun()
}

func (a *app) look(dx, dy float32) {
	if a.scene.UseOrbit {
		a.scene.Orbit.HandleDrag(dx, dy)
		return
	}
	a.scene.FirstPerson.RotateY(dx * lookSpeed)
	a.scene.FirstPerson.Pitch(dy * lookSpeed)
}

func (a *app) move() {
	var forward, right, up float32
	held := a.input.IsKeyHeld
	if held(sdl.SCANCODE_W) {
		forward++
	}
	if held(sdl.SCANCODE_S) {
		forward--
	}
	if held(sdl.SCANCODE_D) {
		right++
	}
	if held(sdl.SCANCODE_A) {
		right--
	}
	if held(sdl.SCANCODE_E) {
		up++
	}
	if held(sdl.SCANCODE_Q) {
		up--
	}
	if forward == 0 && right == 0 && up == 0 {
		return
	}

	if a.scene.UseOrbit {
		a.scene.Orbit.HandleMovement(forward, right, up)
		return
	}
	fp := a.scene.FirstPerson
	fp.Walk(forward * moveSpeed)
	fp.Strafe(right * moveSpeed)
	fp.Position.Y += up * moveSpeed
}

func (a *app) moveSun() {
	var dAz, dEl float32
	held := a.input.IsKeyHeld
	if held(sdl.SCANCODE_LEFT) {
		dAz -= sunSpeed
	}
	if held(sdl.SCANCODE_RIGHT) {
		dAz += sunSpeed
	}
	if held(sdl.SCANCODE_UP) {
		dEl += sunSpeed
	}
	if held(sdl.SCANCODE_DOWN) {
		dEl -= sunSpeed
	}
	if dAz != 0 || dEl != 0 {
		a.scene.SetSun(a.scene.Sun.Rotate(dAz, dEl))
	}
}

func (a *app) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_C:
		a.scene.UseOrbit = !a.scene.UseOrbit
		a.log.Info("camera switched", zap.Bool("orbit", a.scene.UseOrbit))
		return
	case sdl.SCANCODE_T:
		a.scene.Detached = !a.scene.Detached
		a.log.Info("cascade fitting camera switched", zap.Bool("detached", a.scene.Detached))
		return
	case sdl.SCANCODE_V:
		a.visualize = !a.visualize
		return
	case sdl.SCANCODE_O:
		a.overlay = !a.overlay
		return
	case sdl.SCANCODE_P:
		a.save()
		return
	}

	v := a.scene.Viewer()
	s, change, ok := applySettingsKey(a.scene.Shadows.Settings(), key, v.NearZ(), v.FarZ())
	if !ok {
		return
	}
	if err := a.scene.Shadows.SetSettings(s); err != nil {
		a.log.Warn("shadow settings applied without shadow maps", zap.Error(err))
	}
	a.log.Info("shadow settings changed", zap.String("change", change))
}

func (a *app) save() {
	a.cfg.Shadow.SetSettings(a.scene.Shadows.Settings())
	d := a.scene.Sun.Direction()
	a.cfg.Light.Direction = config.Vec3{d.X, d.Y, d.Z}
	a.cfg.Viewer.Orbit = a.scene.UseOrbit

	if err := a.cfg.Save(); err != nil {
		a.log.Error("failed to save config", zap.Error(err))
		return
	}
	a.log.Info("config saved", zap.String("dir", config.ConfigDir()))
}

func (a *app) draw() {
	sc := a.scene
	objects := sc.Objects

	a.renderer.RenderShadows(sc.Shadows, a.maps, objects)

	v := sc.Viewer()
	a.renderer.Begin()
	a.renderer.DrawScene(renderer.Frame{
		View:              v.ViewMatrix(),
		Proj:              v.ProjMatrix(),
		FitView:           sc.FitViewer().ViewMatrix(),
		LightDir:          sc.Light.Direction,
		VisualizeCascades: a.visualize,
	}, sc.Shadows, a.maps, objects)

	if a.overlay {
		viewProj := sc.ViewProjection()
		for i := 0; i < sc.Shadows.CascadeLevels(); i++ {
			a.renderer.DrawLines(viewProj, sc.CascadeWireframe(i), renderer.CascadeColor(i))
		}
		if sc.Detached {
			for i := 0; i < sc.Shadows.CascadeLevels(); i++ {
				a.renderer.DrawLines(viewProj, sc.SliceWireframe(i), frustumColor)
			}
		}
	}
}

func (a *app) updateStats() {
	a.frames++
	now := window.Ticks()
	if now-a.lastStats < statsMS {
		return
	}
	fps := float32(a.frames) * 1000 / float32(now-a.lastStats)
	a.frames, a.lastStats = 0, now

	w, h := a.win.Size()
	mx, my := a.input.MousePosition()
	p := a.scene.ProbeScreen(float32(mx), float32(my), float32(w), float32(h))
	st := a.renderer.Stats()
	s := a.scene.Shadows.Settings()

	probe := "sky"
	if p.Hit {
		probe = fmt.Sprintf("obj %d depth %.1f cascade %d blend %.2f", p.Object, p.Depth, p.Cascade, p.Blend)
	}
	a.win.SetTitle(fmt.Sprintf("%s | %.0f fps | %d x %d | %s %s | draws %d/%d | %s",
		a.cfg.Window.Title, fps, s.CascadeLevels, s.ShadowSize,
		s.FitProjection, s.FitNearFar, st.ShadowDraws, st.SceneDraws, probe))
}
