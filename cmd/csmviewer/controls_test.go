package main

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

func TestApplySettingsKeyCycles(t *testing.T) {
	s := shadow.DefaultSettings()

	tests := []struct {
		name  string
		key   sdl.Scancode
		times int
		check func(shadow.Settings) bool
	}{
		{"fit wraps", sdl.SCANCODE_F, 2, func(o shadow.Settings) bool { return o.FitProjection == s.FitProjection }},
		{"fit once", sdl.SCANCODE_F, 1, func(o shadow.Settings) bool { return o.FitProjection == shadow.FitToScene }},
		{"near far wraps", sdl.SCANCODE_N, 1, func(o shadow.Settings) bool { return o.FitNearFar == shadow.FitNearFarZeroOne }},
		{"selection", sdl.SCANCODE_M, 1, func(o shadow.Settings) bool { return o.CascadeSelection == shadow.SelectionInterval }},
		{"blend", sdl.SCANCODE_B, 1, func(o shadow.Settings) bool { return !o.BlendBetweenCascades }},
		{"snap", sdl.SCANCODE_X, 1, func(o shadow.Settings) bool { return !o.MoveLightTexelSize }},
		{"fixed size", sdl.SCANCODE_Z, 1, func(o shadow.Settings) bool { return !o.FixedSizeFrustumAABB }},
		{"kernel grows", sdl.SCANCODE_K, 1, func(o shadow.Settings) bool { return o.BlurKernelSize == 7 }},
		{"kernel wraps", sdl.SCANCODE_K, 3, func(o shadow.Settings) bool { return o.BlurKernelSize == 1 }},
		{"size up", sdl.SCANCODE_EQUALS, 1, func(o shadow.Settings) bool { return o.ShadowSize == 2048 }},
		{"size down", sdl.SCANCODE_MINUS, 1, func(o shadow.Settings) bool { return o.ShadowSize == 512 }},
		{"size floor", sdl.SCANCODE_MINUS, 5, func(o shadow.Settings) bool { return o.ShadowSize == shadow.MinShadowSize }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s
			for i := 0; i < tt.times; i++ {
				out, _, _ = applySettingsKey(out, tt.key, 0.5, 300)
			}
			if !tt.check(out) {
				t.Errorf("unexpected settings after %d presses: %+v", tt.times, out)
			}
		})
	}
}

func TestApplySettingsKeyCascades(t *testing.T) {
	out, change, ok := applySettingsKey(shadow.DefaultSettings(), sdl.SCANCODE_3, 0.5, 300)
	if !ok || change != "cascades: 3" {
		t.Fatalf("change = %q ok = %t", change, ok)
	}
	if out.CascadeLevels != 3 {
		t.Errorf("cascades = %d, want 3", out.CascadeLevels)
	}
	if _, notes := out.Sanitize(); len(notes) != 0 {
		t.Errorf("partitions need adjusting: %v", notes)
	}
	want := shadow.LogPartitions(3, 0.5, 300, logSplitLambda)
	if out.PartitionPercentages != want {
		t.Errorf("partitions = %v, want %v", out.PartitionPercentages, want)
	}
}

func TestApplySettingsKeyIgnored(t *testing.T) {
	s := shadow.DefaultSettings()
	out, change, ok := applySettingsKey(s, sdl.SCANCODE_Q, 0.5, 300)
	if ok || change != "" || out != s {
		t.Errorf("unbound key changed settings: %q %+v", change, out)
	}

	s.ShadowSize = shadow.MaxShadowSize
	if _, _, ok := applySettingsKey(s, sdl.SCANCODE_EQUALS, 0.5, 300); ok {
		t.Error("shadow size grew past the maximum")
	}
}
