package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

// logSplitLambda weights logarithmic over uniform splits for the L key.
const logSplitLambda = 0.75

// cascadeKeys maps the number row to cascade counts.
var cascadeKeys = map[sdl.Scancode]int{
	sdl.SCANCODE_1: 1, sdl.SCANCODE_2: 2, sdl.SCANCODE_3: 3, sdl.SCANCODE_4: 4,
	sdl.SCANCODE_5: 5, sdl.SCANCODE_6: 6, sdl.SCANCODE_7: 7, sdl.SCANCODE_8: 8,
}

// applySettingsKey returns s changed by one key press and a short
// description of the change. ok is false when the key changes nothing.
// near and far are the viewer planes used for logarithmic splits.
func applySettingsKey(s shadow.Settings, key sdl.Scancode, near, far float32) (out shadow.Settings, change string, ok bool) {
	if n, isCascadeKey := cascadeKeys[key]; isCascadeKey {
		s.CascadeLevels = n
		s.PartitionPercentages = shadow.LogPartitions(n, near, far, logSplitLambda)
		return s, fmt.Sprintf("cascades: %d", n), true
	}

	switch key {
	case sdl.SCANCODE_F:
		s.FitProjection = (s.FitProjection + 1) % 2
		return s, "fit: " + s.FitProjection.String(), true
	case sdl.SCANCODE_N:
		s.FitNearFar = (s.FitNearFar + 1) % 4
		return s, "near/far: " + s.FitNearFar.String(), true
	case sdl.SCANCODE_M:
		s.CascadeSelection = (s.CascadeSelection + 1) % 2
		return s, "selection: " + s.CascadeSelection.String(), true
	case sdl.SCANCODE_B:
		s.BlendBetweenCascades = !s.BlendBetweenCascades
		return s, fmt.Sprintf("blend: %t", s.BlendBetweenCascades), true
	case sdl.SCANCODE_X:
		s.MoveLightTexelSize = !s.MoveLightTexelSize
		return s, fmt.Sprintf("snap to texel: %t", s.MoveLightTexelSize), true
	case sdl.SCANCODE_Z:
		s.FixedSizeFrustumAABB = !s.FixedSizeFrustumAABB
		return s, fmt.Sprintf("fixed size: %t", s.FixedSizeFrustumAABB), true
	case sdl.SCANCODE_K:
		s.BlurKernelSize += 2
		if s.BlurKernelSize > shadow.MaxBlurKernelSize {
			s.BlurKernelSize = 1
		}
		return s, fmt.Sprintf("blur kernel: %d", s.BlurKernelSize), true
	case sdl.SCANCODE_U:
		s.PartitionPercentages = shadow.UniformPartitions(s.CascadeLevels)
		return s, "partitions: uniform", true
	case sdl.SCANCODE_L:
		s.PartitionPercentages = shadow.LogPartitions(s.CascadeLevels, near, far, logSplitLambda)
		return s, "partitions: logarithmic", true
	case sdl.SCANCODE_EQUALS:
		if s.ShadowSize*2 > shadow.MaxShadowSize {
			return s, "", false
		}
		s.ShadowSize *= 2
		return s, fmt.Sprintf("shadow size: %d", s.ShadowSize), true
	case sdl.SCANCODE_MINUS:
		if s.ShadowSize/2 < shadow.MinShadowSize {
			return s, "", false
		}
		s.ShadowSize /= 2
		return s, fmt.Sprintf("shadow size: %d", s.ShadowSize), true
	}
	return s, "", false
}
