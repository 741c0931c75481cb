package shadow

import (
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// CascadeShaderData is the per-frame constant block consumed by the
// shading pass. Light-view-space positions map into cascade i's texture
// with pos*Scale[i] + Offset[i].
type CascadeShaderData struct {
	LightView math.Mat4

	Scale  [MaxCascades]math.Vec4
	Offset [MaxCascades]math.Vec4

	PartitionDepths [MaxCascades]float32
	CascadeLevels   int32

	BlendBetweenCascades bool
	BlendRange           float32
	CascadeSelection     CascadeSelection

	TexelSize        float32
	MinBorderPadding float32
	MaxBorderPadding float32
	PCFBlurStart     int32
	PCFBlurEnd       int32
	PCFDepthBias     float32

	DerivativeBasedOffset bool
}

// ShaderData packs the fitted cascades into a CascadeShaderData.
func (m *CascadedShadowManager) ShaderData() CascadeShaderData {
	s := m.settings
	size := float32(s.ShadowSize)
	half := s.BlurKernelSize / 2

	d := CascadeShaderData{
		LightView:             m.lightView,
		PartitionDepths:       m.PartitionDepths(),
		CascadeLevels:         int32(s.CascadeLevels),
		BlendBetweenCascades:  s.BlendBetweenCascades,
		BlendRange:            s.BlendRange,
		CascadeSelection:      s.CascadeSelection,
		TexelSize:             1 / size,
		MinBorderPadding:      float32(half) / size,
		MaxBorderPadding:      (size - 1 - float32(half)) / size,
		PCFBlurStart:          int32(-half),
		PCFBlurEnd:            int32(half + 1),
		PCFDepthBias:          s.PCFDepthBias,
		DerivativeBasedOffset: s.DerivativeBasedOffset,
	}

	tex := math.TextureSpace()
	for i := 0; i < s.CascadeLevels; i++ {
		// The projection is orthographic, so diagonal and translation
		// are all there is.
		p := tex.Mul(m.cascades[i].Projection)
		d.Scale[i] = math.Vec4{p[0], p[5], p[10], 1}
		d.Offset[i] = math.Vec4{p[12], p[13], p[14], 0}
	}
	return d
}

// SelectCascade picks the cascade for a point at eye-space depth viewDepth
// the way interval selection does in the shader. blend is the weight of
// the next cascade inside the blend band, zero when blending is off or
// the point is outside the band. Depths past the last partition use the
// last cascade.
func (m *CascadedShadowManager) SelectCascade(viewDepth float32) (index int, blend float32) {
	s := m.settings
	n := s.CascadeLevels

	index = n - 1
	for i := 0; i < n; i++ {
		if viewDepth < m.cascades[i].IntervalEnd {
			index = i
			break
		}
	}

	if !s.BlendBetweenCascades || index >= n-1 || !(s.BlendRange > 0) {
		return index, 0
	}

	end := m.cascades[index].IntervalEnd
	begin := float32(0)
	if index > 0 {
		begin = m.cascades[index-1].IntervalEnd
	}
	if !(end > begin) {
		return index, 0
	}

	band := 1 - (viewDepth-begin)/(end-begin)
	if band < s.BlendRange {
		blend = 1 - band/s.BlendRange
	}
	return index, blend
}
