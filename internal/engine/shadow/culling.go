package shadow

import (
	"github.com/Faultbox/midgard-csm/pkg/geom"
)

// CascadeOBB returns the world-space box covered by cascade i, including
// its full near/far depth range.
func (m *CascadedShadowManager) CascadeOBB(i int) geom.OBB {
	return geom.OBBFromAABB(m.cascades[i].Bounds).Transform(m.lightView.RigidInverse())
}

// IsVisibleInCascade reports whether a world-space box can cast a shadow
// into cascade i.
func (m *CascadedShadowManager) IsVisibleInCascade(i int, worldBox geom.AABB) bool {
	return m.CascadeOBB(i).IntersectsAABB(worldBox)
}

// VisibleObjects returns the indices of the boxes that intersect
// cascade i, preserving order.
func (m *CascadedShadowManager) VisibleObjects(i int, boxes []geom.AABB) []int {
	obb := m.CascadeOBB(i)
	var out []int
	for k, b := range boxes {
		if obb.IntersectsAABB(b) {
			out = append(out, k)
		}
	}
	return out
}
