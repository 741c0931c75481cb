// Package math provides float32 vector, matrix and quaternion types for
// shadow-map fitting. Matrices are column-major with column vectors; the
// projection and view builders follow the left-handed Direct3D conventions
// (view space looks down +Z, clip depth in [0, 1]).
package math

// Vec2 is a 2D vector, used for light-space rectangles.
type Vec2 struct {
	X, Y float32
}
