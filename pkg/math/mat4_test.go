package math

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(V3(1, 1, 1))
	want := V3(12, 2, 2)
	if got != want {
		t.Errorf("T*S applied to (1,1,1): got %v, want %v", got, want)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint(V3(1, 2, 3))

	expected := V3(11, 22, 33)
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformDirection(V3(1, 2, 3))
	if result != V3(1, 2, 3) {
		t.Errorf("TransformDirection: got %v, want (1, 2, 3)", result)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint(V3(1, 0, 0))

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if !result.ApproxEqual(V3(0, 0, -1), 0.001) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspectiveFovLH(t *testing.T) {
	near, far := float32(0.5), float32(300)
	m := PerspectiveFovLH(float32(math.Pi/3), 16.0/9.0, near, far)

	if m[11] != 1 {
		t.Errorf("PerspectiveFovLH [11] should be 1, got %f", m[11])
	}
	if m[15] != 0 {
		t.Errorf("PerspectiveFovLH [15] should be 0, got %f", m[15])
	}

	tests := []struct {
		name  string
		z     float32
		depth float32
	}{
		{"near plane", near, 0},
		{"far plane", far, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := m.TransformPoint(V3(0, 0, tc.z))
			if abs(p.Z-tc.depth) > 1e-5 {
				t.Errorf("depth at z=%v: got %v, want %v", tc.z, p.Z, tc.depth)
			}
		})
	}
}

func TestOrthographicOffCenterLH(t *testing.T) {
	m := OrthographicOffCenterLH(-10, 30, -5, 15, 2, 102)

	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"min corner", V3(-10, -5, 2), V3(-1, -1, 0)},
		{"max corner", V3(30, 15, 102), V3(1, 1, 1)},
		{"center", V3(10, 5, 52), V3(0, 0, 0.5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := m.TransformPoint(tc.in)
			if !got.ApproxEqual(tc.want, 1e-5) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLookToLH(t *testing.T) {
	eye := V3(0, 10, 0)
	m := LookToLH(eye, V3(0, -1, 0), V3(0, 0, 1))

	// The eye maps to the origin.
	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("eye in view space: got %v, want origin", got)
	}
	// A point below the eye is in front of it (+Z).
	if got := m.TransformPoint(V3(0, 0, 0)); !got.ApproxEqual(V3(0, 0, 10), 1e-5) {
		t.Errorf("point below eye: got %v, want (0, 0, 10)", got)
	}
	// The up vector maps to +Y.
	if got := m.TransformDirection(V3(0, 0, 1)); !got.ApproxEqual(V3(0, 1, 0), 1e-5) {
		t.Errorf("up in view space: got %v, want (0, 1, 0)", got)
	}
}

func TestLookAtLH(t *testing.T) {
	m := LookAtLH(V3(0, 0, -5), V3(0, 0, 0), V3(0, 1, 0))
	if got := m.TransformPoint(V3(1, 0, 0)); !got.ApproxEqual(V3(1, 0, 5), 1e-5) {
		t.Errorf("LookAtLH: got %v, want (1, 0, 5)", got)
	}
}

func TestTextureSpace(t *testing.T) {
	m := TextureSpace()
	if got := m.TransformPoint(V3(-1, 1, 0.25)); !got.ApproxEqual(V3(0, 0, 0.25), 1e-6) {
		t.Errorf("top-left clip corner: got %v, want (0, 0, 0.25)", got)
	}
	if got := m.TransformPoint(V3(1, -1, 0)); !got.ApproxEqual(V3(1, 1, 0), 1e-6) {
		t.Errorf("bottom-right clip corner: got %v, want (1, 1, 0)", got)
	}
}

func TestInverseMatchesGonum(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"view", LookToLH(V3(3, 40, -7), V3(0.3, -1, 0.2), V3(0, 1, 0))},
		{"perspective", PerspectiveFovLH(1.0, 1.5, 0.5, 300)},
		{"ortho", OrthographicOffCenterLH(-20, 35, -10, 12, -50, 80)},
		{"affine", Translate(4, -2, 9).Mul(RotateX(0.4)).Mul(Scale(2, 3, 0.5))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rowMajor := make([]float64, 16)
			for r := 0; r < 4; r++ {
				for c := 0; c < 4; c++ {
					rowMajor[r*4+c] = float64(tc.m.At(r, c))
				}
			}
			var want mat.Dense
			if err := want.Inverse(mat.NewDense(4, 4, rowMajor)); err != nil {
				t.Fatalf("gonum inverse: %v", err)
			}

			got := tc.m.Inverse()
			for r := 0; r < 4; r++ {
				for c := 0; c < 4; c++ {
					w := want.At(r, c)
					tol := 1e-4 * math.Max(1, math.Abs(w))
					if math.Abs(float64(got.At(r, c))-w) > tol {
						t.Errorf("inverse[%d][%d]: got %v, want %v", r, c, got.At(r, c), w)
					}
				}
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	if got := (Mat4{}).Inverse(); got != Identity() {
		t.Errorf("singular inverse should fall back to identity, got %v", got)
	}
}

func TestRigidInverse(t *testing.T) {
	view := LookToLH(V3(12, 5, -30), V3(-0.4, -0.2, 1), V3(0, 1, 0))
	got := view.RigidInverse()
	want := view.Inverse()
	if !got.ApproxEqual(want, 1e-3) {
		t.Errorf("RigidInverse:\n got %v\nwant %v", got, want)
	}
	if !view.Mul(got).ApproxEqual(Identity(), 1e-5) {
		t.Error("view * RigidInverse(view) should be identity")
	}
}

func TestMulVec4(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.MulVec4(Vec4{1, 1, 1, 0})
	if got != (Vec4{1, 1, 1, 0}) {
		t.Errorf("MulVec4 with w=0 should ignore translation, got %v", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
