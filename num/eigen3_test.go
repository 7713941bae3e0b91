package num

import (
	"math"
	"testing"
)

func within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSymEigen3Diagonal(t *testing.T) {
	e := SymEigen3(3, 0, 0, 1, 0, 2)
	want := [3]float64{1, 2, 3}
	for i := range want {
		if !within(e.Values[i], want[i], 1e-12) {
			t.Fatalf("Values[%d] = %v, want %v", i, e.Values[i], want[i])
		}
	}
}

func TestSymEigen3Orthonormal(t *testing.T) {
	e := SymEigen3(2, 1, 0.5, 3, -0.2, 1.5)
	for i := 0; i < 3; i++ {
		n := dot3(e.Vectors[i], e.Vectors[i])
		if !within(n, 1, 1e-8) {
			t.Errorf("eigenvector %d not unit norm: %v", i, n)
		}
		for j := i + 1; j < 3; j++ {
			d := dot3(e.Vectors[i], e.Vectors[j])
			if !within(d, 0, 1e-6) {
				t.Errorf("eigenvectors %d,%d not orthogonal: dot=%v", i, j, d)
			}
		}
	}
	if e.Values[0] > e.Values[1] || e.Values[1] > e.Values[2] {
		t.Errorf("eigenvalues not ascending: %v", e.Values)
	}
}

func TestSymEigen3Reconstruction(t *testing.T) {
	a00, a01, a02, a11, a12, a22 := 4.0, 1.2, -0.7, 3.1, 0.4, 2.0
	e := SymEigen3(a00, a01, a02, a11, a12, a22)

	var r00, r01, r02, r11, r12, r22 float64
	for k := 0; k < 3; k++ {
		v := e.Vectors[k]
		l := e.Values[k]
		r00 += l * v[0] * v[0]
		r01 += l * v[0] * v[1]
		r02 += l * v[0] * v[2]
		r11 += l * v[1] * v[1]
		r12 += l * v[1] * v[2]
		r22 += l * v[2] * v[2]
	}
	tol := 1e-6
	if !within(r00, a00, tol) || !within(r01, a01, tol) || !within(r02, a02, tol) ||
		!within(r11, a11, tol) || !within(r12, a12, tol) || !within(r22, a22, tol) {
		t.Errorf("V diag(lambda) V^T did not reconstruct A: got (%v %v %v %v %v %v)", r00, r01, r02, r11, r12, r22)
	}
}

func TestInvSqrtSPD3Identity(t *testing.T) {
	b00, b01, b02, b11, b12, b22 := InvSqrtSPD3(1, 0, 0, 1, 0, 1)
	if !within(b00, 1, 1e-12) || !within(b11, 1, 1e-12) || !within(b22, 1, 1e-12) {
		t.Errorf("invsqrt(I) != I: %v %v %v", b00, b11, b22)
	}
	if !within(b01, 0, 1e-12) || !within(b02, 0, 1e-12) || !within(b12, 0, 1e-12) {
		t.Errorf("invsqrt(I) has nonzero off-diagonal: %v %v %v", b01, b02, b12)
	}
}

func TestInvSqrtSPD3ClampsNonPositive(t *testing.T) {
	// A matrix with a zero eigenvalue (rank-deficient): diag(0, 1, 2).
	b00, _, _, b11, _, b22 := InvSqrtSPD3(0, 0, 0, 1, 0, 2)
	if b00 != 0 {
		t.Errorf("zero eigenvalue should clamp to zero contribution, got b00=%v", b00)
	}
	if !within(b11, 1, 1e-12) {
		t.Errorf("b11 = %v, want 1", b11)
	}
	if !within(b22, 1/math.Sqrt(2), 1e-9) {
		t.Errorf("b22 = %v, want %v", b22, 1/math.Sqrt(2))
	}
}
