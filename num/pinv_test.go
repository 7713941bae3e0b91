package num

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCenteringIdempotent(t *testing.T) {
	h := Centering(5)
	var hh mat.Dense
	hh.Mul(h, h)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if !within(hh.At(i, j), h.At(i, j), 1e-9) {
				t.Fatalf("H*H != H at (%d,%d): %v vs %v", i, j, hh.At(i, j), h.At(i, j))
			}
		}
	}
}

func TestPInvRoundTrip(t *testing.T) {
	m := mat.NewSymDense(3, []float64{4, 1, 0, 1, 3, 1, 0, 1, 2})
	pinv := PInv(m)

	var mPinvM, pinvMPinv mat.Dense
	mPinvM.Mul(m, pinv)
	mPinvM.Mul(&mPinvM, m)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !within(mPinvM.At(i, j), m.At(i, j), 1e-5) {
				t.Errorf("M*PInv(M)*M != M at (%d,%d): %v vs %v", i, j, mPinvM.At(i, j), m.At(i, j))
			}
		}
	}

	pinvMPinv.Mul(pinv, m)
	pinvMPinv.Mul(&pinvMPinv, pinv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !within(pinvMPinv.At(i, j), pinv.At(i, j), 1e-5) {
				t.Errorf("PInv(M)*M*PInv(M) != PInv(M) at (%d,%d)", i, j)
			}
		}
	}
}

func TestLargestEigenvalueDiagonal(t *testing.T) {
	m := mat.NewSymDense(2, []float64{1, 0, 0, 2})
	got := LargestEigenvalue(m)
	if !within(got, 2, 1e-9) {
		t.Errorf("LargestEigenvalue = %v, want 2", got)
	}
}
