package num

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LargestEigenvalue returns the largest eigenvalue of the symmetric
// matrix m via a full symmetric eigendecomposition (gonum.org/v1/gonum/mat
// sorts ascending, so the result is the last value). A non-finite result
// (possible when m is built from a nearly-singular lead field) is clamped
// to 1, matching the NumericDegenerate policy of §7.
func LargestEigenvalue(m mat.Symmetric) float64 {
	var eig mat.EigenSym
	ok := eig.Factorize(m, false)
	if !ok {
		return 1
	}
	values := eig.Values(nil)
	lambda := values[len(values)-1]
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return 1
	}
	return lambda
}

// PInv computes the Moore-Penrose pseudo-inverse of the symmetric
// positive-semidefinite matrix m by truncated SVD: singular values below
// eps*n*sigmaMax are treated as zero rather than inverted, and any
// residual negative eigenvalue produced by numerical error is clamped to
// zero before inversion (§4.1, P6).
func PInv(m mat.Symmetric) *mat.Dense {
	n := m.Symmetric()
	var svd mat.SVD
	ok := svd.Factorize(m, mat.SVDFull)
	if !ok {
		return mat.NewDense(n, n, nil)
	}

	values := svd.Values(nil)
	var sigmaMax float64
	for _, s := range values {
		if s > sigmaMax {
			sigmaMax = s
		}
	}
	tol := float64(n) * sigmaMax * machineEps

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// PInv = V * diag(1/s_i, or 0 if s_i <= tol) * U^T
	sInv := mat.NewDense(n, n, nil)
	for i, s := range values {
		if s <= tol {
			continue
		}
		// For a symmetric m, u_i = -v_i marks a negative eigenvalue.
		if mat.Dot(u.ColView(i), v.ColView(i)) < 0 {
			continue
		}
		sInv.Set(i, i, 1/s)
	}

	var tmp, out mat.Dense
	tmp.Mul(&v, sInv)
	out.Mul(&tmp, u.T())
	return &out
}

const machineEps = 2.220446049250313e-16

// Centering returns H = I_n - (1/n) * 1 * 1^T, the average-reference
// centering matrix used throughout C7 (P5: H is idempotent and SPD of
// rank n-1).
func Centering(n int) *mat.SymDense {
	h := mat.NewSymDense(n, nil)
	c := -1 / float64(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				h.SetSym(i, j, 1+c)
			} else {
				h.SetSym(i, j, c)
			}
		}
	}
	return h
}
