package num

import "math"

// Eigen3 is the eigendecomposition of a symmetric 3x3 matrix: ascending
// eigenvalues and their orthonormal eigenvectors.
type Eigen3 struct {
	Values  [3]float64    // ascending: Values[0] <= Values[1] <= Values[2]
	Vectors [3][3]float64 // Vectors[k] is the unit eigenvector for Values[k]
}

// SymEigen3 computes the eigendecomposition of the symmetric 3x3 matrix
//
//	[a00 a01 a02]
//	[a01 a11 a12]
//	[a02 a12 a22]
//
// using the closed-form trigonometric solution for the eigenvalues
// (Smith 1961) and the robust cross-product construction for the
// eigenvectors (Eberly, "Eigensystems for 3x3 Symmetric Matrices").
// It performs no heap allocation and is safe to call from a hot,
// per-source loop.
func SymEigen3(a00, a01, a02, a11, a12, a22 float64) Eigen3 {
	p1 := a01*a01 + a02*a02 + a12*a12
	if p1 == 0 {
		// Already diagonal: sort the diagonal entries ascending and
		// report the standard basis in matching order.
		return diagonalEigen3(a00, a11, a22)
	}

	q := (a00 + a11 + a22) / 3
	b00, b11, b22 := a00-q, a11-q, a22-q
	p2 := b00*b00 + b11*b11 + b22*b22 + 2*p1
	p := math.Sqrt(p2 / 6)

	inv := 1 / p
	c00, c01, c02 := b00*inv, a01*inv, a02*inv
	c11, c12 := b11*inv, a12*inv
	c22 := b22*inv

	detC := c00*(c11*c22-c12*c12) - c01*(c01*c22-c12*c02) + c02*(c01*c12-c11*c02)
	r := detC / 2
	if r <= -1 {
		r = -1
	} else if r >= 1 {
		r = 1
	}
	phi := math.Acos(r) / 3

	l2 := q + 2*p*math.Cos(phi)
	l0 := q + 2*p*math.Cos(phi+2*math.Pi/3)
	l1 := 3*q - l0 - l2

	var e Eigen3
	e.Values = [3]float64{l0, l1, l2}

	v0 := robustEigenvector3(a00, a01, a02, a11, a12, a22, l0)
	v2 := robustEigenvector3(a00, a01, a02, a11, a12, a22, l2)
	v1 := cross3(v0, v2)
	v1 = normalize3(v1)

	e.Vectors = [3][3]float64{v0, v1, v2}
	return e
}

func diagonalEigen3(a00, a11, a22 float64) Eigen3 {
	type entry struct {
		val float64
		idx int
	}
	entries := [3]entry{{a00, 0}, {a11, 1}, {a22, 2}}
	// insertion sort over three elements, ascending.
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && entries[j].val < entries[j-1].val; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	var e Eigen3
	for k, ent := range entries {
		e.Values[k] = ent.val
		e.Vectors[k] = basis3(ent.idx)
	}
	return e
}

func basis3(i int) [3]float64 {
	var v [3]float64
	v[i] = 1
	return v
}

// robustEigenvector3 returns a unit eigenvector of the symmetric matrix A
// for the (assumed simple) eigenvalue lambda by taking the row of
// (A - lambda*I) whose two rows cross to the largest-magnitude vector.
func robustEigenvector3(a00, a01, a02, a11, a12, a22, lambda float64) [3]float64 {
	m00, m11, m22 := a00-lambda, a11-lambda, a22-lambda
	r0 := [3]float64{m00, a01, a02}
	r1 := [3]float64{a01, m11, a12}
	r2 := [3]float64{a02, a12, m22}

	c01 := cross3(r0, r1)
	c02 := cross3(r0, r2)
	c12 := cross3(r1, r2)

	d01 := dot3(c01, c01)
	d02 := dot3(c02, c02)
	d12 := dot3(c12, c12)

	best, bestNorm := c01, d01
	if d02 > bestNorm {
		best, bestNorm = c02, d02
	}
	if d12 > bestNorm {
		best, bestNorm = c12, d12
	}
	if bestNorm == 0 {
		// A - lambda*I is (numerically) the zero matrix: any unit
		// vector is an eigenvector.
		return [3]float64{1, 0, 0}
	}
	return normalize3(best)
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize3(v [3]float64) [3]float64 {
	n := math.Sqrt(dot3(v, v))
	if n == 0 {
		return v
	}
	inv := 1 / n
	return [3]float64{v[0] * inv, v[1] * inv, v[2] * inv}
}

// InvSqrtSPD3 returns B = V * diag(1/sqrt(max(lambda,0))) * V^T for the
// symmetric input matrix, clamping non-positive eigenvalues to a zero
// contribution rather than producing NaN/Inf. Used by the sLORETA and
// eLORETA per-source standardization steps (§4.7).
func InvSqrtSPD3(a00, a01, a02, a11, a12, a22 float64) (b00, b01, b02, b11, b12, b22 float64) {
	e := SymEigen3(a00, a01, a02, a11, a12, a22)
	var s [3]float64
	for i, lambda := range e.Values {
		if lambda > 0 {
			s[i] = 1 / math.Sqrt(lambda)
		}
	}
	// B_ij = sum_k s[k] * v_k[i] * v_k[j]
	for k := 0; k < 3; k++ {
		v := e.Vectors[k]
		w := s[k]
		b00 += w * v[0] * v[0]
		b01 += w * v[0] * v[1]
		b02 += w * v[0] * v[2]
		b11 += w * v[1] * v[1]
		b12 += w * v[1] * v[2]
		b22 += w * v[2] * v[2]
	}
	return
}
