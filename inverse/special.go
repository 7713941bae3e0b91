package inverse

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dbrunet-lab/esicore/num"
	"github.com/dbrunet-lab/esicore/reg"
)

// buildSLORETA implements §4.7 sLORETA: the MN solve followed by a
// per-source 3x3 standardization that turns the raw inverse operator
// into a unit-resolution (trace-3) estimator at every source.
func buildSLORETA(K *mat.Dense, H *mat.SymDense, opts Options, nElec, nSp int) Result {
	base := buildSimple(SLORETA, K, H, opts, nElec, nSp, nil)
	for r := range base.J {
		standardizeSLORETA(base.J[r], K, nSp)
	}
	return base
}

// standardizeSLORETA applies T_i <- (T_i*K_i)^(-1/2) * T_i to every
// source's row triplet in place, where T_i is T's 3-row slice and K_i
// is K's matching 3-column slice (§4.7).
func standardizeSLORETA(T, K *mat.Dense, nSp int) {
	nElec, _ := K.Dims()
	for i := 0; i < nSp; i++ {
		a00, a01, a02, a11, a12, a22 := tripletProduct(T, K, i, nElec)
		b00, b01, b02, b11, b12, b22 := num.InvSqrtSPD3(a00, a01, a02, a11, a12, a22)
		applyStandardization3(T, i, nElec, [3][3]float64{{b00, b01, b02}, {b01, b11, b12}, {b02, b12, b22}})
	}
}

// tripletProduct returns the symmetric 3x3 product T_i * K_i, T_i
// being T's rows [3i,3i+3) and K_i being K's columns [3i,3i+3).
func tripletProduct(T, K *mat.Dense, i, nElec int) (a00, a01, a02, a11, a12, a22 float64) {
	var row [3][]float64
	for d := 0; d < 3; d++ {
		row[d] = rowOf(T, 3*i+d)
	}
	var col [3][]float64
	for d := 0; d < 3; d++ {
		col[d] = colOf(K, 3*i+d)
	}
	dot := func(a, b []float64) float64 {
		s := 0.0
		for e := 0; e < nElec; e++ {
			s += a[e] * b[e]
		}
		return s
	}
	a00 = dot(row[0], col[0])
	a01 = dot(row[0], col[1])
	a02 = dot(row[0], col[2])
	a11 = dot(row[1], col[1])
	a12 = dot(row[1], col[2])
	a22 = dot(row[2], col[2])
	return
}

// applyStandardization3 left-multiplies T's row triplet at source i by
// the symmetric 3x3 matrix b, in place.
func applyStandardization3(T *mat.Dense, i, nElec int, b [3][3]float64) {
	var row [3][]float64
	for d := 0; d < 3; d++ {
		row[d] = rowOf(T, 3*i+d)
	}
	for e := 0; e < nElec; e++ {
		v := [3]float64{row[0][e], row[1][e], row[2][e]}
		for d := 0; d < 3; d++ {
			T.Set(3*i+d, e, b[d][0]*v[0]+b[d][1]*v[1]+b[d][2]*v[2])
		}
	}
}

// buildDale implements §4.7 Dale: an MN solve on a lightly
// noise-regularized KKᵀ, followed by per-source diagonal
// standardization scaling each row triplet by 1/trace(S_i)^daleExponent,
// S = T*(regv[r]*H)*Tᵀ.
func buildDale(K *mat.Dense, H *mat.SymDense, opts Options, nElec, nSp int) Result {
	T0 := mat.DenseCopyOf(K.T())
	M := mat.NewDense(nElec, nElec, nil)
	M.Mul(K, T0)
	for i := 0; i < nElec; i++ {
		M.Set(i, i, M.At(i, i)+daleNoise)
	}

	sym := denseToSym(M, nElec)
	lambdaMax := num.LargestEigenvalue(sym)
	regv := reg.Schedule(lambdaMax, opts.NumRegularizations, opts.down(Dale))
	// P2: Dale is the one method whose regv[0] is not 0.
	if len(regv) > 1 {
		regv[0] = regv[1] / 10
	}

	res := Result{Method: Dale, Regularizations: regv, J: make([]*mat.Dense, len(regv)), Degenerate: make([]bool, len(regv))}
	for r, lambda := range regv {
		shifted := addScaledSym(sym, H, lambda, nElec)
		pinv := num.PInv(shifted)
		T := mat.NewDense(3*nSp, nElec, nil)
		T.Mul(T0, pinv)

		if lambda > 0 {
			standardizeDale(T, H, lambda, nSp, nElec)
		}
		res.J[r] = T
	}
	return res
}

// standardizeDale scales each source's row triplet of T by
// 1/trace(S_i)^daleExponent, S_i = T_i*(lambda*H)*T_iᵀ (§4.7).
func standardizeDale(T *mat.Dense, H *mat.SymDense, lambda float64, nSp, nElec int) {
	HT := mat.NewDense(nElec, nElec, nil)
	for i := 0; i < nElec; i++ {
		for j := 0; j < nElec; j++ {
			HT.Set(i, j, lambda*H.At(i, j))
		}
	}
	for i := 0; i < nSp; i++ {
		var row [3][]float64
		for d := 0; d < 3; d++ {
			row[d] = rowOf(T, 3*i+d)
		}
		trace := 0.0
		for d := 0; d < 3; d++ {
			hv := make([]float64, nElec)
			for e := 0; e < nElec; e++ {
				s := 0.0
				for f := 0; f < nElec; f++ {
					s += HT.At(e, f) * row[d][f]
				}
				hv[e] = s
			}
			diag := 0.0
			for e := 0; e < nElec; e++ {
				diag += row[d][e] * hv[e]
			}
			trace += diag
		}
		if trace <= 0 {
			continue
		}
		scale := 1 / math.Pow(trace, daleExponent)
		for d := 0; d < 3; d++ {
			for e := 0; e < nElec; e++ {
				T.Set(3*i+d, e, row[d][e]*scale)
			}
		}
	}
}

// buildELORETA implements §4.7 eLORETA: for each scheduled
// regularization, iterate M = PInv(K*Winv*Kᵀ + λH),
// Winv_i = (KiᵀMKi)^(-1/2) from init Winv = I, until the per-source
// Winv blocks' relative change falls below ELoretaConvergence or
// ELoretaMaxIterations is reached; then T = Winv*Kᵀ*M.
func buildELORETA(K *mat.Dense, H *mat.SymDense, opts Options, nElec, nSp int) Result {
	base := mat.NewDense(nElec, nElec, nil)
	Kt := mat.DenseCopyOf(K.T())
	base.Mul(K, Kt)
	lambdaMax := num.LargestEigenvalue(denseToSym(base, nElec))
	regv := reg.Schedule(lambdaMax, opts.NumRegularizations, opts.down(ELORETA))

	res := Result{Method: ELORETA, Regularizations: regv, J: make([]*mat.Dense, len(regv)), Degenerate: make([]bool, len(regv))}
	for r, lambda := range regv {
		J, degenerate := eLoretaFixedPoint(K, H, lambda, nElec, nSp)
		res.J[r] = J
		res.Degenerate[r] = degenerate
	}
	return res
}

func eLoretaFixedPoint(K *mat.Dense, H *mat.SymDense, lambda float64, nElec, nSp int) (*mat.Dense, bool) {
	winv := make([][3][3]float64, nSp)
	for i := range winv {
		winv[i] = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}

	var M *mat.Dense
	for iter := 0; iter < ELoretaMaxIterations; iter++ {
		KW := scaleColumnsByBlocks(K, winv, nSp)
		base := mat.NewDense(nElec, nElec, nil)
		base.Mul(KW, K.T())
		M = num.PInv(addScaledSym(denseToSym(base, nElec), H, lambda, nElec))

		newWinv := make([][3][3]float64, nSp)
		maxChange := 0.0
		for i := 0; i < nSp; i++ {
			a00, a01, a02, a11, a12, a22 := kMkProduct(K, M, i, nElec)
			b00, b01, b02, b11, b12, b22 := num.InvSqrtSPD3(a00, a01, a02, a11, a12, a22)
			newWinv[i] = [3][3]float64{{b00, b01, b02}, {b01, b11, b12}, {b02, b12, b22}}
			maxChange = math.Max(maxChange, blockRelChange(winv[i], newWinv[i]))
		}
		winv = newWinv
		if iter+1 >= MinELoretaIterations() && maxChange < ELoretaConvergence {
			break
		}
	}

	T0 := scaleRowsByBlocks(mat.DenseCopyOf(K.T()), winv, nSp)
	T := mat.NewDense(3*nSp, nElec, nil)
	T.Mul(T0, M)
	return T, false
}

// MinELoretaIterations is the smallest iteration count before
// convergence is honored, preventing a spurious early exit on the
// first pass when Winv is still the identity everywhere.
func MinELoretaIterations() int { return 2 }

func blockRelChange(a, b [3][3]float64) float64 {
	numer, denom := 0.0, 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := b[i][j] - a[i][j]
			numer += d * d
			denom += a[i][j] * a[i][j]
		}
	}
	if denom == 0 {
		return 0
	}
	return math.Sqrt(numer / denom)
}

// kMkProduct returns the symmetric 3x3 product KiᵀMKi.
func kMkProduct(K, M *mat.Dense, i, nElec int) (a00, a01, a02, a11, a12, a22 float64) {
	var col [3][]float64
	for d := 0; d < 3; d++ {
		col[d] = colOf(K, 3*i+d)
	}
	mv := func(v []float64) []float64 {
		out := make([]float64, nElec)
		for e := 0; e < nElec; e++ {
			s := 0.0
			for f := 0; f < nElec; f++ {
				s += M.At(e, f) * v[f]
			}
			out[e] = s
		}
		return out
	}
	mCol := [3][]float64{mv(col[0]), mv(col[1]), mv(col[2])}
	dot := func(a, b []float64) float64 {
		s := 0.0
		for e := 0; e < nElec; e++ {
			s += a[e] * b[e]
		}
		return s
	}
	a00 = dot(col[0], mCol[0])
	a01 = dot(col[0], mCol[1])
	a02 = dot(col[0], mCol[2])
	a11 = dot(col[1], mCol[1])
	a12 = dot(col[1], mCol[2])
	a22 = dot(col[2], mCol[2])
	return
}

// scaleColumnsByBlocks returns K with each source's 3-column block
// right-multiplied by winv[i] (used to form K*Winv).
func scaleColumnsByBlocks(K *mat.Dense, winv [][3][3]float64, nSp int) *mat.Dense {
	nElec, _ := K.Dims()
	out := mat.NewDense(nElec, 3*nSp, nil)
	for i := 0; i < nSp; i++ {
		b := winv[i]
		for e := 0; e < nElec; e++ {
			v := [3]float64{K.At(e, 3*i), K.At(e, 3*i+1), K.At(e, 3*i+2)}
			for d := 0; d < 3; d++ {
				out.Set(e, 3*i+d, v[0]*b[0][d]+v[1]*b[1][d]+v[2]*b[2][d])
			}
		}
	}
	return out
}

// scaleRowsByBlocks returns T0 = Kᵀ with each source's 3-row block
// left-multiplied by winv[i] (used to form Winv*Kᵀ).
func scaleRowsByBlocks(Kt *mat.Dense, winv [][3][3]float64, nSp int) *mat.Dense {
	nElec := Kt.RawMatrix().Cols
	for i := 0; i < nSp; i++ {
		b := winv[i]
		for e := 0; e < nElec; e++ {
			v := [3]float64{Kt.At(3*i, e), Kt.At(3*i+1, e), Kt.At(3*i+2, e)}
			for d := 0; d < 3; d++ {
				Kt.Set(3*i+d, e, b[d][0]*v[0]+b[d][1]*v[1]+b[d][2]*v[2])
			}
		}
	}
	return Kt
}
