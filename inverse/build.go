package inverse

import (
	"math"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/dbrunet-lab/esicore/geom"
	"github.com/dbrunet-lab/esicore/num"
	"github.com/dbrunet-lab/esicore/reg"
)

// Input is the per-build context shared by every method (§4.7 common
// skeleton step 1-2).
type Input struct {
	K             *mat.Dense // Nelec x 3*Nsp
	Rejected      map[int]bool
	NeighborGraph *simple.UndirectedGraph // required for LORETA, LAURA
	Points        *geom.Pset              // required for LAURA (edge distances)
}

// Result holds the built inverse operators, one per regularization
// value, plus diagnostics for the caller to log.
type Result struct {
	Method          Method
	Regularizations []float64
	J               []*mat.Dense // each 3*Nsp x Nelec
	Degenerate      []bool       // per r, whether a PInv/LU fallback fired
}

// daleNoise is the tiny diagonal perturbation Dale's pivotal matrix
// adds for numerical conditioning (§4.7 "KKᵀ (with tiny noise)").
const daleNoise = 1e-10

// daleExponent is the per-source diagonal standardization power
// (§4.7's "scale row-triplet by 1/S_ii^0.25").
const daleExponent = 0.25

// Build runs the §4.7 common skeleton for method: clear rejected
// source columns from in.K, form the method-specific pivotal matrix,
// compute the regularization schedule from its largest eigenvalue, and
// solve for J(r) at every scheduled r.
func Build(method Method, in Input, opts Options) Result {
	nElec, nCol := in.K.Dims()
	if nCol%3 != 0 {
		panic("inverse: K must have a column count that is a multiple of 3")
	}
	nSp := nCol / 3

	K := clearRejectedColumns(in.K, in.Rejected, nSp)
	H := num.Centering(nElec)

	switch method {
	case MN:
		return buildSimple(method, K, H, opts, nElec, nSp, nil)
	case WMN:
		w := sourceWeights(K, nSp)
		return buildSimple(method, K, H, opts, nElec, nSp, w)
	case LORETA:
		if in.NeighborGraph == nil {
			panic("inverse: LORETA requires a non-nil NeighborGraph")
		}
		b := NormalizedLaplacian(in.NeighborGraph, nSp)
		w := sourceWeights(K, nSp)
		return buildKronAvoided(method, K, H, opts, nElec, nSp, w, b)
	case LAURA:
		if in.NeighborGraph == nil || in.Points == nil {
			panic("inverse: LAURA requires a non-nil NeighborGraph and Points")
		}
		a := WeightedLaplacian(in.NeighborGraph, in.Points, opts.lauraPower())
		w := sourceWeights(K, nSp)
		return buildKronAvoided(method, K, H, opts, nElec, nSp, w, a)
	case SLORETA:
		return buildSLORETA(K, H, opts, nElec, nSp)
	case ELORETA:
		return buildELORETA(K, H, opts, nElec, nSp)
	case Dale:
		return buildDale(K, H, opts, nElec, nSp)
	default:
		panic("inverse: unknown Method")
	}
}

// clearRejectedColumns returns a copy of K with every rejected source's
// three columns zeroed (§3 invariant).
func clearRejectedColumns(K *mat.Dense, rejected map[int]bool, nSp int) *mat.Dense {
	out := mat.DenseCopyOf(K)
	for i := 0; i < nSp; i++ {
		if !rejected[i] {
			continue
		}
		nElec, _ := out.Dims()
		for c := 0; c < 3; c++ {
			for e := 0; e < nElec; e++ {
				out.Set(e, 3*i+c, 0)
			}
		}
	}
	return out
}

// sourceWeights returns the WMN/LORETA/LAURA per-source weight
// w_i = 1/sqrt(column-energy_i), column-energy_i being the column
// triplet's squared-norm averaged over x,y,z (§4.7).
func sourceWeights(K *mat.Dense, nSp int) []float64 {
	w := make([]float64, nSp)
	for i := 0; i < nSp; i++ {
		energy := 0.0
		for c := 0; c < 3; c++ {
			for _, v := range colOf(K, 3*i+c) {
				energy += v * v
			}
		}
		energy /= 3
		if energy <= 0 {
			w[i] = 0
			continue
		}
		w[i] = 1 / math.Sqrt(energy)
	}
	return w
}

// interleave assembles T0 (3*Nsp x Nelec) from three per-dimension
// Nsp x Nelec blocks, row 3i+d coming from block[d]'s row i.
func interleave(block [3]*mat.Dense, nSp, nElec int) *mat.Dense {
	out := mat.NewDense(3*nSp, nElec, nil)
	for i := 0; i < nSp; i++ {
		for d := 0; d < 3; d++ {
			for e := 0; e < nElec; e++ {
				out.Set(3*i+d, e, block[d].At(i, e))
			}
		}
	}
	return out
}

// dimensionColumns extracts K's Nelec x Nsp sub-matrix for dipole
// component d (0=x,1=y,2=z): column i of the result is K's column
// 3*i+d.
func dimensionColumns(K *mat.Dense, d, nSp int) *mat.Dense {
	nElec, _ := K.Dims()
	out := mat.NewDense(nElec, nSp, nil)
	for i := 0; i < nSp; i++ {
		for e := 0; e < nElec; e++ {
			out.Set(e, i, K.At(e, 3*i+d))
		}
	}
	return out
}

// buildSimple implements MN (w == nil) and WMN (w != nil): T0 = Kᵀ or
// W²Kᵀ, M = K*T0, J(r) = T0*PInv(M + regv[r]*H).
func buildSimple(method Method, K *mat.Dense, H *mat.SymDense, opts Options, nElec, nSp int, w []float64) Result {
	T0 := weightedTranspose(K, w, nSp, nElec)
	M := mat.NewDense(nElec, nElec, nil)
	M.Mul(K, T0)
	return solveSchedule(method, T0, M, H, opts)
}

// weightedTranspose returns Kᵀ scaled per source-row-triplet by w_i^2
// (or plain Kᵀ when w is nil).
func weightedTranspose(K *mat.Dense, w []float64, nSp, nElec int) *mat.Dense {
	T0 := mat.DenseCopyOf(K.T())
	if w == nil {
		return T0
	}
	for i := 0; i < nSp; i++ {
		scale := w[i] * w[i]
		for d := 0; d < 3; d++ {
			for e := 0; e < nElec; e++ {
				T0.Set(3*i+d, e, T0.At(3*i+d, e)*scale)
			}
		}
	}
	return T0
}

// buildKronAvoided implements LORETA and LAURA: T0 = Winv*Kᵀ computed
// per spatial dimension via a shared LU factorization of (W LᵀL W),
// then M = K*T0 and the usual Tikhonov sweep at electrode scale.
func buildKronAvoided(method Method, K *mat.Dense, H *mat.SymDense, opts Options, nElec, nSp int, w []float64, laplacian *mat.Dense) Result {
	wll := mat.NewDense(nSp, nSp, nil)
	wll.Mul(laplacian.T(), laplacian)
	for i := 0; i < nSp; i++ {
		for j := 0; j < nSp; j++ {
			wll.Set(i, j, wll.At(i, j)*w[i]*w[j])
		}
	}
	sym := mat.NewSymDense(nSp, nil)
	for i := 0; i < nSp; i++ {
		for j := i; j < nSp; j++ {
			sym.SetSym(i, j, wll.At(i, j))
		}
	}

	rhs := make([]*mat.Dense, 3)
	for d := 0; d < 3; d++ {
		rhs[d] = mat.DenseCopyOf(dimensionColumns(K, d, nSp).T())
	}
	sol, ok := num.SolveSharedLU(sym, rhs)
	var block [3]*mat.Dense
	copy(block[:], sol)
	T0 := interleave(block, nSp, nElec)

	M := mat.NewDense(nElec, nElec, nil)
	M.Mul(K, T0)

	result := solveSchedule(method, T0, M, H, opts)
	if !ok {
		for i := range result.Degenerate {
			result.Degenerate[i] = true
		}
	}
	return result
}

// solveSchedule implements §4.7 steps 3-4 common to MN/WMN/LORETA/
// LAURA: lambdaMax from M, the regularization schedule, and J(r) =
// T0*PInv(M + regv[r]*H) for every r.
func solveSchedule(method Method, T0, M *mat.Dense, H *mat.SymDense, opts Options) Result {
	nElec, _ := M.Dims()
	sym := denseToSym(M, nElec)
	lambdaMax := num.LargestEigenvalue(sym)
	regv := reg.Schedule(lambdaMax, opts.NumRegularizations, opts.down(method))

	res := Result{Method: method, Regularizations: regv, J: make([]*mat.Dense, len(regv)), Degenerate: make([]bool, len(regv))}
	for r, lambda := range regv {
		shifted := addScaledSym(sym, H, lambda, nElec)
		pinv := num.PInv(shifted)
		J := mat.NewDense(T0.RawMatrix().Rows, nElec, nil)
		J.Mul(T0, pinv)
		res.J[r] = J
	}
	return res
}

func denseToSym(m *mat.Dense, n int) *mat.SymDense {
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	return sym
}

func addScaledSym(a *mat.SymDense, h *mat.SymDense, lambda float64, n int) *mat.SymDense {
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, a.At(i, j)+lambda*h.At(i, j))
		}
	}
	return out
}
