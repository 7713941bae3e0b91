package reg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dbrunet-lab/esicore/geom"
)

// ResolutionMatrix returns R = J*K, the Nsp3 x Nsp3 map from true
// dipole activity to estimated activity (§4.8): feeding K's column
// triplet for a source through J and reading off the response at
// every other source's row triplet is exactly this product's
// corresponding block.
func ResolutionMatrix(J, K *mat.Dense) *mat.Dense {
	jr, jc := J.Dims()
	kr, kc := K.Dims()
	if jc != kr {
		panic("reg: J and K have incompatible dimensions for J*K")
	}
	R := mat.NewDense(jr, kc, nil)
	R.Mul(J, K)
	return R
}

// PSFColumn returns the point-spread function of source index i: for
// every source j (0 <= j < nSp) the Frobenius norm of R's 3x3 block
// mapping source i's unit dipoles to source j's estimated triplet.
func PSFColumn(R *mat.Dense, nSp, i int) []float64 {
	psf := make([]float64, nSp)
	for j := 0; j < nSp; j++ {
		sum := 0.0
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				v := R.At(3*j+a, 3*i+b)
				sum += v * v
			}
		}
		psf[j] = math.Sqrt(sum)
	}
	return psf
}

// ResolutionSummary collapses a PSF column into a single weighted
// spatial radius around source i's own solution point: the PSF-weighted
// second moment of distance, sqrt(sum_j psf_j*dist(p_j,p_i)^2 /
// sum_j psf_j). A tightly focal inverse operator has psf concentrated
// at j==i and yields a small radius; a blurred one yields a large
// radius. Returns 0 if the PSF column is entirely zero (e.g. a
// rejected source).
func ResolutionSummary(psf []float64, points *geom.Pset, i int) float64 {
	total := 0.0
	for _, v := range psf {
		total += v
	}
	if total == 0 {
		return 0
	}
	pi := points.Points[i]
	moment := 0.0
	for j, v := range psf {
		d := pi.Dist(points.Points[j])
		moment += v * d * d
	}
	return math.Sqrt(moment / total)
}
