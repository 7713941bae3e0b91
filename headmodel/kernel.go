package headmodel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// freeSpacePotential is the textbook potential at re due to a current
// dipole of moment p at r0 in an infinite homogeneous medium of
// conductivity sigma: V = (1/4*pi*sigma) * p.(re-r0) / |re-r0|^3. This
// is the §4.5 "1-shell exact spherical/vector" baseline family; 3-shell
// Ary and N-shell Legendre both apply a boundary correction on top of
// it rather than recomputing it from scratch.
func freeSpacePotential(sigma float64, r0, re, p r3.Vec) float64 {
	d := r3.Sub(re, r0)
	dn := r3.Norm(d)
	if dn == 0 {
		return 0
	}
	return r3.Dot(p, d) / (4 * math.Pi * sigma * dn * dn * dn)
}

// aryCorrection computes the §4.5 3-shell Ary radial/tangential
// rescaling factors for a dipole at radial depth |r0| inside a sphere
// of outer radius rOuter and inner (brain) radius rBrain, given the
// conductivity ratio xi = sigma_brain/sigma_skull. The radial
// component of the dipole is rescaled by radialFactor, the tangential
// components by tangentialFactor (Ary, Klein & Fender 1981: thin
// resistive shells bend radial current less than tangential current).
func aryCorrection(xi, rOuter, rBrain, r0Norm float64) (radialFactor, tangentialFactor float64) {
	depth := r0Norm / rBrain
	if depth > 1 {
		depth = 1
	}
	shellRatio := rBrain / rOuter
	radialFactor = 1 + (xi-1)*shellRatio*depth
	tangentialFactor = 1 + 0.5*(xi-1)*shellRatio*depth
	return radialFactor, tangentialFactor
}

// legendreTermWeight computes the n-th Legendre series coefficient
// f_n(xi, rInner, rOuter) of §4.5's N-shell exact spherical series for
// a two-conductivity (brain/skull) approximation of the remaining
// shells: f_n grows more attenuating with n as the effective shell
// gets more resistive, matching the series' well-known (2n+1)-scaled,
// xi-damped form.
func legendreTermWeight(n int, xi, rInner, rOuter float64) float64 {
	ratio := rInner / rOuter
	damp := math.Pow(xi, float64(n)/float64(n+1))
	return float64(2*n+1) / float64(n) * math.Pow(ratio, float64(n-1)) * damp
}

// legendrePolynomialDerivative returns P_n'(cosGamma) via the standard
// three-term recurrence for Legendre polynomials, differentiated once.
func legendrePolynomialDerivative(n int, x float64) float64 {
	if n == 0 {
		return 0
	}
	pPrev, pCurr := 1.0, x
	dPrev, dCurr := 0.0, 1.0
	for k := 2; k <= n; k++ {
		pNext := ((2*float64(k)-1)*x*pCurr - (float64(k)-1)*pPrev) / float64(k)
		dNext := dPrev + (2*float64(k)-1)*pCurr
		pPrev, pCurr = pCurr, pNext
		dPrev, dCurr = dCurr, dNext
	}
	return dCurr
}

// legendreSeriesResult reports how many terms the §4.5 N-shell series
// ran before stopping, for diagnostics (BuildReport.MaxLegendreTerm).
type legendreSeriesResult struct {
	value float64
	terms int
}

// nShellPotential accumulates the §4.5 Legendre series for a dipole at
// radial depth |r0| under a two-conductivity (brain/skull) effective
// shell with outer radius rOuter and brain radius rBrain, stopping
// once the relative change of the running sum falls below convergence
// (but never before MinLegendreTerms terms), bounded above by
// NumLegendreTermsAryMax.
func nShellPotential(xi, rOuter, rBrain, convergence float64, r0, re, moment r3.Vec) legendreSeriesResult {
	r0n := r3.Norm(r0)
	ren := r3.Norm(re)
	if r0n == 0 || ren == 0 {
		return legendreSeriesResult{}
	}
	cosGamma := r3.Dot(r0, re) / (r0n * ren)

	sum := 0.0
	n := 1
	for ; n <= NumLegendreTermsAryMax; n++ {
		term := legendreTermWeight(n, xi, rBrain, rOuter) * legendrePolynomialDerivative(n, cosGamma)
		next := sum + term
		if n >= MinLegendreTerms && sum != 0 {
			if math.Abs(term)/math.Abs(sum) < convergence {
				sum = next
				break
			}
		}
		sum = next
	}
	if n > NumLegendreTermsAryMax {
		n = NumLegendreTermsAryMax
	}

	// The series gives the radial weighting of the surface potential;
	// project the dipole moment onto the source-to-electrode direction
	// to recover the scalar contribution, matching the 1/3-shell
	// kernels' use of p.(re-r0)-style projection.
	d := r3.Sub(re, r0)
	dn := r3.Norm(d)
	if dn == 0 {
		return legendreSeriesResult{terms: n}
	}
	proj := r3.Dot(moment, d) / dn
	return legendreSeriesResult{value: sum * proj / (4 * math.Pi * rOuter * rOuter), terms: n}
}
