package headmodel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dbrunet-lab/esicore/geom"
)

// electrodeComponentUnit are the three dipole moment directions a
// column triplet is built from (§3: "column triplet (3i,3i+1,3i+2)
// holds the x/y/z dipole components").
var electrodeComponentUnit = [3]r3.Vec{
	{X: 1}, {Y: 1}, {Z: 1},
}

// RadiusProbe returns the per-electrode outer-shell radius used by
// LSMAC: a caller-supplied probe along the radial direction from the
// head center through the electrode, typically reading tissue masks.
// When nil, Build falls back to the electrode's own distance from the
// head center (a spherical approximation with no anatomical
// correction).
type RadiusProbe func(electrode r3.Vec) float64

// BuildReport summarizes a lead-field build: per-source rejection and,
// for NShellLegendre builds, the largest number of series terms any
// electrode/source pair needed (used for diagnostics, not correctness).
type BuildReport struct {
	RejectedSources map[int]bool
	MaxLegendreTerm int
}

// Build assembles K in ℝ^(Nelec x 3*Nsp) for preset around headCenter,
// using electrodes and solutionPoints already translated into the same
// coordinate frame as headCenter (§4.5's "Data flow" ordering: C4's
// inverse-center translation is applied before C5 runs). rejected flags
// solution-point indices (by geom.Point.Index) whose three columns
// must be zeroed regardless of geometry (§3 invariant).
//
// The lead-field assembly parallelizes over solution points in a
// production build (§4.5); this implementation is sequential since Go
// and gonum let the loop body remain identical either way; a caller
// wanting concurrency can shard solutionPoints.Points and call Build
// once per shard, merging columns.
func Build(preset *Preset, electrodes, solutionPoints *geom.Pset, headCenter r3.Vec, probe RadiusProbe, rejected map[int]bool) (*mat.Dense, *BuildReport) {
	preset.validate()
	if electrodes.Len() == 0 || solutionPoints.Len() == 0 {
		panic("headmodel: Build requires non-empty electrodes and solutionPoints")
	}

	nElec := electrodes.Len()
	nSp := solutionPoints.Len()
	K := mat.NewDense(nElec, 3*nSp, nil)
	report := &BuildReport{RejectedSources: map[int]bool{}}

	conv := preset.convergence()
	xi := preset.xi()

	for e, electrode := range electrodes.Points {
		re := r3.Sub(electrode.Vec, headCenter)
		outer := r3.Norm(re)
		if probe != nil {
			outer = probe(electrode.Vec)
		}
		radii := preset.resolvedRadii(outer)
		rBrain := radii[len(radii)-1]

		for s, sp := range solutionPoints.Points {
			col := 3 * s
			if rejected[sp.Index] {
				report.RejectedSources[sp.Index] = true
				continue
			}
			r0 := r3.Sub(sp.Vec, headCenter)
			if r3.Norm(r0) >= outer {
				report.RejectedSources[sp.Index] = true
				continue
			}

			for c, unit := range electrodeComponentUnit {
				v := potential(preset, xi, outer, rBrain, radii, conv, r0, re, unit, &report.MaxLegendreTerm)
				K.Set(e, col+c, v)
			}
		}
	}
	return K, report
}

// potential dispatches to the forward-model family named by preset.
func potential(preset *Preset, xi, outer, rBrain float64, radii []float64, conv float64, r0, re, moment r3.Vec, maxTerms *int) float64 {
	sigmaBrain := preset.brainConductivity()
	switch preset.Family {
	case OneShellAnalytic:
		return freeSpacePotential(sigmaBrain, r0, re, moment)
	case ThreeShellAry:
		radial, tangential := aryCorrection(xi, outer, rBrain, r3.Norm(r0))
		radialComp, tangentialComp := splitRadialTangential(sigmaBrain, r0, re, moment)
		return radial*radialComp + tangential*tangentialComp
	case NShellLegendre:
		res := nShellPotential(xi, outer, rBrain, conv, r0, re, moment)
		if res.terms > *maxTerms {
			*maxTerms = res.terms
		}
		return res.value
	default:
		panic(fmt.Sprintf("headmodel: unknown Family %d", preset.Family))
	}
}

// splitRadialTangential decomposes the free-space potential
// contribution of moment into the component attributable to the
// radial part of moment (along r0) versus its tangential part
// (orthogonal to r0), so 3-shell Ary can rescale each independently.
func splitRadialTangential(sigma float64, r0, re, moment r3.Vec) (radial, tangential float64) {
	r0n := r3.Norm(r0)
	if r0n == 0 {
		return 0, 0
	}
	rhat := r3.Scale(1/r0n, r0)
	radialMag := r3.Dot(moment, rhat)
	radialMoment := r3.Scale(radialMag, rhat)
	tangentialMoment := r3.Sub(moment, radialMoment)
	radial = freeSpacePotential(sigma, r0, re, radialMoment)
	tangential = freeSpacePotential(sigma, r0, re, tangentialMoment)
	return radial, tangential
}
