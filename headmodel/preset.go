package headmodel

import "fmt"

// RadiiModel selects how per-shell radii are obtained (§4.5).
type RadiiModel int

const (
	// RadiiGiven takes Preset.Radii literally.
	RadiiGiven RadiiModel = iota
	// RadiiFixedRatio derives inner radii from the outer radius by a
	// fixed ratio per shell, ignoring Preset.Radii.
	RadiiFixedRatio
	// RadiiModulatedRatio resolves radii exactly as RadiiFixedRatio does:
	// the ratios themselves are not scaled per electrode, and the only
	// per-electrode variation is the outer radius, which comes from the
	// LSMAC probe when one is given to Build (§4.5).
	RadiiModulatedRatio
)

// Family selects the forward-model family used to assemble K (§4.5).
type Family int

const (
	OneShellAnalytic Family = iota
	ThreeShellAry
	NShellLegendre
)

// NumLegendreTermsAryMax bounds the N-shell Legendre series (§4.5).
const NumLegendreTermsAryMax = 30

// MinLegendreTerms is the adaptive lower bound below which the series
// is never considered converged (§4.5).
const MinLegendreTerms = 15

// DefaultLegendreConvergence is the typical relative-change stopping
// tolerance for the Legendre series (§4.5).
const DefaultLegendreConvergence = 1e-8

// Preset describes an N-shell spherical head model: per-shell tissue
// indices, radii (outer to inner, the brain surface being shell L-1)
// and conductivities, plus the forward-model family to assemble K
// with.
type Preset struct {
	Family         Family
	Shells         int
	TissueIndices  []int
	RadiiModel     RadiiModel
	Radii          []float64 // length Shells, outer to inner
	Conductivities []float64 // length Shells, outer to inner
	FixedRatios    []float64 // length Shells-1, used when RadiiModel != RadiiGiven
	Convergence    float64   // Legendre series stopping tolerance; 0 -> DefaultLegendreConvergence
}

// validate checks the structural invariants of a Preset, panicking on
// a programmer error (§2.2: dimension mismatches are panics, matching
// mat.Dense's own convention).
func (p *Preset) validate() {
	if p.Shells < 1 {
		panic("headmodel: Preset.Shells must be >= 1")
	}
	if len(p.Conductivities) != p.Shells {
		panic(fmt.Sprintf("headmodel: Preset.Conductivities has %d entries, want %d", len(p.Conductivities), p.Shells))
	}
	if p.RadiiModel == RadiiGiven && len(p.Radii) != p.Shells {
		panic(fmt.Sprintf("headmodel: Preset.Radii has %d entries, want %d", len(p.Radii), p.Shells))
	}
	if p.RadiiModel != RadiiGiven && len(p.FixedRatios) != p.Shells-1 {
		panic(fmt.Sprintf("headmodel: Preset.FixedRatios has %d entries, want %d", len(p.FixedRatios), p.Shells-1))
	}
}

// resolvedRadii returns the per-shell radii for a given outer radius,
// honoring RadiiModel.
func (p *Preset) resolvedRadii(outer float64) []float64 {
	if p.RadiiModel == RadiiGiven {
		return p.Radii
	}
	radii := make([]float64, p.Shells)
	radii[0] = outer
	for i := 1; i < p.Shells; i++ {
		radii[i] = radii[i-1] * p.FixedRatios[i-1]
	}
	return radii
}

// convergence returns the Legendre stopping tolerance, defaulting when
// unset.
func (p *Preset) convergence() float64 {
	if p.Convergence <= 0 {
		return DefaultLegendreConvergence
	}
	return p.Convergence
}

// brainConductivity and skullConductivity return the innermost
// (brain) and outermost-but-one (skull) shell conductivities used by
// the Ary/Legendre ratio Xi = sigma_brain / sigma_skull.
func (p *Preset) brainConductivity() float64 { return p.Conductivities[p.Shells-1] }
func (p *Preset) xi() float64 {
	if p.Shells < 2 {
		return 1
	}
	return p.brainConductivity() / p.Conductivities[p.Shells-2]
}
