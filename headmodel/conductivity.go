// Package headmodel implements the lead-field builder of §4.5 (C5): an
// N-shell spherical (LSMAC) head model producing K ∈ ℝ^(Nelec x 3Nsp)
// from a preset describing shell count, tissue indices and radii.
package headmodel

import "math"

// SkullConductivity returns the age-dependent whole-skull conductivity
// in S/m (§4.5): σ_skull(age) = 0.033 * exp(-0.01846*age).
func SkullConductivity(age float64) float64 {
	return 0.033 * math.Exp(-0.01846*age)
}

// SpongyFraction is the fraction of the skull's thickness taken by
// spongy bone in the §4.5 serial-resistance split.
const SpongyFraction = 0.55

// SpongyToCompactRatio is the resistivity ratio between spongy and
// compact bone in the same split.
const SpongyToCompactRatio = 3.6

// SplitSkullConductivity decomposes a whole-skull conductivity into its
// compact and spongy layer conductivities under a two-layer
// serial-resistance model: a SpongyFraction of the skull's thickness is
// spongy bone (resistivity SpongyToCompactRatio times higher than
// compact) and the remainder is compact bone, the two layers in series
// recombining to sigmaSkull.
func SplitSkullConductivity(sigmaSkull float64) (compact, spongy float64) {
	// Let compact resistivity = rho, spongy = ratio*rho. A layer of
	// fractional thickness f has resistance proportional to f*rho_layer.
	// Total resistance R_total ∝ (1-f)*rho + f*ratio*rho = rho*((1-f)+f*ratio).
	// sigma_skull = 1/R_total (up to the shared thickness/area factor),
	// so rho = 1 / (((1-f)+f*ratio) * sigma_skull), with f = SpongyFraction.
	f := SpongyFraction
	ratio := SpongyToCompactRatio
	rho := 1 / (((1 - f) + f*ratio) * sigmaSkull)
	compact = 1 / rho
	spongy = 1 / (ratio * rho)
	return compact, spongy
}
