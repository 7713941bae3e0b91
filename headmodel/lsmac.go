package headmodel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// TissueMask reports, for a point in the same coordinate frame as the
// head model, which tissue index (if any) occupies it. It is the
// caller's volumetric segmentation; headmodel treats it as an opaque
// probe.
type TissueMask func(p r3.Vec) (tissueIndex int, ok bool)

// NewLSMACProbe returns a RadiusProbe that implements the Locally
// Spherical Model with Anatomical Constraints (§4.5): for an electrode
// direction from headCenter, it marches outward in step-sized
// increments from minRadius to maxRadius and returns the largest
// radius still classified as the outermost shell's tissue, i.e. the
// local skull-to-scalp interface distance along that ray. When mask
// never matches (a probe outside the segmented volume), it falls back
// to maxRadius.
func NewLSMACProbe(headCenter r3.Vec, mask TissueMask, outerTissue int, minRadius, maxRadius, step float64) RadiusProbe {
	return func(electrode r3.Vec) float64 {
		dir := r3.Sub(electrode, headCenter)
		dn := r3.Norm(dir)
		if dn == 0 {
			return maxRadius
		}
		rhat := r3.Scale(1/dn, dir)

		best := maxRadius
		found := false
		for r := minRadius; r <= maxRadius; r += math.Max(1e-6, step) {
			probe := r3.Add(headCenter, r3.Scale(r, rhat))
			tissue, ok := mask(probe)
			if ok && tissue == outerTissue {
				best = r
				found = true
			}
		}
		if !found {
			return maxRadius
		}
		return best
	}
}
