package reg

import "math"

// Schedule computes the §4.8 regularization values regv[r] = r *
// lambdaMax / down for r in [0, numReg). lambdaMax that is NaN or
// infinite (a degenerate pivotal matrix) is clamped to 1 so the
// schedule still advances linearly rather than producing NaN
// solutions downstream. regv[0] is always 0 (no regularization),
// matching the scenario-1/sLORETA self-test convention of evaluating
// r=0.
func Schedule(lambdaMax float64, numReg int, down float64) []float64 {
	if math.IsNaN(lambdaMax) || math.IsInf(lambdaMax, 0) {
		lambdaMax = 1
	}
	regv := make([]float64, numReg)
	for r := 0; r < numReg; r++ {
		regv[r] = float64(r) * lambdaMax / down
	}
	return regv
}
