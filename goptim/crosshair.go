package goptim

// crossHairState implements the Cross-Hair method (§4.3): sweep each
// axis independently while holding the others at their current value,
// binning consecutive sub-steps by mean, committing the argmin bin
// before moving to the next axis. Unlike Box-Scan it returns only the
// final single-point evaluation, not the full sweep.
type crossHairState struct{}

func (crossHairState) step(params []*Param, evaluate func([]float64) float64) ([]float64, []float64) {
	vals := make([]float64, len(params))
	for i, p := range params {
		vals[i] = p.Value
	}
	trial := make([]float64, len(params))

	for d, p := range params {
		n, s := p.Steps, p.SubSteps
		samples := linspace(p.Min, p.Max, n*s)
		binSums := make([]float64, n)
		for i, sample := range samples {
			copy(trial, vals)
			trial[d] = sample
			cost := evaluate(trial)
			binSums[i/s] += cost
		}
		for i := range binSums {
			binSums[i] /= float64(s)
		}
		best := argmin(binSums)
		binWidth := p.Range() / float64(n)
		center := p.Min + (float64(best)+0.5)*binWidth
		vals[d] = center
		p.zoomAround(center)
	}

	finalCost := evaluate(vals)
	return vals, []float64{finalCost}
}
