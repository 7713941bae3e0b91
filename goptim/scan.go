package goptim

// boxScanState implements the Box-Scan method (§4.3): visit the full
// product grid of sub-step samples, downsample into Steps-many bins per
// dimension by summing, rescale by 1/(product of SubSteps), and zoom
// every param's window in around the winning bin's center.
//
// Box-Scan carries no state of its own between iterations beyond the
// window each Param already keeps in its Min/Max fields.
type boxScanState struct{}

func (boxScanState) step(params []*Param, evaluate func([]float64) float64) ([]float64, []float64) {
	m := len(params)
	fineCounts := make([]int, m)
	binCounts := make([]int, m)
	samples := make([][]float64, m)
	for d, p := range params {
		fineCounts[d] = p.Steps * p.SubSteps
		binCounts[d] = p.Steps
		samples[d] = linspace(p.Min, p.Max, fineCounts[d])
	}

	totalFine := product(fineCounts)
	totalBins := product(binCounts)
	binSums := make([]float64, totalBins)
	evals := make([]float64, 0, totalFine)

	fineIdx := make([]int, m)
	binIdx := make([]int, m)
	vals := make([]float64, m)
	for i := 0; i < totalFine; i++ {
		mixedRadixDecode(i, fineCounts, fineIdx)
		for d := 0; d < m; d++ {
			vals[d] = samples[d][fineIdx[d]]
			binIdx[d] = fineIdx[d] / params[d].SubSteps
		}
		cost := evaluate(vals)
		evals = append(evals, cost)
		binSums[mixedRadixEncode(binIdx, binCounts)] += cost
	}

	subStepsProd := 1
	for _, p := range params {
		subStepsProd *= p.SubSteps
	}
	for i := range binSums {
		binSums[i] /= float64(subStepsProd)
	}

	best := argmin(binSums)
	mixedRadixDecode(best, binCounts, binIdx)

	newValues := make([]float64, m)
	for d, p := range params {
		binWidth := p.Range() / float64(p.Steps)
		newValues[d] = p.Min + (float64(binIdx[d])+0.5)*binWidth
	}

	// Zoom every param's window in around the new center for the next
	// iteration, per §4.3: "zoom in each parameter around that center by
	// multiplying its range by its zoom factor."
	for d, p := range params {
		p.zoomAround(newValues[d])
	}

	return newValues, evals
}
