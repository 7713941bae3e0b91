// Package progress defines the minimal multi-part progress gauge the
// rest of the pipeline reports to. A nil Gauge is always valid: every
// call site in this module checks for nil before calling out, so a
// caller that doesn't care about progress never has to provide a
// no-op implementation.
package progress

// Gauge receives scalar progress updates for a named part of a longer
// build (e.g. "lead field", "Reg 3 of 12"). Part identifies which
// concurrent part is reporting; fraction is in [0,1].
type Gauge interface {
	SetPart(part string, fraction float64)
	// Canceled reports whether the caller has asked the current build
	// to stop. Builders poll this only at regularization-loop
	// boundaries (§5 "Cancellation"), never inside a single
	// eigendecomposition or per-source loop.
	Canceled() bool
}

// Report calls g.SetPart if g is non-nil.
func Report(g Gauge, part string, fraction float64) {
	if g != nil {
		g.SetPart(part, fraction)
	}
}

// IsCanceled reports g.Canceled(), or false if g is nil.
func IsCanceled(g Gauge) bool {
	return g != nil && g.Canceled()
}
