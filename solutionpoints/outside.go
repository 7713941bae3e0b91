package solutionpoints

import "github.com/dbrunet-lab/esicore/geom"

// OutsideHead flags solution points that lie outside the head's convex
// bounding sphere: farther from the head surface's centroid than any
// head-surface point is. A solution point built from a coarse brain
// segmentation can occasionally land outside the actual scalp surface
// after the inverse-center translation is applied; those points have no
// meaningful lead-field column and must be rejected before C5 runs
// (§4.5 "Failure semantics").
func OutsideHead(solutionPoints, head *geom.Pset) Rejection {
	centroid := head.Centroid()
	maxRadius := 0.0
	for _, hp := range head.Points {
		if d := hp.Dist(geom.Point{Vec: centroid}); d > maxRadius {
			maxRadius = d
		}
	}

	rejected := Rejection{}
	for _, sp := range solutionPoints.Points {
		if sp.Dist(geom.Point{Vec: centroid}) > maxRadius {
			rejected[sp.Index] = true
		}
	}
	return rejected
}
