// Package center implements the inverse-center fusion of §4.4 (C4):
// drive the geometry fitter (fit) with the global optimizer (goptim)
// across several shape-fit variants, then fuse their translations by
// per-component median (P8: robust to any single outlier variant).
package center

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/dbrunet-lab/esicore/fit"
	"github.com/dbrunet-lab/esicore/geom"
	"github.com/dbrunet-lab/esicore/goptim"
)

// Shape selects which implicit surface a Variant fits: a sphere (one
// free scale) or an ellipsoid (three free scales plus one rotation).
type Shape int

const (
	BestFittingSphere Shape = iota
	BestFittingEllipsoid
)

// Variant is one of the fit runs §4.4 fuses together.
type Variant struct {
	Name      string
	Reference *geom.Pset
	Shape     Shape
}

// MinSolutionPointsForFit is the §4.4 threshold below which the
// solution-points BFS variant is skipped as too sparse to fit reliably.
const MinSolutionPointsForFit = 2000

// DefaultVariants builds the standard four-variant ensemble: head
// surface (BFE), electrodes (BFS), electrodes (BFE), and solution
// points (BFS, only when there are enough of them).
func DefaultVariants(head, electrodes, solutionPoints *geom.Pset) []Variant {
	variants := []Variant{
		{Name: "head BFE", Reference: head, Shape: BestFittingEllipsoid},
		{Name: "electrodes BFS", Reference: electrodes, Shape: BestFittingSphere},
		{Name: "electrodes BFE", Reference: electrodes, Shape: BestFittingEllipsoid},
	}
	if solutionPoints != nil && solutionPoints.Len() >= MinSolutionPointsForFit {
		variants = append(variants, Variant{Name: "solution points BFS", Reference: solutionPoints, Shape: BestFittingSphere})
	}
	return variants
}

// stepSchedule is the §4.4 preset: "~5 steps, 2 sub-steps, zoom 0.75".
const (
	presetSteps    = 5
	presetSubSteps = 2
	presetZoom     = 0.75
)

func buildGroup(shape Shape, searchRadius float64) *goptim.Group {
	p := func(kind goptim.Kind, lo, hi, value float64) *goptim.Param {
		return &goptim.Param{Kind: kind, Min: lo, Max: hi, Value: value, Steps: presetSteps, SubSteps: presetSubSteps, Zoom: presetZoom}
	}
	params := []*goptim.Param{
		p(fit.TranslateX, -searchRadius, searchRadius, 0),
		p(fit.TranslateY, -searchRadius, searchRadius, 0),
		p(fit.TranslateZ, -searchRadius, searchRadius, 0),
	}
	switch shape {
	case BestFittingSphere:
		params = append(params, p(fit.Scale, searchRadius*0.1, searchRadius*2, searchRadius))
	case BestFittingEllipsoid:
		params = append(params,
			p(fit.ScaleX, 0.5, 2, 1),
			p(fit.ScaleY, 0.5, 2, 1),
			p(fit.ScaleZ, 0.5, 2, 1),
			p(fit.Scale, searchRadius*0.1, searchRadius*2, searchRadius),
			p(fit.RotateZ, -0.3, 0.3, 0),
		)
	}
	return &goptim.Group{Params: params}
}

// fitOne runs one variant's optimization and returns the inverse-center
// point it converged to (the model's fitted absolute center, in the
// reference point set's original coordinates).
func fitOne(v Variant) r3.Vec {
	c := v.Reference.Centroid()
	box := v.Reference.Box()
	size := box.Size()
	searchRadius := (absf(size.X) + absf(size.Y) + absf(size.Z)) / 3
	if searchRadius == 0 {
		searchRadius = 1
	}

	model := fit.Model{Center: c}
	group := buildGroup(v.Shape, searchRadius)
	engine := goptim.NewEngine([]*goptim.Group{group}, model.Cost(v.Reference), goptim.Settings{
		Method:             goptim.BoxScan,
		Strategy:           goptim.Global,
		RequestedPrecision: 1e-4,
		MaxIterations:      200,
	})
	engine.Run()

	offset := r3.Vec{}
	for _, p := range group.Params {
		switch p.Kind {
		case fit.TranslateX:
			offset.X = p.Value
		case fit.TranslateY:
			offset.Y = p.Value
		case fit.TranslateZ:
			offset.Z = p.Value
		}
	}
	return r3.Add(c, offset)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Result is what Fuse returns: the translation to apply to every point
// set so the fused inverse center becomes the origin (points +=
// Translation, and any already-known center -= it), plus each variant's
// fitted center.
type Result struct {
	Translation r3.Vec
	PerVariant  []r3.Vec
}

// Fuse computes the §4.4 ensemble: each variant's absolute fitted
// center is collected, then the per-component median across variants
// gives the fused inverse center; the translation is its negation.
func Fuse(variants []Variant) Result {
	centers := make([]r3.Vec, len(variants))
	for i, v := range variants {
		centers[i] = fitOne(v)
	}
	fused := medianVec(centers)
	return Result{
		Translation: r3.Scale(-1, fused),
		PerVariant:  centers,
	}
}

func medianVec(vs []r3.Vec) r3.Vec {
	xs := make([]float64, len(vs))
	ys := make([]float64, len(vs))
	zs := make([]float64, len(vs))
	for i, v := range vs {
		xs[i], ys[i], zs[i] = v.X, v.Y, v.Z
	}
	return r3.Vec{X: median(xs), Y: median(ys), Z: median(zs)}
}

func median(xs []float64) float64 {
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	return stat.Quantile(0.5, stat.Empirical, cp, nil)
}
