// Package fit implements the parametric surface fitter of §4.2 (C2):
// FitModelOnPoints deforms an implicit potatoid (sphere → ellipsoid →
// pinched/flattened ellipsoid) and scores it by summed squared distance
// from a reference point cloud to that surface.
package fit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dbrunet-lab/esicore/geom"
	"github.com/dbrunet-lab/esicore/goptim"
)

// These constants enumerate the composable deformation parameters of
// §4.2. They are goptim.Kind values so a Model's parameters can be
// searched directly by a goptim.Engine.
const (
	TranslateX goptim.Kind = iota
	TranslateY
	TranslateZ
	Scale
	ScaleX
	ScaleY
	ScaleZ
	RotateX
	RotateY
	RotateZ
	SinusPinch
	Flatten
)

// Model is the implicit surface fit against a reference point cloud.
// Surface kind follows which parameters are active: Scale alone gives a
// sphere, the three ScaleX/Y/Z give an ellipsoid, and SinusPinch/Flatten
// on top of either give the "potatoid" the original calls out.
type Model struct {
	// Center is the surface's un-translated origin; TranslateX/Y/Z are
	// added on top of it, so center fusion (C4) can re-anchor a model
	// without touching the reference point cloud.
	Center r3.Vec
}

// defaultValue returns the value a parameter takes when absent from a
// Snapshot: identity scale, zero translation/rotation/deformation.
func defaultValue(k goptim.Kind) float64 {
	switch k {
	case Scale, ScaleX, ScaleY, ScaleZ:
		return 1
	default:
		return 0
	}
}

func get(s goptim.Snapshot, k goptim.Kind) float64 {
	if v, ok := s[k]; ok {
		return v
	}
	return defaultValue(k)
}

// localCoordinate maps a reference-surface point into the model's local
// frame: translate, un-rotate, un-scale, then undo the pinch/flatten
// deformation, so that a point lying exactly on the deformed surface
// maps to something at unit radius from the origin.
func (m Model) localCoordinate(s goptim.Snapshot, p r3.Vec) r3.Vec {
	t := r3.Vec{X: get(s, TranslateX), Y: get(s, TranslateY), Z: get(s, TranslateZ)}
	v := r3.Sub(p, r3.Add(m.Center, t))

	if a := get(s, RotateX); a != 0 {
		v = r3.Rotate(v, -a, r3.Vec{X: 1})
	}
	if a := get(s, RotateY); a != 0 {
		v = r3.Rotate(v, -a, r3.Vec{Y: 1})
	}
	if a := get(s, RotateZ); a != 0 {
		v = r3.Rotate(v, -a, r3.Vec{Z: 1})
	}

	base := get(s, Scale)
	sx := base * get(s, ScaleX)
	sy := base * get(s, ScaleY)
	sz := base * get(s, ScaleZ)
	v = r3.Vec{X: v.X / safeDiv(sx), Y: v.Y / safeDiv(sy), Z: v.Z / safeDiv(sz)}

	if flatten := get(s, Flatten); flatten != 0 {
		v.Z *= 1 - flatten
	}
	if pinch := get(s, SinusPinch); pinch != 0 {
		theta := math.Atan2(v.Y, v.X)
		radialFactor := 1 + pinch*math.Sin(2*theta)
		v.X *= radialFactor
		v.Y *= radialFactor
	}

	return v
}

func safeDiv(x float64) float64 {
	if x == 0 {
		return 1
	}
	return x
}

// Cost is the goptim.CostFunc for this model against reference: the sum
// of squared distances from each reference point, mapped into local
// coordinates, to the unit sphere (§4.2).
func (m Model) Cost(reference *geom.Pset) goptim.CostFunc {
	return func(s goptim.Snapshot) float64 {
		total := 0.0
		for _, pt := range reference.Points {
			v := m.localCoordinate(s, pt.Vec)
			r := math.Sqrt(r3.Dot(v, v))
			d := r - 1
			total += d * d
		}
		if math.IsNaN(total) || math.IsInf(total, 0) {
			return goptim.LargeCost
		}
		return total
	}
}
