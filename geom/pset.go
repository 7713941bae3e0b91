package geom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Pset is an ordered point set.
type Pset struct {
	Points []Point
}

// NewPset wraps points as a Pset, leaving their Index fields untouched.
func NewPset(points []Point) *Pset { return &Pset{Points: points} }

// Len returns the number of points.
func (p *Pset) Len() int { return len(p.Points) }

// Box returns the axis-aligned bounding box of the point set. Box panics
// on an empty set: an empty point set has no meaningful bounding box and
// callers are expected to have validated Nsp/Nelec > 0 already (§7
// InputInvalid).
func (p *Pset) Box() r3.Box {
	if len(p.Points) == 0 {
		panic("geom: Box of empty point set")
	}
	min, max := p.Points[0].Vec, p.Points[0].Vec
	for _, pt := range p.Points[1:] {
		v := pt.Vec
		min = r3.Vec{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = r3.Vec{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return r3.Box{Min: min, Max: max}
}

// Centroid returns the arithmetic mean of all points.
func (p *Pset) Centroid() r3.Vec {
	var sum r3.Vec
	for _, pt := range p.Points {
		sum = r3.Add(sum, pt.Vec)
	}
	return r3.Scale(1/float64(len(p.Points)), sum)
}

// Medoid returns the point in the set closest (in total distance) to
// every other point — the discrete, non-interpolated analogue of the
// centroid. The inverse-center fusion (C4) anchors its fits on
// Centroid, not Medoid.
func (p *Pset) Medoid() Point {
	best := 0
	bestSum := math.Inf(1)
	for i, pi := range p.Points {
		sum := 0.0
		for j, pj := range p.Points {
			if i == j {
				continue
			}
			sum += pi.Dist(pj)
		}
		if sum < bestSum {
			bestSum, best = sum, i
		}
	}
	return p.Points[best]
}

// Step returns the median, over all points, of each point's distance to
// its nearest other point. This is the "step" used throughout C5/C6 to
// scale neighborhood radii to the density of the point cloud.
func (p *Pset) Step() float64 {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	nearest := make([]float64, n)
	for i, pi := range p.Points {
		best := math.Inf(1)
		for j, pj := range p.Points {
			if i == j {
				continue
			}
			if d := pi.Dist(pj); d < best {
				best = d
			}
		}
		nearest[i] = best
	}
	sort.Float64s(nearest)
	return stat.Quantile(0.5, stat.Empirical, nearest, nil)
}

// Downsample returns a new Pset of at most n points, selected by a
// uniform stride over the original ordering. Original indices are
// preserved so the result can still be mapped back to full-resolution
// rows/columns.
func (p *Pset) Downsample(n int) *Pset {
	if n <= 0 || n >= len(p.Points) {
		out := make([]Point, len(p.Points))
		copy(out, p.Points)
		return NewPset(out)
	}
	stride := float64(len(p.Points)) / float64(n)
	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * stride)
		if idx >= len(p.Points) {
			idx = len(p.Points) - 1
		}
		out = append(out, p.Points[idx])
	}
	return NewPset(out)
}

// Translate returns a new Pset with every point shifted by t, preserving
// original indices. This implements the "points += translation" half of
// the inverse-center convention (§4.4): callers apply the fused
// translation to every point set referred to the new origin.
func (p *Pset) Translate(t r3.Vec) *Pset {
	out := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = Point{Vec: r3.Add(pt.Vec, t), Index: pt.Index}
	}
	return NewPset(out)
}
