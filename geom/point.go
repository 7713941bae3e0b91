// Package geom implements the point-set data model of §3: individual
// points carrying their original index, and ordered point sets exposing
// the aggregate queries (bounding box, step, medoid, centroid,
// downsampling) the rest of the pipeline needs.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a single 3-vector carrying the index it had in whatever input
// sequence it was read from. The index survives point-set operations
// that subsample or move points (Downsample, Translate) so that downstream code
// can always map a point back to its original row/column.
type Point struct {
	Vec   r3.Vec
	Index int
}

// NewPoint returns a Point at (x, y, z) with the given original index.
func NewPoint(x, y, z float64, index int) Point {
	return Point{Vec: r3.Vec{X: x, Y: y, Z: z}, Index: index}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) r3.Vec { return r3.Sub(p.Vec, q.Vec) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	d := r3.Sub(p.Vec, q.Vec)
	return math.Sqrt(r3.Dot(d, d))
}
