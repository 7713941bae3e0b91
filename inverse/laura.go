package inverse

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/dbrunet-lab/esicore/geom"
)

// WeightedLaplacian builds the §4.7 LAURA distance-weighted graph
// Laplacian A = D - W over n solution points from ng, where
// W_ij = 1/||p_i-p_j||^power for each edge (i,j) and D = diag(row
// sums of W). Points not present in ng (isolated/rejected) get an
// all-zero row and column, diagonal included; NormalizedLaplacian
// instead puts -1 on the diagonal of zero-degree nodes.
func WeightedLaplacian(ng *simple.UndirectedGraph, points *geom.Pset, power float64) *mat.Dense {
	n := points.Len()
	w := mat.NewDense(n, n, nil)
	for _, e := range graph.EdgesOf(ng.Edges()) {
		i, j := int(e.From().ID()), int(e.To().ID())
		d := points.Points[i].Dist(points.Points[j])
		if d == 0 {
			continue
		}
		weight := 1 / math.Pow(d, power)
		w.Set(i, j, weight)
		w.Set(j, i, weight)
	}

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		rowSum := 0.0
		for j := 0; j < n; j++ {
			rowSum += w.At(i, j)
		}
		a.Set(i, i, rowSum)
		for j := 0; j < n; j++ {
			if i != j {
				a.Set(i, j, -w.At(i, j))
			}
		}
	}
	return a
}
