package inverse

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// NormalizedLaplacian builds the §4.7 LORETA discrete Laplacian B over
// n solution points from the neighborhood graph ng: for each edge
// (i,j), A1[i][j] = A1[j][i] = 1/deg(i); D = diag(row sums of A1); A0 =
// 0.5*(I + D^-1)*A1, i.e. each row i of A1 scaled by 0.5*(1+1/D_i); B =
// A0 - I. A node with zero degree (isolated, or absent from ng) has
// D_i = 0, so its entire A0 row is zero and B's diagonal there is -1.
func NormalizedLaplacian(ng *simple.UndirectedGraph, n int) *mat.Dense {
	a1 := mat.NewDense(n, n, nil)
	for _, e := range graph.EdgesOf(ng.Edges()) {
		i, j := int(e.From().ID()), int(e.To().ID())
		deg := ng.From(e.From().ID()).Len()
		if deg == 0 {
			continue
		}
		w := 1 / float64(deg)
		a1.Set(i, j, w)
		a1.Set(j, i, w)
	}

	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		rowSum := 0.0
		for j := 0; j < n; j++ {
			rowSum += a1.At(i, j)
		}
		rowScale := 0.0
		if rowSum != 0 {
			rowScale = 0.5 * (1 + 1/rowSum)
		}
		for j := 0; j < n; j++ {
			v := rowScale * a1.At(i, j)
			if i == j {
				v -= 1
			}
			b.Set(i, j, v)
		}
	}
	return b
}
