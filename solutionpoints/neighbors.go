// Package solutionpoints implements the solution-point support of §4.6
// (C6): the neighborhood graph over classes 6/18/26, adaptive 26→18
// reduction, isolated-point rejection, and outside-head detection.
package solutionpoints

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/dbrunet-lab/esicore/geom"
)

// Class is a neighborhood class: the maximum node degree it admits.
type Class int

const (
	Class6  Class = 6
	Class18 Class = 18
	Class26 Class = 26
)

// midDistanceCut returns the §3 radius multiplier for a neighborhood
// class: radius = step * midDistanceCut(class).
func midDistanceCut(c Class) float64 {
	switch c {
	case Class6:
		return 1.207
	case Class18:
		return 1.573
	case Class26:
		return 1.866
	default:
		panic("solutionpoints: unknown neighborhood class")
	}
}

type candidate struct {
	i, j int
	dist float64
}

// candidatesWithin returns every unordered pair of point indices (into
// points.Points) whose distance is <= radius, ascending by distance.
// The scan is the O(Nsp^2) adjacency scan of §4.6/§5; production
// builds parallelize this over the outer index, which is safe because
// each outer row's candidates are independent.
func candidatesWithin(points *geom.Pset, radius float64) []candidate {
	n := points.Len()
	var out []candidate
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := points.Points[i].Dist(points.Points[j])
			if d <= radius {
				out = append(out, candidate{i, j, d})
			}
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].dist < out[b].dist })
	return out
}

// BuildGraph constructs the mutual-nearest-neighbor graph for class:
// an edge (i,j) is kept only if j is among i's `capacity` closest
// within-radius candidates AND i is among j's, which is both
// trivially symmetric and trivially degree-capped at the class
// capacity (§3 invariants).
func BuildGraph(points *geom.Pset, step float64, class Class) *simple.UndirectedGraph {
	radius := step * midDistanceCut(class)
	capacity := int(class)

	n := points.Len()
	byPoint := make([][]candidate, n)
	for _, c := range candidatesWithin(points, radius) {
		byPoint[c.i] = append(byPoint[c.i], c)
		byPoint[c.j] = append(byPoint[c.j], candidate{i: c.j, j: c.i, dist: c.dist})
	}
	for i := range byPoint {
		sort.Slice(byPoint[i], func(a, b int) bool { return byPoint[i][a].dist < byPoint[i][b].dist })
	}

	isCloseEnough := func(list []candidate, j int) bool {
		limit := capacity
		if limit > len(list) {
			limit = len(list)
		}
		for _, c := range list[:limit] {
			if c.j == j {
				return true
			}
		}
		return false
	}

	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	seen := make(map[[2]int]bool)
	for i := 0; i < n; i++ {
		for _, c := range byPoint[i] {
			if c.j < i {
				continue
			}
			key := [2]int{i, c.j}
			if seen[key] {
				continue
			}
			if isCloseEnough(byPoint[i], c.j) && isCloseEnough(byPoint[c.j], i) {
				g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(c.j))})
				seen[key] = true
			}
		}
	}
	return g
}

// Degree returns the number of neighbors id currently has in g.
func Degree(g *simple.UndirectedGraph, id int64) int {
	if g.Node(id) == nil {
		return 0
	}
	return g.From(id).Len()
}

// MeanDegree returns the average degree over every node still present
// in g (used by P7's mean-degree check).
func MeanDegree(g *simple.UndirectedGraph) float64 {
	nodes := graph.NodesOf(g.Nodes())
	if len(nodes) == 0 {
		return 0
	}
	sum := 0
	for _, n := range nodes {
		sum += g.From(n.ID()).Len()
	}
	return float64(sum) / float64(len(nodes))
}
