package solutionpoints

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/dbrunet-lab/esicore/geom"
)

// BuildAdaptive2618 builds the §4.6 adaptive 26→18 graph: start from the
// Class18 mutual-NN graph, then for every point still under the
// 18-class capacity, admit Class26 "corner" edges in ascending distance
// order until it reaches that capacity. In the strict variant a corner
// is refused if the candidate neighbor is already at 18-class capacity;
// the lax variant admits it regardless, so the neighbor can go past 18
// up to an absolute cap of 26.
func BuildAdaptive2618(points *geom.Pset, step float64, strict bool) *simple.UndirectedGraph {
	g := BuildGraph(points, step, Class18)

	n := points.Len()
	degree := make([]int, n)
	for i := 0; i < n; i++ {
		degree[i] = Degree(g, int64(i))
	}

	radius26 := step * midDistanceCut(Class26)
	candidates := candidatesWithin(points, radius26)
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })

	hasEdge := func(i, j int) bool {
		return g.HasEdgeBetween(int64(i), int64(j))
	}

	for _, c := range candidates {
		i, j := c.i, c.j
		if hasEdge(i, j) {
			continue
		}
		if degree[i] >= int(Class18) && degree[j] >= int(Class18) {
			continue
		}
		// At least one endpoint must be under-filled at the 18-class
		// capacity to be eligible for a corner at all (§4.6).
		iEligible := degree[i] < int(Class18)
		jEligible := degree[j] < int(Class18)
		if !iEligible && !jEligible {
			continue
		}
		if strict {
			// Refuse if the candidate neighbor is already full at the
			// 18-class capacity.
			if iEligible && degree[j] >= int(Class18) {
				continue
			}
			if jEligible && degree[i] >= int(Class18) {
				continue
			}
		}
		if degree[i] >= int(Class26) || degree[j] >= int(Class26) {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
		degree[i]++
		degree[j]++
	}
	return g
}
