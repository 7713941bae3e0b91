package solutionpoints

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Rejection is a bit-set over original solution-point indices: a set
// bit means "remove this point from K/J" (§3).
type Rejection map[int]bool

// RejectSingleNeighbors removes every node with zero neighbors from g,
// mutating it in place, and repeats until no such node is left (§4.6).
// Only nodes without edges are removed, so no other node's degree
// changes. It returns the set of node IDs rejected this way.
func RejectSingleNeighbors(g *simple.UndirectedGraph) Rejection {
	rejected := Rejection{}
	for {
		isolated := isolatedNodes(g)
		if len(isolated) == 0 {
			return rejected
		}
		for _, id := range isolated {
			rejected[int(id)] = true
			g.RemoveNode(id)
		}
	}
}

func isolatedNodes(g *simple.UndirectedGraph) []int64 {
	var out []int64
	for _, n := range graph.NodesOf(g.Nodes()) {
		if g.From(n.ID()).Len() == 0 {
			out = append(out, n.ID())
		}
	}
	return out
}

// Union returns a new Rejection containing every index set in a or b.
func Union(a, b Rejection) Rejection {
	out := make(Rejection, len(a)+len(b))
	for i := range a {
		out[i] = true
	}
	for i := range b {
		out[i] = true
	}
	return out
}
