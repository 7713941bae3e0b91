package goptim

import "math"

const (
	nmReflect  = 1.50
	nmExpand   = 2.75
	nmContract = 0.75
	nmShrink   = 0.60
)

// nelderMeadState holds the persistent simplex for one group (or the
// flattened global param set), across Engine iterations. §4.3: "In
// Weakest-Group mode each group owns its own simplex; when a
// non-winning group is revisited in a later iteration, the caller
// force-re-evaluates its vertex values because the state of other
// groups' parameters may have moved" — every vertex value here is
// always recomputed against the current evaluate closure, so a state
// that sat idle for a few iterations is automatically brought current
// the next time step is called.
type nelderMeadState struct {
	vertices [][]float64 // n+1 vertices, each of dimension n
	values   []float64
}

// init builds the initial simplex: vertex 0 is every param's midpoint;
// vertex i (1-indexed) is the midpoint vector with component i-1
// replaced by that param's Max (§4.3).
func (s *nelderMeadState) init(params []*Param, evaluate func([]float64) float64) {
	n := len(params)
	mid := make([]float64, n)
	for i, p := range params {
		mid[i] = (p.Min + p.Max) / 2
	}
	s.vertices = make([][]float64, n+1)
	s.values = make([]float64, n+1)

	v0 := append([]float64(nil), mid...)
	s.vertices[0] = v0
	s.values[0] = evaluate(v0)
	for i := 0; i < n; i++ {
		v := append([]float64(nil), mid...)
		v[i] = params[i].Max
		s.vertices[i+1] = v
		s.values[i+1] = evaluate(v)
	}
}

// radii returns, per dimension, half the spread (max-min) of the
// simplex's vertex coordinates — the "simplex-radius" of §4.3 used in
// the parameter-space precision metric.
func (s *nelderMeadState) radii() []float64 {
	n := len(s.vertices[0])
	out := make([]float64, n)
	for d := 0; d < n; d++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range s.vertices {
			if v[d] < lo {
				lo = v[d]
			}
			if v[d] > hi {
				hi = v[d]
			}
		}
		out[d] = (hi - lo) / 2
	}
	return out
}

func (s *nelderMeadState) bestIndex() int {
	best := 0
	for i, v := range s.values {
		if v < s.values[best] {
			best = i
		}
	}
	return best
}

func (s *nelderMeadState) worstIndex() int {
	worst := 0
	for i, v := range s.values {
		if v > s.values[worst] {
			worst = i
		}
	}
	return worst
}

func (s *nelderMeadState) secondWorstValue(worst int) float64 {
	second := math.Inf(-1)
	for i, v := range s.values {
		if i == worst {
			continue
		}
		if v > second {
			second = v
		}
	}
	return second
}

func centroidExcluding(vertices [][]float64, exclude int) []float64 {
	n := len(vertices[0])
	c := make([]float64, n)
	count := 0
	for i, v := range vertices {
		if i == exclude {
			continue
		}
		for d := 0; d < n; d++ {
			c[d] += v[d]
		}
		count++
	}
	for d := 0; d < n; d++ {
		c[d] /= float64(count)
	}
	return c
}

func pointAlong(centroid, from []float64, coeff float64) []float64 {
	out := make([]float64, len(centroid))
	for d := range out {
		out[d] = centroid[d] + coeff*(centroid[d]-from[d])
	}
	return out
}

// step performs one reflect/expand/contract/shrink decision and returns
// the current best vertex (as the new candidate point) along with every
// vertex value (used for the value-space precision radius).
func (s *nelderMeadState) step(params []*Param, evaluate func([]float64) float64) ([]float64, []float64) {
	if s.vertices == nil {
		s.init(params, evaluate)
	} else {
		for i, v := range s.vertices {
			s.values[i] = evaluate(v)
		}
	}

	worst := s.worstIndex()
	best := s.bestIndex()
	secondWorst := s.secondWorstValue(worst)
	centroid := centroidExcluding(s.vertices, worst)

	reflected := pointAlong(centroid, s.vertices[worst], nmReflect)
	reflectedVal := evaluate(reflected)

	switch {
	case reflectedVal < s.values[best]:
		expanded := pointAlong(centroid, s.vertices[worst], nmExpand)
		expandedVal := evaluate(expanded)
		if expandedVal < reflectedVal {
			s.vertices[worst], s.values[worst] = expanded, expandedVal
		} else {
			s.vertices[worst], s.values[worst] = reflected, reflectedVal
		}
	case reflectedVal < secondWorst:
		s.vertices[worst], s.values[worst] = reflected, reflectedVal
	default:
		contracted := make([]float64, len(centroid))
		for d := range contracted {
			contracted[d] = centroid[d] + nmContract*(s.vertices[worst][d]-centroid[d])
		}
		contractedVal := evaluate(contracted)
		if contractedVal < s.values[worst] {
			s.vertices[worst], s.values[worst] = contracted, contractedVal
		} else {
			bestVertex := s.vertices[best]
			for i := range s.vertices {
				if i == best {
					continue
				}
				for d := range s.vertices[i] {
					s.vertices[i][d] = bestVertex[d] + nmShrink*(s.vertices[i][d]-bestVertex[d])
				}
				s.values[i] = evaluate(s.vertices[i])
			}
		}
	}

	bestNow := s.bestIndex()
	return append([]float64(nil), s.vertices[bestNow]...), append([]float64(nil), s.values...)
}
