// Package goptim implements the dimension-agnostic, derivative-free
// global optimizer of §4.3 (C3): grouped real parameters searched by
// Box-Scan, Cross-Hair or Nelder-Mead, traversed Globally, Cyclically,
// by Weakest-Group or by Weakest-Dimension, converging on a combined
// parameter- and value-space precision radius.
//
// The engine has no knowledge of what a Kind means; callers (fit,
// center) define their own Kind constants and read them back out of
// the Snapshot passed to their CostFunc. This mirrors the way
// gonum.org/v1/gonum/optimize separates the Method from the Problem:
// goptim.Engine is the method, the caller's CostFunc is the problem.
package goptim

import "fmt"

// Kind tags a searched or fixed parameter. Its meaning is defined by the
// caller (see the TranslateX ... Flatten constants of package fit);
// goptim only uses it as a map key.
type Kind int

// Param is one searched parameter of a Group (§3 GOParam).
//
// Invariant: Min <= Value <= Max, Steps >= 2, Zoom in (0,1).
type Param struct {
	Kind     Kind
	Min, Max float64
	Value    float64
	Steps    int     // n_p: number of coarse bins
	SubSteps int     // s_p: samples per bin
	Zoom     float64 // window shrink factor applied after each iteration
}

// Range returns Max - Min.
func (p *Param) Range() float64 { return p.Max - p.Min }

// validate panics if p violates its invariants; called once at Engine
// construction, not on every evaluation.
func (p *Param) validate() {
	if p.Min > p.Value || p.Value > p.Max {
		panic(fmt.Sprintf("goptim: param %v value %v out of range [%v,%v]", p.Kind, p.Value, p.Min, p.Max))
	}
	if p.Steps < 2 {
		panic(fmt.Sprintf("goptim: param %v has Steps=%d, want >= 2", p.Kind, p.Steps))
	}
	if p.Zoom <= 0 || p.Zoom >= 1 {
		panic(fmt.Sprintf("goptim: param %v has Zoom=%v, want in (0,1)", p.Kind, p.Zoom))
	}
	if p.SubSteps < 1 {
		panic(fmt.Sprintf("goptim: param %v has SubSteps=%d, want >= 1", p.Kind, p.SubSteps))
	}
}

// zoomAround shrinks p's [Min,Max] window to Zoom times its width,
// centered on center (clamped back onto the pre-zoom window so the
// param invariant keeps holding), and sets Value to center.
func (p *Param) zoomAround(center float64) {
	if center < p.Min {
		center = p.Min
	} else if center > p.Max {
		center = p.Max
	}
	halfNew := p.Range() * p.Zoom / 2
	p.Min = center - halfNew
	p.Max = center + halfNew
	p.Value = center
}

// Group is an ordered set of searched Params plus a map of parameters
// that are held fixed for the duration of the search (§3 GOGroup).
//
// Invariant: kinds referenced in Fixed do not appear in Params.
type Group struct {
	Params []*Param
	Fixed  map[Kind]float64
}

func (g *Group) validate() {
	for _, p := range g.Params {
		p.validate()
		if _, isFixed := g.Fixed[p.Kind]; isFixed {
			panic(fmt.Sprintf("goptim: kind %v is both searched and fixed", p.Kind))
		}
	}
}

// values returns the current Value of every searched param, in order.
func (g *Group) values() []float64 {
	out := make([]float64, len(g.Params))
	for i, p := range g.Params {
		out[i] = p.Value
	}
	return out
}

// setValues writes vals back into the group's Params, in order.
func (g *Group) setValues(vals []float64) {
	for i, p := range g.Params {
		p.Value = vals[i]
	}
}
