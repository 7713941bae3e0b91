package goptim

import (
	"gonum.org/v1/gonum/stat"

	"github.com/dbrunet-lab/esicore/progress"
)

// Method selects the per-group search algorithm (§4.3).
type Method int

const (
	BoxScan Method = iota
	CrossHair
	NelderMead
)

// Strategy selects how the engine traverses multiple Groups (§4.3).
type Strategy int

const (
	Global Strategy = iota
	Cyclical
	WeakestGroup
	WeakestDimension
)

// DefaultMaxIterations is the iteration budget of §4.3.
const DefaultMaxIterations = 2000

// Settings configures one optimization run.
type Settings struct {
	Method             Method
	Strategy           Strategy
	MaxIterations      int     // 0 means DefaultMaxIterations
	RequestedPrecision float64 // stop once combined precision <= this
	Progress           progress.Gauge
	ProgressPart       string
}

// Result reports how a Run finished.
type Result struct {
	Iterations int
	Precision  float64
	Converged  bool
}

// methodState is the persistent per-axis-set state one search method
// carries between Engine iterations (only Nelder-Mead has any).
type methodState interface {
	step(params []*Param, evaluate func([]float64) float64) (newValues, evals []float64)
}

func newMethodState(m Method) methodState {
	switch m {
	case BoxScan:
		return boxScanState{}
	case CrossHair:
		return crossHairState{}
	case NelderMead:
		return &nelderMeadState{}
	default:
		panic("goptim: unknown Method")
	}
}

// Engine runs the global optimizer of §4.3 over a fixed list of Groups.
type Engine struct {
	groups   []*Group
	cost     CostFunc
	settings Settings
}

// NewEngine validates groups and wraps them with a cost function.
func NewEngine(groups []*Group, cost CostFunc, settings Settings) *Engine {
	for _, g := range groups {
		g.validate()
	}
	if settings.MaxIterations == 0 {
		settings.MaxIterations = DefaultMaxIterations
	}
	return &Engine{groups: groups, cost: cost, settings: settings}
}

// Run iterates until the combined precision reaches
// Settings.RequestedPrecision or Settings.MaxIterations is spent.
func (e *Engine) Run() Result {
	switch e.settings.Strategy {
	case Global:
		return e.runGlobal()
	case Cyclical:
		return e.runCyclical()
	case WeakestGroup:
		return e.runWeakestGroup()
	case WeakestDimension:
		return e.runWeakestDimension()
	default:
		panic("goptim: unknown Strategy")
	}
}

func (e *Engine) evalSnapshot(gi int, vals []float64) float64 {
	return e.cost(withGroupValues(e.groups, gi, vals))
}

// flatten merges all groups' searched params into one slice, with a
// matching "which group did each param come from" index so evaluate can
// rebuild a full Snapshot.
func (e *Engine) flatten() (params []*Param, owner []int) {
	for gi, g := range e.groups {
		for _, p := range g.Params {
			params = append(params, p)
			owner = append(owner, gi)
		}
	}
	return params, owner
}

func (e *Engine) runGlobal() Result {
	params, owner := e.flatten()
	state := newMethodState(e.settings.Method)
	tracker := &precisionTracker{}

	evalFull := func(vals []float64) float64 {
		snap := merged(e.groups)
		for i, v := range vals {
			snap[params[i].Kind] = v
		}
		_ = owner
		return e.cost(snap)
	}

	maxIter := e.settings.MaxIterations
	var result Result
	for iter := 0; iter < maxIter; iter++ {
		if progress.IsCanceled(e.settings.Progress) {
			break
		}
		newValues, evals := state.step(params, evalFull)
		for i, p := range params {
			p.Value = newValues[i]
		}
		rp := paramSpaceRadius(windowRadii(params, state))
		rv := valueSpaceRadius(evals)
		precision := tracker.update(rp, rv)
		progress.Report(e.settings.Progress, e.settings.ProgressPart, float64(iter+1)/float64(maxIter))
		result = Result{Iterations: iter + 1, Precision: precision}
		if precision <= e.settings.RequestedPrecision {
			result.Converged = true
			break
		}
	}
	return result
}

// windowRadii returns the per-param contribution to the parameter-space
// precision radius: half the current [Min,Max] window for Box-Scan and
// Cross-Hair, or the persistent simplex spread for Nelder-Mead.
func windowRadii(params []*Param, state methodState) []float64 {
	if nm, ok := state.(*nelderMeadState); ok && nm.vertices != nil {
		return nm.radii()
	}
	out := make([]float64, len(params))
	for i, p := range params {
		out[i] = p.Range() / 2
	}
	return out
}

func (e *Engine) runCyclical() Result {
	states := make([]methodState, len(e.groups))
	for i := range states {
		states[i] = newMethodState(e.settings.Method)
	}
	tracker := &precisionTracker{}
	maxIter := e.settings.MaxIterations

	var result Result
	for iter := 0; iter < maxIter; iter++ {
		if progress.IsCanceled(e.settings.Progress) {
			break
		}
		var groupRp, groupRv []float64
		for gi, g := range e.groups {
			evalG := func(vals []float64) float64 { return e.evalSnapshot(gi, vals) }
			newValues, evals := states[gi].step(g.Params, evalG)
			g.setValues(newValues)
			groupRp = append(groupRp, paramSpaceRadius(windowRadii(g.Params, states[gi])))
			groupRv = append(groupRv, valueSpaceRadius(evals))
		}
		rp := stat.Mean(groupRp, nil)
		rv := stat.Mean(groupRv, nil)
		precision := tracker.update(rp, rv)
		progress.Report(e.settings.Progress, e.settings.ProgressPart, float64(iter+1)/float64(maxIter))
		result = Result{Iterations: iter + 1, Precision: precision}
		if precision <= e.settings.RequestedPrecision {
			result.Converged = true
			break
		}
	}
	return result
}

func (e *Engine) runWeakestGroup() Result {
	states := make([]methodState, len(e.groups))
	for i := range states {
		states[i] = newMethodState(e.settings.Method)
	}
	tracker := &precisionTracker{}
	maxIter := e.settings.MaxIterations

	var result Result
	for iter := 0; iter < maxIter; iter++ {
		if progress.IsCanceled(e.settings.Progress) {
			break
		}
		type candidate struct {
			gi     int
			values []float64
			sd     float64
			rp     float64
			after  []Param
		}
		var best *candidate
		for gi, g := range e.groups {
			saved := make([]Param, len(g.Params))
			for i, p := range g.Params {
				saved[i] = *p
			}
			evalG := func(vals []float64) float64 { return e.evalSnapshot(gi, vals) }
			newValues, evals := states[gi].step(g.Params, evalG)
			sd := valueSpaceRadius(evals)
			c := candidate{gi: gi, values: newValues, sd: sd, rp: paramSpaceRadius(windowRadii(g.Params, states[gi])), after: make([]Param, len(g.Params))}
			// Restore the baseline so the next group is evaluated against it.
			for i, p := range g.Params {
				c.after[i], *p = *p, saved[i]
			}
			if best == nil || c.sd > best.sd {
				cc := c
				best = &cc
			}
		}
		for i, p := range e.groups[best.gi].Params {
			*p = best.after[i]
		}
		e.groups[best.gi].setValues(best.values)
		precision := tracker.update(best.rp, best.sd)
		progress.Report(e.settings.Progress, e.settings.ProgressPart, float64(iter+1)/float64(maxIter))
		result = Result{Iterations: iter + 1, Precision: precision}
		if precision <= e.settings.RequestedPrecision {
			result.Converged = true
			break
		}
	}
	return result
}

func (e *Engine) runWeakestDimension() Result {
	if e.settings.Method == NelderMead {
		panic("goptim: Weakest-Dimension strategy only supports Box-Scan and Cross-Hair")
	}
	tracker := &precisionTracker{}
	maxIter := e.settings.MaxIterations

	type slot struct {
		gi, pi int
	}
	var slots []slot
	for gi, g := range e.groups {
		for pi := range g.Params {
			slots = append(slots, slot{gi, pi})
		}
	}

	var result Result
	for iter := 0; iter < maxIter; iter++ {
		if progress.IsCanceled(e.settings.Progress) {
			break
		}
		type candidate struct {
			slot  slot
			value float64
			sd    float64
			rp    float64
			after Param
		}
		var best *candidate
		for _, s := range slots {
			g := e.groups[s.gi]
			p := g.Params[s.pi]
			saved := *p
			solo := []*Param{p}
			evalOne := func(vals []float64) float64 {
				snap := merged(e.groups)
				snap[p.Kind] = vals[0]
				return e.cost(snap)
			}
			state := newMethodState(e.settings.Method)
			newValues, evals := state.step(solo, evalOne)
			sd := valueSpaceRadius(evals)
			c := candidate{slot: s, value: newValues[0], sd: sd, rp: p.Range() / 2, after: *p}
			*p = saved
			if best == nil || c.sd > best.sd {
				cc := c
				best = &cc
			}
		}
		*e.groups[best.slot.gi].Params[best.slot.pi] = best.after
		e.groups[best.slot.gi].Params[best.slot.pi].Value = best.value
		precision := tracker.update(best.rp, best.sd)
		progress.Report(e.settings.Progress, e.settings.ProgressPart, float64(iter+1)/float64(maxIter))
		result = Result{Iterations: iter + 1, Precision: precision}
		if precision <= e.settings.RequestedPrecision {
			result.Converged = true
			break
		}
	}
	return result
}
