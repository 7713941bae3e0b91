package goptim

import (
	"math"
	"testing"
)

const (
	kindX Kind = iota
	kindY
)

func quadraticBowl(s Snapshot) float64 {
	x, y := s[kindX], s[kindY]
	return (x-1.3)*(x-1.3) + 2*(y+0.7)*(y+0.7) + 0.1
}

func TestNelderMeadGlobalConvergesOnQuadraticBowl(t *testing.T) {
	groups := []*Group{{
		Params: []*Param{
			{Kind: kindX, Min: -5, Max: 5, Value: 0, Steps: 5, SubSteps: 2, Zoom: 0.75},
			{Kind: kindY, Min: -5, Max: 5, Value: 0, Steps: 5, SubSteps: 2, Zoom: 0.75},
		},
	}}
	e := NewEngine(groups, quadraticBowl, Settings{
		Method:             NelderMead,
		Strategy:           Global,
		RequestedPrecision: 1e-5,
		MaxIterations:      300,
	})
	res := e.Run()

	x, y := groups[0].Params[0].Value, groups[0].Params[1].Value
	if math.Abs(x-1.3) > 1e-2 || math.Abs(y+0.7) > 1e-2 {
		t.Errorf("converged to (%v,%v), want near (1.3,-0.7); iterations=%d precision=%v", x, y, res.Iterations, res.Precision)
	}
	if res.Iterations > 300 {
		t.Errorf("took %d iterations, want <= 300", res.Iterations)
	}
}

func TestBoxScanZoomsInTowardMinimum(t *testing.T) {
	groups := []*Group{{
		Params: []*Param{
			{Kind: kindX, Min: -5, Max: 5, Value: 0, Steps: 5, SubSteps: 2, Zoom: 0.5},
		},
	}}
	f := func(s Snapshot) float64 {
		x := s[kindX]
		return (x - 2) * (x - 2)
	}
	e := NewEngine(groups, f, Settings{
		Method:             BoxScan,
		Strategy:           Global,
		RequestedPrecision: 1e-6,
		MaxIterations:      60,
	})
	e.Run()
	if math.Abs(groups[0].Params[0].Value-2) > 0.2 {
		t.Errorf("box-scan settled at %v, want near 2", groups[0].Params[0].Value)
	}
}

func TestCrossHairSingleAxis(t *testing.T) {
	groups := []*Group{{
		Params: []*Param{
			{Kind: kindX, Min: -5, Max: 5, Value: 0, Steps: 6, SubSteps: 2, Zoom: 0.6},
		},
	}}
	f := func(s Snapshot) float64 {
		x := s[kindX]
		return (x + 1.5) * (x + 1.5)
	}
	e := NewEngine(groups, f, Settings{
		Method:             CrossHair,
		Strategy:           Global,
		RequestedPrecision: 1e-6,
		MaxIterations:      60,
	})
	e.Run()
	if math.Abs(groups[0].Params[0].Value+1.5) > 0.2 {
		t.Errorf("cross-hair settled at %v, want near -1.5", groups[0].Params[0].Value)
	}
}

func TestWeakestGroupCommitsOnlyOneGroup(t *testing.T) {
	groupA := &Group{Params: []*Param{{Kind: kindX, Min: -5, Max: 5, Value: 0, Steps: 5, SubSteps: 2, Zoom: 0.8}}}
	groupB := &Group{Params: []*Param{{Kind: kindY, Min: -5, Max: 5, Value: 3, Steps: 5, SubSteps: 2, Zoom: 0.8}}}
	f := func(s Snapshot) float64 {
		return (s[kindX]-1)*(s[kindX]-1) + 2*(s[kindY]-1)*(s[kindY]-1)
	}
	e := NewEngine([]*Group{groupA, groupB}, f, Settings{
		Method:             BoxScan,
		Strategy:           WeakestGroup,
		RequestedPrecision: 0, // force a fixed number of iterations
		MaxIterations:      1,
	})
	e.Run()
	// Both groups scan the same [-5,5] window, but groupB's term carries
	// twice the weight, so its trial values spread twice as wide and it
	// is the one committed on the first iteration.
	if groupB.Params[0].Value == 3 {
		t.Errorf("expected the weaker group (B) to move, but it stayed at %v", groupB.Params[0].Value)
	}
	if a := groupA.Params[0]; a.Value != 0 || a.Min != -5 || a.Max != 5 {
		t.Errorf("expected group A to keep its baseline, got value %v window [%v,%v]", a.Value, a.Min, a.Max)
	}
}

func TestParamValidation(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for out-of-range Value")
		}
	}()
	g := &Group{Params: []*Param{{Kind: kindX, Min: 0, Max: 1, Value: 5, Steps: 2, SubSteps: 1, Zoom: 0.5}}}
	g.validate()
}
