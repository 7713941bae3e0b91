package geom

import (
	"math"
	"testing"
)

func TestPsetStepRegularGrid(t *testing.T) {
	var pts []Point
	idx := 0
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				pts = append(pts, NewPoint(float64(x), float64(y), float64(z), idx))
				idx++
			}
		}
	}
	ps := NewPset(pts)
	step := ps.Step()
	if math.Abs(step-1) > 1e-9 {
		t.Errorf("Step() = %v, want 1 on a unit grid", step)
	}
}

func TestPsetBoxAndCentroid(t *testing.T) {
	pts := []Point{
		NewPoint(-1, -2, -3, 0),
		NewPoint(1, 2, 3, 1),
	}
	ps := NewPset(pts)
	box := ps.Box()
	if box.Min.X != -1 || box.Max.X != 1 {
		t.Errorf("Box X = [%v,%v], want [-1,1]", box.Min.X, box.Max.X)
	}
	c := ps.Centroid()
	if c.X != 0 || c.Y != 0 || c.Z != 0 {
		t.Errorf("Centroid = %v, want origin", c)
	}
}

func TestPsetDownsamplePreservesIndex(t *testing.T) {
	var pts []Point
	for i := 0; i < 10; i++ {
		pts = append(pts, NewPoint(float64(i), 0, 0, i))
	}
	ps := NewPset(pts)
	down := ps.Downsample(5)
	if down.Len() != 5 {
		t.Fatalf("Downsample(5).Len() = %d, want 5", down.Len())
	}
	for _, pt := range down.Points {
		if pt.Vec.X != float64(pt.Index) {
			t.Errorf("downsampled point lost its original index: %+v", pt)
		}
	}
}

func TestPsetTranslate(t *testing.T) {
	ps := NewPset([]Point{NewPoint(1, 1, 1, 0)})
	moved := ps.Translate(NewPoint(2, 3, 4, 0).Vec)
	got := moved.Points[0].Vec
	if got.X != 3 || got.Y != 4 || got.Z != 5 {
		t.Errorf("Translate gave %v, want (3,4,5)", got)
	}
}
