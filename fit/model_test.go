package fit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dbrunet-lab/esicore/geom"
	"github.com/dbrunet-lab/esicore/goptim"
)

func spherePoints(radius float64, center r3.Vec, n int) *geom.Pset {
	var pts []geom.Point
	idx := 0
	for i := 0; i < n; i++ {
		theta := math.Pi * float64(i) / float64(n-1)
		for j := 0; j < n; j++ {
			phi := 2 * math.Pi * float64(j) / float64(n)
			x := center.X + radius*math.Sin(theta)*math.Cos(phi)
			y := center.Y + radius*math.Sin(theta)*math.Sin(phi)
			z := center.Z + radius*math.Cos(theta)
			pts = append(pts, geom.NewPoint(x, y, z, idx))
			idx++
		}
	}
	return geom.NewPset(pts)
}

func TestCostZeroOnExactSphere(t *testing.T) {
	m := Model{Center: r3.Vec{}}
	ref := spherePoints(3.0, r3.Vec{}, 12)
	cost := m.Cost(ref)
	c := cost(goptim.Snapshot{Scale: 3.0})
	if c > 1e-6 {
		t.Errorf("cost on exact sphere = %v, want ~0", c)
	}
}

func TestCostPositiveOffSphere(t *testing.T) {
	m := Model{Center: r3.Vec{}}
	ref := spherePoints(3.0, r3.Vec{}, 12)
	cost := m.Cost(ref)
	c := cost(goptim.Snapshot{Scale: 1.0})
	if c <= 0 {
		t.Errorf("cost with wrong scale should be positive, got %v", c)
	}
}

func TestCostHandlesTranslation(t *testing.T) {
	center := r3.Vec{X: 5, Y: -2, Z: 1}
	m := Model{Center: r3.Vec{}}
	ref := spherePoints(2.0, center, 10)
	cost := m.Cost(ref)
	c := cost(goptim.Snapshot{Scale: 2.0, TranslateX: 5, TranslateY: -2, TranslateZ: 1})
	if c > 1e-6 {
		t.Errorf("cost with correct translation+scale = %v, want ~0", c)
	}
}
