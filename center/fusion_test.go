package center

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dbrunet-lab/esicore/geom"
)

func spherePset(radius float64, c r3.Vec, n int) *geom.Pset {
	var pts []geom.Point
	idx := 0
	for i := 0; i < n; i++ {
		theta := math.Pi * float64(i) / float64(n-1)
		for j := 0; j < n; j++ {
			phi := 2 * math.Pi * float64(j) / float64(n)
			pts = append(pts, geom.NewPoint(
				c.X+radius*math.Sin(theta)*math.Cos(phi),
				c.Y+radius*math.Sin(theta)*math.Sin(phi),
				c.Z+radius*math.Cos(theta),
				idx))
			idx++
		}
	}
	return geom.NewPset(pts)
}

func TestFuseRecoversKnownCenter(t *testing.T) {
	want := r3.Vec{X: 2, Y: -1, Z: 0.5}
	head := spherePset(8, want, 10)
	electrodes := spherePset(8, want, 8)

	variants := DefaultVariants(head, electrodes, nil)
	res := Fuse(variants)

	gotCenter := r3.Scale(-1, res.Translation)
	if math.Abs(gotCenter.X-want.X) > 0.5 || math.Abs(gotCenter.Y-want.Y) > 0.5 || math.Abs(gotCenter.Z-want.Z) > 0.5 {
		t.Errorf("fused center = %v, want near %v", gotCenter, want)
	}
}

func TestDefaultVariantsSkipsSparseSolutionPoints(t *testing.T) {
	head := spherePset(8, r3.Vec{}, 6)
	electrodes := spherePset(8, r3.Vec{}, 6)
	sparse := spherePset(8, r3.Vec{}, 3) // well under MinSolutionPointsForFit
	variants := DefaultVariants(head, electrodes, sparse)
	for _, v := range variants {
		if v.Name == "solution points BFS" {
			t.Fatalf("sparse solution points should have been skipped, got %d points", sparse.Len())
		}
	}
}

func TestMedianVecRobustToOutlier(t *testing.T) {
	vs := []r3.Vec{{X: 1}, {X: 1.1}, {X: 0.9}, {X: 100}}
	m := medianVec(vs)
	if math.Abs(m.X-1) > 0.2 {
		t.Errorf("median X = %v, want ~1 (robust to the 100 outlier)", m.X)
	}
}
