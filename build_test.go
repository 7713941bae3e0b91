package esicore

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dbrunet-lab/esicore/esiio"
	"github.com/dbrunet-lab/esicore/geom"
	"github.com/dbrunet-lab/esicore/headmodel"
	"github.com/dbrunet-lab/esicore/inverse"
)

func sphere(n int, radius float64, center r3.Vec) *geom.Pset {
	const golden = 2.399963229728653
	pts := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		y := 1 - 2*float64(i)/float64(n-1)
		r := radius * math.Sqrt(math.Max(0, 1-y*y))
		theta := golden * float64(i)
		pts[i] = geom.NewPoint(
			center.X+r*math.Cos(theta),
			center.Y+radius*y,
			center.Z+r*math.Sin(theta),
			i)
	}
	return geom.NewPset(pts)
}

func cubeGrid(n int, step float64, center r3.Vec) *geom.Pset {
	var pts []geom.Point
	idx := 0
	offset := -step * float64(n-1) / 2
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				pts = append(pts, geom.NewPoint(
					center.X+offset+float64(x)*step,
					center.Y+offset+float64(y)*step,
					center.Z+offset+float64(z)*step,
					idx))
				idx++
			}
		}
	}
	return geom.NewPset(pts)
}

func threeShellPreset() *headmodel.Preset {
	return &headmodel.Preset{
		Family:         headmodel.ThreeShellAry,
		Shells:         3,
		TissueIndices:  []int{0, 1, 2},
		RadiiModel:     headmodel.RadiiGiven,
		Radii:          []float64{10.0, 9.2, 8.4},
		Conductivities: []float64{0.33, 0.016, 0.33},
	}
}

func TestBuildProducesRequestedMethods(t *testing.T) {
	center := r3.Vec{X: 3, Y: -1, Z: 2} // off-origin, exercises the inverse-center fusion
	head := sphere(40, 10.0, center)
	electrodes := sphere(26, 10.0, center)
	sp := cubeGrid(5, 1.0, center)

	report, err := Build(Input{
		Head:           head,
		Electrodes:     electrodes,
		SolutionPoints: sp,
		Preset:         threeShellPreset(),
		Methods:        []inverse.Method{inverse.MN, inverse.SLORETA},
		Options:        inverse.Options{NumRegularizations: 3},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(report.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(report.Results))
	}
	mn, ok := report.Results[inverse.MN]
	if !ok {
		t.Fatal("missing MN result")
	}
	rows, cols := mn.J[0].Dims()
	if rows != 3*sp.Len() || cols != electrodes.Len() {
		t.Errorf("MN J(0) is %dx%d, want %dx%d", rows, cols, 3*sp.Len(), electrodes.Len())
	}

	for i := range report.Rejected {
		for r := 0; r < 3; r++ {
			for c := 0; c < cols; c++ {
				if v := mn.J[0].At(3*i+r, c); v != 0 {
					t.Errorf("rejected source %d row %d not zeroed: %v", i, r, v)
				}
			}
		}
	}
}

func TestBuildRejectsMissingInput(t *testing.T) {
	_, err := Build(Input{})
	if err == nil {
		t.Fatal("expected an InputError for a fully empty Input")
	}
}

func TestWriteResultRoundTrips(t *testing.T) {
	center := r3.Vec{}
	head := sphere(40, 10.0, center)
	electrodes := sphere(26, 10.0, center)
	sp := cubeGrid(3, 1.0, center)

	report, err := Build(Input{
		Head:           head,
		Electrodes:     electrodes,
		SolutionPoints: sp,
		Preset:         threeShellPreset(),
		Methods:        []inverse.Method{inverse.MN},
		Options:        inverse.Options{NumRegularizations: 2},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "mn.esm")
	if err := WriteResult(path, report.Results[inverse.MN], electrodes.Len(), sp.Len()); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("expected a non-empty output file, err=%v", err)
	}
	got, err := esiio.Read(path)
	if err != nil {
		t.Fatalf("esiio.Read: %v", err)
	}
	if got.Header.NumEl != electrodes.Len() || got.Header.NumSolp != sp.Len() || len(got.Matrices) != 2 {
		t.Errorf("read back numel=%d numsolp=%d matrices=%d, want %d, %d, 2",
			got.Header.NumEl, got.Header.NumSolp, len(got.Matrices), electrodes.Len(), sp.Len())
	}
}
