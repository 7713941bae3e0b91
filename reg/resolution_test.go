package reg

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/dbrunet-lab/esicore/geom"
)

func TestResolutionSummaryZeroForIdentityResolution(t *testing.T) {
	// A perfectly focal resolution matrix (R = I) puts all PSF weight
	// on the source itself, so the spatial radius collapses to 0.
	n := 3
	J := mat.NewDense(3*n, 3*n, nil)
	K := mat.NewDense(3*n, 3*n, nil)
	for i := 0; i < 3*n; i++ {
		J.Set(i, i, 1)
		K.Set(i, i, 1)
	}
	R := ResolutionMatrix(J, K)

	points := geom.NewPset([]geom.Point{
		geom.NewPoint(0, 0, 0, 0),
		geom.NewPoint(10, 0, 0, 1),
		geom.NewPoint(0, 10, 0, 2),
	})

	for i := 0; i < n; i++ {
		psf := PSFColumn(R, n, i)
		radius := ResolutionSummary(psf, points, i)
		if radius > 1e-9 {
			t.Errorf("source %d: radius = %v, want ~0 for identity resolution", i, radius)
		}
	}
}

func TestResolutionSummaryGrowsWithBlur(t *testing.T) {
	n := 2
	K := mat.NewDense(3*n, 3*n, nil)
	for i := 0; i < 3*n; i++ {
		K.Set(i, i, 1)
	}
	focal := mat.NewDense(3*n, 3*n, nil)
	for i := 0; i < 3*n; i++ {
		focal.Set(i, i, 1)
	}
	blurred := mat.DenseCopyOf(focal)
	// Leak some weight from source 0's columns into source 1's rows.
	for c := 0; c < 3; c++ {
		blurred.Set(3+c, c, 0.5)
	}

	points := geom.NewPset([]geom.Point{
		geom.NewPoint(0, 0, 0, 0),
		geom.NewPoint(10, 0, 0, 1),
	})

	focalR := ResolutionMatrix(focal, K)
	blurredR := ResolutionMatrix(blurred, K)

	focalRadius := ResolutionSummary(PSFColumn(focalR, n, 0), points, 0)
	blurredRadius := ResolutionSummary(PSFColumn(blurredR, n, 0), points, 0)

	if blurredRadius <= focalRadius {
		t.Errorf("blurred radius = %v, want > focal radius = %v", blurredRadius, focalRadius)
	}
}
