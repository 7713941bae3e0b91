package inverse

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// fullRankK returns a 4x6 lead field whose first 4 columns are the
// identity, giving it full row rank so MN recovers exactly at r=0.
func fullRankK() *mat.Dense {
	K := mat.NewDense(4, 6, nil)
	for i := 0; i < 4; i++ {
		K.Set(i, i, 1)
	}
	K.Set(0, 4, 0.3)
	K.Set(1, 5, 0.2)
	return K
}

func TestBuildMNRecoversIdentityAtZeroRegularization(t *testing.T) {
	K := fullRankK()
	res := Build(MN, Input{K: K, Rejected: map[int]bool{}}, Options{NumRegularizations: 3})

	var KJ mat.Dense
	KJ.Mul(K, res.J[0])
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(KJ.At(i, j)-want) > 1e-4 {
				t.Errorf("K*J_MN[%d,%d] = %v, want %v", i, j, KJ.At(i, j), want)
			}
		}
	}
}

func TestBuildZeroesRejectedSourceRows(t *testing.T) {
	K := fullRankK()
	res := Build(MN, Input{K: K, Rejected: map[int]bool{1: true}}, Options{NumRegularizations: 3})

	for r := range res.J {
		J := res.J[r]
		for e := 0; e < 4; e++ {
			if v := J.At(3*1, e); v != 0 {
				t.Errorf("r=%d: J[3,%d] = %v, want 0 for rejected source 1", r, e, v)
			}
			if v := J.At(3*1+1, e); v != 0 {
				t.Errorf("r=%d: J[4,%d] = %v, want 0 for rejected source 1", r, e, v)
			}
			if v := J.At(3*1+2, e); v != 0 {
				t.Errorf("r=%d: J[5,%d] = %v, want 0 for rejected source 1", r, e, v)
			}
		}
	}
}

func TestBuildSLORETAStandardizesIdentity(t *testing.T) {
	K := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		K.Set(i, i, 1)
	}
	res := Build(SLORETA, Input{K: K, Rejected: map[int]bool{}}, Options{NumRegularizations: 2})

	J := res.J[0]
	for i := 0; i < 2; i++ {
		trace := 0.0
		for d := 0; d < 3; d++ {
			for c := 0; c < 3; c++ {
				trace += J.At(3*i+d, 3*i+c) * K.At(3*i+c, 3*i+d)
			}
		}
		if math.Abs(trace-3) > 1e-3 {
			t.Errorf("source %d: trace = %v, want ~3", i, trace)
		}
	}
}

func TestScheduleRegularizationsNonDecreasing(t *testing.T) {
	K := fullRankK()
	res := Build(WMN, Input{K: K, Rejected: map[int]bool{}}, Options{NumRegularizations: 5})
	for r := 1; r < len(res.Regularizations); r++ {
		if res.Regularizations[r] < res.Regularizations[r-1] {
			t.Errorf("regv[%d] = %v < regv[%d] = %v", r, res.Regularizations[r], r-1, res.Regularizations[r-1])
		}
	}
	if res.Regularizations[0] != 0 {
		t.Errorf("regv[0] = %v, want 0 for non-Dale methods", res.Regularizations[0])
	}
}

func TestBuildDaleFirstRegularizationIsTenthOfSecond(t *testing.T) {
	K := fullRankK()
	res := Build(Dale, Input{K: K, Rejected: map[int]bool{}}, Options{NumRegularizations: 4})
	if len(res.Regularizations) < 2 {
		t.Fatal("expected at least 2 regularizations")
	}
	want := res.Regularizations[1] / 10
	if math.Abs(res.Regularizations[0]-want) > 1e-9 {
		t.Errorf("Dale regv[0] = %v, want %v", res.Regularizations[0], want)
	}
}
