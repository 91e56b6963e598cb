package wireload

import "testing"

func TestEstimateClampsLowFanout(t *testing.T) {
	r0, c0 := Estimate(0)
	r1, c1 := Estimate(1)
	if r0 != r1 || c0 != c1 {
		t.Errorf("Estimate(0) = (%v, %v), want same as Estimate(1) = (%v, %v)", r0, c0, r1, c1)
	}
}

func TestEstimateExactBucket(t *testing.T) {
	r, c := Estimate(4)
	if r != nominalR*1.90 || c != nominalC*1.55 {
		t.Errorf("Estimate(4) = (%v, %v), want (%v, %v)", r, c, nominalR*1.90, nominalC*1.55)
	}
}

func TestEstimateInterpolates(t *testing.T) {
	r, _ := Estimate(3)
	rLow, _ := Estimate(2)
	rHigh, _ := Estimate(4)
	if r <= rLow || r >= rHigh {
		t.Errorf("Estimate(3) = %v, want strictly between Estimate(2)=%v and Estimate(4)=%v", r, rLow, rHigh)
	}
}

func TestEstimateExtrapolatesBeyondTable(t *testing.T) {
	rAtMax, _ := Estimate(32)
	rBeyond, _ := Estimate(64)
	if rBeyond <= rAtMax {
		t.Errorf("Estimate(64) = %v, want greater than Estimate(32) = %v (linear extrapolation)", rBeyond, rAtMax)
	}
}

func TestEstimateMonotonic(t *testing.T) {
	prev, _ := Estimate(1)
	for _, fanout := range []int{2, 4, 8, 16, 32, 48, 100} {
		cur, _ := Estimate(fanout)
		if cur < prev {
			t.Errorf("Estimate(%d) = %v, want >= previous %v (resistance should not decrease with fanout)", fanout, cur, prev)
		}
		prev = cur
	}
}
