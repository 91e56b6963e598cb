package spice

import "testing"

func TestBinWidthSnapsToNearest(t *testing.T) {
	bins := []float64{1.0, 2.0, 5.0}
	w, mult := binWidth(bins, 1.9)
	if w != 2.0 {
		t.Errorf("binWidth(1.9) snapped to %v, want 2.0", w)
	}
	if diff := mult - 1.9/2.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("multiplicity = %v, want %v", mult, 1.9/2.0)
	}
}

func TestBinWidthNonPositiveFallsBackToSmallestBin(t *testing.T) {
	bins := []float64{0.5, 1.0}
	w, mult := binWidth(bins, 0)
	if w != 0.5 || mult != 1.0 {
		t.Errorf("binWidth(0) = (%v, %v), want (0.5, 1.0)", w, mult)
	}
}

func TestWidthFromDriveRatioZeroRatioFloors(t *testing.T) {
	if got := widthFromDriveRatio(pfetUnitResistance, 0, 0.15); got != 0.15 {
		t.Errorf("widthFromDriveRatio(.., 0, ..) = %v, want the floor width 0.15", got)
	}
}

func TestWidthFromDriveRatioZeroUnitResistanceFloors(t *testing.T) {
	if got := widthFromDriveRatio(0, 0.1, 0.15); got != 0.15 {
		t.Errorf("widthFromDriveRatio(0, .., ..) = %v, want the floor width 0.15", got)
	}
}

func TestWidthFromDriveRatioTypical(t *testing.T) {
	// referenceGateLength/ratio = 0.15/0.1 = 1.5, independent of which
	// unit resistance is supplied (the model is self-consistent).
	got := widthFromDriveRatio(pfetUnitResistance, 0.1, 0.15)
	want := referenceGateLength / 0.1
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("widthFromDriveRatio(pfetUnitResistance, 0.1, 0.15) = %v, want %v", got, want)
	}
}

func TestWidthFromDriveRatioLargeRatioFloors(t *testing.T) {
	if got := widthFromDriveRatio(pfetUnitResistance, 100, 0.15); got != 0.15 {
		t.Errorf("widthFromDriveRatio(.., 100, ..) = %v, want the floor width 0.15 (0.15/100 is below it)", got)
	}
}

func TestNormalizeDeviceKind(t *testing.T) {
	if got := normalizeDeviceKind(specialNFET); got != specialNFETReplacement {
		t.Errorf("normalizeDeviceKind(special) = %q, want %q", got, specialNFETReplacement)
	}
	if got := normalizeDeviceKind("sky130_fd_pr__pfet_01v8"); got != "sky130_fd_pr__pfet_01v8" {
		t.Errorf("normalizeDeviceKind(ordinary) = %q, want unchanged", got)
	}
}
