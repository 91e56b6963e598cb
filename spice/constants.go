package spice

import "math"

// Equivalent per-unit-width (W/L=1) transistor resistances, in ohms.
// These are fixed model parameters, not derived from any particular PDK
// corner.
var (
	pfetUnitResistance = 6591.7 * (1 / 0.15) / math.Ln2
	nfetUnitResistance = 2832.4 * (0.65 / 0.15) / math.Ln2
)

// Per-area gate capacitance, in farads per square meter.
const (
	pfetHVTCapPerArea = 0.00990114 * 1.03
	nfetCapPerArea    = 0.005819149 * 1.03
)

// Fixed sorted transistor-width bin tables, in micrometers. A synthesized
// device snaps to the nearest legal width and records a multiplicity of
// parallel instances to recover the requested total width.
var (
	pfetWidthBins = []float64{0.42, 0.65, 1.0, 1.5, 2.0, 3.0, 5.0, 8.0}
	nfetWidthBins = []float64{0.36, 0.55, 0.84, 1.26, 1.68, 2.52, 4.2, 6.72}
)

// referenceGateLength is the channel length, in micrometers, every
// transistor the equivalent-resistance model reasons about is drawn at.
// The reference library draws every device at this minimum length, so
// the model only ever solves for width.
const referenceGateLength = 0.15

// capAreaFarads converts a gate area in square micrometers and a
// per-area capacitance in farads per square meter into farads.
func capAreaFarads(areaSqMicron, perArea float64) float64 {
	return areaSqMicron * 1e-12 * perArea
}

// binWidth snaps requested (micrometers) to the nearest bin and returns
// the bin width plus the multiplicity of parallel devices needed to
// recover the requested total width.
func binWidth(bins []float64, requested float64) (binW float64, multiplicity float64) {
	if requested <= 0 {
		requested = bins[0]
	}
	best := bins[0]
	bestDiff := math.Abs(requested - bins[0])
	for _, b := range bins[1:] {
		if d := math.Abs(requested - b); d < bestDiff {
			best = b
			bestDiff = d
		}
	}
	return best, requested / best
}

// widthFromDriveRatio turns an upstream cell's length/width ratio into a
// synthesized transistor width using the equivalent-resistance model: the
// upstream driver's actual channel resistance is unitResistance*ratio,
// and inverting that same model at referenceGateLength recovers the
// width that reproduces it, so the synthesized device holds the same
// drive strength as the upstream one regardless of the model's absolute
// scale.
func widthFromDriveRatio(unitResistance, ratio, minWidth float64) float64 {
	if ratio <= 0 || unitResistance <= 0 {
		return minWidth
	}
	resistance := unitResistance * ratio
	w := unitResistance * referenceGateLength / resistance
	if w < minWidth {
		return minWidth
	}
	return w
}

const specialNFET = "sky130_fd_pr__special_nfet_01v8"
const specialNFETReplacement = "sky130_fd_pr__nfet_01v8"

// normalizeDeviceKind applies the one device rename the target deck
// needs: the "special" 1.8V nfet variant has no distinct SPICE model
// there and is emitted under its ordinary counterpart.
func normalizeDeviceKind(kind string) string {
	if kind == specialNFET {
		return specialNFETReplacement
	}
	return kind
}
