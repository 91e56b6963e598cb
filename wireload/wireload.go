// Package wireload synthesizes a wire's (R, C) from its fanout count when
// no SPEF parasitics are available, via a 6-bucket fanout-to-multiplier
// table, linearly extrapolated beyond the table.
package wireload

// bucket is one (fanout, resistance multiplier, capacitance multiplier)
// entry. Multipliers scale the nominal wire segment below; values grow
// with fanout to approximate the longer, more branched routing real
// place-and-route produces for high-fanout nets.
type bucket struct {
	fanout int
	rMult  float64
	cMult  float64
}

var table = []bucket{
	{1, 1.00, 1.00},
	{2, 1.35, 1.20},
	{4, 1.90, 1.55},
	{8, 2.70, 2.10},
	{16, 3.80, 2.90},
	{32, 5.30, 4.00},
}

// Nominal wire model, scaled by the fanout multiplier: the total R and C
// of a short local interconnect segment.
const (
	nominalR = 150.0   // ohms
	nominalC = 0.8e-15 // farads
)

// Estimate returns the synthesized (R, C) of a wire driving the given
// fanout count. Fanout below the table's first entry clamps to it; fanout
// above the last entry extrapolates linearly from the final two buckets.
func Estimate(fanout int) (resistance, capacitance float64) {
	if fanout < 1 {
		fanout = 1
	}
	if fanout <= table[0].fanout {
		return nominalR * table[0].rMult, nominalC * table[0].cMult
	}
	last := len(table) - 1
	if fanout <= table[last].fanout {
		for i := 1; i < len(table); i++ {
			if fanout <= table[i].fanout {
				lo, hi := table[i-1], table[i]
				frac := float64(fanout-lo.fanout) / float64(hi.fanout-lo.fanout)
				rMult := lo.rMult + frac*(hi.rMult-lo.rMult)
				cMult := lo.cMult + frac*(hi.cMult-lo.cMult)
				return nominalR * rMult, nominalC * cMult
			}
		}
	}

	prev, cur := table[last-1], table[last]
	slopeR := (cur.rMult - prev.rMult) / float64(cur.fanout-prev.fanout)
	slopeC := (cur.cMult - prev.cMult) / float64(cur.fanout-prev.fanout)
	extra := float64(fanout - cur.fanout)
	rMult := cur.rMult + slopeR*extra
	cMult := cur.cMult + slopeC*extra
	return nominalR * rMult, nominalC * cMult
}
