// Package parasitics converts a parsed SPEF document into per-wire
// resistance/capacitance and per-node lumped capacitance, scaled through
// the SPEF header's unit multipliers.
package parasitics

import "github.com/Uriopass/stars/spef"

// WireRC is the lumped resistance and capacitance of a wire segment
// between two nodes, in ohms and farads.
type WireRC struct {
	Resistance float64
	Capacitance float64
}

// Table is the converted view of a SPEF file: per-node lumped capacitance
// and per-wire-segment (R, C), keyed by node pin name. Coupling
// capacitance entries are folded into both endpoints' lumped capacitance,
// matching a first-order ground-referenced approximation.
type Table struct {
	NodeCap map[string]float64
	Wire    map[wireKey]WireRC
}

type wireKey struct{ a, b string }

func key(a, b string) wireKey {
	if a > b {
		a, b = b, a
	}
	return wireKey{a, b}
}

// Build converts a parsed SPEF file into a Table, applying the header's
// resistance/capacitance unit multipliers to every raw entry.
func Build(f spef.File) Table {
	t := Table{
		NodeCap: make(map[string]float64),
		Wire:    make(map[wireKey]WireRC),
	}
	rUnit := f.Header.ResistanceUnit
	cUnit := f.Header.CapacitanceUnit
	if rUnit == 0 {
		rUnit = 1
	}
	if cUnit == 0 {
		cUnit = 1
	}

	for _, net := range f.Nets {
		for _, c := range net.Caps {
			val := c.Value * cUnit
			if c.B == "" {
				t.NodeCap[c.A] += val
				continue
			}
			// Coupling capacitance: recorded symmetrically against both
			// endpoints' lumped ground capacitance (first-order model).
			t.NodeCap[c.A] += val
			t.NodeCap[c.B] += val
		}
		for _, r := range net.Ress {
			k := key(r.A, r.B)
			rc := t.Wire[k]
			rc.Resistance += r.Value * rUnit
			t.Wire[k] = rc
		}
	}

	// Fold each wire segment's lumped node caps into its own RC entry so
	// callers driving a distributed pi-model only need one lookup.
	for k := range t.Wire {
		rc := t.Wire[k]
		rc.Capacitance = t.NodeCap[k.a] + t.NodeCap[k.b]
		t.Wire[k] = rc
	}
	return t
}

// Lookup returns the (R, C) of the wire segment between a and b, and
// whether the SPEF file carried an entry for it.
func (t Table) Lookup(a, b string) (WireRC, bool) {
	rc, ok := t.Wire[key(a, b)]
	return rc, ok
}

// NodeCapacitance returns the lumped capacitance recorded on node n, or 0
// if the SPEF file carried no entry for it.
func (t Table) NodeCapacitance(n string) float64 {
	return t.NodeCap[n]
}
