package parasitics

import (
	"math"
	"testing"

	"github.com/Uriopass/stars/spef"
)

func TestBuildLumpedAndCouplingCaps(t *testing.T) {
	f := spef.File{
		Header: spef.Header{ResistanceUnit: 2.0, CapacitanceUnit: 1.0e-15},
		Nets: []spef.Net{
			{
				Name: "u1/Y",
				Caps: []spef.CapEntry{
					{A: "u1/Y", Value: 1.0},
					{A: "u1/Y", B: "u2/A", Value: 0.5},
				},
				Ress: []spef.ResEntry{
					{A: "u1/Y", B: "u2/A", Value: 10.0},
				},
			},
		},
	}

	table := Build(f)

	// 1.0e-15 + 0.5e-15 is not exactly 1.5e-15 in float64.
	if got, want := table.NodeCapacitance("u1/Y"), 1.5e-15; math.Abs(got-want) > 1e-27 {
		t.Errorf("NodeCapacitance(u1/Y) = %v, want %v", got, want)
	}
	if got, want := table.NodeCapacitance("u2/A"), 0.5e-15; got != want {
		t.Errorf("NodeCapacitance(u2/A) = %v, want %v", got, want)
	}

	rc, ok := table.Lookup("u1/Y", "u2/A")
	if !ok {
		t.Fatal("expected a wire entry between u1/Y and u2/A")
	}
	if rc.Resistance != 20.0 {
		t.Errorf("Resistance = %v, want 20.0 (10.0 * RUNIT 2.0)", rc.Resistance)
	}
	if rc.Capacitance != 2.0e-15 {
		t.Errorf("Capacitance = %v, want 2.0e-15 (sum of both endpoints' lumped cap)", rc.Capacitance)
	}

	// Lookup is symmetric regardless of argument order.
	rc2, ok := table.Lookup("u2/A", "u1/Y")
	if !ok || rc2 != rc {
		t.Errorf("Lookup(b, a) = (%+v, %v), want same as Lookup(a, b)", rc2, ok)
	}
}

func TestBuildDefaultsUnitsToOne(t *testing.T) {
	f := spef.File{Nets: []spef.Net{{Name: "n", Ress: []spef.ResEntry{{A: "a", B: "b", Value: 5.0}}}}}
	table := Build(f)
	rc, ok := table.Lookup("a", "b")
	if !ok || rc.Resistance != 5.0 {
		t.Errorf("Lookup = (%+v, %v), want resistance 5.0 with default unit multiplier", rc, ok)
	}
}

func TestLookupMissing(t *testing.T) {
	table := Build(spef.File{})
	if _, ok := table.Lookup("a", "b"); ok {
		t.Error("Lookup on an empty table should report no entry")
	}
	if c := table.NodeCapacitance("a"); c != 0 {
		t.Errorf("NodeCapacitance on an empty table = %v, want 0", c)
	}
}
