package graph

import (
	"testing"

	"github.com/Uriopass/stars/pin"
	"github.com/Uriopass/stars/staerr"
)

func mkTP(p string) pin.TransitionPin {
	return pin.TransitionPin{Pin: pin.Pin(p), Transition: pin.Rise}
}

func TestCheckAcyclicOnDAG(t *testing.T) {
	u := loadUnateness(t)
	g, err := Build(and2Netlist(), u)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := g.CheckAcyclic(); err != nil {
		t.Errorf("CheckAcyclic() on an acyclic graph = %v, want nil", err)
	}
}

func TestCheckAcyclicOnCycle(t *testing.T) {
	g := newGraph()
	a := mkTP("a")
	b := mkTP("b")
	g.addEdge(a, b, 1.0)
	g.addEdge(b, a, 1.0)

	err := g.CheckAcyclic()
	if err == nil {
		t.Fatal("expected CheckAcyclic to report the cycle")
	}
	if _, ok := err.(*staerr.CycleDetected); !ok {
		t.Errorf("error type = %T, want *staerr.CycleDetected", err)
	}
}
