package graph

import "testing"

func TestGonumForwardMirrorsAdjacency(t *testing.T) {
	u := loadUnateness(t)
	g, err := Build(and2Netlist(), u)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	dg := g.GonumForward()
	if dg.Nodes().Len() != g.Len() {
		t.Errorf("gonum node count = %d, want %d", dg.Nodes().Len(), g.Len())
	}
	for tp, edges := range g.Forward {
		for _, e := range edges {
			if !dg.HasEdgeFromTo(g.ID(tp), g.ID(e.To)) {
				t.Errorf("gonum graph missing edge %s -> %s", tp, e.To)
			}
		}
	}
}

func TestAtIsIDsInverse(t *testing.T) {
	u := loadUnateness(t)
	g, err := Build(and2Netlist(), u)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, tp := range g.NodeOrder() {
		if got := g.At(g.ID(tp)); got != tp {
			t.Errorf("At(ID(%s)) = %s, want %s", tp, got, tp)
		}
	}
}
