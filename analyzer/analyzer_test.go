package analyzer

import (
	"testing"

	stagraph "github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/pin"
	"github.com/Uriopass/stars/sdf"
	"github.com/Uriopass/stars/tables"
)

func path1(s string) sdf.Path { return sdf.Path{Components: []string{s}, BitIndex: -1} }

func twoValue(rise, fall float64) []sdf.Value {
	return []sdf.Value{{Kind: sdf.ValueSingle, Single: rise}, {Kind: sdf.ValueSingle, Single: fall}}
}

// chainGraph builds IN -> u1 (INV) -> u2 (INV) -> OUT, a two-inverter chain
// with one unambiguous critical path, to pin down exact arrival/required
// arithmetic.
func chainGraph(t *testing.T) *stagraph.Graph {
	t.Helper()
	tb, err := tables.Load()
	if err != nil {
		t.Fatalf("tables.Load() error = %v", err)
	}
	f := sdf.File{Cells: []sdf.Cell{
		{Delays: []sdf.Delay{
			{Kind: sdf.KindInterconnect, Source: path1("IN"), Sink: path1("u1/A"), Values: twoValue(0.01, 0.01)},
			{Kind: sdf.KindInterconnect, Source: path1("u1/Y"), Sink: path1("u2/A"), Values: twoValue(0.02, 0.02)},
			{Kind: sdf.KindInterconnect, Source: path1("u2/Y"), Sink: path1("OUT"), Values: twoValue(0.01, 0.01)},
		}},
		{CellType: "INV", Instance: &sdf.Path{Components: []string{"u1"}, BitIndex: -1}, Delays: []sdf.Delay{
			{Kind: sdf.KindIOPath, SourcePort: "A", SinkPort: "Y", Values: twoValue(0.10, 0.12)},
		}},
		{CellType: "INV", Instance: &sdf.Path{Components: []string{"u2"}, BitIndex: -1}, Delays: []sdf.Delay{
			{Kind: sdf.KindIOPath, SourcePort: "A", SinkPort: "Y", Values: twoValue(0.10, 0.12)},
		}},
	}}
	g, err := stagraph.Build(f, tb.Unateness)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestAnalyzeArrivalAlongChain(t *testing.T) {
	g := chainGraph(t)
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// IN rises (seed, arrival 0) -> u1/A rises (+0.01 interconnect) ->
	// u1/Y falls (INV is negative-unate, +0.12 fall delay) -> u2/A falls
	// (+0.02 interconnect) -> u2/Y rises (+0.10 rise delay) -> OUT rises
	// (+0.01 interconnect).
	outRise := pin.TransitionPin{Pin: "OUT", Transition: pin.Rise}
	a, ok := result.Arrival[outRise]
	if !ok {
		t.Fatal("expected an arrival time for OUT/rise")
	}
	want := 0.01 + 0.12 + 0.02 + 0.10 + 0.01
	if diff := a - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Arrival[OUT/rise] = %v, want %v", a, want)
	}
}

func TestAnalyzeRequiredSeedsAtZero(t *testing.T) {
	g := chainGraph(t)
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for _, tp := range g.Outputs {
		if q := result.Required[tp]; q != 0 {
			t.Errorf("Required[%s] = %v, want 0 (an output is itself a backward-pass seed)", tp, q)
		}
	}
}

func TestSlack(t *testing.T) {
	g := chainGraph(t)
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	outRise := pin.TransitionPin{Pin: "OUT", Transition: pin.Rise}
	s, ok := result.Slack(outRise, 1.0)
	if !ok {
		t.Fatal("expected a slack value for OUT/rise")
	}
	a := result.Arrival[outRise]
	q := result.Required[outRise]
	if want := 1.0 - (a + q); s != want {
		t.Errorf("Slack = %v, want %v", s, want)
	}
}

func TestSlackMissingPin(t *testing.T) {
	g := chainGraph(t)
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	_, ok := result.Slack(pin.TransitionPin{Pin: "NOPE", Transition: pin.Rise}, 1.0)
	if ok {
		t.Error("Slack for an unreferenced pin should report false")
	}
}

func TestRankByDelay(t *testing.T) {
	g := chainGraph(t)
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	ranked := result.RankByDelay(g.Outputs)
	if len(ranked) != len(g.Outputs) {
		t.Fatalf("len(ranked) = %d, want %d", len(ranked), len(g.Outputs))
	}
	arrivalOrInf := func(tp pin.TransitionPin) float64 {
		if a, ok := result.Arrival[tp]; ok {
			return a
		}
		return -1e18
	}
	for i := 1; i < len(ranked); i++ {
		if prev, cur := arrivalOrInf(ranked[i-1]), arrivalOrInf(ranked[i]); prev < cur {
			t.Errorf("RankByDelay not descending at index %d: %v < %v", i, prev, cur)
		}
	}
}

func TestRankBySlack(t *testing.T) {
	g := chainGraph(t)
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	ranked := result.RankBySlack(g.Outputs, 1.0)
	for i := 1; i < len(ranked); i++ {
		prev, _ := result.Slack(ranked[i-1], 1.0)
		cur, _ := result.Slack(ranked[i], 1.0)
		if prev > cur {
			t.Errorf("RankBySlack not ascending at index %d: %v > %v", i, prev, cur)
		}
	}
}
