// Package analyzer runs the two longest-path DAG passes a static timing
// analysis needs: forward arrival time from Inputs, and backward
// required-time budget from Outputs. Both passes share one algorithm,
// parameterized by which adjacency map supplies "predecessor" edges and
// which endpoint list seeds the pass; only the direction differs.
package analyzer

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"

	stagraph "github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/pin"
	"github.com/Uriopass/stars/staerr"
)

// Result holds the two longest-path maps. A transition-pin present in
// neither map was unreachable from any seed in its respective direction
// and is simply absent rather than recorded with a sentinel value.
type Result struct {
	Arrival  map[pin.TransitionPin]float64
	Required map[pin.TransitionPin]float64
}

// Slack returns cycleTarget minus (arrival + required) for v, and whether v
// participates in some complete launch-to-capture path (i.e. has both a
// finite arrival and a finite required value).
func (r Result) Slack(v pin.TransitionPin, cycleTarget float64) (float64, bool) {
	a, aok := r.Arrival[v]
	q, qok := r.Required[v]
	if !aok || !qok {
		return 0, false
	}
	return cycleTarget - (a + q), true
}

// Analyze runs the forward and backward longest-path passes over g.
// Complexity is O(V+E): each pass is one topo.Sort plus one linear scan of
// the adjacency it traverses.
func Analyze(g *stagraph.Graph) (Result, error) {
	fwdOrder, err := topoOrder(g, g.GonumForward())
	if err != nil {
		return Result{}, err
	}
	revOrder, err := topoOrder(g, g.GonumReverse())
	if err != nil {
		return Result{}, err
	}

	arrival := longestPath(fwdOrder, g.Reverse, g.Inputs)
	required := longestPath(revOrder, g.Forward, g.Outputs)

	return Result{Arrival: arrival, Required: required}, nil
}

func topoOrder(g *stagraph.Graph, dg graph.Directed) ([]pin.TransitionPin, error) {
	nodes, err := topo.Sort(dg)
	if err != nil {
		if uo, ok := err.(topo.Unorderable); ok && len(uo) > 0 {
			return nil, &staerr.CycleDetected{
				CycleLen: len(uo[0]),
				Sample:   g.At(uo[0][0].ID()).String(),
			}
		}
		return nil, &staerr.CycleDetected{CycleLen: 0, Sample: "unknown"}
	}
	order := make([]pin.TransitionPin, len(nodes))
	for i, n := range nodes {
		order[i] = g.At(n.ID())
	}
	return order, nil
}

// longestPath is the shared relaxation: value[seed] = 0 for every seed;
// for every other node v, visited in an order where all of its
// predecessor edges' sources are already finalized, value[v] = max over
// predecessors[v] of value[predecessor] + delay. A node with no
// finalized predecessor and not itself a seed is left unset, rather than
// written and later filtered as math.NaN().
func longestPath(order []pin.TransitionPin, predecessors map[pin.TransitionPin][]stagraph.Edge, seeds []pin.TransitionPin) map[pin.TransitionPin]float64 {
	value := make(map[pin.TransitionPin]float64, len(order))
	seedSet := make(map[pin.TransitionPin]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}

	for _, v := range order {
		if seedSet[v] {
			value[v] = 0
			continue
		}
		best := math.Inf(-1)
		found := false
		for _, e := range predecessors[v] {
			pv, ok := value[e.To]
			if !ok {
				continue
			}
			cand := pv + e.Delay
			if !found || cand > best {
				best = cand
				found = true
			}
		}
		if found {
			value[v] = best
		}
	}
	return value
}
