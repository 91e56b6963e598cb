// Package pathextract reconstructs the exact maximum-delay path to an
// endpoint by back-tracing tight edges under the forward arrival table.
package pathextract

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/Uriopass/stars/analyzer"
	"github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/pin"
)

// Entry is one step of an extracted path: the transition-pin and its
// arrival time.
type Entry struct {
	Pin     pin.TransitionPin
	Arrival float64
}

// Extract back-traces from endpoint to the start of its critical path.
// The returned entries run from the path's start up to but not including
// endpoint. When multiple predecessors are tight under exact float
// equality, the implementation takes the last one encountered in
// g.Reverse[current]'s iteration order, an arbitrary but deterministic
// choice callers must not depend on.
func Extract(g *graph.Graph, result analyzer.Result, endpoint pin.TransitionPin) []Entry {
	var path []Entry

	// Guards the back-trace against ever revisiting the same node twice:
	// the graph is contractually a DAG, so this never trips on a well-formed
	// input, but a bounded bitset is cheaper insurance than an unbounded
	// loop if that contract is ever violated upstream of a CheckAcyclic call.
	seen := bitset.New(uint(g.Len()))

	current := endpoint
	for {
		id := uint(g.ID(current))
		if seen.Test(id) {
			break
		}
		seen.Set(id)

		arrivalCurrent, ok := result.Arrival[current]
		if !ok {
			break
		}

		var tight pin.TransitionPin
		found := false
		for _, e := range g.Reverse[current] {
			pv, ok := result.Arrival[e.To]
			if !ok {
				continue
			}
			if pv+e.Delay == arrivalCurrent {
				tight = e.To
				found = true
			}
		}
		if !found {
			break
		}

		path = append([]Entry{{Pin: tight, Arrival: result.Arrival[tight]}}, path...)
		current = tight
	}

	return path
}
