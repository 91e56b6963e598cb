package graph

import (
	"gonum.org/v1/gonum/graph/topo"

	"github.com/Uriopass/stars/staerr"
)

// CheckAcyclic validates that the graph is a DAG before analysis runs.
// It runs topo.Sort over the forward-adjacency gonum view; an Unorderable
// error is translated to CycleDetected. Self-loops, which the gonum view
// leaves out, are checked directly on the forward adjacency. Analyzer
// callers that skip this pre-check still get CycleDetected from their own
// topo.Sort call for any cycle through two or more nodes.
func (g *Graph) CheckAcyclic() error {
	for _, tp := range g.order {
		for _, e := range g.Forward[tp] {
			if e.To == tp {
				return &staerr.CycleDetected{CycleLen: 1, Sample: tp.String()}
			}
		}
	}
	if _, err := topo.Sort(g.GonumForward()); err != nil {
		if uo, ok := err.(topo.Unorderable); ok && len(uo) > 0 {
			return &staerr.CycleDetected{
				CycleLen: len(uo[0]),
				Sample:   g.At(uo[0][0].ID()).String(),
			}
		}
		return &staerr.CycleDetected{CycleLen: 0, Sample: "unknown"}
	}
	return nil
}
