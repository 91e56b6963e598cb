package graph

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/Uriopass/stars/pin"
)

// ID returns the stable int64 ordinal assigned to tp at discovery time.
// Used only to drive gonum's graph/topo algorithms; never part of the
// public transition-pin identity.
func (g *Graph) ID(tp pin.TransitionPin) int64 { return g.nodeID[tp] }

// At is the inverse of ID: the transition-pin discovered at ordinal id.
func (g *Graph) At(id int64) pin.TransitionPin { return g.order[id] }

// Len returns the number of distinct transition-pins in the graph.
func (g *Graph) Len() int { return len(g.order) }

// gonumFrom builds a gonum simple.DirectedGraph mirroring adj (either
// g.Forward or g.Reverse), reusing the node ordinals from Build.
// Multi-edges (two Edge entries between the same pair of transition-pins)
// collapse to one gonum edge: gonum's graph/topo only needs reachability,
// and the longest-path relaxation itself walks the original Edge slices,
// not the gonum view. Self-loops are left out, since simple.DirectedGraph
// does not accept them.
func (g *Graph) gonumFrom(adj map[pin.TransitionPin][]Edge) *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for _, tp := range g.order {
		dg.AddNode(simple.Node(g.nodeID[tp]))
	}
	for from, edges := range adj {
		fu := g.nodeID[from]
		for _, e := range edges {
			tu := g.nodeID[e.To]
			if fu == tu || dg.HasEdgeFromTo(fu, tu) {
				continue
			}
			dg.SetEdge(dg.NewEdge(simple.Node(fu), simple.Node(tu)))
		}
	}
	return dg
}

// GonumForward exposes the forward-adjacency gonum view, for callers (the
// analyzer) that want topo.Sort without re-deriving node ordinals.
func (g *Graph) GonumForward() *simple.DirectedGraph { return g.gonumFrom(g.Forward) }

// GonumReverse exposes the reverse-adjacency gonum view.
func (g *Graph) GonumReverse() *simple.DirectedGraph { return g.gonumFrom(g.Reverse) }
