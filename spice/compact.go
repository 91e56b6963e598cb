package spice

import (
	"strconv"

	"github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/pathextract"
	"github.com/Uriopass/stars/pin"
)

// step is one transition-pin in the full path sequence (the extracted
// path plus the chosen endpoint appended).
type step struct {
	TP      pin.TransitionPin
	Arrival float64
}

func fullSequence(path []pathextract.Entry, endpoint pin.TransitionPin, endpointArrival float64) []step {
	seq := make([]step, 0, len(path)+1)
	for _, e := range path {
		seq = append(seq, step{TP: e.Pin, Arrival: e.Arrival})
	}
	seq = append(seq, step{TP: endpoint, Arrival: endpointArrival})
	return seq
}

// Traversal is one cell's worth of consecutive same-instance path steps:
// the path alternates input-pin-of-cell -> output-pin-of-cell ->
// input-pin-of-next-cell, so consecutive entries sharing an instance
// collapse into one traversal carrying both the entering and leaving
// transition-pins.
type Traversal struct {
	Instance pin.Instance
	CellType string
	Index    int // short-name sequence index, assigned in path order

	HasEnter bool
	Enter    step
	HasLeave bool
	Leave    step
}

// ShortName returns the compacted "I<k>/<pin>" reference for a pin local
// to this traversal's instance.
func (t Traversal) ShortName(localPin string) string {
	return "I" + strconv.Itoa(t.Index) + "/" + localPin
}

// wireLink is an inter-cell interconnect on the path: the driving pin and
// the driven pin. The fanout size the wire-load model needs is looked up
// from the graph when the wire is written.
type wireLink struct {
	From, To pin.TransitionPin
}

// Compact groups the full path sequence into cell traversals and the
// inter-cell wire links between them. Top-level primary-port steps (no
// owning instance) are not cells and are skipped as traversal subjects,
// but still participate as wire endpoints.
func Compact(g *graph.Graph, path []pathextract.Entry, endpoint pin.TransitionPin, endpointArrival float64) ([]Traversal, []wireLink) {
	seq := fullSequence(path, endpoint, endpointArrival)

	var traversals []Traversal
	var links []wireLink

	i := 0
	nextIndex := 0
	for i < len(seq) {
		inst := seq[i].TP.Pin.Instance()
		if inst == "" {
			// Top-level primary port: not a cell traversal. If followed
			// by another step, that's a wire link.
			if i+1 < len(seq) {
				links = append(links, wireLink{From: seq[i].TP, To: seq[i+1].TP})
			}
			i++
			continue
		}

		cellType := ""
		if c, ok := g.Cells[inst]; ok {
			cellType = c.Type
		}
		tr := Traversal{Instance: inst, CellType: cellType, Index: nextIndex}
		nextIndex++

		tr.HasEnter = true
		tr.Enter = seq[i]
		j := i
		for j+1 < len(seq) && seq[j+1].TP.Pin.Instance() == inst {
			j++
		}
		tr.HasLeave = true
		tr.Leave = seq[j]
		if j == i {
			// Single-step group: either a launching register's Q (no
			// entering pin, driven by an initial condition) or a
			// capturing register's D that is itself the endpoint (no
			// leaving pin to drive anything further).
			if i == 0 {
				tr.HasEnter = false
			}
			if j == len(seq)-1 {
				tr.HasLeave = false
			}
		}
		traversals = append(traversals, tr)

		if j+1 < len(seq) {
			links = append(links, wireLink{From: seq[j].TP, To: seq[j+1].TP})
		}
		i = j + 1
	}

	return traversals, links
}
