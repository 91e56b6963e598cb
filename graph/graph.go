// Package graph lifts a parsed SDF netlist into the (pin, transition)
// timing graph: two parallel adjacency maps, cell indices, and the
// deterministically-sorted Inputs/Outputs endpoint lists.
package graph

import (
	"log"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/Uriopass/stars/pin"
	"github.com/Uriopass/stars/sdf"
	"github.com/Uriopass/stars/staerr"
	"github.com/Uriopass/stars/tables"
)

// Edge is a directed timing arc: the destination transition-pin and its
// non-negative delay.
type Edge struct {
	To    pin.TransitionPin
	Delay float64
}

// CellIndex records, for one cell instance, its cell type and the input,
// output, and fanout pin sets observed while translating SDF delays.
type CellIndex struct {
	Type       string
	Inputs     map[string]bool
	Outputs    map[string]bool
	Fanout     map[string]bool
	FlipFlop   bool
	ClockPin   string
	DPin, QPin string
}

func newCellIndex(cellType string) *CellIndex {
	return &CellIndex{
		Type:    cellType,
		Inputs:  make(map[string]bool),
		Outputs: make(map[string]bool),
		Fanout:  make(map[string]bool),
	}
}

// Graph is the timing graph: exact-transpose forward/reverse adjacency
// maps over transition-pins, plus cell indices and the Inputs/Outputs
// endpoint lists.
type Graph struct {
	Forward map[pin.TransitionPin][]Edge
	Reverse map[pin.TransitionPin][]Edge
	Cells   map[pin.Instance]*CellIndex

	Inputs  []pin.TransitionPin
	Outputs []pin.TransitionPin

	Clock pin.Pin
	Reset pin.Pin

	// order is the discovery order of transition-pins, i.e. SDF file
	// order. It drives the node ordinals of the gonum wiring in gonum.go,
	// clock/reset and endpoint discovery, and NodeOrder.
	order  []pin.TransitionPin
	nodeID map[pin.TransitionPin]int64
}

// NodeOrder returns the transition-pins in discovery order. Used by the
// HTML reporter to break ties deterministically when sorting a cell's
// fanout pins, since ranging a Go map directly would randomize the order
// same-slack entries started from.
func (g *Graph) NodeOrder() []pin.TransitionPin {
	return g.order
}

func newGraph() *Graph {
	return &Graph{
		Forward: make(map[pin.TransitionPin][]Edge),
		Reverse: make(map[pin.TransitionPin][]Edge),
		Cells:   make(map[pin.Instance]*CellIndex),
		nodeID:  make(map[pin.TransitionPin]int64),
	}
}

func (g *Graph) ensure(tp pin.TransitionPin) {
	if _, ok := g.nodeID[tp]; ok {
		return
	}
	g.nodeID[tp] = int64(len(g.order))
	g.order = append(g.order, tp)
	if _, ok := g.Forward[tp]; !ok {
		g.Forward[tp] = nil
	}
	if _, ok := g.Reverse[tp]; !ok {
		g.Reverse[tp] = nil
	}
}

func (g *Graph) addEdge(from, to pin.TransitionPin, delay float64) {
	g.ensure(from)
	g.ensure(to)
	g.Forward[from] = append(g.Forward[from], Edge{To: to, Delay: delay})
	g.Reverse[to] = append(g.Reverse[to], Edge{To: from, Delay: delay})
}

func (g *Graph) cell(inst pin.Instance, cellType string) *CellIndex {
	c, ok := g.Cells[inst]
	if !ok {
		c = newCellIndex(cellType)
		g.Cells[inst] = c
	}
	if c.Type == "" {
		c.Type = cellType
	}
	return c
}

var clockNames = map[string]bool{"clk": true, "clock": true}
var resetNames = map[string]bool{"rst": true, "reset": true, "resetn": true}

func pathToInstance(p *sdf.Path) pin.Instance {
	if p == nil {
		return pin.Instance("")
	}
	return pin.Instance(strings.Join(p.Components, "/"))
}

func pathToPin(p sdf.Path) pin.Pin {
	idx := p.BitIndex
	if idx < 0 {
		idx = -1
	}
	return pin.Join(p.Components, idx)
}

func valuesToRiseFall(vals []sdf.Value) (rise, fall float64, err error) {
	switch len(vals) {
	case 1:
		v := vals[0].MinCorner()
		return v, v, nil
	case 2:
		return vals[0].MinCorner(), vals[1].MinCorner(), nil
	default:
		return 0, 0, &staerr.UnsupportedFeature{
			Feature: "DelayValueCount",
			Detail:  "value list length must be 1 or 2",
		}
	}
}

// Build translates a parsed SDF file into a Graph, using unateness
// lookups from the embedded tables to determine which output transition
// each input transition propagates to.
func Build(f sdf.File, t tables.Unateness) (*Graph, error) {
	g := newGraph()

	for _, cell := range f.Cells {
		for _, d := range cell.Delays {
			switch d.Kind {
			case sdf.KindConditionalIOPath, sdf.KindConditionalElse:
				return nil, &staerr.UnsupportedFeature{Feature: "ConditionalIOPath"}

			case sdf.KindInterconnect:
				if err := g.translateInterconnect(d); err != nil {
					return nil, err
				}

			case sdf.KindIOPath:
				inst := pathToInstance(cell.Instance)
				if err := g.translateIOPath(inst, cell.CellType, d, t); err != nil {
					return nil, err
				}
			}
		}
	}

	g.detectClockReset()
	g.discoverEndpoints()
	return g, nil
}

func (g *Graph) translateInterconnect(d sdf.Delay) error {
	if d.Source.Bus != nil || d.Sink.Bus != nil {
		return &staerr.UnsupportedFeature{Feature: "BitRange", Detail: "multi-bit bus on interconnect"}
	}
	rise, fall, err := valuesToRiseFall(d.Values)
	if err != nil {
		return err
	}

	a := pathToPin(d.Source)
	b := pathToPin(d.Sink)

	g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Rise}, pin.TransitionPin{Pin: b, Transition: pin.Rise}, rise)
	g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Fall}, pin.TransitionPin{Pin: b, Transition: pin.Fall}, fall)

	if srcInst := a.Instance(); srcInst != "" {
		c := g.cell(srcInst, "")
		c.Fanout[string(b)] = true
	}
	return nil
}

func (g *Graph) translateIOPath(inst pin.Instance, cellType string, d sdf.Delay, t tables.Unateness) error {
	if d.ConditionExpr != "" {
		return &staerr.UnsupportedFeature{Feature: "ConditionalIOPath"}
	}
	if d.SourceEdge != sdf.EdgeNone {
		return &staerr.UnsupportedFeature{Feature: "EdgeQualifier", Detail: d.SourcePort}
	}
	if d.SourceBus != nil {
		return &staerr.UnsupportedFeature{Feature: "BitRange", Detail: "multi-bit bus on IOPATH source"}
	}

	rise, fall, err := valuesToRiseFall(d.Values)
	if err != nil {
		return err
	}

	polarity, ok := t.Lookup(cellType, d.SourcePort)
	if !ok {
		if _, known := t[cellType]; !known {
			return &staerr.UnsupportedFeature{Feature: "UnknownCellType", Detail: cellType}
		}
		return &staerr.MissingUnateness{CellType: cellType, Pin: d.SourcePort}
	}

	a := pin.WithinInstance(inst, d.SourcePort, -1)
	b := pin.WithinInstance(inst, d.SinkPort, -1)

	c := g.cell(inst, cellType)
	c.Inputs[d.SourcePort] = true
	c.Outputs[d.SinkPort] = true

	switch polarity {
	case tables.Positive:
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Rise}, pin.TransitionPin{Pin: b, Transition: pin.Rise}, rise)
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Fall}, pin.TransitionPin{Pin: b, Transition: pin.Fall}, fall)
	case tables.Negative:
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Rise}, pin.TransitionPin{Pin: b, Transition: pin.Fall}, fall)
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Fall}, pin.TransitionPin{Pin: b, Transition: pin.Rise}, rise)
	case tables.NonUnate:
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Rise}, pin.TransitionPin{Pin: b, Transition: pin.Rise}, rise)
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Fall}, pin.TransitionPin{Pin: b, Transition: pin.Fall}, fall)
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Rise}, pin.TransitionPin{Pin: b, Transition: pin.Fall}, fall)
		g.addEdge(pin.TransitionPin{Pin: a, Transition: pin.Fall}, pin.TransitionPin{Pin: b, Transition: pin.Rise}, rise)
	}

	if d.SourcePort == "CLK" && d.SinkPort == "Q" {
		c.FlipFlop = true
		c.ClockPin = string(a)
		c.DPin = string(pin.WithinInstance(inst, "D", -1))
		c.QPin = string(b)
	}

	return nil
}

func (g *Graph) detectClockReset() {
	for _, tp := range g.order {
		if !tp.Pin.IsTopLevel() {
			continue
		}
		local := strings.ToLower(tp.Pin.Local())
		if g.Clock == "" && clockNames[local] {
			g.Clock = tp.Pin
		}
		if g.Reset == "" && resetNames[local] {
			g.Reset = tp.Pin
		}
	}
	if g.Clock == "" {
		log.Printf("stars: warning: no clock net (clk/clock) found")
	}
	if g.Reset == "" {
		log.Printf("stars: warning: no reset net (rst/reset/resetn) found")
	}
}

func (g *Graph) discoverEndpoints() {
	var inputs, outputs []pin.TransitionPin

	for _, tp := range g.order {
		if len(g.Reverse[tp]) == 0 {
			if tp.Pin == g.Clock || tp.Pin == g.Reset {
				continue
			}
			inputs = append(inputs, tp)
		}
		if len(g.Forward[tp]) == 0 {
			outputs = append(outputs, tp)
		}
	}

	for _, c := range g.Cells {
		if !c.FlipFlop {
			continue
		}
		qPin := pin.Pin(c.QPin)
		dPin := pin.Pin(c.DPin)
		inputs = append(inputs,
			pin.TransitionPin{Pin: qPin, Transition: pin.Rise},
			pin.TransitionPin{Pin: qPin, Transition: pin.Fall},
		)
		outputs = append(outputs,
			pin.TransitionPin{Pin: dPin, Transition: pin.Rise},
			pin.TransitionPin{Pin: dPin, Transition: pin.Fall},
		)
		g.ensure(pin.TransitionPin{Pin: qPin, Transition: pin.Rise})
		g.ensure(pin.TransitionPin{Pin: qPin, Transition: pin.Fall})
		g.ensure(pin.TransitionPin{Pin: dPin, Transition: pin.Rise})
		g.ensure(pin.TransitionPin{Pin: dPin, Transition: pin.Fall})
	}

	sort.Slice(inputs, func(i, j int) bool { return pin.Less(inputs[i], inputs[j]) })
	sort.Slice(outputs, func(i, j int) bool { return pin.Less(outputs[i], outputs[j]) })
	g.Inputs = inputs
	g.Outputs = outputs
}

// Validate checks the forward/reverse transposition invariant: for every
// edge (u,d)->(v,d,delay) in forward there is an exact counterpart
// (v,d)->(u,d,delay) in reverse.
func (g *Graph) Validate() error {
	count := func(m map[pin.TransitionPin][]Edge, from, to pin.TransitionPin, delay float64) int {
		n := 0
		for _, e := range m[from] {
			if e.To == to && e.Delay == delay {
				n++
			}
		}
		return n
	}
	for from, edges := range g.Forward {
		for _, e := range edges {
			if count(g.Reverse, e.To, from, e.Delay) == 0 {
				return errors.Errorf("forward edge %s->%s (delay %v) has no reverse counterpart", from, e.To, e.Delay)
			}
		}
	}
	for to, edges := range g.Reverse {
		for _, e := range edges {
			if count(g.Forward, e.To, to, e.Delay) == 0 {
				return errors.Errorf("reverse edge %s->%s (delay %v) has no forward counterpart", to, e.To, e.Delay)
			}
		}
	}
	return nil
}
