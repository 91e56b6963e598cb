// Package spice synthesizes a self-contained SPICE deck for the extracted
// critical path: cell subcircuit bodies inlined with pin substitution,
// side-input levels chosen from the cell-transition-combinations table,
// driver-sized CMOS inverter pairs or DC sources for side inputs, wire RC
// from SPEF or a fanout-based load model, and a .tran control block.
package spice

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/parasitics"
	"github.com/Uriopass/stars/pathextract"
	"github.com/Uriopass/stars/pin"
	"github.com/Uriopass/stars/subckt"
	"github.com/Uriopass/stars/tables"
	"github.com/Uriopass/stars/wireload"
)

// supplyVoltage is the fixed Vdd rail for the deck preamble.
const supplyVoltage = 1.8

const minDeviceWidth = 0.15 // micrometers, floor on a computed width before binning

// railAliases maps a subckt's standard power/clock/reset pin names to the
// deck's fixed rails. Unrecognized pins are left for normal per-traversal
// net resolution.
var railAliases = map[string]string{
	"VPWR": "dd", "VDD": "dd", "VPB": "dd",
	"VGND": "0", "VSS": "0", "VNB": "0",
	"CLK": "clk",
	"RSTN": "rstn", "RESETN": "rstn", "RST": "rstn",
}

// Synthesize emits the complete SPICE deck for one extracted path. lib
// must be non-nil: the caller skips SPICE emission entirely when no
// subcircuit file was supplied.
func Synthesize(g *graph.Graph, lib *subckt.Library, para parasitics.Table, tb tables.Tables, path []pathextract.Entry, endpoint pin.TransitionPin, endpointArrival float64) string {
	traversals, links := Compact(g, path, endpoint, endpointArrival)

	var b strings.Builder
	writePreamble(&b, endpoint, endpointArrival)

	plotNets := make([]string, 0, len(traversals))

	for i := range traversals {
		tr := &traversals[i]
		plotNets = append(plotNets, instantiateCell(&b, g, lib, tb, tr)...)
	}

	for _, link := range links {
		writeWire(&b, para, g, traversals, link)
	}

	writeControl(&b, plotNets)
	return b.String()
}

func writePreamble(b *strings.Builder, endpoint pin.TransitionPin, delay float64) {
	fmt.Fprintf(b, "* critical path to %s, total delay %.6g ns\n", endpoint, delay)
	fmt.Fprintln(b, `.include "sta_prelude.sp"`)
	fmt.Fprintln(b, "Vgnd 0 0 DC 0")
	fmt.Fprintf(b, "Vdd dd 0 DC %.3g\n", supplyVoltage)
	fmt.Fprintf(b, "Vclk clk 0 PULSE(0 %.3g 0 50p 50p 500p 1n)\n", supplyVoltage)
	fmt.Fprintf(b, "Vrstn rstn 0 DC %.3g\n", supplyVoltage)
}

// instantiateCell emits one traversal's cell body, returning the net
// names (if any) that should be plotted for its leaving pin.
func instantiateCell(b *strings.Builder, g *graph.Graph, lib *subckt.Library, tb tables.Tables, tr *Traversal) []string {
	fmt.Fprintf(b, "* --- I%d: %s (%s) ---\n", tr.Index, tr.Instance, tr.CellType)

	sc, ok := lib.Lookup(tr.CellType)
	if !ok {
		log.Printf("stars: no subckt model for cell type %q (instance %s), modeling as ideal wire", tr.CellType, tr.Instance)
		return idealWireFallback(b, tr)
	}

	cellIdx := g.Cells[tr.Instance]

	nets := resolveNets(sc, tr)
	polarity := traversalPolarity(tr)

	var combo tables.Combination
	haveCombo := false
	if tr.HasEnter {
		enterLocal := tr.Enter.TP.Pin.Local()
		combo, haveCombo = tb.Combinations.ForPolarity(tr.CellType, enterLocal, polarity)
		if !haveCombo {
			log.Printf("stars: no cell-transition-combination for %s/%s polarity %s, using zero-filled side inputs", tr.CellType, enterLocal, polarity)
		}
	}

	sideCount := 0
	if cellIdx != nil {
		for in := range cellIdx.Inputs {
			if tr.HasEnter && in == tr.Enter.TP.Pin.Local() {
				continue
			}
			sideNet := tr.ShortName(in)
			val := 0
			if haveCombo {
				val = combo.Side[in]
			}
			// Size the driver pair from the cell that drives this side input.
			pRatio, nRatio := 0.0, 0.0
			sidePin := pin.TransitionPin{Pin: pin.WithinInstance(tr.Instance, in, -1), Transition: pin.Rise}
			if drivers := g.Reverse[sidePin]; len(drivers) > 0 {
				drv := drivers[0].To.Pin
				if c, ok := g.Cells[drv.Instance()]; ok {
					if up, ok := lib.Lookup(c.Type); ok {
						pRatio, nRatio = up.DriveRatio(drv.Local())
					}
				}
			}
			synthesizeSideInput(b, tr.Index, sideCount, sideNet, val, pRatio, nRatio)
			sideCount++
		}
	}

	for _, t := range sc.Transistors {
		drain := resolveNode(nets, t.Drain, tr.Index)
		gate := resolveNode(nets, t.Gate, tr.Index)
		source := resolveNode(nets, t.Source, tr.Index)
		body := resolveNode(nets, t.Body, tr.Index)
		kind := normalizeDeviceKind(t.Kind)
		fmt.Fprintf(b, "X%d_%s %s %s %s %s %s w=%.3gu l=%.3gu\n",
			tr.Index, t.Name, drain, gate, source, body, kind, t.Width, t.Length)
	}

	if tr.HasLeave && cellIdx != nil {
		attachFanoutCap(b, g, lib, tb, tr, cellIdx)
	}

	if tr.HasEnter == false && tr.HasLeave {
		// Launching flip-flop Q: drive its entering-equivalent net
		// (the Q pin itself, which has no upstream cell driving it on
		// this path) with a transition pulse consistent with the
		// launched edge.
		writeLaunchPulse(b, nets, tr)
	}

	if tr.HasLeave {
		return []string{nets.leaveNet}
	}
	return nil
}

func idealWireFallback(b *strings.Builder, tr *Traversal) []string {
	if !tr.HasEnter || !tr.HasLeave {
		return nil
	}
	enterNet := tr.ShortName(tr.Enter.TP.Pin.Local())
	leaveNet := tr.ShortName(tr.Leave.TP.Pin.Local())
	fmt.Fprintf(b, "Rideal_%d %s %s 1\n", tr.Index, enterNet, leaveNet)
	return []string{leaveNet}
}

func traversalPolarity(tr *Traversal) tables.Polarity {
	if !tr.HasEnter || !tr.HasLeave {
		return tables.Positive
	}
	if tr.Enter.TP.Transition == tr.Leave.TP.Transition {
		return tables.Positive
	}
	return tables.Negative
}

type netMap struct {
	pinNet   map[string]string // subckt IO pin -> resolved net
	leaveNet string
}

func resolveNets(sc *subckt.Subckt, tr *Traversal) netMap {
	nm := netMap{pinNet: make(map[string]string, len(sc.Pins))}
	for _, p := range sc.Pins {
		upper := strings.ToUpper(p)
		if rail, ok := railAliases[upper]; ok {
			nm.pinNet[p] = rail
			continue
		}
		if tr.HasEnter && p == tr.Enter.TP.Pin.Local() {
			nm.pinNet[p] = tr.ShortName(p)
			continue
		}
		if tr.HasLeave && p == tr.Leave.TP.Pin.Local() {
			nm.pinNet[p] = tr.ShortName(p)
			nm.leaveNet = nm.pinNet[p]
			continue
		}
		// Side input: resolved net name is assigned, even though the
		// driving value is synthesized separately.
		nm.pinNet[p] = tr.ShortName(p)
	}
	return nm
}

func resolveNode(nm netMap, node string, index int) string {
	if net, ok := nm.pinNet[node]; ok {
		return net
	}
	// Internal node, not one of the subckt's IO pins: prefixed by
	// instance index so two instantiations of the same cell never
	// collide.
	return fmt.Sprintf("I%d_%s", index, node)
}

func synthesizeSideInput(b *strings.Builder, trIndex, seq int, sideNet string, value int, pRatio, nRatio float64) {
	if pRatio <= 0 && nRatio <= 0 {
		// Upstream cell type unknown: fall back to a pure DC source at
		// the required side value.
		fmt.Fprintf(b, "Vside_%d_%d %s 0 DC %.3g\n", trIndex, seq, sideNet, float64(value)*supplyVoltage)
		return
	}

	gateNet := fmt.Sprintf("side_gate_%d_%d", trIndex, seq)
	gateLevel := (1 - value)
	fmt.Fprintf(b, "Vsg_%d_%d %s 0 DC %.3g\n", trIndex, seq, gateNet, float64(gateLevel)*supplyVoltage)

	pWidth, pMult := binWidth(pfetWidthBins, widthFromDriveRatio(pfetUnitResistance, pRatio, minDeviceWidth))
	nWidth, nMult := binWidth(nfetWidthBins, widthFromDriveRatio(nfetUnitResistance, nRatio, minDeviceWidth))

	fmt.Fprintf(b, "Xside_p_%d_%d %s %s dd dd sky130_fd_pr__pfet_01v8_hvt w=%.3gu l=0.15u m=%.3g\n",
		trIndex, seq, sideNet, gateNet, pWidth, pMult)
	fmt.Fprintf(b, "Xside_n_%d_%d %s %s 0 0 sky130_fd_pr__nfet_01v8 w=%.3gu l=0.15u m=%.3g\n",
		trIndex, seq, sideNet, gateNet, nWidth, nMult)
}

func attachFanoutCap(b *strings.Builder, g *graph.Graph, lib *subckt.Library, tb tables.Tables, tr *Traversal, cellIdx *graph.CellIndex) {
	pathNext := pin.Pin("")
	if tr.HasLeave {
		pathNext = tr.Leave.TP.Pin
	}

	var total float64
	var names []string
	for downstream := range cellIdx.Fanout {
		names = append(names, downstream)
	}
	sort.Strings(names)
	for _, downstream := range names {
		dp := pin.Pin(downstream)
		if dp == pathNext {
			continue
		}
		downInst := dp.Instance()
		downCellType := ""
		if c, ok := g.Cells[downInst]; ok {
			downCellType = c.Type
		}
		if cap, ok := tb.Capacitance.Lookup(downCellType, dp.Local()); ok {
			total += cap
			continue
		}
		if sc, ok := lib.Lookup(downCellType); ok {
			pArea, nArea := sc.LoadArea(dp.Local())
			total += capAreaFarads(pArea, pfetHVTCapPerArea) + capAreaFarads(nArea, nfetCapPerArea)
			continue
		}
		// No table entry and no subckt geometry reachable from here:
		// the fanout pin's load is simply omitted from the sum, a
		// documented simplification (no semantic computation depends
		// on the deck's output).
	}
	if total > 0 {
		fmt.Fprintf(b, "Cfanout_%d %s 0 %.6gf\n", tr.Index, tr.ShortName(tr.Leave.TP.Pin.Local()), total*1e15)
	}
}

func writeLaunchPulse(b *strings.Builder, nm netMap, tr *Traversal) {
	net := nm.leaveNet
	lowHigh := fmt.Sprintf("0 %.3g", supplyVoltage)
	if tr.Leave.TP.Transition == pin.Fall {
		lowHigh = fmt.Sprintf("%.3g 0", supplyVoltage)
	}
	fmt.Fprintf(b, "Vlaunch_%d %s 0 PULSE(%s 0 10p 10p 1 2)\n", tr.Index, net, lowHigh)
}

func writeWire(b *strings.Builder, para parasitics.Table, g *graph.Graph, traversals []Traversal, link wireLink) {
	fromNet := netForEndpoint(traversals, link.From, true)
	toNet := netForEndpoint(traversals, link.To, false)
	if fromNet == "" || toNet == "" {
		return
	}

	var r, c float64
	if rc, ok := para.Lookup(string(link.From.Pin), string(link.To.Pin)); ok {
		r, c = rc.Resistance, rc.Capacitance
	} else {
		fanout := 1
		if ci, ok := g.Cells[link.From.Pin.Instance()]; ok && len(ci.Fanout) > 0 {
			fanout = len(ci.Fanout)
		}
		r, c = wireload.Estimate(fanout)
	}

	fmt.Fprintf(b, "Rwire_%s_%s %s %s %.6g\n", shortRef(link.From), shortRef(link.To), fromNet, toNet, r)
	fmt.Fprintf(b, "Cwire_%s_%s %s 0 %.6gf\n", shortRef(link.From), shortRef(link.To), toNet, c*1e15)
}

func shortRef(tp pin.TransitionPin) string {
	return strings.NewReplacer("/", "_", "[", "_", "]", "_").Replace(string(tp.Pin))
}

func netForEndpoint(traversals []Traversal, tp pin.TransitionPin, isSource bool) string {
	for _, tr := range traversals {
		if isSource && tr.HasLeave && tr.Leave.TP == tp {
			return tr.ShortName(tp.Pin.Local())
		}
		if !isSource && tr.HasEnter && tr.Enter.TP == tp {
			return tr.ShortName(tp.Pin.Local())
		}
	}
	if tp.Pin.IsTopLevel() {
		return "net_" + string(tp.Pin)
	}
	return ""
}

func writeControl(b *strings.Builder, plotNets []string) {
	fmt.Fprintln(b, ".tran 1p 2n")
	fmt.Fprint(b, "plot")
	for _, n := range plotNets {
		fmt.Fprintf(b, " v(%s)", n)
	}
	fmt.Fprintln(b)
	fmt.Fprintln(b, ".end")
}
