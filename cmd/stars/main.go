// Command stars runs static timing analysis on an SDF netlist (plus
// optional SPEF parasitics and a SPICE subcircuit library), extracts the
// critical combinational path to the worst endpoint, and writes path.html
// and out.spice in the current directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/Uriopass/stars/analyzer"
	"github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/htmlreport"
	"github.com/Uriopass/stars/parasitics"
	"github.com/Uriopass/stars/pathextract"
	"github.com/Uriopass/stars/pin"
	"github.com/Uriopass/stars/sdf"
	"github.com/Uriopass/stars/sdfio"
	"github.com/Uriopass/stars/spef"
	"github.com/Uriopass/stars/spefio"
	"github.com/Uriopass/stars/spice"
	"github.com/Uriopass/stars/staerr"
	"github.com/Uriopass/stars/subckt"
	"github.com/Uriopass/stars/tables"
)

func main() {
	var sdfFlag, subcktFlag, spefFlag string
	var cycleTarget float64
	flag.StringVar(&sdfFlag, "sdf", "", "path to the SDF netlist (overrides the positional argument)")
	flag.StringVar(&subcktFlag, "subckt", "", "path to a SPICE .subckt library")
	flag.StringVar(&spefFlag, "spef", "", "path to a SPEF parasitics file")
	flag.Float64Var(&cycleTarget, "cycle-target", 0, "cycle time used to report slack in path.html")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <sdf-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	sdfPath := sdfFlag
	if sdfPath == "" {
		if flag.NArg() < 1 {
			flag.Usage()
			os.Exit(2)
		}
		sdfPath = flag.Arg(0)
	}

	if err := run(sdfPath, subcktFlag, spefFlag, cycleTarget); err != nil {
		fmt.Fprintln(os.Stderr, "stars: "+errors.Cause(err).Error())
		os.Exit(1)
	}
}

func run(sdfPath, subcktPath, spefPath string, cycleTarget float64) error {
	tb, err := tables.Load()
	if err != nil {
		return err
	}

	sdfFile, err := readSDF(sdfPath)
	if err != nil {
		return err
	}

	g, err := graph.Build(sdfFile, tb.Unateness)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}

	result, err := analyzer.Analyze(g)
	if err != nil {
		return err
	}

	endpoint, ok := worstEndpoint(g, result)
	if !ok {
		return errors.New("no timing endpoints discovered")
	}

	path := pathextract.Extract(g, result, endpoint)
	endpointArrival := result.Arrival[endpoint]

	rep := htmlreport.Build(g, result, path, endpoint, cycleTarget, false)
	htmlOut, err := htmlreport.Render(rep)
	if err != nil {
		return err
	}
	if err := os.WriteFile("path.html", []byte(htmlOut), 0o644); err != nil {
		return errors.Wrap(err, "writing path.html")
	}

	if subcktPath == "" {
		log.Printf("stars: no subckt library given, skipping SPICE emission")
		return nil
	}
	lib, err := readSubckt(subcktPath)
	if err != nil {
		return err
	}

	para := parasitics.Table{}
	if spefPath != "" {
		spefFile, err := readSPEF(spefPath)
		if err != nil {
			return err
		}
		para = parasitics.Build(spefFile)
	} else {
		log.Printf("stars: no parasitics file given, falling back to the wire-load model")
	}

	deck := spice.Synthesize(g, lib, para, tb, path, endpoint, endpointArrival)
	if err := os.WriteFile("out.spice", []byte(deck), 0o644); err != nil {
		return errors.Wrap(err, "writing out.spice")
	}
	return nil
}

// worstEndpoint picks the Output with the largest total launch-to-capture
// delay (arrival + required). This ordering is independent of the cycle
// target used later to report slack, so no target needs to be known yet
// to decide which endpoint is "worst".
func worstEndpoint(g *graph.Graph, result analyzer.Result) (pin.TransitionPin, bool) {
	best := pin.TransitionPin{}
	bestSum := -1.0
	found := false
	for _, tp := range g.Outputs {
		a, aok := result.Arrival[tp]
		q, qok := result.Required[tp]
		if !aok || !qok {
			continue
		}
		sum := a + q
		if !found || sum > bestSum {
			best, bestSum, found = tp, sum, true
		}
	}
	return best, found
}

func readSDF(path string) (sdf.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return sdf.File{}, &staerr.IoError{Path: path, Op: "read"}
	}
	defer f.Close()
	return sdfio.Load(f, path)
}

func readSubckt(path string) (*subckt.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &staerr.IoError{Path: path, Op: "read"}
	}
	defer f.Close()
	return subckt.Parse(f, path)
}

func readSPEF(path string) (spef.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return spef.File{}, &staerr.IoError{Path: path, Op: "read"}
	}
	defer f.Close()
	return spefio.Load(f, path)
}
