// Package htmlreport renders the extracted critical path as an HTML
// table: per-cell arrival/required/slack context, side-input and fanout
// pins, and a toggleable "assume 20% faster on non-critical paths" view.
package htmlreport

import (
	"bytes"
	"html/template"
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Uriopass/stars/analyzer"
	"github.com/Uriopass/stars/graph"
	"github.com/Uriopass/stars/pathextract"
	"github.com/Uriopass/stars/pin"
)

// fastFactor is the rescale applied to non-critical arrivals/requireds
// under the "assume faster" toggle: dividing by it models a 20% speedup.
const fastFactor = 1.2

// row is one rendered table row: one cell on the extracted path.
type row struct {
	Instance string
	CellType string

	HasLeave      bool
	leaveArrival  float64
	leaveRequired float64

	Sides   []renderedPin
	Fanouts []renderedPin
}

func (r row) LeaveArrival() string  { return formatFloat(r.leaveArrival) }
func (r row) LeaveRequired() string { return formatFloat(r.leaveRequired) }

// renderedPin is the final (string) form of a pinContext plus its
// numeric slack, used once sorting and the fast-path rescale have both
// been applied.
type renderedPin struct {
	Pin      string
	Arrival  string
	Required string
	Slack    string
	slack    float64
	Bold     bool
}

// Report is the rendered document's row data, kept separate from the
// rendered HTML string. The fast-path rescale is applied by Build, so a
// fast view is a second Build call with fast set, not a re-rendering.
type Report struct {
	Rows        []row
	CycleTarget float64
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>critical path report</title>
<style>
table { border-collapse: collapse; font-family: monospace; }
td, th { border: 1px solid #999; padding: 4px 8px; text-align: left; }
.bold { font-weight: bold; }
</style>
</head>
<body>
<table>
<tr><th>instance</th><th>type</th><th>arrival</th><th>required</th><th>side inputs</th><th>fanout</th></tr>
{{range .Rows}}
<tr>
<td>{{.Instance}}</td>
<td>{{.CellType}}</td>
<td>{{if .HasLeave}}{{.LeaveArrival}}{{end}}</td>
<td>{{if .HasLeave}}{{.LeaveRequired}}{{end}}</td>
<td>{{range .Sides}}<span{{if .Bold}} class="bold"{{end}}>{{.Pin}}: a={{.Arrival}} r={{.Required}} s={{.Slack}}</span><br>{{end}}</td>
<td>{{range .Fanouts}}<span>{{.Pin}}: a={{.Arrival}} r={{.Required}} s={{.Slack}}</span><br>{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`

var tmpl = template.Must(template.New("path").Parse(reportTemplate))

// Build assembles the per-cell rows for path (the extracted entries plus
// the chosen endpoint), consulting result for arrival/required context
// on every side and fanout pin of every traversed cell. When fast is
// true, the arrival and required of every side/fanout pin that is not on
// the path are divided by fastFactor before slack is recomputed, modeling
// the "assume 20% faster on non-critical paths" toggle. The path's own
// entering input appears among the side pins (in bold) and keeps its
// unscaled values; fanout pins on the path are left out altogether.
func Build(g *graph.Graph, result analyzer.Result, path []pathextract.Entry, endpoint pin.TransitionPin, cycleTarget float64, fast bool) Report {
	pathPins := make(map[pin.Pin]bool, len(path)+1)
	for _, e := range path {
		pathPins[e.Pin.Pin] = true
	}
	pathPins[endpoint.Pin] = true

	full := append(append([]pathextract.Entry(nil), path...), pathextract.Entry{Pin: endpoint, Arrival: 0})

	var rows []row
	i := 0
	for i < len(full) {
		inst := full[i].Pin.Pin.Instance()
		if inst == "" {
			i++
			continue
		}
		j := i
		for j+1 < len(full) && full[j+1].Pin.Pin.Instance() == inst {
			j++
		}
		cellType := ""
		var ci *graph.CellIndex
		if c, ok := g.Cells[inst]; ok {
			ci = c
			cellType = c.Type
		}

		r := row{Instance: string(inst), CellType: cellType}
		leavingLocal := full[j].Pin.Pin.Local()
		if j < len(full)-1 {
			r.HasLeave = true
			r.leaveArrival = result.Arrival[full[j].Pin]
			r.leaveRequired = result.Required[full[j].Pin]
		}

		if ci != nil {
			for in := range ci.Inputs {
				if in == leavingLocal {
					continue
				}
				tp := pin.Pin(string(inst) + "/" + in)
				r.Sides = append(r.Sides, renderPin(result, tp, pathPins[tp], cycleTarget, fast && !pathPins[tp]))
			}
			sort.Slice(r.Sides, func(a, b int) bool { return r.Sides[a].Pin < r.Sides[b].Pin })

			for _, tp := range fanoutOrder(g, ci) {
				if pathPins[tp] {
					continue
				}
				r.Fanouts = append(r.Fanouts, renderPin(result, tp, false, cycleTarget, fast))
			}
			sort.SliceStable(r.Fanouts, func(a, b int) bool { return r.Fanouts[a].slack < r.Fanouts[b].slack })
		}

		rows = append(rows, r)
		i = j + 1
	}

	return Report{Rows: rows, CycleTarget: cycleTarget}
}

// fanoutOrder returns ci's fanout pins in graph discovery order rather
// than Go's randomized map iteration, so the stable sort-by-slack applied
// to the rendered rows breaks ties the same way on every run.
func fanoutOrder(g *graph.Graph, ci *graph.CellIndex) []pin.Pin {
	seen := make(map[pin.Pin]bool, len(ci.Fanout))
	var order []pin.Pin
	for _, tp := range g.NodeOrder() {
		if seen[tp.Pin] || !ci.Fanout[string(tp.Pin)] {
			continue
		}
		seen[tp.Pin] = true
		order = append(order, tp.Pin)
	}
	return order
}

func renderPin(result analyzer.Result, p pin.Pin, bold bool, cycleTarget float64, fast bool) renderedPin {
	rise := pin.TransitionPin{Pin: p, Transition: pin.Rise}
	a, aok := result.Arrival[rise]
	q, qok := result.Required[rise]

	if fast {
		if aok {
			a /= fastFactor
		}
		if qok {
			q /= fastFactor
		}
	}

	rp := renderedPin{Pin: string(p), Bold: bold}
	if aok {
		rp.Arrival = formatFloat(a)
	}
	if qok {
		rp.Required = formatFloat(q)
	}
	if aok && qok {
		s := cycleTarget - (a + q)
		rp.Slack = formatFloat(s)
		rp.slack = s
	} else {
		rp.Slack = "inf"
		rp.slack = math.Inf(1)
	}
	return rp
}

// Render writes the HTML fragment for rep.
func Render(rep Report) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, rep); err != nil {
		return "", errors.Wrap(err, "rendering path report")
	}
	return buf.String(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
