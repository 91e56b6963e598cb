// Package sdf defines the Go types that mirror the external SDF parser's
// output contract. The SDF grammar itself, the IOPATH/INTERCONNECT/
// header/timescale tokenizer, is explicitly out of scope for this
// system; package sdf only carries the shape a real parser would hand to
// the graph builder.
package sdf

// File is a fully parsed SDF document.
type File struct {
	Header Header
	Cells  []Cell
}

// Header carries SDF metadata. The graph builder reads none of it: delays
// are taken as given and hierarchy components are always joined with '/'.
// Voltage/process/temperature/program are carried for diagnostics only.
type Header struct {
	Timescale   float64 // nanoseconds per delay unit; defaults to 1.0 when absent
	Divider     byte    // hierarchy divider character, e.g. '/'
	Voltage     string
	Process     string
	Temperature string
	Program     string
}

// BusRange marks a multi-bit bus reference on a port or pin name; the core
// rejects these with UnsupportedFeature.
type BusRange struct {
	MSB, LSB int
}

// Path is a hierarchical SDF name: dot/slash-joined instance components,
// with an optional trailing single-bit or multi-bit subscript.
type Path struct {
	Components []string
	BitIndex   int // single-bit subscript, or -1 if none
	Bus        *BusRange
}

// Cell is one SDF CELL block: a cell type instantiated at an optional
// hierarchical path (absent for a top-level/primary-port-only block), with
// an ordered list of delay items.
type Cell struct {
	CellType string
	Instance *Path // nil for blocks with no INSTANCE (top-level)
	Delays   []Delay
}

// DelayKind tags the variant carried by a Delay.
type DelayKind int

const (
	KindInterconnect DelayKind = iota
	KindIOPath
	KindConditionalIOPath
	KindConditionalElse
)

// EdgeQualifier marks a non-None edge specifier on an IOPATH source port
// (e.g. "posedge CLK"); the core rejects any non-None qualifier.
type EdgeQualifier int

const (
	EdgeNone EdgeQualifier = iota
	EdgePosedge
	EdgeNegedge
)

// Delay is one timing arc. Exactly the fields relevant to its Kind are
// populated.
type Delay struct {
	Kind DelayKind

	// Interconnect fields.
	Source Path
	Sink   Path

	// IOPath fields.
	SourcePort    string
	SourceEdge    EdgeQualifier
	SourceBus     *BusRange
	SinkPort      string
	Retain        bool // unused by the core
	ConditionExpr string // non-empty for ConditionalIOPath/ConditionalElse

	Values []Value
}

// Value is a multi-corner SDF delay value: absent, a single scalar shared
// by all corners, or an explicit (min, typ, max) triple with optional
// corners.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueSingle
	ValueMulti
)

type Value struct {
	Kind     ValueKind
	Single   float64
	Min      *float64
	Typ      *float64
	Max      *float64
}

// MinCorner extracts the "min" scalar the core consumes, falling back to
// the single value (or 0) when no min/typ/max triple is present.
func (v Value) MinCorner() float64 {
	switch v.Kind {
	case ValueSingle:
		return v.Single
	case ValueMulti:
		if v.Min != nil {
			return *v.Min
		}
		return 0
	default:
		return 0
	}
}
