// Package staerr defines the fatal error taxonomy shared by every core
// component: ParseError, UnsupportedFeature, MissingUnateness,
// CycleDetected, and IoError. Each is a distinct Go type so cmd/stars can
// print one line to stderr regardless of which layer failed, via
// github.com/pkg/errors.Cause.
package staerr

import "fmt"

// ParseError reports an ill-formed SDF, SPEF, or subcircuit input, with a
// line number and context where the underlying source supplies one.
type ParseError struct {
	File    string
	Line    int
	Context string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s:%d: %s", e.File, e.Line, e.Context)
	}
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Context)
}

// UnsupportedFeature reports an SDF construct the core intentionally does
// not translate: TIMINGCHECK (dropped with a trace log, not an error),
// BitRange buses, conditional IOPATHs, non-None edge qualifiers, unknown
// cell types, or a delay value list whose length is neither 1 nor 2.
type UnsupportedFeature struct {
	Feature string
	Detail  string
}

func (e *UnsupportedFeature) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("unsupported feature: %s", e.Feature)
	}
	return fmt.Sprintf("unsupported feature: %s (%s)", e.Feature, e.Detail)
}

// MissingUnateness reports a cell type or input pin absent from the
// embedded unateness table during graph construction.
type MissingUnateness struct {
	CellType string
	Pin      string
}

func (e *MissingUnateness) Error() string {
	return fmt.Sprintf("missing unateness entry for %s/%s", e.CellType, e.Pin)
}

// CycleDetected reports a directed cycle found in what must be a DAG, a
// contract violation in the input netlist or tool chain, not a run-time
// condition the analyzer recovers from.
type CycleDetected struct {
	CycleLen int
	Sample   string // one node in the cycle, for diagnostics
}

func (e *CycleDetected) Error() string {
	return fmt.Sprintf("cycle detected in timing graph (length %d, contains %s)", e.CycleLen, e.Sample)
}

// IoError reports a file that could not be read or written.
type IoError struct {
	Path string
	Op   string
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error: could not %s %s", e.Op, e.Path)
}
