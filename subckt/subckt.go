// Package subckt parses a SPICE file of .subckt definitions: IO pins,
// internal nodes, transistor topology, and per-pin drive/load metrics
// used by the SPICE synthesizer.
package subckt

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Uriopass/stars/staerr"
)

// Transistor is one `X` line inside a .subckt body.
type Transistor struct {
	Name   string
	Drain  string
	Gate   string
	Source string
	Body   string
	Kind   string // e.g. "sky130_fd_pr__nfet_01v8"
	Width  float64 // micrometers
	Length float64 // micrometers
}

// IsNFET reports whether the device kind names an n-channel transistor.
func (t Transistor) IsNFET() bool { return strings.Contains(strings.ToLower(t.Kind), "nfet") }

// IsPFET reports whether the device kind names a p-channel transistor.
func (t Transistor) IsPFET() bool { return strings.Contains(strings.ToLower(t.Kind), "pfet") }

// Subckt is one parsed .subckt/.ends block.
type Subckt struct {
	Name        string
	Pins        []string
	Internal    []string
	Transistors []Transistor
}

// pinSet returns Pins as a membership set.
func (s *Subckt) pinSet() map[string]bool {
	m := make(map[string]bool, len(s.Pins))
	for _, p := range s.Pins {
		m[p] = true
	}
	return m
}

// DriveRatio returns the average length/width ratio of the transistors
// whose drain is outputPin, split by polarity: the pull-up (PFET) and
// pull-down (NFET) network driving that output. Used by the SPICE
// synthesizer to size the CMOS inverter pair it builds for a downstream
// side input.
func (s *Subckt) DriveRatio(outputPin string) (pRatio, nRatio float64) {
	var pSum, pN, nSum, nN float64
	for _, t := range s.Transistors {
		if t.Drain != outputPin || t.Width == 0 {
			continue
		}
		ratio := t.Length / t.Width
		if t.IsPFET() {
			pSum += ratio
			pN++
		} else if t.IsNFET() {
			nSum += ratio
			nN++
		}
	}
	if pN > 0 {
		pRatio = pSum / pN
	}
	if nN > 0 {
		nRatio = nSum / nN
	}
	return pRatio, nRatio
}

// LoadArea returns the total gate area (width*length, in square
// micrometers) of the transistors whose gate is inputPin, split by
// polarity. Used as a fallback gate-capacitance estimate when the
// embedded pin-capacitance table (package tables) has no entry for a
// celltype/pin.
func (s *Subckt) LoadArea(inputPin string) (pArea, nArea float64) {
	for _, t := range s.Transistors {
		if t.Gate != inputPin {
			continue
		}
		area := t.Width * t.Length
		if t.IsPFET() {
			pArea += area
		} else if t.IsNFET() {
			nArea += area
		}
	}
	return pArea, nArea
}

// Library is a parsed collection of .subckt definitions, keyed by name.
type Library struct {
	Subckts map[string]*Subckt
}

// Lookup returns the subckt named name (case-sensitive, matching how
// celltype names appear verbatim in both SDF and the subckt file), and
// whether it was found.
func (l *Library) Lookup(name string) (*Subckt, bool) {
	s, ok := l.Subckts[name]
	return s, ok
}

// Parse reads a SPICE subcircuit file and returns the library of .subckt
// definitions it contains. Lines beginning with '*' are comments; a line
// beginning with '+' continues the previous logical line (SPICE's
// standard continuation convention). Parsing is line-oriented: SPICE
// decks have no nested grammar beyond the .subckt/.ends block structure.
func Parse(r io.Reader, filename string) (*Library, error) {
	lib := &Library{Subckts: make(map[string]*Subckt)}

	var cur *Subckt
	var lineNo int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending string
	flush := func(lineForErr int) error {
		if pending == "" {
			return nil
		}
		line := pending
		pending = ""
		return processLine(lib, &cur, line, filename, lineForErr)
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if strings.HasPrefix(trimmed, "+") {
			pending = pending + " " + strings.TrimSpace(trimmed[1:])
			continue
		}
		if err := flush(lineNo - 1); err != nil {
			return nil, err
		}
		pending = trimmed
	}
	if err := flush(lineNo); err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading subckt file %s", filename)
	}
	if cur != nil {
		return nil, &staerr.ParseError{File: filename, Line: lineNo, Context: "unterminated .subckt (missing .ends)"}
	}

	for _, s := range lib.Subckts {
		s.Internal = internalNodes(s)
	}
	return lib, nil
}

func processLine(lib *Library, cur **Subckt, line, filename string, lineNo int) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	head := strings.ToLower(fields[0])

	switch {
	case head == ".subckt":
		if *cur != nil {
			return &staerr.ParseError{File: filename, Line: lineNo, Context: "nested .subckt before .ends"}
		}
		if len(fields) < 2 {
			return &staerr.ParseError{File: filename, Line: lineNo, Context: ".subckt missing name"}
		}
		*cur = &Subckt{Name: fields[1], Pins: append([]string(nil), fields[2:]...)}

	case head == ".ends":
		if *cur == nil {
			return &staerr.ParseError{File: filename, Line: lineNo, Context: ".ends without matching .subckt"}
		}
		lib.Subckts[(*cur).Name] = *cur
		*cur = nil

	case strings.HasPrefix(fields[0], "X") || strings.HasPrefix(fields[0], "x"):
		if *cur == nil {
			return &staerr.ParseError{File: filename, Line: lineNo, Context: "transistor line outside .subckt"}
		}
		t, err := parseTransistor(fields, filename, lineNo)
		if err != nil {
			return err
		}
		(*cur).Transistors = append((*cur).Transistors, t)

	default:
		// Other SPICE directives (.model, .param, comments already
		// filtered) are not meaningful to the core and are ignored.
	}
	return nil
}

func parseTransistor(fields []string, filename string, lineNo int) (Transistor, error) {
	if len(fields) < 6 {
		return Transistor{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "transistor line has too few fields"}
	}
	t := Transistor{
		Name:   fields[0],
		Drain:  fields[1],
		Gate:   fields[2],
		Source: fields[3],
		Body:   fields[4],
		Kind:   fields[5],
	}
	for _, f := range fields[6:] {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(kv[0])
		val, ok := parseMicrons(kv[1])
		if !ok {
			continue
		}
		switch key {
		case "w":
			t.Width = val
		case "l":
			t.Length = val
		}
	}
	return t, nil
}

// parseMicrons parses a SPICE numeric literal in micrometers, tolerating a
// trailing "u" suffix (the common convention in PDK decks, meaning the
// bare number is already in micrometers). The number is taken as
// micrometers as written: a value in meters such as "1e-6" is not
// rescaled.
func parseMicrons(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "u")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func internalNodes(s *Subckt) []string {
	pins := s.pinSet()
	seen := make(map[string]bool)
	var internal []string
	addIfInternal := func(node string) {
		if node == "" || pins[node] || seen[node] {
			return
		}
		seen[node] = true
		internal = append(internal, node)
	}
	for _, t := range s.Transistors {
		addIfInternal(t.Drain)
		addIfInternal(t.Gate)
		addIfInternal(t.Source)
		addIfInternal(t.Body)
	}
	return internal
}
