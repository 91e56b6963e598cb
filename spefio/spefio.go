// Package spefio is a minimal, secondary loader that produces an
// spef.File from disk. Like sdfio, it is line-oriented and deliberately
// not grammar-complete: the real SPEF parser is an external
// collaborator. This loader exists only so the command-line tool can
// exercise the parasitics component end to end.
//
// Format, one directive per line, blank lines and lines starting with
// '#' ignored:
//
//	RUNIT <multiplier-to-ohms>
//	CUNIT <multiplier-to-farads>
//	NET <name>
//	CAP <a> <value>          (lumped node capacitance)
//	CAP <a> <b> <value>      (coupling capacitance)
//	RES <a> <b> <value>
//	ENDNET
package spefio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Uriopass/stars/spef"
	"github.com/Uriopass/stars/staerr"
)

// Load reads a minimal SPEF-directive file from r.
func Load(r io.Reader, filename string) (spef.File, error) {
	f := spef.File{Header: spef.Header{ResistanceUnit: 1, CapacitanceUnit: 1}}

	var cur *spef.Net
	lineNo := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		head := strings.ToUpper(fields[0])

		switch head {
		case "RUNIT":
			v, err := parseUnit(fields, filename, lineNo, "RUNIT")
			if err != nil {
				return spef.File{}, err
			}
			f.Header.ResistanceUnit = v

		case "CUNIT":
			v, err := parseUnit(fields, filename, lineNo, "CUNIT")
			if err != nil {
				return spef.File{}, err
			}
			f.Header.CapacitanceUnit = v

		case "NET":
			if len(fields) < 2 {
				return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "NET requires a name"}
			}
			if cur != nil {
				return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "nested NET before ENDNET"}
			}
			cur = &spef.Net{Name: fields[1]}

		case "ENDNET":
			if cur == nil {
				return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "ENDNET without matching NET"}
			}
			f.Nets = append(f.Nets, *cur)
			cur = nil

		case "CAP":
			if cur == nil {
				return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "CAP outside NET"}
			}
			entry, err := parseCap(fields, filename, lineNo)
			if err != nil {
				return spef.File{}, err
			}
			cur.Caps = append(cur.Caps, entry)

		case "RES":
			if cur == nil {
				return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "RES outside NET"}
			}
			if len(fields) != 4 {
				return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "RES requires a, b, value"}
			}
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "RES value not a float"}
			}
			cur.Ress = append(cur.Ress, spef.ResEntry{A: fields[1], B: fields[2], Value: v})

		default:
			return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "unrecognized directive " + fields[0]}
		}
	}
	if cur != nil {
		return spef.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "unterminated NET (missing ENDNET)"}
	}
	if err := scanner.Err(); err != nil {
		return spef.File{}, errors.Wrapf(err, "reading spef file %s", filename)
	}
	return f, nil
}

func parseUnit(fields []string, filename string, lineNo int, directive string) (float64, error) {
	if len(fields) < 2 {
		return 0, &staerr.ParseError{File: filename, Line: lineNo, Context: directive + " missing value"}
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, &staerr.ParseError{File: filename, Line: lineNo, Context: directive + " not a float"}
	}
	return v, nil
}

func parseCap(fields []string, filename string, lineNo int) (spef.CapEntry, error) {
	switch len(fields) {
	case 3:
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return spef.CapEntry{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "CAP value not a float"}
		}
		return spef.CapEntry{A: fields[1], Value: v}, nil
	case 4:
		v, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return spef.CapEntry{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "CAP value not a float"}
		}
		return spef.CapEntry{A: fields[1], B: fields[2], Value: v}, nil
	default:
		return spef.CapEntry{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "CAP requires a [b] value"}
	}
}
