// Package sdfio is a minimal, secondary loader that produces an sdf.File
// from disk. It is line-oriented and deliberately not grammar-complete:
// the real IOPATH/INTERCONNECT/header/timescale SDF tokenizer is an
// external collaborator, out of scope for this system. This loader
// exists only so the command-line tool has something to read end to
// end; it accepts one directive per line rather than the full SDF
// s-expression grammar.
//
// Format, one directive per line, blank lines and lines starting with
// '#' ignored:
//
//	TIMESCALE <ns-per-unit>
//	DIVIDER <char>
//	CELL <celltype> <instance|->
//	IOPATH <srcport> <sinkport> <rise> <fall>
//	INTERCONNECT <srcpath> <sinkpath> <rise> <fall>
//	TIMINGCHECK ...   (dropped with a log line, contributes no edges)
//	ENDCELL
package sdfio

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Uriopass/stars/sdf"
	"github.com/Uriopass/stars/staerr"
)

// Load reads a minimal SDF-directive file from r.
func Load(r io.Reader, filename string) (sdf.File, error) {
	f := sdf.File{Header: sdf.Header{Timescale: 1.0, Divider: '/'}}

	var cur *sdf.Cell
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
		case "TIMESCALE":
			if len(fields) < 2 {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "TIMESCALE missing value"}
			}
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "TIMESCALE not a float"}
			}
			f.Header.Timescale = v

		case "DIVIDER":
			if len(fields) < 2 || len(fields[1]) != 1 {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "DIVIDER must be a single character"}
			}
			f.Header.Divider = fields[1][0]

		case "CELL":
			if len(fields) < 3 {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "CELL requires celltype and instance"}
			}
			if cur != nil {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "nested CELL before ENDCELL"}
			}
			c := sdf.Cell{CellType: fields[1]}
			if fields[2] != "-" {
				p := parsePath(fields[2])
				c.Instance = &p
			}
			cur = &c

		case "ENDCELL":
			if cur == nil {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "ENDCELL without matching CELL"}
			}
			f.Cells = append(f.Cells, *cur)
			cur = nil

		case "IOPATH":
			if cur == nil {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "IOPATH outside CELL"}
			}
			if len(fields) < 4 {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "IOPATH requires src, sink, and at least one delay"}
			}
			values, err := parseValues(fields[3:], filename, lineNo)
			if err != nil {
				return sdf.File{}, err
			}
			cur.Delays = append(cur.Delays, sdf.Delay{
				Kind:       sdf.KindIOPath,
				SourcePort: fields[1],
				SinkPort:   fields[2],
				Values:     values,
			})

		case "INTERCONNECT":
			if len(fields) < 4 {
				return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "INTERCONNECT requires src, sink, and at least one delay"}
			}
			values, err := parseValues(fields[3:], filename, lineNo)
			if err != nil {
				return sdf.File{}, err
			}
			d := sdf.Delay{
				Kind:   sdf.KindInterconnect,
				Source: parsePath(fields[1]),
				Sink:   parsePath(fields[2]),
				Values: values,
			}
			if cur != nil {
				cur.Delays = append(cur.Delays, d)
			} else {
				f.Cells = append(f.Cells, sdf.Cell{Delays: []sdf.Delay{d}})
			}

		case "TIMINGCHECK":
			log.Printf("stars: %s:%d: dropping TIMINGCHECK", filename, lineNo)

		default:
			return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "unrecognized directive " + fields[0]}
		}
	}
	if cur != nil {
		return sdf.File{}, &staerr.ParseError{File: filename, Line: lineNo, Context: "unterminated CELL (missing ENDCELL)"}
	}
	if err := scanner.Err(); err != nil {
		return sdf.File{}, errors.Wrapf(err, "reading sdf file %s", filename)
	}
	return f, nil
}

// parseValues turns 1 or 2 trailing fields into a one- or two-element
// Value list, the shape graph.Build's valuesToRiseFall expects.
func parseValues(fields []string, filename string, lineNo int) ([]sdf.Value, error) {
	values := make([]sdf.Value, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &staerr.ParseError{File: filename, Line: lineNo, Context: "delay value not a float: " + f}
		}
		values = append(values, sdf.Value{Kind: sdf.ValueSingle, Single: v})
	}
	return values, nil
}

// parsePath parses a divider-joined path with an optional trailing
// "[n]" single-bit subscript. Multi-bit BusRange references are not
// expressible in this minimal format, matching the fact that no
// end-to-end scenario in this system's test corpus exercises them.
func parsePath(s string) sdf.Path {
	idx := -1
	if open := strings.IndexByte(s, '['); open >= 0 && strings.HasSuffix(s, "]") {
		if n, err := strconv.Atoi(s[open+1 : len(s)-1]); err == nil {
			idx = n
			s = s[:open]
		}
	}
	return sdf.Path{Components: strings.Split(s, "/"), BitIndex: idx}
}
