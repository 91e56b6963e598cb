package sdfio

import (
	"strings"
	"testing"

	"github.com/Uriopass/stars/staerr"
)

func TestLoadBasicCell(t *testing.T) {
	src := `
# a header then one cell
TIMESCALE 1.0
DIVIDER /
CELL INV u1
IOPATH A Y 0.10 0.12
ENDCELL
INTERCONNECT u1/Y u2/A 0.02 0.02
`
	f, err := Load(strings.NewReader(src), "t.sdf")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Header.Timescale != 1.0 {
		t.Errorf("Timescale = %v, want 1.0", f.Header.Timescale)
	}
	if f.Header.Divider != '/' {
		t.Errorf("Divider = %q, want /", f.Header.Divider)
	}
	if len(f.Cells) != 2 {
		t.Fatalf("len(Cells) = %d, want 2 (one CELL block, one bare interconnect)", len(f.Cells))
	}
	cell := f.Cells[0]
	if cell.CellType != "INV" || cell.Instance == nil || cell.Instance.Components[0] != "u1" {
		t.Errorf("unexpected cell: %+v", cell)
	}
	if len(cell.Delays) != 1 || cell.Delays[0].SourcePort != "A" || cell.Delays[0].SinkPort != "Y" {
		t.Errorf("unexpected delays: %+v", cell.Delays)
	}
	rise, fall := cell.Delays[0].Values[0].MinCorner(), cell.Delays[0].Values[1].MinCorner()
	if rise != 0.10 || fall != 0.12 {
		t.Errorf("rise/fall = %v/%v, want 0.10/0.12", rise, fall)
	}
}

func TestLoadBusSubscript(t *testing.T) {
	src := `CELL BUF -
INTERCONNECT a/Y[3] b/A[3] 0.01 0.01
ENDCELL
`
	f, err := Load(strings.NewReader(src), "t.sdf")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	d := f.Cells[0].Delays[0]
	if d.Source.BitIndex != 3 || d.Sink.BitIndex != 3 {
		t.Errorf("bit indices = %d/%d, want 3/3", d.Source.BitIndex, d.Sink.BitIndex)
	}
}

func TestLoadUnterminatedCell(t *testing.T) {
	_, err := Load(strings.NewReader("CELL INV u1\nIOPATH A Y 0.1 0.1\n"), "t.sdf")
	if err == nil {
		t.Fatal("expected an error for a missing ENDCELL")
	}
	if _, ok := err.(*staerr.ParseError); !ok {
		t.Errorf("error type = %T, want *staerr.ParseError", err)
	}
}

func TestLoadUnrecognizedDirective(t *testing.T) {
	_, err := Load(strings.NewReader("BOGUS 1 2 3\n"), "t.sdf")
	if err == nil {
		t.Fatal("expected an error for an unrecognized directive")
	}
}

func TestLoadIOPathOutsideCell(t *testing.T) {
	_, err := Load(strings.NewReader("IOPATH A Y 0.1 0.1\n"), "t.sdf")
	if err == nil {
		t.Fatal("expected an error: IOPATH requires an enclosing CELL")
	}
}
