// Package spef defines the Go types that mirror the external SPEF parser's
// output contract. The SPEF grammar itself is out of scope; package spef
// only carries the shape a real parser hands to the parasitics component.
package spef

// File is a fully parsed SPEF document.
type File struct {
	Header Header
	Nets   []Net
}

// Header carries the unit multipliers every raw value in Nets is scaled
// by: *RES <unit> converts resistance values to ohms, *CAP <unit> converts
// capacitance values to farads.
type Header struct {
	ResistanceUnit  float64 // multiplier to ohms
	CapacitanceUnit float64 // multiplier to farads
}

// Net is one *D_NET block: a wire name plus its raw capacitance and
// resistance entries.
type Net struct {
	Name  string
	Caps  []CapEntry
	Ress  []ResEntry
}

// CapEntry is one *CAP line. When B is empty the entry is a lumped node
// capacitance on A; when B is non-empty it is a coupling capacitance
// between A and B, recorded symmetrically by the parasitics component.
type CapEntry struct {
	A, B  string
	Value float64 // raw units, scale by Header.CapacitanceUnit
}

// ResEntry is one *RES line: the resistance of the wire segment between A
// and B.
type ResEntry struct {
	A, B  string
	Value float64 // raw units, scale by Header.ResistanceUnit
}
