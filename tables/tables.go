// Package tables loads the three static resources that ground graph
// construction and SPICE synthesis in real cell semantics: pin unateness,
// pin input capacitance, and cell-transition side-input combinations.
// All three are compiled into the binary via go:embed and parsed once at
// startup.
package tables

import (
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"
)

//go:embed data/unateness.json
var unatenessJSON []byte

//go:embed data/capacitance.json
var capacitanceJSON []byte

//go:embed data/combinations.json
var combinationsJSON []byte

// Polarity is the unateness of a cell's input pin relative to an output.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
	NonUnate Polarity = "non"
)

// Unateness maps celltype -> input pin -> polarity.
type Unateness map[string]map[string]Polarity

// Lookup returns the polarity of celltype's input pin, and whether an
// entry exists.
func (u Unateness) Lookup(celltype, pin string) (Polarity, bool) {
	byPin, ok := u[celltype]
	if !ok {
		return "", false
	}
	p, ok := byPin[pin]
	return p, ok
}

// Capacitance maps celltype -> pin -> input capacitance in farads, used by
// the SPICE synthesizer to sum fanout load.
type Capacitance map[string]map[string]float64

// Lookup returns the input capacitance of celltype's pin, and whether an
// entry exists.
func (c Capacitance) Lookup(celltype, pin string) (float64, bool) {
	byPin, ok := c[celltype]
	if !ok {
		return 0, false
	}
	f, ok := byPin[pin]
	return f, ok
}

// Combination is one side-input assignment consistent with a given unate
// polarity for a cell's input-to-output traversal.
type Combination struct {
	Side     map[string]int `json:"side"`
	Polarity Polarity        `json:"polarity"`
}

// Combinations maps celltype -> input pin -> the list of side-input
// combinations usable when that pin is the propagating input.
type Combinations map[string]map[string][]Combination

// Lookup returns the combination list for celltype's input pin, and
// whether an entry exists.
func (c Combinations) Lookup(celltype, pin string) ([]Combination, bool) {
	byPin, ok := c[celltype]
	if !ok {
		return nil, false
	}
	combos, ok := byPin[pin]
	return combos, ok
}

// ForPolarity returns the first combination matching the requested
// polarity, and whether one was found.
func (c Combinations) ForPolarity(celltype, pin string, want Polarity) (Combination, bool) {
	combos, ok := c.Lookup(celltype, pin)
	if !ok {
		return Combination{}, false
	}
	for _, combo := range combos {
		if combo.Polarity == want {
			return combo, true
		}
	}
	return Combination{}, false
}

// Tables bundles all three embedded resources.
type Tables struct {
	Unateness    Unateness
	Capacitance  Capacitance
	Combinations Combinations
}

// Load parses the three embedded JSON resources. It fails only if the
// resources compiled into the binary are malformed, a build-time
// invariant, never a user-facing runtime condition.
func Load() (Tables, error) {
	var t Tables
	if err := json.Unmarshal(unatenessJSON, &t.Unateness); err != nil {
		return Tables{}, errors.Wrap(err, "parsing embedded unateness table")
	}
	if err := json.Unmarshal(capacitanceJSON, &t.Capacitance); err != nil {
		return Tables{}, errors.Wrap(err, "parsing embedded capacitance table")
	}
	if err := json.Unmarshal(combinationsJSON, &t.Combinations); err != nil {
		return Tables{}, errors.Wrap(err, "parsing embedded combinations table")
	}
	return t, nil
}

// MustLoad is Load, panicking on failure, for callers that treat a
// malformed embedded resource as unrecoverable.
func MustLoad() Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}
