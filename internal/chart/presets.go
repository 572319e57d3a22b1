package chart

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/JonMunkholm/wellchart/internal/dataset"
)

// MaxYAxes is the number of Y axis slots a chart offers.
const MaxYAxes = 5

var (
	fhPattern = regexp.MustCompile(`(?i)FH`)
	pdPattern = regexp.MustCompile(`(?i)PD`)
)

// xCandidates are the field names preselected for the X axis.
var xCandidates = []string{"time", "acqtime"}

// Slot is the ordered list of acceptable column names for one Y axis.
type Slot []string

// Presets holds the alias lists used for column preselection, one list of
// slots per instrument family.
type Presets struct {
	FH      []Slot `toml:"fh"`
	PD      []Slot `toml:"pd"`
	Default []Slot `toml:"default"`
}

// DefaultPresets returns the built-in alias lists.
func DefaultPresets() Presets {
	return Presets{
		FH: []Slot{
			{"Treating Pressure", "TR_PRESS"},
			{"SLUR_RATE", "Slurry Rate"},
			{"Slurry Proppant Conc", "SLURRY_CONC"},
			{"BH Proppant Conc"},
			{"Backside Pressure", "Casing Pressure"},
		},
		PD: []Slot{
			{"Treating Pressure", "TR_PRESS"},
			{"SLUR_RATE", "Slurry Rate"},
			{"W1 Line Speed"},
			{"W1 Depth"},
			{"W1 Surface Line Tension"},
		},
		Default: []Slot{
			{"Treating Pressure", "TR_PRESS"},
			{"SLUR_RATE", "Slurry Rate"},
		},
	}
}

// LoadPresets reads alias lists from a TOML file. Families missing from the
// file keep their built-in lists. A missing file is not an error.
func LoadPresets(path string) (Presets, error) {
	p := DefaultPresets()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("failed to stat presets: %w", err)
	}

	var file Presets
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return p, fmt.Errorf("failed to decode presets: %w", err)
	}
	if file.FH != nil {
		p.FH = file.FH
	}
	if file.PD != nil {
		p.PD = file.PD
	}
	if file.Default != nil {
		p.Default = file.Default
	}
	return p, p.Validate()
}

// Validate checks slot counts.
func (p Presets) Validate() error {
	for name, slots := range map[string][]Slot{"fh": p.FH, "pd": p.PD, "default": p.Default} {
		if len(slots) > MaxYAxes {
			return fmt.Errorf("preset %q has %d slots, at most %d allowed", name, len(slots), MaxYAxes)
		}
	}
	return nil
}

// For picks the alias family for a file name: FH first, then PD, else the
// default. The family name is returned for display.
func (p Presets) For(fileName string) (string, []Slot) {
	switch {
	case fhPattern.MatchString(fileName):
		return "fh", p.FH
	case pdPattern.MatchString(fileName):
		return "pd", p.PD
	default:
		return "default", p.Default
	}
}

// Selection is the X column plus up to MaxYAxes Y columns. Empty Y entries
// are unselected slots.
type Selection struct {
	X string   `json:"x"`
	Y []string `json:"y"`
}

// Columns returns the non-empty Y columns in slot order.
func (s Selection) Columns() []string {
	cols := make([]string, 0, len(s.Y))
	for _, y := range s.Y {
		if y != "" {
			cols = append(cols, y)
		}
	}
	return cols
}

// Empty reports whether the selection cannot produce a chart.
func (s Selection) Empty() bool {
	return s.X == "" || len(s.Columns()) == 0
}

// Validate checks that every selected column exists in ds.
func (s Selection) Validate(ds *dataset.Dataset) error {
	if len(s.Y) > MaxYAxes {
		return fmt.Errorf("%w: %d y columns, at most %d", ErrAxisOutOfRange, len(s.Y), MaxYAxes)
	}
	if s.X != "" && !ds.HasField(s.X) {
		return fmt.Errorf("%w: %s", dataset.ErrUnknownField, s.X)
	}
	for _, y := range s.Y {
		if y != "" && !ds.HasField(y) {
			return fmt.Errorf("%w: %s", dataset.ErrUnknownField, y)
		}
	}
	return nil
}

// Preselect derives the initial selection for a dataset from its name and
// fields. Each slot takes the first alias, in alias order, that matches a
// field case-insensitively.
func (p Presets) Preselect(ds *dataset.Dataset) Selection {
	_, slots := p.For(ds.Name)

	sel := Selection{Y: make([]string, MaxYAxes)}
	for _, c := range xCandidates {
		if f, ok := ds.FieldFold(c); ok {
			sel.X = f
			break
		}
	}

	for i, slot := range slots {
		if i >= MaxYAxes {
			break
		}
		for _, alias := range slot {
			if f, ok := ds.FieldFold(strings.TrimSpace(alias)); ok {
				sel.Y[i] = f
				break
			}
		}
	}
	return sel
}
