package chart

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/wellchart/internal/dataset"
)

// numericPrefix matches the leading numeric literal of a cell, the way a
// lenient float parser reads "12.5 psi" as 12.5.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Mode selects how non-numeric Y cells are treated.
type Mode int

const (
	// Lenient reads a numeric prefix and falls back to 0.
	Lenient Mode = iota
	// Strict keeps numbers only; everything else becomes a gap.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// Coerce converts one cell to a Y value. ok is false when the point is a gap.
// coerced is true whenever the cell was not already a number.
func (m Mode) Coerce(v dataset.Value) (y float64, ok bool, coerced bool) {
	if f, isNum := v.Float(); isNum {
		return f, true, false
	}

	if m == Strict {
		return 0, false, true
	}

	if v.Kind() == dataset.KindString {
		if f, ok := parsePrefix(v.Text()); ok {
			return f, true, true
		}
	}
	return 0, true, true
}

// parsePrefix parses the numeric prefix of s after leading whitespace.
func parsePrefix(s string) (float64, bool) {
	m := numericPrefix.FindString(strings.TrimLeft(s, " \t"))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
