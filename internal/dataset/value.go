package dataset

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type of a cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// floatRegex matches the literals that are typed as numbers.
// Surrounding whitespace is tolerated, thousands separators are not.
var floatRegex = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// maxSafeInt bounds numeric typing to values a float64 holds exactly.
const maxSafeInt = 1<<53 - 1

// Value is a single typed cell.
type Value struct {
	kind Kind
	num  float64
	b    bool
	str  string
}

// Null returns the empty value.
func Null() Value { return Value{} }

// Number wraps a float.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps text.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ParseValue types a raw cell: true/TRUE/false/FALSE become booleans,
// numeric literals become numbers, the empty string becomes null and
// everything else stays text.
func ParseValue(raw string) Value {
	switch raw {
	case "":
		return Null()
	case "true", "TRUE":
		return Bool(true)
	case "false", "FALSE":
		return Bool(false)
	}
	if floatRegex.MatchString(raw) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && math.Abs(f) < maxSafeInt {
			return Number(f)
		}
	}
	return String(raw)
}

// Kind reports the dynamic type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is empty or missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric value; ok is false for non-numbers.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text renders the value the way it is shown as a label.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// MarshalJSON encodes the value as its natural JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}
