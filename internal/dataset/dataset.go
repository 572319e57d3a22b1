// Package dataset holds parsed tabular data and the in-session registry
// that owns it.
//
// A [Dataset] is built once by the ingest pipeline and never mutated
// afterwards; reloading a file produces a new value. The [Registry] keeps
// datasets in insertion order, keyed by a unique file name.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Dataset is a parsed table: ordered, unique field names and typed rows.
type Dataset struct {
	Name      string
	Fields    []string
	Delimiter rune

	rows  [][]Value
	index map[string]int
}

// New builds a dataset. Field names are normalized with [NormalizeFields];
// rows shorter than the header are padded with nulls and longer rows are
// truncated.
func New(name string, fields []string, delimiter rune, rows [][]Value) *Dataset {
	fields = NormalizeFields(fields)

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f] = i
	}

	normalized := make([][]Value, len(rows))
	for i, row := range rows {
		r := make([]Value, len(fields))
		copy(r, row)
		normalized[i] = r
	}

	return &Dataset{
		Name:      name,
		Fields:    fields,
		Delimiter: delimiter,
		rows:      normalized,
		index:     index,
	}
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.rows) }

// HasField reports whether name is an exact field name.
func (d *Dataset) HasField(name string) bool {
	_, ok := d.index[name]
	return ok
}

// FieldFold finds a field by case-insensitive exact match.
func (d *Dataset) FieldFold(name string) (string, bool) {
	for _, f := range d.Fields {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

// Record returns row i.
func (d *Dataset) Record(i int) Record {
	return Record{values: d.rows[i], index: d.index}
}

// Column returns every value of one field in row order.
func (d *Dataset) Column(field string) ([]Value, error) {
	pos, ok := d.index[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	out := make([]Value, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[pos]
	}
	return out, nil
}

// Record is one row addressed by field name.
type Record struct {
	values []Value
	index  map[string]int
}

// Get returns the value of field; ok is false for unknown fields.
func (r Record) Get(field string) (Value, bool) {
	pos, ok := r.index[field]
	if !ok {
		return Null(), false
	}
	return r.values[pos], true
}

// NormalizeFields trims header names, names blank columns after their
// 1-based position and suffixes repeats with _1, _2, ... so every name is
// unique.
func NormalizeFields(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = name + "_" + strconv.Itoa(n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
