package dataset

import (
	"encoding/json"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind Kind
		wantText string
	}{
		{"", KindNull, ""},
		{"true", KindBool, "true"},
		{"TRUE", KindBool, "true"},
		{"False", KindString, "False"},
		{"42", KindNumber, "42"},
		{"-3.5", KindNumber, "-3.5"},
		{"1.50", KindNumber, "1.5"},
		{".25", KindNumber, "0.25"},
		{"1e3", KindNumber, "1000"},
		{" 7 ", KindNumber, "7"},
		{"1,234", KindString, "1,234"},
		{"12abc", KindString, "12abc"},
		{"28-Aug-2025 01:39:16", KindString, "28-Aug-2025 01:39:16"},
		{"99999999999999999999", KindString, "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := ParseValue(tt.raw)
			if v.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.wantKind)
			}
			if got := v.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestValueMarshalJSON(t *testing.T) {
	row := []Value{Null(), Number(2.5), Bool(true), String("x")}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if got, want := string(b), `[null,2.5,true,"x"]`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestNormalizeFields(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"trimmed", []string{" Time ", "A\t"}, []string{"Time", "A"}},
		{"duplicates suffixed", []string{"A", "A", "A"}, []string{"A", "A_1", "A_2"}},
		{"suffix collision", []string{"A", "A_1", "A"}, []string{"A", "A_1", "A_2"}},
		{"blank named by position", []string{"Time", "", "B"}, []string{"Time", "column_2", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFields(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDatasetPadsAndTruncatesRows(t *testing.T) {
	ds := New("x.csv", []string{"A", "B"}, ',', [][]Value{
		{Number(1)},
		{Number(1), Number(2), Number(3)},
	})

	if v, _ := ds.Record(0).Get("B"); !v.IsNull() {
		t.Errorf("short row B = %v, want null", v.Text())
	}
	col, err := ds.Column("B")
	if err != nil {
		t.Fatalf("Column error = %v", err)
	}
	if f, _ := col[1].Float(); f != 2 {
		t.Errorf("long row B = %v, want 2", f)
	}
	if _, err := ds.Column("C"); err == nil {
		t.Error("Column(C) expected error")
	}
}

func TestFieldFold(t *testing.T) {
	ds := New("x.csv", []string{"Time", "TR_PRESS"}, ',', nil)

	if got, ok := ds.FieldFold("tr_press"); !ok || got != "TR_PRESS" {
		t.Errorf("FieldFold(tr_press) = %q, %v", got, ok)
	}
	if _, ok := ds.FieldFold("TR PRESS"); ok {
		t.Error("FieldFold should require an exact match apart from case")
	}
}
