package chart

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/wellchart/internal/dataset"
)

func TestRenderPNG(t *testing.T) {
	var rows [][]dataset.Value
	start := time.Date(2025, 8, 28, 1, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		rows = append(rows, []dataset.Value{
			dataset.String(start.Add(time.Duration(i) * time.Second).Format(TimeLayout)),
			dataset.Number(float64(100 + i)),
			dataset.Number(float64(i % 5)),
			dataset.Number(float64(i * 2)),
		})
	}
	ds := dataset.New("well.csv", []string{"Time", "P", "R", "C"}, ',', rows)

	spec, err := NewBuilder(BuilderOptions{Location: time.UTC}).Build(ds, Selection{X: "Time", Y: []string{"P", "R", "C"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := spec.SetAxisRange(3, AxisRange{Max: num(100)}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RenderPNG(&buf, spec, RenderOptions{Width: 640, Height: 360}); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderPNG_WindowTooNarrow(t *testing.T) {
	rows := [][]dataset.Value{
		{dataset.String("a"), dataset.Number(1)},
		{dataset.String("b"), dataset.Number(2)},
		{dataset.String("c"), dataset.Number(3)},
	}
	ds := dataset.New("x.csv", []string{"Label", "P"}, ',', rows)
	spec, err := NewBuilder(BuilderOptions{}).Build(ds, Selection{X: "Label", Y: []string{"P"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := spec.SetXWindow(AxisRange{Min: num(1.2), Max: num(1.8)}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RenderPNG(&buf, spec, RenderOptions{}); !errors.Is(err, ErrNotEnoughPoints) {
		t.Errorf("err = %v, want ErrNotEnoughPoints", err)
	}
}

func TestRenderPNG_DegenerateX(t *testing.T) {
	tests := []struct {
		name  string
		field string
		rows  [][]dataset.Value
	}{
		{
			name:  "single time row",
			field: "Time",
			rows: [][]dataset.Value{
				{dataset.String("28-Aug-2025 01:39:16"), dataset.Number(5000)},
			},
		},
		{
			name:  "identical timestamps",
			field: "Time",
			rows: [][]dataset.Value{
				{dataset.String("28-Aug-2025 01:39:16"), dataset.Number(5000)},
				{dataset.String("28-Aug-2025 01:39:16"), dataset.Number(5100)},
			},
		},
		{
			name:  "single category row",
			field: "Label",
			rows: [][]dataset.Value{
				{dataset.String("a"), dataset.Number(1)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset.New("x.csv", []string{tt.field, "P"}, ',', tt.rows)
			spec, err := NewBuilder(BuilderOptions{Location: time.UTC}).Build(ds, Selection{X: tt.field, Y: []string{"P"}})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			var buf bytes.Buffer
			if err := RenderPNG(&buf, spec, RenderOptions{Width: 320, Height: 200}); err != nil {
				t.Fatalf("RenderPNG: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestWidenX(t *testing.T) {
	xs, ys := widenX(XTime, []float64{5000}, []float64{7})
	if len(xs) != 2 || xs[1] != 6000 || ys[1] != 7 {
		t.Errorf("time widen = %v %v", xs, ys)
	}

	xs, _ = widenX(XCategory, []float64{3, 3}, []float64{1, 2})
	if len(xs) != 3 || xs[2] != 4 {
		t.Errorf("category widen = %v", xs)
	}

	xs, _ = widenX(XTime, []float64{1, 2}, []float64{1, 2})
	if len(xs) != 2 {
		t.Errorf("distinct xs widened: %v", xs)
	}
}
