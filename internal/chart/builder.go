package chart

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/wellchart/internal/dataset"
)

// TimeLayout is the expected X timestamp format, e.g. "28-Aug-2025 01:39:16".
const TimeLayout = "02-Jan-2006 15:04:05"

// timeLayouts are tried in order; the second tolerates single-digit days.
var timeLayouts = []string{TimeLayout, "2-Jan-2006 15:04:05"}

// DecimationSamples is the min-max decimation target.
const DecimationSamples = 2000

// ErrEmptySelection is returned when no X column or no Y column is chosen.
var ErrEmptySelection = errors.New("select an x column and at least one y column")

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	Mode       Mode
	PanEnabled bool
	// Location interprets X timestamps; nil means time.Local.
	Location *time.Location
}

// Builder turns a dataset and selection into a Spec.
type Builder struct {
	mode Mode
	pan  bool
	loc  *time.Location
}

// NewBuilder creates a Builder.
func NewBuilder(opts BuilderOptions) *Builder {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Builder{mode: opts.Mode, pan: opts.PanEnabled, loc: loc}
}

// IsTimeColumn reports whether an X column is plotted on a time scale.
func IsTimeColumn(field string) bool {
	return strings.Contains(strings.ToLower(field), "time")
}

// Build creates a fresh chart for sel. Every call yields a new Spec with
// automatic axis ranges.
func (b *Builder) Build(ds *dataset.Dataset, sel Selection) (*Spec, error) {
	if sel.Empty() {
		return nil, ErrEmptySelection
	}
	if err := sel.Validate(ds); err != nil {
		return nil, err
	}

	xs, err := ds.Column(sel.X)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Type:    "line",
		Quality: Quality{Rows: ds.Len()},
		Options: b.options(),
	}

	xScale := &Scale{
		Type:    XCategory,
		Display: true,
		Title:   Title{Display: true, Text: sel.X},
	}
	var labels []any
	if IsTimeColumn(sel.X) {
		spec.XKind = XTime
		xScale.Type = XTime
		xScale.Time = &TimeOptions{
			TooltipFormat:  "PPpp",
			DisplayFormats: map[string]string{"second": "HH:mm:ss", "minute": "HH:mm"},
		}
		labels, spec.Quality.BadX = b.timeLabels(xs)
	} else {
		spec.XKind = XCategory
		labels = make([]any, len(xs))
		spec.Data.Labels = make([]string, len(xs))
		for i, v := range xs {
			labels[i] = v.Text()
			spec.Data.Labels[i] = v.Text()
		}
	}
	spec.Options.Scales["x"] = xScale

	for i, col := range sel.Columns() {
		ys, err := ds.Column(col)
		if err != nil {
			return nil, err
		}

		color := Palette[i%len(Palette)]
		axisID := AxisID(i + 1)

		points := make([]Point, len(ys))
		for r, v := range ys {
			points[r].X = labels[r]
			y, ok, coerced := b.mode.Coerce(v)
			if coerced {
				spec.Quality.Coerced++
			}
			if ok {
				points[r].Y = &y
			}
		}

		spec.Data.Datasets = append(spec.Data.Datasets, Series{
			Label:           col,
			Data:            points,
			BorderColor:     color,
			BackgroundColor: color,
			YAxisID:         axisID,
			Tension:         0.1,
		})

		position := "right"
		if i < 2 {
			position = "left"
		}
		spec.Options.Scales[axisID] = &Scale{
			Type:     "linear",
			Display:  true,
			Position: position,
			Grid:     &Grid{DrawOnChartArea: i%2 == 0},
			Title:    Title{Display: true, Text: col, Color: color},
			Ticks:    &Ticks{Color: color},
		}
	}

	return spec, nil
}

// timeLabels parses X cells to epoch milliseconds. Numbers are taken as
// epoch milliseconds already. Unparseable cells become nil and are counted.
func (b *Builder) timeLabels(xs []dataset.Value) ([]any, int) {
	out := make([]any, len(xs))
	bad := 0
	for i, v := range xs {
		if f, ok := v.Float(); ok {
			out[i] = f
			continue
		}
		t, err := b.ParseTime(v.Text())
		if err != nil {
			bad++
			continue
		}
		out[i] = float64(t.UnixMilli())
	}
	return out, bad
}

// ParseTime parses an X timestamp in the builder's location.
func (b *Builder) ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, b.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func (b *Builder) options() Options {
	return Options{
		Animation:   false,
		Responsive:  true,
		Interaction: Interaction{Mode: "index", Intersect: false},
		Plugins: Plugins{
			Legend:     Legend{Position: "top"},
			Decimation: Decimation{Enabled: true, Algorithm: "min-max", Samples: DecimationSamples},
			Zoom: ZoomPlugin{
				Pan: Pan{
					Enabled:      b.pan,
					Mode:         "xy",
					Threshold:    5,
					MouseButtons: []int{1},
				},
				Zoom: Zoom{
					Drag:  Toggle{Enabled: true},
					Wheel: Toggle{Enabled: true},
					Pinch: Toggle{Enabled: true},
					Mode:  "x",
				},
			},
		},
		Scales: make(map[string]*Scale, MaxYAxes+1),
	}
}
