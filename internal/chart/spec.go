// Package chart builds multi-axis line chart specifications from datasets.
//
// A [Spec] is the JSON configuration consumed by Chart.js in the browser
// (type, data, options) plus the bookkeeping the server needs to mutate axis
// ranges and rasterize the same chart to PNG.
package chart

import (
	"fmt"
	"maps"
)

// X scale kinds.
const (
	XTime     = "time"
	XCategory = "category"
)

// Palette cycles across Y series.
var Palette = []string{"#ff0037", "#1dc942", "#a73add", "#4f0272", "#ff7f0e"}

// Spec is a renderable chart.
type Spec struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`

	// XKind is XTime or XCategory.
	XKind   string  `json:"xKind"`
	Quality Quality `json:"quality"`
}

// Quality counts cells that did not map cleanly onto the chart.
type Quality struct {
	Rows    int `json:"rows"`
	Coerced int `json:"coerced"`
	BadX    int `json:"badX"`
}

// Data holds the chart series. Labels is set for category X axes.
type Data struct {
	Labels   []string `json:"labels,omitempty"`
	Datasets []Series `json:"datasets"`
}

// Series is one Y column bound to its own axis.
type Series struct {
	Label           string  `json:"label"`
	Data            []Point `json:"data"`
	BorderColor     string  `json:"borderColor"`
	BackgroundColor string  `json:"backgroundColor"`
	YAxisID         string  `json:"yAxisID"`
	Fill            bool    `json:"fill"`
	Tension         float64 `json:"tension"`
	PointRadius     int     `json:"pointRadius"`
}

// Point is one sample. X is epoch milliseconds on time axes, the row label on
// category axes, and nil when the X cell could not be parsed. Y is nil for
// gaps.
type Point struct {
	X any      `json:"x"`
	Y *float64 `json:"y"`
}

// Millis returns X as epoch milliseconds for time axes.
func (p Point) Millis() (float64, bool) {
	ms, ok := p.X.(float64)
	return ms, ok
}

// Options mirrors the Chart.js options block.
type Options struct {
	Animation   bool              `json:"animation"`
	Responsive  bool              `json:"responsive"`
	Interaction Interaction       `json:"interaction"`
	Plugins     Plugins           `json:"plugins"`
	Scales      map[string]*Scale `json:"scales"`
}

type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type Plugins struct {
	Legend     Legend     `json:"legend"`
	Decimation Decimation `json:"decimation"`
	Zoom       ZoomPlugin `json:"zoom"`
}

type Legend struct {
	Position string `json:"position"`
}

type Decimation struct {
	Enabled   bool   `json:"enabled"`
	Algorithm string `json:"algorithm"`
	Samples   int    `json:"samples"`
}

type ZoomPlugin struct {
	Pan  Pan  `json:"pan"`
	Zoom Zoom `json:"zoom"`
}

type Pan struct {
	Enabled      bool    `json:"enabled"`
	Mode         string  `json:"mode"`
	ModifierKey  *string `json:"modifierKey"`
	Threshold    int     `json:"threshold"`
	MouseButtons []int   `json:"mouseButtons"`
}

type Zoom struct {
	Drag  Toggle `json:"drag"`
	Wheel Toggle `json:"wheel"`
	Pinch Toggle `json:"pinch"`
	Mode  string `json:"mode"`
}

type Toggle struct {
	Enabled bool `json:"enabled"`
}

// Scale is one axis.
type Scale struct {
	Type     string       `json:"type"`
	Display  bool         `json:"display"`
	Position string       `json:"position,omitempty"`
	Time     *TimeOptions `json:"time,omitempty"`
	Title    Title        `json:"title"`
	Grid     *Grid        `json:"grid,omitempty"`
	Ticks    *Ticks       `json:"ticks,omitempty"`
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
}

type TimeOptions struct {
	TooltipFormat  string            `json:"tooltipFormat"`
	DisplayFormats map[string]string `json:"displayFormats"`
}

type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   string `json:"color,omitempty"`
}

type Grid struct {
	DrawOnChartArea bool `json:"drawOnChartArea"`
}

type Ticks struct {
	Color string `json:"color"`
}

// AxisRange bounds one axis. Nil ends are automatic.
type AxisRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// IsZero reports whether both ends are automatic.
func (r AxisRange) IsZero() bool { return r.Min == nil && r.Max == nil }

// Validate rejects inverted ranges.
func (r AxisRange) Validate() error {
	if r.Min != nil && r.Max != nil && *r.Min >= *r.Max {
		return fmt.Errorf("%w: %g >= %g", ErrInvalidRange, *r.Min, *r.Max)
	}
	return nil
}

// AxisID names the scale of Y axis n (1-based).
func AxisID(n int) string { return fmt.Sprintf("y%d", n) }

// Axes returns the number of Y axes.
func (s *Spec) Axes() int { return len(s.Data.Datasets) }

// SetAxisRange sets the bounds of Y axis n (1-based) in place.
func (s *Spec) SetAxisRange(n int, r AxisRange) error {
	if n < 1 || n > s.Axes() {
		return fmt.Errorf("%w: y%d (chart has %d)", ErrAxisOutOfRange, n, s.Axes())
	}
	if err := r.Validate(); err != nil {
		return err
	}
	sc := s.Options.Scales[AxisID(n)]
	sc.Min, sc.Max = r.Min, r.Max
	return nil
}

// AxisRange returns the bounds of Y axis n (1-based).
func (s *Spec) AxisRange(n int) (AxisRange, error) {
	if n < 1 || n > s.Axes() {
		return AxisRange{}, fmt.Errorf("%w: y%d (chart has %d)", ErrAxisOutOfRange, n, s.Axes())
	}
	sc := s.Options.Scales[AxisID(n)]
	return AxisRange{Min: sc.Min, Max: sc.Max}, nil
}

// SetXWindow limits the visible X range. A zero range restores the full view.
func (s *Spec) SetXWindow(r AxisRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	sc := s.Options.Scales["x"]
	sc.Min, sc.Max = r.Min, r.Max
	return nil
}

// XWindow returns the visible X range.
func (s *Spec) XWindow() AxisRange {
	sc := s.Options.Scales["x"]
	return AxisRange{Min: sc.Min, Max: sc.Max}
}

// Clone copies the mutable parts of s. Series data is shared; it is never
// modified after Build.
func (s *Spec) Clone() *Spec {
	c := *s
	c.Options.Scales = make(map[string]*Scale, len(s.Options.Scales))
	for k, v := range s.Options.Scales {
		sc := *v
		if v.Time != nil {
			t := *v.Time
			t.DisplayFormats = maps.Clone(v.Time.DisplayFormats)
			sc.Time = &t
		}
		c.Options.Scales[k] = &sc
	}
	c.Data.Datasets = append([]Series(nil), s.Data.Datasets...)
	return &c
}
