package chart

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default raster size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// RenderOptions sizes a PNG rendering.
type RenderOptions struct {
	Width  int
	Height int
	Title  string
}

// RenderPNG rasterizes spec. Left-positioned series use the primary Y axis
// and right-positioned series the secondary one; each side takes the range
// of its first axis. The X window, when set, clips the points drawn.
func RenderPNG(w io.Writer, spec *Spec, opts RenderOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	window := spec.XWindow()
	var (
		series      []gochart.Series
		left, right []string
		leftRange   AxisRange
		rightRange  AxisRange
		hasRight    bool
	)

	for _, s := range spec.Data.Datasets {
		sc := spec.Options.Scales[s.YAxisID]
		axis := gochart.YAxisPrimary
		if sc != nil && sc.Position == "right" {
			axis = gochart.YAxisSecondary
			if !hasRight {
				rightRange = AxisRange{Min: sc.Min, Max: sc.Max}
				hasRight = true
			}
			right = append(right, s.Label)
		} else {
			if len(left) == 0 && sc != nil {
				leftRange = AxisRange{Min: sc.Min, Max: sc.Max}
			}
			left = append(left, s.Label)
		}

		xs, ys := seriesValues(spec.XKind, s.Data, window)
		if len(xs) == 0 {
			return fmt.Errorf("%w: %s", ErrNotEnoughPoints, s.Label)
		}
		xs, ys = widenX(spec.XKind, xs, ys)

		style := gochart.Style{
			StrokeColor: hexColor(s.BorderColor),
			StrokeWidth: 1.5,
		}
		if spec.XKind == XTime {
			times := make([]time.Time, len(xs))
			for j, ms := range xs {
				times[j] = time.UnixMilli(int64(ms))
			}
			series = append(series, gochart.TimeSeries{
				Name: s.Label, XValues: times, YValues: ys, Style: style, YAxis: axis,
			})
		} else {
			series = append(series, gochart.ContinuousSeries{
				Name: s.Label, XValues: xs, YValues: ys, Style: style, YAxis: axis,
			})
		}
	}

	if len(series) == 0 {
		return ErrEmptySelection
	}

	xAxis := gochart.XAxis{Name: spec.Options.Scales["x"].Title.Text}
	if spec.XKind == XTime {
		xAxis.ValueFormatter = gochart.TimeValueFormatterWithFormat("15:04:05")
	} else {
		labels := spec.Data.Labels
		xAxis.ValueFormatter = func(v interface{}) string {
			if f, ok := v.(float64); ok {
				idx := int(f)
				if idx >= 0 && idx < len(labels) {
					return labels[idx]
				}
			}
			return ""
		}
	}

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      gochart.YAxis{Name: strings.Join(left, " / "), Range: axisRange(leftRange, series, gochart.YAxisPrimary)},
		Series:     series,
	}
	if hasRight {
		ch.YAxisSecondary = gochart.YAxis{Name: strings.Join(right, " / "), Range: axisRange(rightRange, series, gochart.YAxisSecondary)}
	}
	ch.Elements = []gochart.Renderable{gochart.LegendThin(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// widenX appends a copy of the last point one step to the right when all X
// values are equal, so go-chart gets a non-zero X range. The step is one
// second on time axes and one row on category axes.
func widenX(kind string, xs, ys []float64) ([]float64, []float64) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	if hi > lo {
		return xs, ys
	}
	step := 1.0
	if kind == XTime {
		step = 1000
	}
	return append(xs, hi+step), append(ys, ys[len(ys)-1])
}

// seriesValues returns the drawable points of one series: gaps and points
// outside the X window are skipped. Category X values are row indexes.
func seriesValues(kind string, points []Point, window AxisRange) ([]float64, []float64) {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for i, p := range points {
		if p.Y == nil || math.IsNaN(*p.Y) {
			continue
		}
		x := float64(i)
		if kind == XTime {
			ms, ok := p.Millis()
			if !ok {
				continue
			}
			x = ms
		}
		if window.Min != nil && x < *window.Min {
			continue
		}
		if window.Max != nil && x > *window.Max {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, *p.Y)
	}
	return xs, ys
}

// axisRange fills the automatic end of a partially fixed range from the data
// of the series on that axis. A fully automatic range returns nil.
func axisRange(r AxisRange, series []gochart.Series, axis gochart.YAxisType) gochart.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		var ys []float64
		switch ss := s.(type) {
		case gochart.TimeSeries:
			if ss.YAxis != axis {
				continue
			}
			ys = ss.YValues
		case gochart.ContinuousSeries:
			if ss.YAxis != axis {
				continue
			}
			ys = ss.YValues
		}
		for _, y := range ys {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}

	if r.IsZero() {
		// go-chart cannot scale a flat series on its own.
		if lo == hi {
			return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
		}
		return nil
	}

	out := &gochart.ContinuousRange{Min: lo, Max: hi}
	if r.Min != nil {
		out.Min = *r.Min
	}
	if r.Max != nil {
		out.Max = *r.Max
	}
	if out.Max <= out.Min {
		out.Max = out.Min + 1
	}
	return out
}

// hexColor converts "#rrggbb" to a drawing colour.
func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}
