package chart

import "errors"

var (
	// ErrAxisOutOfRange is returned for axis numbers outside 1..MaxYAxes or
	// beyond the axes of the current chart.
	ErrAxisOutOfRange = errors.New("axis out of range")

	// ErrNotEnoughPoints means a series has nothing drawable, which the
	// rasterizer cannot handle.
	ErrNotEnoughPoints = errors.New("not enough data points to render")

	// ErrInvalidRange is returned when min is not below max.
	ErrInvalidRange = errors.New("axis minimum must be below maximum")
)
