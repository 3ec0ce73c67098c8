package view

import (
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Point is an SVG user-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Chart lays out the daily max temperatures as a polyline inside a
// width x height box with pad on every side. Higher temperatures get
// smaller Y. A flat series is drawn through the vertical middle.
func Chart(days []weather.ForecastDay, width, height, pad float64) []Point {
	if len(days) == 0 {
		return nil
	}

	lo, hi := days[0].MaxTempC, days[0].MaxTempC
	for _, d := range days[1:] {
		if d.MaxTempC < lo {
			lo = d.MaxTempC
		}
		if d.MaxTempC > hi {
			hi = d.MaxTempC
		}
	}

	innerW := width - 2*pad
	innerH := height - 2*pad

	points := make([]Point, len(days))
	for i, d := range days {
		x := pad + innerW/2
		if len(days) > 1 {
			x = pad + innerW*float64(i)/float64(len(days)-1)
		}

		y := pad + innerH/2
		if hi > lo {
			y = pad + innerH*(hi-d.MaxTempC)/(hi-lo)
		}
		points[i] = Point{X: x, Y: y}
	}
	return points
}
