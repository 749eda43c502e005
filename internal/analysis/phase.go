package analysis

import (
	"strings"
)

// Point is one sample of a return map.
type Point struct{ X, Y float64 }

// ReturnMap pairs each population value with the value lag generations
// later. Fixed points sit on the diagonal; a period-p cycle shows as p
// points.
type ReturnMap struct {
	Lag    int
	Points []Point
}

// GenerateReturnMap builds the return map of series at the given lag.
func GenerateReturnMap(series []float64, lag int) *ReturnMap {
	if lag <= 0 || len(series) <= lag {
		return nil
	}

	rm := &ReturnMap{Lag: lag, Points: make([]Point, 0, len(series)-lag)}
	for i := 0; i+lag < len(series); i++ {
		rm.Points = append(rm.Points, Point{X: series[i], Y: series[i+lag]})
	}
	return rm
}

// ReturnMapToASCII plots the map on a width x height canvas with the
// diagonal drawn where no sample falls.
func ReturnMapToASCII(rm *ReturnMap, width, height int) string {
	if rm == nil || len(rm.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := rm.Points[0].X, rm.Points[0].X
	for _, p := range rm.Points {
		lo = min(lo, p.X, p.Y)
		hi = max(hi, p.X, p.Y)
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// y = x
	for col := 0; col < width; col++ {
		row := height - 1 - col*(height-1)/(width-1)
		canvas[row][col] = '·'
	}

	for _, p := range rm.Points {
		col := int((p.X - lo) / span * float64(width-1))
		row := height - 1 - int((p.Y-lo)/span*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
