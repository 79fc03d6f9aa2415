package layout

import "math"

// PolarPos is an LED position in polar coordinates relative to the layout
// center. Angle is in radians.
type PolarPos struct {
	Angle  float64
	Radius float64
}

// GenerateCircularPositions distributes ledCount LEDs across the angular
// aperture [startDeg, endDeg], all at the given radius. Angles are linearly
// interpolated with step (end-start)/(ledCount-1); a single LED sits exactly
// at the start angle. ledCount must be >= 1 (a violation is a caller bug).
//
// Ring layouts pass their outer radius here: the inner radius declares
// visual bounds only and does not move LED placement.
func GenerateCircularPositions(ledCount int, radius, startDeg, endDeg float64) []PolarPos {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	span := end - start

	positions := make([]PolarPos, 0, ledCount)
	for i := 0; i < ledCount; i++ {
		t := 0.0
		if ledCount > 1 {
			t = float64(i) / float64(ledCount-1)
		}
		positions = append(positions, PolarPos{Angle: start + t*span, Radius: radius})
	}
	return positions
}

// PolarToCartesian converts a polar offset to a cartesian offset relative
// to an implicit origin; callers add the grid or screen center.
func PolarToCartesian(angle, radius float64) (dx, dy float64) {
	return radius * math.Cos(angle), radius * math.Sin(angle)
}

// gridCenter returns the center cell position of the grid. For even
// dimensions this falls between cells, e.g. 3.5 on an 8-wide grid.
func gridCenter(dims GridSize) (float64, float64) {
	return float64(dims.Width-1) / 2.0, float64(dims.Height-1) / 2.0
}

// autoRadius fits a circle radius to the grid with a one-cell margin,
// never below half a cell
func autoRadius(dims GridSize) float64 {
	r := math.Min(float64(dims.Width), float64(dims.Height))/2.0 - 1.0
	if r < 0.5 {
		r = 0.5
	}
	return r
}
