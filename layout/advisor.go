package layout

import "math"

// SuggestGridSize recommends minimum square grid dimensions for a desired
// LED count and layout kind. Pure heuristic, advisory only: callers remain
// free to pick any grid that fits their geometry.
//
// base = round-up-to-even(sqrt(ledCount)*1.5 + 2), floored at 8 cells, or
// 16 for the denser multi-ring and radial-ray layouts.
func SuggestGridSize(ledCount int, kind LayoutKind) GridSize {
	if ledCount < 0 {
		ledCount = 0
	}

	base := int(math.Ceil(math.Sqrt(float64(ledCount))*1.5 + 2))
	if base%2 != 0 {
		base++
	}

	floor := 8
	if kind == LayoutMultiRing || kind == LayoutRadialRays {
		floor = 16
	}
	if base < floor {
		base = floor
	}
	return GridSize{Width: base, Height: base}
}
