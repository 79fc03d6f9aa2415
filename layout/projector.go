package layout

import (
	"math"

	"github.com/paulmach/orb"
)

// ProjectToGrid rounds a continuous position to the nearest grid cell and
// clamps it to [0,width-1] x [0,height-1]. Clamping is a deliberate
// robustness policy: malformed geometry saturates to the border instead of
// producing an out-of-bounds table entry.
func ProjectToGrid(x, y float64, dims GridSize) Coord {
	gx := int(math.Round(x))
	gy := int(math.Round(y))

	if gx < 0 {
		gx = 0
	} else if gx > dims.Width-1 {
		gx = dims.Width - 1
	}
	if gy < 0 {
		gy = 0
	} else if gy > dims.Height-1 {
		gy = dims.Height - 1
	}
	return Coord{X: gx, Y: gy}
}

// ProjectToGridStrict rounds like ProjectToGrid but returns ErrOutOfBounds
// instead of clamping, for callers that want misconfigured geometry to fail
// loudly.
func ProjectToGridStrict(x, y float64, dims GridSize) (Coord, error) {
	gx := int(math.Round(x))
	gy := int(math.Round(y))

	if gx < 0 || gx >= dims.Width || gy < 0 || gy >= dims.Height {
		return Coord{}, ErrOutOfBounds
	}
	return Coord{X: gx, Y: gy}, nil
}

// customFit maps raw custom positions into continuous grid coordinates:
// unit conversion, bounding box, uniform scale to 90% of the grid extent,
// then centering at the grid center (or the configured override).
type customFit struct {
	scale   float64
	offsetX float64
	offsetY float64
	toMM    float64 // raw-unit -> working-unit multiplier
}

// newCustomFit computes the fit for the given positions. Grid-unit
// positions are taken as-is (scale 1, no offset) so hand-placed cells land
// exactly where the user put them.
func newCustomFit(params *CustomParams, dims GridSize) customFit {
	units := params.Units
	if units == "" {
		units = UnitsGrid
	}

	if units == UnitsGrid {
		fit := customFit{scale: 1.0, toMM: 1.0}
		if params.Center != nil {
			fit.offsetX = params.Center.X
			fit.offsetY = params.Center.Y
		}
		return fit
	}

	toMM := 1.0
	if units == UnitsInches {
		toMM = MMPerInch
	}

	// Bounding box over the converted positions.
	mp := make(orb.MultiPoint, 0, len(params.Positions))
	for _, p := range params.Positions {
		mp = append(mp, orb.Point{p.X() * toMM, p.Y() * toMM})
	}
	bound := mp.Bound()

	widthMM := bound.Max.X() - bound.Min.X()
	heightMM := bound.Max.Y() - bound.Min.Y()

	scaleX := 1.0
	if widthMM > 0 {
		scaleX = float64(dims.Width) * 0.9 / widthMM
	}
	scaleY := 1.0
	if heightMM > 0 {
		scaleY = float64(dims.Height) * 0.9 / heightMM
	}
	scale := math.Min(scaleX, scaleY)

	centerX, centerY := gridCenter(dims)
	bboxCenterX := (bound.Min.X() + bound.Max.X()) / 2.0
	bboxCenterY := (bound.Min.Y() + bound.Max.Y()) / 2.0

	fit := customFit{
		scale:   scale,
		offsetX: centerX - bboxCenterX*scale,
		offsetY: centerY - bboxCenterY*scale,
		toMM:    toMM,
	}
	if params.Center != nil {
		fit.offsetX = params.Center.X
		fit.offsetY = params.Center.Y
	}
	return fit
}

// apply converts one raw position to continuous grid coordinates
func (f customFit) apply(p orb.Point) (float64, float64) {
	return p.X()*f.toMM*f.scale + f.offsetX, p.Y()*f.toMM*f.scale + f.offsetY
}
