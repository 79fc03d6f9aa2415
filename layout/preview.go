package layout

import (
	"math"

	"github.com/paulmach/orb"
)

// Preview radius proportions: LEDs occupy 80% of the available radius and
// ray/radial layouts keep a 15% hollow center, matching the physical mounts
// the layouts model.
const (
	previewOuterRatio = 0.8
	previewInnerRatio = 0.15
)

// GenerateLEDPositionsForPreview computes floating-point screen positions
// for every LED, in wiring order, using the same per-layout math as the
// mapping table builder. The preview renderer pairs these positions with
// grid colors fetched through the mapping table.
//
// The function is lenient: an incomplete model yields nil rather than an
// error, since the builder is the authority on configuration validity.
func GenerateLEDPositionsForPreview(model Model, dims GridSize, centerX, centerY, maxRadius float64) []ScreenPos {
	switch model.Kind {
	case LayoutRectangular:
		return previewRectangular(dims, centerX, centerY, maxRadius)
	case LayoutCircle:
		if model.Circle == nil {
			return nil
		}
		return previewArc(*model.Circle, centerX, centerY, maxRadius)
	case LayoutArc:
		if model.Arc == nil {
			return nil
		}
		return previewArc(*model.Arc, centerX, centerY, maxRadius)
	case LayoutRing:
		if model.Ring == nil {
			return nil
		}
		return previewArc(model.Ring.ArcParams, centerX, centerY, maxRadius)
	case LayoutRadial:
		if model.Radial == nil {
			return nil
		}
		return previewRadial(*model.Radial, dims, centerX, centerY, maxRadius)
	case LayoutMultiRing:
		if model.MultiRing == nil {
			return nil
		}
		return previewMultiRing(*model.MultiRing, centerX, centerY, maxRadius)
	case LayoutRadialRays:
		if model.RadialRays == nil {
			return nil
		}
		return previewRadialRays(*model.RadialRays, centerX, centerY, maxRadius)
	case LayoutCustomPositions:
		if model.Custom == nil {
			return nil
		}
		return previewCustom(*model.Custom, centerX, centerY, maxRadius)
	default:
		return nil
	}
}

func previewRectangular(dims GridSize, centerX, centerY, maxRadius float64) []ScreenPos {
	maxDim := dims.Width
	if dims.Height > maxDim {
		maxDim = dims.Height
	}
	if maxDim < 1 {
		return nil
	}
	cell := 2 * maxRadius / float64(maxDim)

	positions := make([]ScreenPos, 0, dims.Width*dims.Height)
	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			positions = append(positions, ScreenPos{
				X: centerX + (float64(x)-float64(dims.Width-1)/2)*cell,
				Y: centerY + (float64(y)-float64(dims.Height-1)/2)*cell,
			})
		}
	}
	return positions
}

func previewArc(params ArcParams, centerX, centerY, maxRadius float64) []ScreenPos {
	if params.LEDCount < 1 {
		return nil
	}
	start, end := params.StartAngle, params.EndAngle
	if start == 0 && end == 0 {
		end = 360
	}
	radius := maxRadius * previewOuterRatio

	polar := GenerateCircularPositions(params.LEDCount, radius, start, end)
	positions := make([]ScreenPos, 0, len(polar))
	for _, p := range polar {
		dx, dy := PolarToCartesian(p.Angle, p.Radius)
		positions = append(positions, ScreenPos{X: centerX + dx, Y: centerY + dy})
	}
	return positions
}

// previewRadial renders rows as concentric circles: row 0 innermost, radius
// interpolated out to the preview edge, columns swept across the aperture.
func previewRadial(params RadialParams, dims GridSize, centerX, centerY, maxRadius float64) []ScreenPos {
	circles := params.Circles
	if circles == 0 {
		circles = dims.Height
	}
	perCircle := params.LEDsPerCircle
	if perCircle == 0 {
		perCircle = dims.Width
	}
	if circles < 1 || perCircle < 1 {
		return nil
	}

	start, end := params.StartAngle, params.EndAngle
	if start == 0 && end == 0 {
		end = 360
	}
	startRad := start * math.Pi / 180
	spanRad := (end - start) * math.Pi / 180

	outer := maxRadius * previewOuterRatio
	inner := outer * previewInnerRatio
	delta := 0.0
	if circles > 1 {
		delta = (outer - inner) / float64(circles-1)
	}

	positions := make([]ScreenPos, 0, circles*perCircle)
	for row := 0; row < circles; row++ {
		radius := inner + delta*float64(row)
		for col := 0; col < perCircle; col++ {
			angle := startRad + spanRad*float64(col)/float64(perCircle)
			dx, dy := PolarToCartesian(angle, radius)
			positions = append(positions, ScreenPos{X: centerX + dx, Y: centerY + dy})
		}
	}
	return positions
}

func previewMultiRing(params MultiRingParams, centerX, centerY, maxRadius float64) []ScreenPos {
	if params.RingCount < 1 ||
		len(params.RingLEDCounts) != params.RingCount ||
		len(params.RingRadii) != params.RingCount {
		return nil
	}

	maxRing := 0.0
	for _, r := range params.RingRadii {
		if r > maxRing {
			maxRing = r
		}
	}
	scale := 1.0
	if maxRing > 0 {
		scale = maxRadius * previewOuterRatio / maxRing
	}

	var positions []ScreenPos
	for ring := 0; ring < params.RingCount; ring++ {
		if params.RingLEDCounts[ring] < 1 {
			return nil
		}
		polar := GenerateCircularPositions(params.RingLEDCounts[ring], params.RingRadii[ring]*scale, 0, 360)
		for _, p := range polar {
			dx, dy := PolarToCartesian(p.Angle, p.Radius)
			positions = append(positions, ScreenPos{X: centerX + dx, Y: centerY + dy})
		}
	}
	return positions
}

// previewRadialRays places LED 0 of each ray at the outer radius and walks
// inward, the reverse of row order in the mapping table: grid row 0 is the
// outer end of the ray.
func previewRadialRays(params RadialRaysParams, centerX, centerY, maxRadius float64) []ScreenPos {
	if params.RayCount < 1 || params.LEDsPerRay < 1 {
		return nil
	}

	spacing := 2 * math.Pi / float64(params.RayCount)
	if params.SpacingAngle != nil {
		spacing = *params.SpacingAngle * math.Pi / 180
	}

	outer := maxRadius * previewOuterRatio
	inner := outer * previewInnerRatio
	delta := 0.0
	if params.LEDsPerRay > 1 {
		delta = (outer - inner) / float64(params.LEDsPerRay-1)
	}

	positions := make([]ScreenPos, 0, params.RayCount*params.LEDsPerRay)
	for ray := 0; ray < params.RayCount; ray++ {
		angle := float64(ray) * spacing
		for j := 0; j < params.LEDsPerRay; j++ {
			radius := inner + delta*float64(params.LEDsPerRay-1-j)
			dx, dy := PolarToCartesian(angle, radius)
			positions = append(positions, ScreenPos{X: centerX + dx, Y: centerY + dy})
		}
	}
	return positions
}

func previewCustom(params CustomParams, centerX, centerY, maxRadius float64) []ScreenPos {
	if len(params.Positions) == 0 {
		return nil
	}

	toMM := 1.0
	if params.Units == UnitsInches {
		toMM = MMPerInch
	}

	mp := make(orb.MultiPoint, 0, len(params.Positions))
	for _, p := range params.Positions {
		mp = append(mp, orb.Point{p.X() * toMM, p.Y() * toMM})
	}
	bound := mp.Bound()

	extent := math.Max(bound.Max.X()-bound.Min.X(), bound.Max.Y()-bound.Min.Y())
	scale := 1.0
	if extent > 0 {
		scale = 2 * maxRadius * 0.9 / extent
	}
	bboxCenterX := (bound.Min.X() + bound.Max.X()) / 2
	bboxCenterY := (bound.Min.Y() + bound.Max.Y()) / 2

	positions := make([]ScreenPos, 0, len(mp))
	for _, p := range mp {
		positions = append(positions, ScreenPos{
			X: centerX + (p.X()-bboxCenterX)*scale,
			Y: centerY + (p.Y()-bboxCenterY)*scale,
		})
	}
	return positions
}
