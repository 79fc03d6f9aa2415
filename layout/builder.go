package layout

import "fmt"

// BuildMappingTable generates the LED-index -> grid-coordinate table for
// the model. It is a pure function of (model, dims): identical inputs
// always produce value-equal tables. The returned Model is the input with
// auto-computed defaults backfilled (radius, angle span, radial rows/cols,
// custom-position units); the caller's model is never mutated.
//
// Positions that round outside the grid are clamped to the border. Use
// BuildMappingTableStrict to fail instead.
func BuildMappingTable(model Model, dims GridSize) (Model, MappingTable, error) {
	return buildMappingTable(model, dims, false)
}

// BuildMappingTableStrict is BuildMappingTable with clamping disabled:
// any LED position outside the grid returns an error wrapping
// ErrOutOfBounds.
func BuildMappingTableStrict(model Model, dims GridSize) (Model, MappingTable, error) {
	return buildMappingTable(model, dims, true)
}

func buildMappingTable(model Model, dims GridSize, strict bool) (Model, MappingTable, error) {
	if dims.Width < 1 || dims.Height < 1 {
		return model, nil, configErrf("grid", "invalid size %dx%d: both dimensions must be >= 1", dims.Width, dims.Height)
	}

	switch model.Kind {
	case LayoutRectangular:
		return model, buildRectangularTable(dims), nil

	case LayoutCircle:
		if model.Circle == nil {
			return model, nil, configErrf("circle", "params required for circle layout")
		}
		params, table, err := buildArcTable("circle", *model.Circle, dims, strict)
		if err != nil {
			return model, nil, err
		}
		out := model
		out.Circle = &params
		return out, table, nil

	case LayoutArc:
		if model.Arc == nil {
			return model, nil, configErrf("arc", "params required for arc layout")
		}
		params, table, err := buildArcTable("arc", *model.Arc, dims, strict)
		if err != nil {
			return model, nil, err
		}
		out := model
		out.Arc = &params
		return out, table, nil

	case LayoutRing:
		if model.Ring == nil {
			return model, nil, configErrf("ring", "params required for ring layout")
		}
		params, table, err := buildRingTable(*model.Ring, dims, strict)
		if err != nil {
			return model, nil, err
		}
		out := model
		out.Ring = &params
		return out, table, nil

	case LayoutRadial:
		if model.Radial == nil {
			return model, nil, configErrf("radial", "params required for radial layout")
		}
		params, table, err := buildRadialTable(*model.Radial, dims, strict)
		if err != nil {
			return model, nil, err
		}
		out := model
		out.Radial = &params
		return out, table, nil

	case LayoutMultiRing:
		if model.MultiRing == nil {
			return model, nil, configErrf("multiRing", "params required for multi_ring layout")
		}
		table, err := buildMultiRingTable(*model.MultiRing, dims, strict)
		if err != nil {
			return model, nil, err
		}
		return model, table, nil

	case LayoutRadialRays:
		if model.RadialRays == nil {
			return model, nil, configErrf("radialRays", "params required for radial_rays layout")
		}
		table, err := buildRadialRaysTable(*model.RadialRays, dims, strict)
		if err != nil {
			return model, nil, err
		}
		return model, table, nil

	case LayoutCustomPositions:
		if model.Custom == nil {
			return model, nil, configErrf("custom", "params required for custom_positions layout")
		}
		params, table, err := buildCustomTable(*model.Custom, dims, strict)
		if err != nil {
			return model, nil, err
		}
		out := model
		out.Custom = &params
		return out, table, nil

	default:
		return model, nil, configErrf("kind", "unknown layout kind %q", model.Kind)
	}
}

// buildRectangularTable is the identity mapping: every cell is its own LED,
// row-major, index = y*width + x
func buildRectangularTable(dims GridSize) MappingTable {
	table := make(MappingTable, 0, dims.Width*dims.Height)
	for y := 0; y < dims.Height; y++ {
		for x := 0; x < dims.Width; x++ {
			table = append(table, Coord{X: x, Y: y})
		}
	}
	return table
}

// resolveAperture backfills a full-circle aperture when both angles are
// unset, then validates the range
func resolveAperture(field string, startAngle, endAngle float64) (float64, float64, error) {
	if startAngle == 0 && endAngle == 0 {
		endAngle = 360
	}
	if startAngle < 0 || startAngle >= 360 {
		return 0, 0, configErrf(field, "startAngle must be in [0, 360), got %v", startAngle)
	}
	if endAngle <= startAngle || endAngle > 360 {
		return 0, 0, configErrf(field, "endAngle must be > startAngle and <= 360, got %v", endAngle)
	}
	return startAngle, endAngle, nil
}

// resolveArcParams validates and backfills circle/arc/ring shared params
func resolveArcParams(field string, params ArcParams, dims GridSize) (ArcParams, error) {
	if params.LEDCount < 1 {
		return params, configErrf(field, "ledCount must be >= 1, got %d", params.LEDCount)
	}
	start, end, err := resolveAperture(field, params.StartAngle, params.EndAngle)
	if err != nil {
		return params, err
	}
	params.StartAngle = start
	params.EndAngle = end

	if params.Radius == 0 {
		params.Radius = autoRadius(dims)
	}
	if params.Radius <= 0 {
		return params, configErrf(field, "radius must be > 0, got %v", params.Radius)
	}
	return params, nil
}

func buildArcTable(field string, params ArcParams, dims GridSize, strict bool) (ArcParams, MappingTable, error) {
	params, err := resolveArcParams(field, params, dims)
	if err != nil {
		return params, nil, err
	}
	table, err := projectPolar(
		GenerateCircularPositions(params.LEDCount, params.Radius, params.StartAngle, params.EndAngle),
		dims, strict, nil)
	return params, table, err
}

func buildRingTable(params RingParams, dims GridSize, strict bool) (RingParams, MappingTable, error) {
	arc, err := resolveArcParams("ring", params.ArcParams, dims)
	if err != nil {
		return params, nil, err
	}
	params.ArcParams = arc

	if params.InnerRadius < 0 {
		return params, nil, configErrf("ring", "innerRadius must be >= 0, got %v", params.InnerRadius)
	}
	if params.InnerRadius >= params.Radius {
		return params, nil, configErrf("ring", "innerRadius (%v) must be < radius (%v)", params.InnerRadius, params.Radius)
	}

	// LEDs sit on the outer radius; InnerRadius only declares the ring's
	// visual bounds. Possibly a latent gap in the source behavior, kept
	// as-is deliberately.
	table, err := projectPolar(
		GenerateCircularPositions(params.LEDCount, params.Radius, params.StartAngle, params.EndAngle),
		dims, strict, nil)
	return params, table, err
}

// buildRadialTable maps rows to concentric circles and columns to LEDs per
// circle. The table itself is the direct row/column grid interpretation;
// the per-row radius interpolation is a preview concern.
func buildRadialTable(params RadialParams, dims GridSize, strict bool) (RadialParams, MappingTable, error) {
	if params.Circles == 0 {
		params.Circles = dims.Height
	}
	if params.LEDsPerCircle == 0 {
		params.LEDsPerCircle = dims.Width
	}
	if params.Circles < 1 {
		return params, nil, configErrf("radial", "circles must be >= 1, got %d", params.Circles)
	}
	if params.LEDsPerCircle < 1 {
		return params, nil, configErrf("radial", "ledsPerCircle must be >= 1, got %d", params.LEDsPerCircle)
	}
	start, end, err := resolveAperture("radial", params.StartAngle, params.EndAngle)
	if err != nil {
		return params, nil, err
	}
	params.StartAngle = start
	params.EndAngle = end

	table := make(MappingTable, 0, params.Circles*params.LEDsPerCircle)
	for row := 0; row < params.Circles; row++ {
		for col := 0; col < params.LEDsPerCircle; col++ {
			cell, err := projectCell(float64(col), float64(row), dims, strict)
			if err != nil {
				return params, nil, err
			}
			table = append(table, cell)
		}
	}
	return params, table, nil
}

func buildMultiRingTable(params MultiRingParams, dims GridSize, strict bool) (MappingTable, error) {
	if params.RingCount < 1 {
		return nil, configErrf("multiRing", "ringCount must be >= 1, got %d", params.RingCount)
	}
	if len(params.RingLEDCounts) != params.RingCount {
		return nil, configErrf("multiRing", "ringLedCounts length (%d) must match ringCount (%d)",
			len(params.RingLEDCounts), params.RingCount)
	}
	if len(params.RingRadii) != params.RingCount {
		return nil, configErrf("multiRing", "ringRadii length (%d) must match ringCount (%d)",
			len(params.RingRadii), params.RingCount)
	}

	total := 0
	for i, n := range params.RingLEDCounts {
		if n < 1 {
			return nil, configErrf("multiRing", "ringLedCounts[%d] must be >= 1, got %d", i, n)
		}
		total += n
	}

	// Ring-by-ring in configured order, each a full 0-360 sweep. Radii are
	// taken as already sized for the grid.
	table := make(MappingTable, 0, total)
	for ring := 0; ring < params.RingCount; ring++ {
		positions := GenerateCircularPositions(params.RingLEDCounts[ring], params.RingRadii[ring], 0, 360)
		var err error
		table, err = projectPolar(positions, dims, strict, table)
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

// buildRadialRaysTable maps ray r, position j to grid cell (r, j): each ray
// is a grid column, LED 0 of a ray at row 0 (the physical outer end).
func buildRadialRaysTable(params RadialRaysParams, dims GridSize, strict bool) (MappingTable, error) {
	if params.RayCount < 1 {
		return nil, configErrf("radialRays", "rayCount must be >= 1, got %d", params.RayCount)
	}
	if params.LEDsPerRay < 1 {
		return nil, configErrf("radialRays", "ledsPerRay must be >= 1, got %d", params.LEDsPerRay)
	}
	if params.SpacingAngle != nil && *params.SpacingAngle <= 0 {
		return nil, configErrf("radialRays", "spacingAngle must be > 0, got %v", *params.SpacingAngle)
	}

	table := make(MappingTable, 0, params.RayCount*params.LEDsPerRay)
	for ray := 0; ray < params.RayCount; ray++ {
		for j := 0; j < params.LEDsPerRay; j++ {
			cell, err := projectCell(float64(ray), float64(j), dims, strict)
			if err != nil {
				return nil, err
			}
			table = append(table, cell)
		}
	}
	return table, nil
}

func buildCustomTable(params CustomParams, dims GridSize, strict bool) (CustomParams, MappingTable, error) {
	if len(params.Positions) == 0 {
		return params, nil, configErrf("custom", "positions must not be empty")
	}
	switch params.Units {
	case UnitsGrid, UnitsMM, UnitsInches:
	case "":
		params.Units = UnitsGrid
	default:
		return params, nil, configErrf("custom", "unknown units %q", params.Units)
	}

	fit := newCustomFit(&params, dims)
	table := make(MappingTable, 0, len(params.Positions))
	for _, p := range params.Positions {
		x, y := fit.apply(p)
		cell, err := projectCell(x, y, dims, strict)
		if err != nil {
			return params, nil, err
		}
		table = append(table, cell)
	}
	return params, table, nil
}

// projectPolar converts polar positions to grid cells around the grid
// center, appending to dst
func projectPolar(positions []PolarPos, dims GridSize, strict bool, dst MappingTable) (MappingTable, error) {
	centerX, centerY := gridCenter(dims)
	for _, pos := range positions {
		dx, dy := PolarToCartesian(pos.Angle, pos.Radius)
		cell, err := projectCell(centerX+dx, centerY+dy, dims, strict)
		if err != nil {
			return nil, err
		}
		dst = append(dst, cell)
	}
	return dst, nil
}

func projectCell(x, y float64, dims GridSize, strict bool) (Coord, error) {
	if strict {
		cell, err := ProjectToGridStrict(x, y, dims)
		if err != nil {
			return Coord{}, fmt.Errorf("position (%.2f, %.2f) on %dx%d grid: %w", x, y, dims.Width, dims.Height, err)
		}
		return cell, nil
	}
	return ProjectToGrid(x, y, dims), nil
}

// ExpectedLEDCount computes the physical LED count the model describes.
// For rectangular layouts this is the full grid; other layouts derive it
// from their parameters.
func ExpectedLEDCount(model Model, dims GridSize) (int, error) {
	switch model.Kind {
	case LayoutRectangular:
		return dims.Width * dims.Height, nil
	case LayoutCircle:
		if model.Circle == nil || model.Circle.LEDCount < 1 {
			return 0, configErrf("circle", "ledCount must be set")
		}
		return model.Circle.LEDCount, nil
	case LayoutArc:
		if model.Arc == nil || model.Arc.LEDCount < 1 {
			return 0, configErrf("arc", "ledCount must be set")
		}
		return model.Arc.LEDCount, nil
	case LayoutRing:
		if model.Ring == nil || model.Ring.LEDCount < 1 {
			return 0, configErrf("ring", "ledCount must be set")
		}
		return model.Ring.LEDCount, nil
	case LayoutRadial:
		if model.Radial == nil {
			return dims.Width * dims.Height, nil
		}
		circles := model.Radial.Circles
		if circles == 0 {
			circles = dims.Height
		}
		perCircle := model.Radial.LEDsPerCircle
		if perCircle == 0 {
			perCircle = dims.Width
		}
		return circles * perCircle, nil
	case LayoutMultiRing:
		if model.MultiRing == nil {
			return 0, configErrf("multiRing", "params must be set")
		}
		total := 0
		for _, n := range model.MultiRing.RingLEDCounts {
			total += n
		}
		return total, nil
	case LayoutRadialRays:
		if model.RadialRays == nil {
			return 0, configErrf("radialRays", "params must be set")
		}
		return model.RadialRays.RayCount * model.RadialRays.LEDsPerRay, nil
	case LayoutCustomPositions:
		if model.Custom == nil {
			return 0, configErrf("custom", "params must be set")
		}
		return len(model.Custom.Positions), nil
	default:
		return 0, configErrf("kind", "unknown layout kind %q", model.Kind)
	}
}
