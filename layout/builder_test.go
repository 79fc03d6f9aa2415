package layout

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

// testModels returns one valid model per layout kind, for invariant sweeps
func testModels() map[string]struct {
	model Model
	dims  GridSize
} {
	spacing := 45.0
	return map[string]struct {
		model Model
		dims  GridSize
	}{
		"rectangular": {
			model: Model{Kind: LayoutRectangular},
			dims:  GridSize{Width: 5, Height: 3},
		},
		"circle": {
			model: Model{Kind: LayoutCircle, Circle: &ArcParams{LEDCount: 24}},
			dims:  GridSize{Width: 16, Height: 16},
		},
		"ring": {
			model: Model{Kind: LayoutRing, Ring: &RingParams{
				ArcParams:   ArcParams{LEDCount: 12, Radius: 6},
				InnerRadius: 3,
			}},
			dims: GridSize{Width: 16, Height: 16},
		},
		"arc": {
			model: Model{Kind: LayoutArc, Arc: &ArcParams{LEDCount: 7, StartAngle: 45, EndAngle: 135}},
			dims:  GridSize{Width: 12, Height: 12},
		},
		"radial": {
			model: Model{Kind: LayoutRadial, Radial: &RadialParams{}},
			dims:  GridSize{Width: 8, Height: 4},
		},
		"multi_ring": {
			model: Model{Kind: LayoutMultiRing, MultiRing: &MultiRingParams{
				RingCount:     3,
				RingLEDCounts: []int{4, 8, 12},
				RingRadii:     []float64{2, 4, 6},
			}},
			dims: GridSize{Width: 16, Height: 16},
		},
		"radial_rays": {
			model: Model{Kind: LayoutRadialRays, RadialRays: &RadialRaysParams{
				RayCount: 6, LEDsPerRay: 4, SpacingAngle: &spacing,
			}},
			dims: GridSize{Width: 6, Height: 4},
		},
		"custom_positions": {
			model: Model{Kind: LayoutCustomPositions, Custom: &CustomParams{
				Units:     UnitsMM,
				Positions: []orb.Point{{0, 0}, {80, 0}, {80, 80}, {0, 80}, {40, 40}},
			}},
			dims: GridSize{Width: 10, Height: 10},
		},
	}
}

func TestBuildMappingTableInvariants(t *testing.T) {
	for name, tc := range testModels() {
		t.Run(name, func(t *testing.T) {
			model, table, err := BuildMappingTable(tc.model, tc.dims)
			if err != nil {
				t.Fatalf("BuildMappingTable() error = %v", err)
			}

			expected, err := ExpectedLEDCount(model, tc.dims)
			if err != nil {
				t.Fatalf("ExpectedLEDCount() error = %v", err)
			}
			if len(table) != expected {
				t.Errorf("table length = %d, want %d", len(table), expected)
			}

			for i, c := range table {
				if c.X < 0 || c.X >= tc.dims.Width || c.Y < 0 || c.Y >= tc.dims.Height {
					t.Errorf("LED %d maps out of bounds: %+v on %dx%d grid", i, c, tc.dims.Width, tc.dims.Height)
				}
			}
		})
	}
}

func TestBuildMappingTableDeterminism(t *testing.T) {
	for name, tc := range testModels() {
		t.Run(name, func(t *testing.T) {
			_, first, err := BuildMappingTable(tc.model, tc.dims)
			if err != nil {
				t.Fatalf("BuildMappingTable() error = %v", err)
			}
			_, second, err := BuildMappingTable(tc.model, tc.dims)
			if err != nil {
				t.Fatalf("BuildMappingTable() error = %v", err)
			}

			if len(first) != len(second) {
				t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
			}
			for i := range first {
				if first[i] != second[i] {
					t.Errorf("LED %d differs: %+v vs %+v", i, first[i], second[i])
				}
			}
		})
	}
}

func TestBuildRectangularIdentity(t *testing.T) {
	dims := GridSize{Width: 3, Height: 2}
	_, table, err := BuildMappingTable(Model{Kind: LayoutRectangular}, dims)
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}

	want := MappingTable{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if len(table) != len(want) {
		t.Fatalf("table length = %d, want %d", len(table), len(want))
	}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("table[%d] = %+v, want %+v", i, table[i], want[i])
		}
	}
}

func TestBuildCircleSingleLED(t *testing.T) {
	// One LED lands exactly at the start angle, no division by zero.
	model := Model{Kind: LayoutCircle, Circle: &ArcParams{
		LEDCount: 1, Radius: 3, StartAngle: 90, EndAngle: 360,
	}}
	_, table, err := BuildMappingTable(model, GridSize{Width: 9, Height: 9})
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("table length = %d, want 1", len(table))
	}
	// Center (4,4), 90 degrees at radius 3 points straight down the grid.
	if table[0] != (Coord{4, 7}) {
		t.Errorf("table[0] = %+v, want (4,7)", table[0])
	}
}

func TestBuildCircleBackfillsRadius(t *testing.T) {
	model := Model{Kind: LayoutCircle, Circle: &ArcParams{LEDCount: 8}}
	dims := GridSize{Width: 9, Height: 9}

	augmented, _, err := BuildMappingTable(model, dims)
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}

	if !almostEqual(augmented.Circle.Radius, 3.5) {
		t.Errorf("augmented radius = %v, want 3.5", augmented.Circle.Radius)
	}
	if !almostEqual(augmented.Circle.EndAngle, 360) {
		t.Errorf("augmented end angle = %v, want 360", augmented.Circle.EndAngle)
	}
	// The caller's model must not be mutated.
	if model.Circle.Radius != 0 {
		t.Errorf("input model was mutated: radius = %v", model.Circle.Radius)
	}
}

func TestBuildRadialBackfillsFromGrid(t *testing.T) {
	dims := GridSize{Width: 4, Height: 3}
	augmented, table, err := BuildMappingTable(Model{Kind: LayoutRadial, Radial: &RadialParams{}}, dims)
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}

	if augmented.Radial.Circles != 3 || augmented.Radial.LEDsPerCircle != 4 {
		t.Errorf("augmented radial = %+v, want circles=3 ledsPerCircle=4", augmented.Radial)
	}

	// Radial tables are the direct row/column grid interpretation.
	if len(table) != 12 {
		t.Fatalf("table length = %d, want 12", len(table))
	}
	if table[0] != (Coord{0, 0}) || table[5] != (Coord{1, 1}) || table[11] != (Coord{3, 2}) {
		t.Errorf("unexpected radial cells: %+v, %+v, %+v", table[0], table[5], table[11])
	}
}

func TestBuildRadialRaysOrdering(t *testing.T) {
	// Each ray is a grid column; LED 0 of a ray sits at row 0.
	model := Model{Kind: LayoutRadialRays, RadialRays: &RadialRaysParams{RayCount: 6, LEDsPerRay: 4}}
	_, table, err := BuildMappingTable(model, GridSize{Width: 6, Height: 4})
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}

	if len(table) != 24 {
		t.Fatalf("table length = %d, want 24", len(table))
	}
	if table[0] != (Coord{0, 0}) {
		t.Errorf("LED 0 = %+v, want (0,0)", table[0])
	}
	if table[3] != (Coord{0, 3}) {
		t.Errorf("LED 3 = %+v, want (0,3)", table[3])
	}
	if table[4] != (Coord{1, 0}) {
		t.Errorf("LED 4 = %+v, want (1,0)", table[4])
	}
}

func TestBuildMultiRingOrder(t *testing.T) {
	model := Model{Kind: LayoutMultiRing, MultiRing: &MultiRingParams{
		RingCount:     2,
		RingLEDCounts: []int{1, 4},
		RingRadii:     []float64{0, 2},
	}}
	dims := GridSize{Width: 5, Height: 5}

	_, table, err := BuildMappingTable(model, dims)
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}

	if len(table) != 5 {
		t.Fatalf("table length = %d, want 5", len(table))
	}
	// Inner ring first: a zero-radius ring collapses to the grid center.
	if table[0] != (Coord{2, 2}) {
		t.Errorf("LED 0 = %+v, want center (2,2)", table[0])
	}
	// Outer ring starts at angle 0 on the +x axis.
	if table[1] != (Coord{4, 2}) {
		t.Errorf("LED 1 = %+v, want (4,2)", table[1])
	}
}

func TestBuildConfigurationErrors(t *testing.T) {
	spacingNeg := -10.0
	tests := []struct {
		name  string
		model Model
	}{
		{
			name:  "unknown kind",
			model: Model{Kind: "spiral"},
		},
		{
			name:  "circle missing params",
			model: Model{Kind: LayoutCircle},
		},
		{
			name:  "circle unset led count",
			model: Model{Kind: LayoutCircle, Circle: &ArcParams{}},
		},
		{
			name:  "circle negative radius",
			model: Model{Kind: LayoutCircle, Circle: &ArcParams{LEDCount: 4, Radius: -1}},
		},
		{
			name:  "circle start angle out of range",
			model: Model{Kind: LayoutCircle, Circle: &ArcParams{LEDCount: 4, StartAngle: 360, EndAngle: 400}},
		},
		{
			name:  "arc inverted aperture",
			model: Model{Kind: LayoutArc, Arc: &ArcParams{LEDCount: 4, StartAngle: 180, EndAngle: 90}},
		},
		{
			name: "ring inner radius equals outer",
			model: Model{Kind: LayoutRing, Ring: &RingParams{
				ArcParams:   ArcParams{LEDCount: 8, Radius: 3},
				InnerRadius: 3,
			}},
		},
		{
			name: "ring negative inner radius",
			model: Model{Kind: LayoutRing, Ring: &RingParams{
				ArcParams:   ArcParams{LEDCount: 8, Radius: 3},
				InnerRadius: -1,
			}},
		},
		{
			name: "multi ring count mismatch",
			model: Model{Kind: LayoutMultiRing, MultiRing: &MultiRingParams{
				RingCount:     3,
				RingLEDCounts: []int{4, 8},
				RingRadii:     []float64{1, 2, 3},
			}},
		},
		{
			name: "multi ring radii mismatch",
			model: Model{Kind: LayoutMultiRing, MultiRing: &MultiRingParams{
				RingCount:     2,
				RingLEDCounts: []int{4, 8},
				RingRadii:     []float64{1},
			}},
		},
		{
			name:  "radial rays zero rays",
			model: Model{Kind: LayoutRadialRays, RadialRays: &RadialRaysParams{RayCount: 0, LEDsPerRay: 4}},
		},
		{
			name: "radial rays negative spacing",
			model: Model{Kind: LayoutRadialRays, RadialRays: &RadialRaysParams{
				RayCount: 4, LEDsPerRay: 4, SpacingAngle: &spacingNeg,
			}},
		},
		{
			name:  "custom empty positions",
			model: Model{Kind: LayoutCustomPositions, Custom: &CustomParams{Units: UnitsMM}},
		},
		{
			name: "custom unknown units",
			model: Model{Kind: LayoutCustomPositions, Custom: &CustomParams{
				Units:     "furlongs",
				Positions: []orb.Point{{0, 0}},
			}},
		},
	}

	dims := GridSize{Width: 8, Height: 8}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildMappingTable(tt.model, dims)
			if err == nil {
				t.Fatal("BuildMappingTable() succeeded, want ConfigError")
			}
			if !IsConfigError(err) {
				t.Errorf("error %v is not a ConfigError", err)
			}
		})
	}
}

func TestBuildInvalidGrid(t *testing.T) {
	_, _, err := BuildMappingTable(Model{Kind: LayoutRectangular}, GridSize{Width: 0, Height: 5})
	if !IsConfigError(err) {
		t.Errorf("zero-width grid: got %v, want ConfigError", err)
	}
}

func TestBuildStrictRejectsOutOfBounds(t *testing.T) {
	// A ring radius far larger than the grid clamps by default but fails
	// in strict mode.
	model := Model{Kind: LayoutMultiRing, MultiRing: &MultiRingParams{
		RingCount:     1,
		RingLEDCounts: []int{8},
		RingRadii:     []float64{100},
	}}
	dims := GridSize{Width: 5, Height: 5}

	if _, _, err := BuildMappingTable(model, dims); err != nil {
		t.Fatalf("clamping build error = %v", err)
	}

	_, _, err := BuildMappingTableStrict(model, dims)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("strict build: got %v, want ErrOutOfBounds", err)
	}
}

func TestBuildCustomUnitsAgree(t *testing.T) {
	// The same physical layout expressed in mm and inches lands on the
	// same cells give or take one rounding step.
	mm := Model{Kind: LayoutCustomPositions, Custom: &CustomParams{
		Units:     UnitsMM,
		Positions: []orb.Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {50, 50}},
	}}
	inches := Model{Kind: LayoutCustomPositions, Custom: &CustomParams{
		Units: UnitsInches,
		Positions: []orb.Point{
			{0, 0}, {100 / MMPerInch, 0}, {100 / MMPerInch, 100 / MMPerInch},
			{0, 100 / MMPerInch}, {50 / MMPerInch, 50 / MMPerInch},
		},
	}}
	dims := GridSize{Width: 12, Height: 12}

	_, mmTable, err := BuildMappingTable(mm, dims)
	if err != nil {
		t.Fatalf("mm build error = %v", err)
	}
	_, inTable, err := BuildMappingTable(inches, dims)
	if err != nil {
		t.Fatalf("inches build error = %v", err)
	}

	if len(mmTable) != len(inTable) {
		t.Fatalf("table lengths differ: %d vs %d", len(mmTable), len(inTable))
	}
	for i := range mmTable {
		dx := mmTable[i].X - inTable[i].X
		dy := mmTable[i].Y - inTable[i].Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Errorf("LED %d differs by more than one cell: %+v vs %+v", i, mmTable[i], inTable[i])
		}
	}
}

func TestBuildCustomDefaultsToGridUnits(t *testing.T) {
	model := Model{Kind: LayoutCustomPositions, Custom: &CustomParams{
		Positions: []orb.Point{{1, 1}, {3, 2}},
	}}
	augmented, table, err := BuildMappingTable(model, GridSize{Width: 5, Height: 5})
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}

	if augmented.Custom.Units != UnitsGrid {
		t.Errorf("augmented units = %q, want %q", augmented.Custom.Units, UnitsGrid)
	}
	if table[0] != (Coord{1, 1}) || table[1] != (Coord{3, 2}) {
		t.Errorf("grid-unit positions moved: %+v", table)
	}
}

func TestExpectedLEDCount(t *testing.T) {
	for name, tc := range testModels() {
		t.Run(name, func(t *testing.T) {
			_, table, err := BuildMappingTable(tc.model, tc.dims)
			if err != nil {
				t.Fatalf("BuildMappingTable() error = %v", err)
			}
			count, err := ExpectedLEDCount(tc.model, tc.dims)
			if err != nil {
				t.Fatalf("ExpectedLEDCount() error = %v", err)
			}
			if count != len(table) {
				t.Errorf("ExpectedLEDCount() = %d, table has %d", count, len(table))
			}
		})
	}
}
