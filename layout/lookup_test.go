package layout

import "testing"

func TestLookupRoundTrip(t *testing.T) {
	dims := GridSize{Width: 16, Height: 16}
	model := Model{Kind: LayoutCircle, Circle: &ArcParams{LEDCount: 24, Radius: 6}}

	model, table, err := BuildMappingTable(model, dims)
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}
	lookup := NewLookup(model, dims, table)

	for i, want := range table {
		got, ok := lookup.LEDToGrid(i)
		if !ok || got != want {
			t.Errorf("LEDToGrid(%d) = %+v, %v; want %+v", i, got, ok, want)
		}

		// The reverse lookup must land on an LED that reads the same cell.
		idx, ok := lookup.GridToLED(want.X, want.Y)
		if !ok {
			t.Errorf("GridToLED(%d, %d) found nothing for LED %d", want.X, want.Y, i)
			continue
		}
		if table[idx] != want {
			t.Errorf("GridToLED(%d, %d) = LED %d at %+v, want cell %+v", want.X, want.Y, idx, table[idx], want)
		}
	}
}

func TestLookupCollisionPicksLowestIndex(t *testing.T) {
	model := Model{Kind: LayoutCustomPositions, Custom: &CustomParams{Units: UnitsGrid}}
	table := MappingTable{{1, 1}, {3, 2}, {1, 1}}
	lookup := NewLookup(model, GridSize{Width: 5, Height: 5}, table)

	idx, ok := lookup.GridToLED(1, 1)
	if !ok || idx != 0 {
		t.Errorf("GridToLED(1, 1) = %d, %v; want 0 (lowest colliding index)", idx, ok)
	}
}

func TestLookupRectangularArithmetic(t *testing.T) {
	dims := GridSize{Width: 4, Height: 3}
	lookup := NewLookup(Model{Kind: LayoutRectangular}, dims, nil)

	got, ok := lookup.LEDToGrid(7)
	if !ok || got != (Coord{3, 1}) {
		t.Errorf("LEDToGrid(7) = %+v, %v; want (3,1)", got, ok)
	}

	idx, ok := lookup.GridToLED(3, 1)
	if !ok || idx != 7 {
		t.Errorf("GridToLED(3, 1) = %d, %v; want 7", idx, ok)
	}

	if _, ok := lookup.LEDToGrid(12); ok {
		t.Error("LEDToGrid(12) should be out of range on 4x3")
	}
	if _, ok := lookup.GridToLED(4, 0); ok {
		t.Error("GridToLED(4, 0) should be out of bounds on 4x3")
	}
}

func TestLookupIsMapped(t *testing.T) {
	model := Model{Kind: LayoutCustomPositions, Custom: &CustomParams{Units: UnitsGrid}}
	table := MappingTable{{0, 0}, {2, 2}}
	lookup := NewLookup(model, GridSize{Width: 4, Height: 4}, table)

	if !lookup.IsMapped(0, 0) || !lookup.IsMapped(2, 2) {
		t.Error("mapped cells reported unmapped")
	}
	if lookup.IsMapped(1, 1) {
		t.Error("unmapped cell reported mapped")
	}

	// Rectangular grids have no unmapped cells.
	rect := NewLookup(Model{Kind: LayoutRectangular}, GridSize{Width: 4, Height: 4}, nil)
	if !rect.IsMapped(3, 3) {
		t.Error("rectangular cell reported unmapped")
	}
}
