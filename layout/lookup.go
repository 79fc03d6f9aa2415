package layout

// Lookup answers forward (LED index -> grid cell) and reverse (grid cell ->
// LED index) queries against a mapping table. The reverse index is built
// once at construction; on coordinate collisions (several LEDs legally
// clamped to the same cell) the lowest LED index wins, matching a linear
// first-match scan.
type Lookup struct {
	model   Model
	dims    GridSize
	table   MappingTable
	reverse map[Coord]int
}

// NewLookup builds a lookup over the given table. Rectangular layouts use
// pure arithmetic and ignore the table.
func NewLookup(model Model, dims GridSize, table MappingTable) *Lookup {
	l := &Lookup{model: model, dims: dims, table: table}
	if model.Kind != LayoutRectangular {
		l.reverse = make(map[Coord]int, len(table))
		// Iterate backwards so the lowest index ends up in the map.
		for i := len(table) - 1; i >= 0; i-- {
			l.reverse[table[i]] = i
		}
	}
	return l
}

// LEDToGrid returns the grid cell for an LED index
func (l *Lookup) LEDToGrid(index int) (Coord, bool) {
	if l.model.Kind == LayoutRectangular {
		if index < 0 || index >= l.dims.Width*l.dims.Height {
			return Coord{}, false
		}
		return Coord{X: index % l.dims.Width, Y: index / l.dims.Width}, true
	}
	if index < 0 || index >= len(l.table) {
		return Coord{}, false
	}
	return l.table[index], true
}

// GridToLED returns the LED index mapped to a grid cell, or false when no
// LED reads from that cell
func (l *Lookup) GridToLED(x, y int) (int, bool) {
	if l.model.Kind == LayoutRectangular {
		if x < 0 || x >= l.dims.Width || y < 0 || y >= l.dims.Height {
			return 0, false
		}
		return y*l.dims.Width + x, true
	}
	idx, ok := l.reverse[Coord{X: x, Y: y}]
	return idx, ok
}

// IsMapped reports whether any LED reads from the given cell. Always true
// in-bounds for rectangular layouts.
func (l *Lookup) IsMapped(x, y int) bool {
	_, ok := l.GridToLED(x, y)
	return ok
}

// Table returns the underlying mapping table
func (l *Lookup) Table() MappingTable {
	return l.table
}
