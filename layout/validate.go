package layout

import "fmt"

// ValidateMappingTable checks that the table is consistent with the model
// and grid: correct length and every coordinate in bounds. Returns
// (false, reason) on the first mismatch. Rectangular layouts validate
// trivially since their mapping is arithmetic.
func ValidateMappingTable(model Model, dims GridSize, table MappingTable) (bool, string) {
	if model.Kind == LayoutRectangular {
		return true, ""
	}

	if len(table) == 0 {
		return false, "mapping table is empty"
	}

	expected, err := ExpectedLEDCount(model, dims)
	if err != nil {
		return false, err.Error()
	}
	if len(table) != expected {
		return false, fmt.Sprintf("mapping table length (%d) != expected LED count (%d)", len(table), expected)
	}

	for i, c := range table {
		if c.X < 0 || c.X >= dims.Width {
			return false, fmt.Sprintf("LED %d maps to invalid x=%d (width=%d)", i, c.X, dims.Width)
		}
		if c.Y < 0 || c.Y >= dims.Height {
			return false, fmt.Sprintf("LED %d maps to invalid y=%d (height=%d)", i, c.Y, dims.Height)
		}
	}
	return true, ""
}

// EnsureMappingTable returns a valid table for the model, rebuilding once
// when the given table is missing or stale. It never returns an error:
// lenient callers (pattern loaders repairing older files) get a boolean and
// proceed best-effort. The returned Model carries any backfilled defaults
// from the rebuild.
func EnsureMappingTable(model Model, dims GridSize, table MappingTable) (Model, MappingTable, bool) {
	if ok, _ := ValidateMappingTable(model, dims, table); ok {
		return model, table, true
	}

	rebuilt, fresh, err := BuildMappingTable(model, dims)
	if err != nil {
		return model, table, false
	}
	ok, _ := ValidateMappingTable(rebuilt, dims, fresh)
	return rebuilt, fresh, ok
}
