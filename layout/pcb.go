package layout

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ImportKiCadPos reads a KiCad placement (.pos) file into custom-position
// params. Lines are whitespace-separated columns
//
//	Ref  Val  Package  PosX  PosY  Rot  Side
//
// with '#' comment lines. Only the coordinate columns are used; component
// order in the file becomes LED wiring order.
func ImportKiCadPos(r io.Reader, units PositionUnits) (*CustomParams, error) {
	if units == "" {
		units = UnitsMM
	}

	var positions []orb.Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 5 {
			return nil, fmt.Errorf("pos line %d: want at least 5 columns, got %d", line, len(fields))
		}
		x, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("pos line %d: bad x %q: %w", line, fields[3], err)
		}
		y, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("pos line %d: bad y %q: %w", line, fields[4], err)
		}
		positions = append(positions, orb.Point{x, y})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pos file: %w", err)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("pos file contains no placements")
	}

	return &CustomParams{Positions: positions, Units: units}, nil
}

// ImportPositionsCSV reads LED positions from CSV. Rows may be "x,y" or
// "index,x,y"; a non-numeric first row is treated as a header and skipped.
func ImportPositionsCSV(r io.Reader, units PositionUnits) (*CustomParams, error) {
	if units == "" {
		units = UnitsMM
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var positions []orb.Point
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading positions CSV: %w", err)
		}
		row++

		x, y, err := parseCSVRow(record)
		if err != nil {
			if row == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("CSV row %d: %w", row, err)
		}
		positions = append(positions, orb.Point{x, y})
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("positions CSV contains no coordinates")
	}

	return &CustomParams{Positions: positions, Units: units}, nil
}

func parseCSVRow(record []string) (float64, float64, error) {
	var xs, ys string
	switch len(record) {
	case 2:
		xs, ys = record[0], record[1]
	case 3:
		// index,x,y
		xs, ys = record[1], record[2]
	default:
		return 0, 0, fmt.Errorf("want 2 or 3 columns, got %d", len(record))
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x %q", xs)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y %q", ys)
	}
	return x, y, nil
}

// ExportPositionsCSV writes custom positions as "LED_Index,X (units),Y (units)"
func ExportPositionsCSV(w io.Writer, params *CustomParams) error {
	units := params.Units
	if units == "" {
		units = UnitsGrid
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"LED_Index", fmt.Sprintf("X (%s)", units), fmt.Sprintf("Y (%s)", units)}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, p := range params.Positions {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X(), 'g', -1, 64),
			strconv.FormatFloat(p.Y(), 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportEasyEDA writes custom positions as an EasyEDA placement CSV:
// Designator,Footprint,X,Y,Rotation with D1..Dn refs
func ExportEasyEDA(w io.Writer, params *CustomParams, footprint string) error {
	if footprint == "" {
		footprint = "LED_WS2812B"
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Designator", "Footprint", "X", "Y", "Rotation"}); err != nil {
		return fmt.Errorf("writing EasyEDA header: %w", err)
	}
	for i, p := range params.Positions {
		record := []string{
			fmt.Sprintf("D%d", i+1),
			footprint,
			strconv.FormatFloat(p.X(), 'g', -1, 64),
			strconv.FormatFloat(p.Y(), 'g', -1, 64),
			"0",
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing EasyEDA row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
