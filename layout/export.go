package layout

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// WiringOrder linearizes one frame's grid pixels into physical LED order by
// walking the mapping table, producing 3 bytes (RGB) per LED. Exporters and
// the frame publisher both feed LED controllers from this.
func WiringOrder(frame Frame, dims GridSize, table MappingTable) ([]byte, error) {
	if len(frame.Pixels) != dims.LEDCount() {
		return nil, fmt.Errorf("frame has %d pixels, grid %dx%d needs %d",
			len(frame.Pixels), dims.Width, dims.Height, dims.LEDCount())
	}

	out := make([]byte, 0, len(table)*3)
	for _, c := range table {
		px := frame.Pixels[c.Y*dims.Width+c.X]
		out = append(out, px.R, px.G, px.B)
	}
	return out, nil
}

// ExportLEDS writes the pattern in the .leds text format: comment header,
// then per frame a FRAME/DELAY preamble and one "LED <idx> <rrggbb>" line
// per LED in wiring order.
func ExportLEDS(w io.Writer, pattern *PatternFile, table MappingTable) error {
	fmt.Fprintf(w, "# LEDS Pattern Export\n")
	fmt.Fprintf(w, "# Name: %s\n", pattern.Name)
	fmt.Fprintf(w, "# LEDs: %d\n", len(table))
	fmt.Fprintf(w, "# Frames: %d\n", len(pattern.Frames))
	fmt.Fprintf(w, "# Dimensions: %dx%d\n", pattern.Grid.Width, pattern.Grid.Height)
	fmt.Fprintf(w, "# Layout: %s\n", pattern.Geometry.Kind)
	fmt.Fprintln(w)

	for frameIdx, frame := range pattern.Frames {
		fmt.Fprintf(w, "FRAME %d\n", frameIdx)
		fmt.Fprintf(w, "DELAY %d\n", frame.DurationMS)

		data, err := WiringOrder(frame, pattern.Grid, table)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frameIdx, err)
		}
		for led := 0; led < len(table); led++ {
			fmt.Fprintf(w, "LED %d %02x%02x%02x\n", led, data[led*3], data[led*3+1], data[led*3+2])
		}
		fmt.Fprintln(w)
	}
	return nil
}

// ExportBinary writes the compact controller format: header numLEDs and
// numFrames as little-endian uint16, then per frame delayMS (uint16) plus
// RGB triplets in wiring order.
func ExportBinary(w io.Writer, pattern *PatternFile, table MappingTable) error {
	payload, err := binaryPayload(pattern, table)
	if err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func binaryPayload(pattern *PatternFile, table MappingTable) ([]byte, error) {
	if len(table) > 0xFFFF {
		return nil, fmt.Errorf("LED count %d exceeds binary format limit (65535)", len(table))
	}
	if len(pattern.Frames) > 0xFFFF {
		return nil, fmt.Errorf("frame count %d exceeds binary format limit (65535)", len(pattern.Frames))
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(len(table)))
	binary.Write(&buf, binary.LittleEndian, uint16(len(pattern.Frames)))

	for frameIdx, frame := range pattern.Frames {
		delay := frame.DurationMS
		if delay < 0 || delay > 0xFFFF {
			return nil, fmt.Errorf("frame %d: delay %dms out of uint16 range", frameIdx, delay)
		}
		binary.Write(&buf, binary.LittleEndian, uint16(delay))

		data, err := WiringOrder(frame, pattern.Grid, table)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", frameIdx, err)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// ExportIntelHex writes the binary payload as Intel HEX: 16-byte data
// records, extended linear address records at each 64K boundary, and a
// terminating EOF record.
func ExportIntelHex(w io.Writer, pattern *PatternFile, table MappingTable) error {
	payload, err := binaryPayload(pattern, table)
	if err != nil {
		return err
	}

	upper := -1
	for offset := 0; offset < len(payload); offset += 16 {
		end := offset + 16
		if end > len(payload) {
			end = len(payload)
		}

		if offset>>16 != upper {
			upper = offset >> 16
			if err := writeHexRecord(w, 0x04, 0, []byte{byte(upper >> 8), byte(upper)}); err != nil {
				return err
			}
		}
		if err := writeHexRecord(w, 0x00, uint16(offset), payload[offset:end]); err != nil {
			return err
		}
	}
	return writeHexRecord(w, 0x01, 0, nil)
}

// writeHexRecord emits one ":LLAAAATT<data>CC" Intel HEX record
func writeHexRecord(w io.Writer, recordType byte, address uint16, data []byte) error {
	sum := byte(len(data)) + byte(address>>8) + byte(address) + recordType
	for _, b := range data {
		sum += b
	}
	checksum := -sum

	_, err := fmt.Fprintf(w, ":%02X%04X%02X%s%02X\n",
		len(data), address, recordType, strings.ToUpper(hex.EncodeToString(data)), checksum)
	return err
}
