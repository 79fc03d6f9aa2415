package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPatternFile loads a pattern document from a YAML file
func LoadPatternFile(path string) (*PatternFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pattern file not found: %s", path)
		}
		return nil, fmt.Errorf("reading pattern file: %w", err)
	}

	var pattern PatternFile
	if err := yaml.Unmarshal(data, &pattern); err != nil {
		return nil, fmt.Errorf("parsing pattern YAML: %w", err)
	}

	if err := ValidatePatternFile(&pattern); err != nil {
		return nil, err
	}
	return &pattern, nil
}

// SavePatternFile writes a pattern document to a YAML file
func SavePatternFile(path string, pattern *PatternFile) error {
	data, err := yaml.Marshal(pattern)
	if err != nil {
		return fmt.Errorf("marshaling pattern YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing pattern file: %w", err)
	}
	return nil
}

// ValidatePatternFile checks the structural fields of a pattern document.
// Geometry parameter validation is left to BuildMappingTable, which is the
// authority on per-layout rules.
func ValidatePatternFile(pattern *PatternFile) error {
	if pattern.Grid.Width < 1 || pattern.Grid.Height < 1 {
		return fmt.Errorf("grid dimensions must be >= 1, got %dx%d", pattern.Grid.Width, pattern.Grid.Height)
	}

	switch pattern.Geometry.Kind {
	case LayoutRectangular:
	case LayoutCircle:
		if pattern.Geometry.Circle == nil {
			return fmt.Errorf("geometry.circle is required for circle layout")
		}
	case LayoutRing:
		if pattern.Geometry.Ring == nil {
			return fmt.Errorf("geometry.ring is required for ring layout")
		}
	case LayoutArc:
		if pattern.Geometry.Arc == nil {
			return fmt.Errorf("geometry.arc is required for arc layout")
		}
	case LayoutRadial:
		if pattern.Geometry.Radial == nil {
			return fmt.Errorf("geometry.radial is required for radial layout")
		}
	case LayoutMultiRing:
		if pattern.Geometry.MultiRing == nil {
			return fmt.Errorf("geometry.multiRing is required for multi_ring layout")
		}
	case LayoutRadialRays:
		if pattern.Geometry.RadialRays == nil {
			return fmt.Errorf("geometry.radialRays is required for radial_rays layout")
		}
	case LayoutCustomPositions:
		if pattern.Geometry.Custom == nil {
			return fmt.Errorf("geometry.custom is required for custom_positions layout")
		}
	case "":
		return fmt.Errorf("geometry.kind is required")
	default:
		return fmt.Errorf("unknown geometry.kind %q", pattern.Geometry.Kind)
	}

	expected := pattern.Grid.LEDCount()
	for i, frame := range pattern.Frames {
		if len(frame.Pixels) != expected {
			return fmt.Errorf("frames[%d] has %d pixels, grid %dx%d needs %d",
				i, len(frame.Pixels), pattern.Grid.Width, pattern.Grid.Height, expected)
		}
		if frame.DurationMS < 0 {
			return fmt.Errorf("frames[%d].durationMs must be >= 0, got %d", i, frame.DurationMS)
		}
	}

	if pattern.MQTT != nil && pattern.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is configured")
	}
	return nil
}
