package layout

import (
	"fmt"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// LayoutKind identifies the physical LED arrangement
type LayoutKind string

const (
	LayoutRectangular     LayoutKind = "rectangular"
	LayoutCircle          LayoutKind = "circle"
	LayoutRing            LayoutKind = "ring"
	LayoutArc             LayoutKind = "arc"
	LayoutRadial          LayoutKind = "radial"
	LayoutMultiRing       LayoutKind = "multi_ring"
	LayoutRadialRays      LayoutKind = "radial_rays"
	LayoutCustomPositions LayoutKind = "custom_positions"
)

// PositionUnits names the unit system of custom LED positions
type PositionUnits string

const (
	UnitsGrid   PositionUnits = "grid"
	UnitsMM     PositionUnits = "mm"
	UnitsInches PositionUnits = "inches"
)

// MMPerInch converts inch-based PCB placement data to millimeters
const MMPerInch = 25.4

// GridSize is the editable canvas dimensions in cells
type GridSize struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Coord is a grid cell on the rectangular editing canvas
type Coord struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// MappingTable is the ordered LED-index -> grid-coordinate list.
// It is the single source of truth for non-rectangular layouts: preview
// colorization and hardware-order export both traverse it in index order.
type MappingTable []Coord

// ScreenPos is a floating-point position in preview/screen space
type ScreenPos struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// ArcParams configures circle and arc layouts. A Radius of 0 means
// auto-fit to the grid; StartAngle/EndAngle both 0 means full circle.
type ArcParams struct {
	LEDCount   int     `yaml:"ledCount" json:"ledCount"`
	Radius     float64 `yaml:"radius,omitempty" json:"radius,omitempty"`
	StartAngle float64 `yaml:"startAngle,omitempty" json:"startAngle,omitempty"`
	EndAngle   float64 `yaml:"endAngle,omitempty" json:"endAngle,omitempty"`
}

// RingParams configures a ring layout. InnerRadius only declares the
// visual bounds of the ring; LED placement stays on the outer radius.
type RingParams struct {
	ArcParams   `yaml:",inline"`
	InnerRadius float64 `yaml:"innerRadius,omitempty" json:"innerRadius,omitempty"`
}

// RadialParams configures a radial layout where grid rows are concentric
// circles and grid columns are LEDs per circle. Zero values for Circles or
// LEDsPerCircle are backfilled from the grid dimensions.
type RadialParams struct {
	Circles       int     `yaml:"circles,omitempty" json:"circles,omitempty"`
	LEDsPerCircle int     `yaml:"ledsPerCircle,omitempty" json:"ledsPerCircle,omitempty"`
	StartAngle    float64 `yaml:"startAngle,omitempty" json:"startAngle,omitempty"`
	EndAngle      float64 `yaml:"endAngle,omitempty" json:"endAngle,omitempty"`
}

// MultiRingParams configures independently sized concentric rings.
// Radii are taken as already sized for the grid; there is no auto-rescale.
type MultiRingParams struct {
	RingCount     int       `yaml:"ringCount" json:"ringCount"`
	RingLEDCounts []int     `yaml:"ringLedCounts" json:"ringLedCounts"`
	RingRadii     []float64 `yaml:"ringRadii" json:"ringRadii"`
	RingSpacing   float64   `yaml:"ringSpacing,omitempty" json:"ringSpacing,omitempty"`
}

// RadialRaysParams configures LEDs spaced along straight spokes from center.
// SpacingAngle nil means rays are spread evenly over the full circle.
type RadialRaysParams struct {
	RayCount     int      `yaml:"rayCount" json:"rayCount"`
	LEDsPerRay   int      `yaml:"ledsPerRay" json:"ledsPerRay"`
	SpacingAngle *float64 `yaml:"spacingAngle,omitempty" json:"spacingAngle,omitempty"`
}

// CustomParams holds user-supplied physical LED positions, typically
// imported from PCB placement data.
type CustomParams struct {
	Positions []orb.Point   `yaml:"positions" json:"positions"`
	Units     PositionUnits `yaml:"units,omitempty" json:"units,omitempty"`
	Center    *ScreenPos    `yaml:"center,omitempty" json:"center,omitempty"`
}

// Model is the closed tagged-variant geometry configuration. Kind selects
// the active variant; exactly the matching params pointer must be set
// (rectangular needs none).
type Model struct {
	Kind       LayoutKind        `yaml:"kind" json:"kind"`
	Circle     *ArcParams        `yaml:"circle,omitempty" json:"circle,omitempty"`
	Ring       *RingParams       `yaml:"ring,omitempty" json:"ring,omitempty"`
	Arc        *ArcParams        `yaml:"arc,omitempty" json:"arc,omitempty"`
	Radial     *RadialParams     `yaml:"radial,omitempty" json:"radial,omitempty"`
	MultiRing  *MultiRingParams  `yaml:"multiRing,omitempty" json:"multiRing,omitempty"`
	RadialRays *RadialRaysParams `yaml:"radialRays,omitempty" json:"radialRays,omitempty"`
	Custom     *CustomParams     `yaml:"custom,omitempty" json:"custom,omitempty"`
}

// RGB is a single LED color. It serializes as a "#rrggbb" hex string in
// both YAML and JSON.
type RGB struct {
	R, G, B uint8
}

// MarshalText implements encoding.TextMarshaler
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting "#rrggbb"
// or bare "rrggbb"
func (c *RGB) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return fmt.Errorf("invalid color %q: want rrggbb hex", string(text))
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("invalid color %q: %w", string(text), err)
	}
	c.R, c.G, c.B = r, g, b
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (c RGB) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The yaml package does not
// consult encoding.TextUnmarshaler on decode, so colors need this hook.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}

// Frame is one animation frame of row-major grid pixels
type Frame struct {
	DurationMS int   `yaml:"durationMs" json:"durationMs"`
	Pixels     []RGB `yaml:"pixels" json:"pixels"`
}

// MQTTConfig holds broker connection settings for frame publishing
type MQTTConfig struct {
	Broker        string `yaml:"broker" json:"broker"`
	PublishPrefix string `yaml:"publishPrefix,omitempty" json:"publishPrefix,omitempty"`
	ClientID      string `yaml:"clientId,omitempty" json:"clientId,omitempty"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
	DeviceID      string `yaml:"deviceId,omitempty" json:"deviceId,omitempty"`
}

// PatternFile is the on-disk pattern document: geometry, grid, frames and
// optional transport settings
type PatternFile struct {
	Name     string      `yaml:"name"`
	Grid     GridSize    `yaml:"grid"`
	Geometry Model       `yaml:"geometry"`
	Frames   []Frame     `yaml:"frames,omitempty"`
	MQTT     *MQTTConfig `yaml:"mqtt,omitempty"`
}

// LEDCount returns the grid cell count (width x height)
func (g GridSize) LEDCount() int {
	return g.Width * g.Height
}
