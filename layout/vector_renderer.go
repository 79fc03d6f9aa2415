package layout

import (
	"fmt"
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// canvasRenderer is the interface both the svg and rasterizer renderers
// implement
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// VectorPreview renders the physical LED arrangement as vector graphics,
// with an optional wiring polyline connecting LEDs in index order.
type VectorPreview struct {
	Pattern    *PatternFile
	Table      MappingTable
	Size       float64 // canvas size in mm
	Margin     float64
	DotRadius  float64
	ShowWiring bool
	Resolution canvas.Resolution // for PNG output
}

// NewVectorPreview creates a vector preview with default settings
func NewVectorPreview(pattern *PatternFile, table MappingTable) *VectorPreview {
	return &VectorPreview{
		Pattern:    pattern,
		Table:      table,
		Size:       200.0,
		Margin:     10.0,
		DotRadius:  2.5,
		ShowWiring: true,
		Resolution: canvas.DPI(300),
	}
}

// RenderSVG writes one frame's preview as an SVG to the provided writer
func (v *VectorPreview) RenderSVG(w io.Writer, frameIdx int) error {
	svgRenderer := svg.New(w, v.Size, v.Size, nil)
	if err := v.render(svgRenderer, frameIdx); err != nil {
		return err
	}
	return svgRenderer.Close()
}

// RenderPNG rasterizes one frame's preview and encodes it as PNG
func (v *VectorPreview) RenderPNG(w io.Writer, frameIdx int) error {
	rast := rasterizer.New(v.Size, v.Size, v.Resolution, canvas.DefaultColorSpace)
	if err := v.render(rast, frameIdx); err != nil {
		return err
	}
	return png.Encode(w, rast)
}

func (v *VectorPreview) render(renderer canvasRenderer, frameIdx int) error {
	center := v.Size / 2
	maxRadius := center - v.Margin

	positions := GenerateLEDPositionsForPreview(v.Pattern.Geometry, v.Pattern.Grid, center, center, maxRadius)
	if positions == nil {
		return fmt.Errorf("cannot compute preview positions for layout %q", v.Pattern.Geometry.Kind)
	}
	if len(positions) != len(v.Table) {
		return fmt.Errorf("preview position count (%d) != mapping table length (%d)", len(positions), len(v.Table))
	}

	var frame *Frame
	if frameIdx >= 0 {
		if frameIdx >= len(v.Pattern.Frames) {
			return fmt.Errorf("frame %d out of range (pattern has %d)", frameIdx, len(v.Pattern.Frames))
		}
		frame = &v.Pattern.Frames[frameIdx]
	}

	// Background.
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(v.Size, v.Size), bgStyle, canvas.Identity)

	// Preview positions are y-down; the canvas coordinate system is y-up.
	toCanvas := func(p ScreenPos) (float64, float64) {
		return p.X, v.Size - p.Y
	}

	// Wiring polyline under the dots, following LED index order.
	if v.ShowWiring && len(positions) > 1 {
		wireStyle := canvas.DefaultStyle
		wireStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		wireStyle.Stroke = canvas.Paint{Color: canvas.Lightgray}
		wireStyle.StrokeWidth = 0.4

		wire := &canvas.Path{}
		for i, pos := range positions {
			cx, cy := toCanvas(pos)
			if i == 0 {
				wire.MoveTo(cx, cy)
			} else {
				wire.LineTo(cx, cy)
			}
		}
		renderer.RenderPath(wire, wireStyle, canvas.Identity)
	}

	// LED dots in wiring order.
	for led, pos := range positions {
		cx, cy := toCanvas(pos)

		dotStyle := canvas.DefaultStyle
		dotStyle.Fill = canvas.Paint{Color: v.ledColor(frame, led)}
		dotStyle.Stroke = canvas.Paint{Color: canvas.Darkgray}
		dotStyle.StrokeWidth = 0.2

		renderer.RenderPath(canvas.Circle(v.DotRadius).Translate(cx, cy), dotStyle, canvas.Identity)
	}
	return nil
}

func (v *VectorPreview) ledColor(frame *Frame, led int) color.RGBA {
	if frame == nil {
		return color.RGBA{90, 90, 90, 255}
	}
	cell := v.Table[led]
	px := frame.Pixels[cell.Y*v.Pattern.Grid.Width+cell.X]
	return color.RGBA{px.R, px.G, px.B, 255}
}
