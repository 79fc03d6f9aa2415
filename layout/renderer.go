package layout

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PreviewRenderer draws the physical LED arrangement of a pattern frame as
// a raster image: one dot per LED at its preview position, colored from the
// grid through the mapping table, in wiring order.
type PreviewRenderer struct {
	Pattern     *PatternFile
	Table       MappingTable
	Size        int // output image is Size x Size pixels
	Margin      int
	DotRadius   int
	ShowIndices bool
	Background  color.RGBA
}

// NewPreviewRenderer creates a renderer with default settings
func NewPreviewRenderer(pattern *PatternFile, table MappingTable) *PreviewRenderer {
	return &PreviewRenderer{
		Pattern:    pattern,
		Table:      table,
		Size:       512,
		Margin:     16,
		DotRadius:  6,
		Background: color.RGBA{34, 34, 34, 255},
	}
}

// Render produces the preview image for one frame. frameIdx -1 renders the
// layout itself with all LEDs unlit.
func (r *PreviewRenderer) Render(frameIdx int) (*image.RGBA, error) {
	center := float64(r.Size) / 2
	maxRadius := center - float64(r.Margin)

	positions := GenerateLEDPositionsForPreview(r.Pattern.Geometry, r.Pattern.Grid, center, center, maxRadius)
	if positions == nil {
		return nil, fmt.Errorf("cannot compute preview positions for layout %q", r.Pattern.Geometry.Kind)
	}
	if len(positions) != len(r.Table) {
		return nil, fmt.Errorf("preview position count (%d) != mapping table length (%d)", len(positions), len(r.Table))
	}

	var frame *Frame
	if frameIdx >= 0 {
		if frameIdx >= len(r.Pattern.Frames) {
			return nil, fmt.Errorf("frame %d out of range (pattern has %d)", frameIdx, len(r.Pattern.Frames))
		}
		frame = &r.Pattern.Frames[frameIdx]
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Size, r.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	for led, pos := range positions {
		c := r.ledColor(frame, led)
		drawDot(img, int(pos.X), int(pos.Y), r.DotRadius, c)

		if r.ShowIndices {
			drawLabel(img, int(pos.X)+r.DotRadius+2, int(pos.Y)+4,
				fmt.Sprintf("%d", led), color.RGBA{200, 200, 200, 255})
		}
	}
	return img, nil
}

// ledColor reads the LED's color from the grid via the mapping table
func (r *PreviewRenderer) ledColor(frame *Frame, led int) color.RGBA {
	if frame == nil {
		return color.RGBA{90, 90, 90, 255} // unlit
	}
	cell := r.Table[led]
	px := frame.Pixels[cell.Y*r.Pattern.Grid.Width+cell.X]
	return color.RGBA{px.R, px.G, px.B, 255}
}

// RenderPNG encodes one frame's preview as PNG
func (r *PreviewRenderer) RenderPNG(w io.Writer, frameIdx int) error {
	img, err := r.Render(frameIdx)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG writes one frame's preview to a file
func (r *PreviewRenderer) SavePNG(path string, frameIdx int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return r.RenderPNG(f, frameIdx)
}

// drawDot draws a filled circle
func drawDot(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// drawLabel renders text onto an image at the specified position
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
