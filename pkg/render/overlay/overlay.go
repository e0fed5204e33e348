// Package overlay draws extracted components on top of the source image.
//
// Every component cell is tinted translucent blue, the outer edge of the
// tinted area is traced in solid blue, and each component's name is printed
// at its center in white with a black outline.
package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/fonts"
	"github.com/matzehuels/glyphgraph/pkg/glyph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// Default colors.
var (
	DefaultFill    = color.NRGBA{R: 0, G: 0, B: 255, A: 100}
	DefaultOutline = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	DefaultText    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	DefaultStroke  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// strokeWidth is how far, in pixels, the label outline extends around the text.
const strokeWidth = 2

// Options configures overlay rendering.
type Options struct {
	CellSize  int     // Pixel side of one grid cell (required)
	LabelSize float64 // Label size in points; zero uses fonts.DefaultSize
	NoLabels  bool    // Skip component names

	Fill    color.Color // Zero value uses DefaultFill
	Outline color.Color // Zero value uses DefaultOutline
	Text    color.Color // Zero value uses DefaultText
	Stroke  color.Color // Zero value uses DefaultStroke
}

func (o *Options) setDefaults() {
	if o.Fill == nil {
		o.Fill = DefaultFill
	}
	if o.Outline == nil {
		o.Outline = DefaultOutline
	}
	if o.Text == nil {
		o.Text = DefaultText
	}
	if o.Stroke == nil {
		o.Stroke = DefaultStroke
	}
}

// Render returns a copy of src with comps highlighted. Cells are mapped to
// pixels as [x*CellSize, y*CellSize) relative to src's bounds; cells that
// fall outside the image are clipped.
func Render(src image.Image, comps []glyph.Component, opts Options) (*image.NRGBA, error) {
	if err := errors.ValidateCellSize(opts.CellSize); err != nil {
		return nil, err
	}
	opts.setDefaults()

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	mask := newMask(dst.Bounds())
	fill := image.NewUniform(opts.Fill)
	for _, c := range comps {
		for _, cell := range c.Cells {
			r := cellRect(cell, opts.CellSize).Intersect(dst.Bounds())
			if r.Empty() {
				continue
			}
			draw.Draw(dst, r, fill, image.Point{}, draw.Over)
			mask.fill(r)
		}
	}
	mask.outline(dst, opts.Outline)

	if opts.NoLabels || len(comps) == 0 {
		return dst, nil
	}
	face, err := fonts.Bold(opts.LabelSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	for _, c := range comps {
		cx := c.Center.X*opts.CellSize + opts.CellSize/2
		cy := c.Center.Y*opts.CellSize + opts.CellSize/2
		drawLabel(dst, face, c.Name, cx, cy, opts.Text, opts.Stroke)
	}
	return dst, nil
}

// FromSquares paints a serialized grid as an image with one solid
// cellSize×cellSize block per sample. It gives grid-only inputs something
// to draw an overlay on.
func FromSquares(sq *grid.Squares, cellSize int) (*image.NRGBA, error) {
	if err := errors.ValidateCellSize(cellSize); err != nil {
		return nil, err
	}
	if err := sq.Validate(); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, sq.GridWidth*cellSize, sq.GridHeight*cellSize))
	for y, row := range sq.Squares {
		for x, p := range row {
			c := color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255}
			draw.Draw(img, cellRect(grid.Cell{X: x, Y: y}, cellSize), image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return img, nil
}

func cellRect(c grid.Cell, s int) image.Rectangle {
	return image.Rect(c.X*s, c.Y*s, c.X*s+s, c.Y*s+s)
}

// drawLabel centers text on (cx, cy): the stroke color is drawn at every
// offset within strokeWidth, then the text color on top.
func drawLabel(dst draw.Image, face font.Face, text string, cx, cy int, fg, stroke color.Color) {
	m := face.Metrics()
	width := font.MeasureString(face, text)
	x := fixed.I(cx) - width/2
	y := fixed.I(cy) + (m.Ascent-m.Descent)/2

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(stroke), Face: face}
	for dy := -strokeWidth; dy <= strokeWidth; dy++ {
		for dx := -strokeWidth; dx <= strokeWidth; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.Point26_6{X: x + fixed.I(dx), Y: y + fixed.I(dy)}
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(fg)
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
}
