package grid

import (
	"image"
	"image/color"

	"github.com/matzehuels/glyphgraph/pkg/errors"
)

// Sample reads the center pixel of every cellSize×cellSize cell of img.
//
// Cell (x, y) is sampled at pixel (x*cellSize + cellSize/2, y*cellSize + cellSize/2)
// relative to the image bounds, clamped to the last column and row. The
// result has floor(w/cellSize) columns and floor(h/cellSize) rows.
func Sample(img image.Image, cellSize int) (*Squares, error) {
	if err := errors.ValidateCellSize(cellSize); err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gw, gh := w/cellSize, h/cellSize

	sq := &Squares{
		OriginalWidth:  w,
		OriginalHeight: h,
		SquareSize:     cellSize,
		GridWidth:      gw,
		GridHeight:     gh,
		Squares:        make([][]Pixel, gh),
	}
	half := cellSize / 2
	for y := 0; y < gh; y++ {
		row := make([]Pixel, gw)
		sy := min(y*cellSize+half, h-1)
		for x := 0; x < gw; x++ {
			sx := min(x*cellSize+half, w-1)
			row[x] = pixelAt(img, b.Min.X+sx, b.Min.Y+sy)
		}
		sq.Squares[y] = row
	}
	return sq, nil
}

// Quantize samples img and classifies the result in one step.
func Quantize(img image.Image, cellSize int) (*Grid, error) {
	sq, err := Sample(img, cellSize)
	if err != nil {
		return nil, err
	}
	return sq.Grid()
}

// pixelAt returns the straight (non-premultiplied) RGB value at (x, y).
// Alpha is dropped.
func pixelAt(img image.Image, x, y int) Pixel {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return Pixel{R: c.R, G: c.G, B: c.B}
}
