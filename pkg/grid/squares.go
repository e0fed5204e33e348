package grid

import (
	"github.com/matzehuels/glyphgraph/pkg/errors"
)

// Squares is the serialized, pre-quantized form of an image: one RGB sample
// per cell plus the geometry it was sampled with. It is the exchange format
// for `glyphgraph quantize` and the grid entry point of the pipeline.
type Squares struct {
	OriginalWidth  int       `json:"OriginalWidth,omitempty" yaml:"OriginalWidth,omitempty"`
	OriginalHeight int       `json:"OriginalHeight,omitempty" yaml:"OriginalHeight,omitempty"`
	SquareSize     int       `json:"SquareSize,omitempty" yaml:"SquareSize,omitempty"`
	GridWidth      int       `json:"GridWidth" yaml:"GridWidth"`
	GridHeight     int       `json:"GridHeight" yaml:"GridHeight"`
	Squares        [][]Pixel `json:"Squares" yaml:"Squares"`
}

// Validate checks that the declared dimensions agree with the matrix shape.
func (s *Squares) Validate() error {
	rows := make([]int, len(s.Squares))
	for i, row := range s.Squares {
		rows[i] = len(row)
	}
	return errors.ValidateGridShape(s.GridWidth, s.GridHeight, rows)
}

// Grid validates s and classifies every sample.
func (s *Squares) Grid() (*Grid, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	classes := make([]Class, 0, s.GridWidth*s.GridHeight)
	for _, row := range s.Squares {
		for _, p := range row {
			classes = append(classes, p.Class())
		}
	}
	return &Grid{Width: s.GridWidth, Height: s.GridHeight, classes: classes}, nil
}

// At returns the sample at c. It panics if c is outside the matrix.
func (s *Squares) At(c Cell) Pixel {
	return s.Squares[c.Y][c.X]
}
