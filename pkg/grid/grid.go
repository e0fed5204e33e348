package grid

import (
	"strings"

	"github.com/matzehuels/glyphgraph/pkg/errors"
)

// Cell is a grid coordinate. X grows to the right and Y grows downward.
type Cell struct {
	X int `json:"X" yaml:"X" bson:"x"`
	Y int `json:"Y" yaml:"Y" bson:"y"`
}

// Add returns the cell offset by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Offsets4 are the 4-connected neighbor offsets, in the order every
// traversal in this module visits them.
var Offsets4 = [4]Cell{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Grid is an immutable row-major matrix of classified cells.
type Grid struct {
	Width  int
	Height int

	classes []Class
}

// New builds a grid from row-major classes. len(classes) must equal
// width*height.
func New(width, height int, classes []Class) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "negative grid dimensions %dx%d", width, height)
	}
	if len(classes) != width*height {
		return nil, errors.New(errors.ErrCodeMalformedInput,
			"grid %dx%d needs %d cells, got %d", width, height, width*height, len(classes))
	}
	cp := make([]Class, len(classes))
	copy(cp, classes)
	return &Grid{Width: width, Height: height, classes: cp}, nil
}

// Parse builds a grid from text rows using the codes of [Class.Rune]:
// 'G' is a glyph, 'R' a corridor, and any other byte is background.
// All rows must have the same length.
func Parse(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return &Grid{}, nil
	}
	width := len(rows[0])
	classes := make([]Class, 0, width*len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, errors.New(errors.ErrCodeMalformedInput, "row %d has %d cells, want %d", y, len(row), width)
		}
		for i := 0; i < len(row); i++ {
			switch row[i] {
			case 'G':
				classes = append(classes, Glyph)
			case 'R':
				classes = append(classes, Corridor)
			default:
				classes = append(classes, Background)
			}
		}
	}
	return &Grid{Width: width, Height: len(rows), classes: classes}, nil
}

// MustParse is like [Parse] but panics on ragged input. It is intended for
// tests and examples.
func MustParse(rows ...string) *Grid {
	g, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

// In reports whether c lies inside the grid.
func (g *Grid) In(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// At returns the class of c. Cells outside the grid are background.
func (g *Grid) At(c Cell) Class {
	if !g.In(c) {
		return Background
	}
	return g.classes[c.Y*g.Width+c.X]
}

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.classes) }

// Empty reports whether the grid has no cells.
func (g *Grid) Empty() bool { return len(g.classes) == 0 }

// Count returns how many cells have class c.
func (g *Grid) Count(c Class) int {
	n := 0
	for _, v := range g.classes {
		if v == c {
			n++
		}
	}
	return n
}

// String renders the grid one row per line using [Class.Rune].
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.Len() + g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b.WriteRune(g.classes[y*g.Width+x].Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
