// Package ascii prints grids as text, one character per cell.
//
// Glyph cells are 'G', corridor cells 'R' and background '.'. When printing
// raw samples, blue-dominant cells are shown as 'B' so stray markup in the
// source image is visible.
package ascii

import (
	"bufio"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// Options configures text output.
type Options struct {
	// Color styles each character with an ANSI color.
	Color bool
}

var (
	styleGlyph      = lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true)
	styleCorridor   = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleBlue       = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	styleBackground = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Rune returns the dump character for a raw sample.
func Rune(p grid.Pixel) rune {
	if p.IsBlue() {
		return 'B'
	}
	return p.Class().Rune()
}

// WriteSquares prints every sample of sq, one row per line.
func WriteSquares(w io.Writer, sq *grid.Squares, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, row := range sq.Squares {
		for _, p := range row {
			bw.WriteString(cell(Rune(p), opts))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteGrid prints a classified grid, one row per line.
func WriteGrid(w io.Writer, g *grid.Grid, opts Options) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			bw.WriteString(cell(g.At(grid.Cell{X: x, Y: y}).Rune(), opts))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func cell(r rune, opts Options) string {
	s := string(r)
	if !opts.Color {
		return s
	}
	switch r {
	case 'G':
		return styleGlyph.Render(s)
	case 'R':
		return styleCorridor.Render(s)
	case 'B':
		return styleBlue.Render(s)
	default:
		return styleBackground.Render(s)
	}
}
