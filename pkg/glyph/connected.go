package glyph

import (
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// ConnectedCells returns the glyph cells that share a joint glyph-or-corridor
// region with at least one other glyph cell.
//
// Regions are 4-connected unions of glyph and corridor cells, seeded in
// row-major order. A region contributes its glyph cells, in BFS order, only
// when it holds two or more of them. Unlike [Resolve], this treats glyph
// cells as passable, so one large glyph on its own also qualifies.
func ConnectedCells(g *grid.Grid) []grid.Cell {
	seen := make([]bool, g.Len())
	passable := func(c grid.Cell) bool {
		k := g.At(c)
		return k == grid.Glyph || k == grid.Corridor
	}

	result := []grid.Cell{}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			start := grid.Cell{X: x, Y: y}
			if seen[y*g.Width+x] || !passable(start) {
				continue
			}

			seen[y*g.Width+x] = true
			queue := []grid.Cell{start}
			var glyphs []grid.Cell
			for qi := 0; qi < len(queue); qi++ {
				cur := queue[qi]
				if g.At(cur) == grid.Glyph {
					glyphs = append(glyphs, cur)
				}
				for _, d := range grid.Offsets4 {
					n := cur.Add(d)
					if !passable(n) || seen[n.Y*g.Width+n.X] {
						continue
					}
					seen[n.Y*g.Width+n.X] = true
					queue = append(queue, n)
				}
			}

			if len(glyphs) > 1 {
				result = append(result, glyphs...)
			}
		}
	}
	return result
}
