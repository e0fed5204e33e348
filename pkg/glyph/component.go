package glyph

import (
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// Component is one glyph: a maximal 4-connected set of glyph cells.
type Component struct {
	ID     int         // Position in reading order after [Order]; labeling order before
	Name   string      // Assigned by [Order]
	Cells  []grid.Cell // In BFS discovery order
	Center grid.Cell   // Integer midpoint of the bounding box
}

// Bounds returns the inclusive bounding box of the component.
func (c *Component) Bounds() (lo, hi grid.Cell) {
	if len(c.Cells) == 0 {
		return grid.Cell{}, grid.Cell{}
	}
	lo, hi = c.Cells[0], c.Cells[0]
	for _, p := range c.Cells[1:] {
		lo.X = min(lo.X, p.X)
		lo.Y = min(lo.Y, p.Y)
		hi.X = max(hi.X, p.X)
		hi.Y = max(hi.Y, p.Y)
	}
	return lo, hi
}

// Size returns the number of cells.
func (c *Component) Size() int { return len(c.Cells) }

// Label finds every glyph component of g.
//
// Seeds are taken in row-major order (y outer, x inner); each unvisited
// glyph cell starts a BFS over its glyph 4-neighbors. The returned
// components partition the glyph cells of g. IDs follow discovery order and
// names are empty until [Order] runs.
func Label(g *grid.Grid) []Component {
	seen := make([]bool, g.Len())
	var comps []Component

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			start := grid.Cell{X: x, Y: y}
			if seen[y*g.Width+x] || g.At(start) != grid.Glyph {
				continue
			}

			seen[y*g.Width+x] = true
			queue := []grid.Cell{start}
			for qi := 0; qi < len(queue); qi++ {
				cur := queue[qi]
				for _, d := range grid.Offsets4 {
					n := cur.Add(d)
					if g.At(n) != grid.Glyph {
						continue
					}
					i := n.Y*g.Width + n.X
					if seen[i] {
						continue
					}
					seen[i] = true
					queue = append(queue, n)
				}
			}

			c := Component{ID: len(comps), Cells: queue}
			lo, hi := c.Bounds()
			c.Center = grid.Cell{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}
			comps = append(comps, c)
		}
	}
	return comps
}

// ownerIndex maps every cell of g to the ID of the component that owns it,
// or -1.
func ownerIndex(g *grid.Grid, comps []Component) []int {
	owner := make([]int, g.Len())
	for i := range owner {
		owner[i] = -1
	}
	for _, c := range comps {
		for _, p := range c.Cells {
			owner[p.Y*g.Width+p.X] = c.ID
		}
	}
	return owner
}
