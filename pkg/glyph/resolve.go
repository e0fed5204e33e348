package glyph

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// Reachability lists, for each component id, the sorted ids of the other
// components reachable through corridors. It is symmetric and has no
// self-loops.
type Reachability [][]int

// Has reports whether b is reachable from a.
func (r Reachability) Has(a, b int) bool {
	if a < 0 || a >= len(r) {
		return false
	}
	_, ok := slices.BinarySearch(r[a], b)
	return ok
}

// Edges returns every connected pair once, as [lo, hi] with lo < hi, in
// ascending order.
func (r Reachability) Edges() [][2]int {
	var edges [][2]int
	for a, targets := range r {
		for _, b := range targets {
			if b > a {
				edges = append(edges, [2]int{a, b})
			}
		}
	}
	return edges
}

// EdgeCount returns len(r.Edges()) without allocating.
func (r Reachability) EdgeCount() int {
	n := 0
	for a, targets := range r {
		for _, b := range targets {
			if b > a {
				n++
			}
		}
	}
	return n
}

// Resolve computes the reachability of every component. comps must carry
// ids 0..len(comps)-1 (as produced by [Label] or [Order]).
func Resolve(g *grid.Grid, comps []Component) Reachability {
	owner := ownerIndex(g, comps)
	reach := make(Reachability, len(comps))
	for i := range comps {
		reach[i] = resolveOne(g, owner, &comps[i])
	}
	return reach
}

// ResolveConcurrent is [Resolve] with the per-component searches spread
// over at most workers goroutines (GOMAXPROCS when workers <= 0). The grid
// is only read and each search writes its own slot, so the result is
// identical to Resolve. It returns early with ctx.Err() on cancellation.
func ResolveConcurrent(ctx context.Context, g *grid.Grid, comps []Component, workers int) (Reachability, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	owner := ownerIndex(g, comps)
	reach := make(Reachability, len(comps))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range comps {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reach[i] = resolveOne(g, owner, &comps[i])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reach, nil
}

// resolveOne runs the corridor BFS for a single component. The visited set
// is local to the call.
func resolveOne(g *grid.Grid, owner []int, src *Component) []int {
	visited := make(map[grid.Cell]struct{})
	var queue []grid.Cell

	for _, c := range src.Cells {
		for _, d := range grid.Offsets4 {
			n := c.Add(d)
			if g.At(n) != grid.Corridor {
				continue
			}
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, n)
		}
	}

	found := make(map[int]struct{})
	for qi := 0; qi < len(queue); qi++ {
		cur := queue[qi]
		for _, d := range grid.Offsets4 {
			n := cur.Add(d)
			switch g.At(n) {
			case grid.Corridor:
				if _, ok := visited[n]; !ok {
					visited[n] = struct{}{}
					queue = append(queue, n)
				}
			case grid.Glyph:
				if id := owner[n.Y*g.Width+n.X]; id != src.ID && id >= 0 {
					found[id] = struct{}{}
				}
			}
		}
	}

	out := make([]int, 0, len(found))
	for id := range found {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
