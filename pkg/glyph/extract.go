package glyph

import (
	"context"
	"runtime"

	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// Options configures [Extract].
type Options struct {
	// Workers bounds the goroutines used for connectivity resolution.
	// 0 uses GOMAXPROCS; 1 resolves sequentially.
	Workers int
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Result is the outcome of [Extract].
type Result struct {
	Components []Component // In reading order; Components[i].ID == i
	Reach      Reachability
}

// Extract labels, orders and resolves the glyphs of g. An empty grid or a
// grid without glyphs yields an empty result.
func Extract(ctx context.Context, g *grid.Grid, opts Options) (*Result, error) {
	comps, err := Order(Label(g))
	if err != nil {
		return nil, err
	}

	var reach Reachability
	if n := opts.workers(); n > 1 && len(comps) > 1 {
		reach, err = ResolveConcurrent(ctx, g, comps, n)
		if err != nil {
			return nil, err
		}
	} else {
		reach = Resolve(g, comps)
	}
	return &Result{Components: comps, Reach: reach}, nil
}
