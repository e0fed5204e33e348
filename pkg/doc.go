// Package pkg provides the core libraries for glyphgraph.
//
// # Overview
//
// Glyphgraph reads diagrams drawn on a square pixel grid. Green cells form
// glyphs, red cells form corridors, and two glyphs are connected when a
// corridor path joins them. The libraries turn such an image into a named
// graph and render it back out.
//
// # Architecture
//
// The typical data flow:
//
//	PNG / JPEG / ... image
//	         ↓
//	    [imageio] package (decode)
//	         ↓
//	    [grid] package (sample one color per cell, classify)
//	         ↓
//	    [glyph] package (label, order, resolve corridors)
//	         ↓
//	    [graph] package (assemble the published node list)
//	         ↓
//	    JSON/YAML, overlay PNG, DOT/SVG/PDF
//
// # Quick Start
//
//	img, _, _ := imageio.Load("diagram.png")
//	g, _ := grid.Quantize(img, 16)
//	res, _ := glyph.Extract(ctx, g, glyph.Options{Workers: 4})
//	out := graph.Assemble(res.Components, res.Reach)
//	_ = graph.WriteFile(out, "graph.json")
//
// # Main Packages
//
// [grid] - Cells, color classification, sampling and cell size estimation.
//
// [glyph] - Connected components, reading order naming (A..ZZ) and corridor
// reachability.
//
// [graph] - The published node list and its JSON/YAML encodings.
//
// [pipeline] - Quantize, extract and render with per-stage caching. Used by
// both the CLI and the HTTP API so they behave the same.
//
// [cache] - File, Redis and null caches keyed by content hash.
//
// [store] - Extraction history in memory, SQLite or MongoDB.
//
// [render/overlay], [render/nodelink], [render/ascii] - Annotated images,
// Graphviz diagrams and terminal previews.
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/grid
// [glyph]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/glyph
// [graph]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/graph
// [imageio]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/imageio
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/store
// [render/overlay]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/render/overlay
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/render/nodelink
// [render/ascii]: https://pkg.go.dev/github.com/matzehuels/glyphgraph/pkg/render/ascii
package pkg
