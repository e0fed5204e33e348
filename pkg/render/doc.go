// Package render provides visual outputs for extracted glyph graphs.
//
// # Overview
//
//   - Raster overlays on the source image (in [overlay] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//   - Text dumps of grids (in [ascii] subpackage)
//
// # Format Conversion
//
// The [ToPDF] function converts any SVG to PDF using the external
// rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Pinned: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [overlay]: github.com/matzehuels/glyphgraph/pkg/render/overlay
// [nodelink]: github.com/matzehuels/glyphgraph/pkg/render/nodelink
// [ascii]: github.com/matzehuels/glyphgraph/pkg/render/ascii
package render
