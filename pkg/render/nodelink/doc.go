// Package nodelink renders extracted glyph graphs as node-link diagrams.
//
// # Overview
//
// Glyph graphs are undirected: each edge appears once, from the lower to the
// higher node. [ToDOT] emits an undirected Graphviz graph with one ellipse
// per glyph and one line per connection.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Pinned: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Layout
//
// By default the graph is laid out by neato freely. With [Options.Pinned]
// every node is fixed at its glyph center (pos="x,-y!"), so the diagram
// keeps the geometry of the source image. The DOT carries its own layout
// attribute, which [RenderSVG] and [RenderPNG] honor.
//
// # Dependencies
//
// SVG and PNG rendering run in-process through [github.com/goccy/go-graphviz].
// PDF conversion requires librsvg (rsvg-convert).
package nodelink
