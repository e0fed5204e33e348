// Package graph provides the published connectivity graph and its
// serialization.
//
// This package defines the canonical wire format for glyphgraph output,
// used for graph.json files, API responses, caching, and storage.
//
// # Format
//
// A [Graph] is an ordered list of nodes, one per glyph, in reading order:
//
//	[
//	  {"name": "A", "connections": ["B"], "center": {"X": 0, "Y": 0}},
//	  {"name": "B", "connections": ["C"], "center": {"X": 2, "Y": 0}},
//	  {"name": "C", "connections": [], "center": {"X": 4, "Y": 0}}
//	]
//
// Every undirected edge is listed exactly once, on the node that comes
// first. A node's connections are sorted by name. Empty connection lists
// serialize as [] rather than null.
//
// # Building
//
// [Assemble] converts ordered glyph components and their reachability
// into a Graph:
//
//	res, _ := glyph.Extract(ctx, g, glyph.Options{})
//	out := graph.Assemble(res.Components, res.Reach)
//
// # Serialization
//
//	graph.WriteFile(out, "graph.json")   // Graph → File (JSON or YAML by extension)
//	data, _ := graph.Marshal(out)        // Graph → []byte (JSON)
//	back, _ := graph.ReadFile("graph.json")
package graph
