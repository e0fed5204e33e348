// Package glyph finds glyphs on a classified grid and discovers which glyphs
// are joined by corridors.
//
// # Overview
//
// A glyph is a maximal 4-connected region of [grid.Glyph] cells. Two glyphs
// are connected when a path of 4-adjacent [grid.Corridor] cells leads from a
// cell bordering one to a cell bordering the other. Background cells are
// walls. Glyph cells are never walked through, so a corridor that touches a
// third glyph along the way still connects only the glyphs it touches
// directly.
//
// The analysis runs in three steps:
//
//  1. [Label] finds the glyph components with a row-major seeded BFS.
//  2. [Order] sorts them by the center of their bounding box (row first,
//     then column) and assigns ids and spreadsheet-style names.
//  3. [Resolve] (or [ResolveConcurrent]) runs one corridor BFS per glyph and
//     returns the symmetric [Reachability] relation.
//
// [Extract] runs all three. pkg/graph turns the result into the published
// node list.
//
// # Centers
//
// A component's [Component.Center] is the integer midpoint of its bounding
// box. For concave glyphs it may fall outside the glyph itself.
//
// # Names
//
// Ids 0..25 are named A..Z and 26..701 are named AA..ZZ. [Order] rejects
// grids with more than [MaxComponents] glyphs rather than producing
// colliding names.
package glyph
