// Package grid quantizes a color-coded raster image into a grid of classified
// cells.
//
// # Overview
//
// A source image is drawn on a regular lattice of square cells, each filled
// with a single color. Green cells are glyphs, red cells are corridors, and
// everything else is background. This package recovers that lattice:
//
//  1. [Sample] reads one pixel from the center of every cell into [Squares],
//     the serializable intermediate form.
//  2. [Squares.Grid] classifies every sample with [Classify] into a [Grid].
//
// [Quantize] runs both steps. Callers that already hold a serialized grid
// (JSON or YAML, see pkg/io) go straight to [Squares.Grid].
//
// # Classification
//
// [Classify] is a strict dominance rule over raw RGB values:
//
//	Glyph     g > r && g > b
//	Corridor  r > g && r > b
//	otherwise Background (ties, blue, white, gray)
//
// No averaging or calibration is performed. A cell whose center pixel lands
// on antialiasing is classified from that pixel alone.
//
// # Geometry
//
// A grid sampled from a w×h image with cell size s has floor(w/s) columns and
// floor(h/s) rows. Partial cells at the right and bottom edges are dropped.
// An image smaller than one cell yields an empty grid, which is not an error.
//
// # Cell Size Detection
//
// [EstimateCellSize] guesses the cell size of an unknown image from run
// lengths of similar pixels along a few scan lines.
package grid
