// Package io reads and writes pre-quantized grids and cell lists.
//
// # Grid Format
//
// A serialized grid is a [grid.Squares] value: one RGB sample per cell plus
// the geometry it was sampled with.
//
//	{
//	  "OriginalWidth": 48,
//	  "OriginalHeight": 16,
//	  "SquareSize": 16,
//	  "GridWidth": 3,
//	  "GridHeight": 1,
//	  "Squares": [
//	    [{"R": 0, "G": 255, "B": 0}, {"R": 255, "G": 0, "B": 0}, {"R": 0, "G": 255, "B": 0}]
//	  ]
//	}
//
// GridWidth and GridHeight must agree with the shape of Squares; a mismatch
// is reported as MALFORMED_INPUT. The Original* and SquareSize fields are
// informational.
//
// # Formats
//
//   - json: the layout above
//   - yaml: the same keys in YAML
//   - go: a Go source file declaring the grid as a composite literal,
//     for embedding fixtures in tests (export only)
//
// [FormatFromPath] picks the format from a file extension.
//
// # Import
//
//	sq, err := io.ImportGrid("grid.json")
//	g, err := sq.Grid()
//
// A missing file is reported as FILE_NOT_FOUND; undecodable content or a
// shape mismatch as MALFORMED_INPUT.
//
// # Cell Lists
//
// [WriteCells] and [ExportCells] write a plain JSON array of {"X", "Y"}
// coordinates, used for the connected-squares report.
package io
