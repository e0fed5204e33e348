package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// GoSource configures the Go source export.
type GoSource struct {
	Package  string // Defaults to "main"
	VarName  string // Defaults to "GeneratedImage"
	TypeName string // Defaults to "grid.Squares"; set to match the importing code
	Import   string // Import path added when TypeName is qualified; defaults to this module's grid package
}

func (o *GoSource) setDefaults() {
	if o.Package == "" {
		o.Package = "main"
	}
	if o.VarName == "" {
		o.VarName = "GeneratedImage"
	}
	if o.TypeName == "" {
		o.TypeName = "grid.Squares"
		if o.Import == "" {
			o.Import = "github.com/matzehuels/glyphgraph/pkg/grid"
		}
	}
}

// WriteGrid encodes sq to w in the given format. The go format uses the
// default [GoSource] options.
func WriteGrid(sq *grid.Squares, w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sq); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sq); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatGo:
		return WriteGoSource(sq, w, GoSource{})
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "cannot write grid format %q", format)
	}
}

// ExportGrid writes sq to path in the format implied by its extension.
func ExportGrid(sq *grid.Squares, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGrid(sq, f, FormatFromPath(path))
}

// WriteGoSource writes sq as a Go source file declaring a single variable.
// Each row of samples is emitted on its own block, one pixel per line, so
// fixtures diff cleanly.
func WriteGoSource(sq *grid.Squares, w io.Writer, opts GoSource) error {
	opts.setDefaults()
	pixel := "grid.Pixel"
	if opts.TypeName != "grid.Squares" {
		pixel = "Pixel"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "package %s\n\n", opts.Package)
	if opts.Import != "" {
		fmt.Fprintf(bw, "import %q\n\n", opts.Import)
	}
	fmt.Fprintf(bw, "var %s = %s{\n", opts.VarName, opts.TypeName)
	fmt.Fprintf(bw, "\tOriginalWidth:  %d,\n", sq.OriginalWidth)
	fmt.Fprintf(bw, "\tOriginalHeight: %d,\n", sq.OriginalHeight)
	fmt.Fprintf(bw, "\tSquareSize:     %d,\n", sq.SquareSize)
	fmt.Fprintf(bw, "\tGridWidth:      %d,\n", sq.GridWidth)
	fmt.Fprintf(bw, "\tGridHeight:     %d,\n", sq.GridHeight)
	fmt.Fprintf(bw, "\tSquares: [][]%s{\n", pixel)
	for _, row := range sq.Squares {
		bw.WriteString("\t\t{\n")
		for _, p := range row {
			fmt.Fprintf(bw, "\t\t\t{R: %d, G: %d, B: %d},\n", p.R, p.G, p.B)
		}
		bw.WriteString("\t\t},\n")
	}
	bw.WriteString("\t},\n}\n")
	return bw.Flush()
}

// WriteCells writes cells as an indented JSON array of {"X", "Y"} objects.
// A nil slice is written as [].
func WriteCells(cells []grid.Cell, w io.Writer) error {
	if cells == nil {
		cells = []grid.Cell{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cells); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportCells writes cells to a JSON file at path.
func ExportCells(cells []grid.Cell, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCells(cells, f)
}
