package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// Grid file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatGo   = "go"
)

// ValidFormats is the set of supported grid export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatGo:   true,
}

// FormatFromPath returns the grid format implied by path's extension,
// defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".go":
		return FormatGo
	default:
		return FormatJSON
	}
}

// ReadGrid decodes a serialized grid from r in the given format (json or
// yaml) and validates its shape. It does not close r.
func ReadGrid(r io.Reader, format string) (*grid.Squares, error) {
	var sq grid.Squares
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&sq); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode grid")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&sq); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode grid")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot read grid format %q", format)
	}
	if err := sq.Validate(); err != nil {
		return nil, err
	}
	return &sq, nil
}

// ImportGrid reads a grid file, choosing the decoder from its extension.
func ImportGrid(path string) (*grid.Squares, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "grid file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sq, err := ReadGrid(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sq, nil
}
