package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath returns FormatYAML for .yaml and .yml files and FormatJSON
// otherwise.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes produced by [Marshal].
func Unmarshal(data []byte) (Graph, error) {
	return Read(bytes.NewReader(data))
}

// Write writes a graph as JSON to an io.Writer.
func Write(g Graph, w io.Writer) error {
	if g == nil {
		g = Graph{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML writes a graph as YAML to an io.Writer.
func WriteYAML(g Graph, w io.Writer) error {
	if g == nil {
		g = Graph{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteFile writes a graph to path, as YAML when the extension is .yaml or
// .yml and as JSON otherwise.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if FormatFromPath(path) == FormatYAML {
		return WriteYAML(g, f)
	}
	return Write(g, f)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return normalize(g), nil
}

// ReadYAML decodes a YAML graph from an io.Reader.
func ReadYAML(r io.Reader) (Graph, error) {
	var g Graph
	if err := yaml.NewDecoder(r).Decode(&g); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return normalize(g), nil
}

// ReadFile reads and validates a graph file, choosing the decoder from the
// extension like [WriteFile].
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var g Graph
	if FormatFromPath(path) == FormatYAML {
		g, err = ReadYAML(f)
	} else {
		g, err = Read(f)
	}
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// normalize replaces nil slices so decoded graphs re-encode identically.
func normalize(g Graph) Graph {
	if g == nil {
		return Graph{}
	}
	for i := range g {
		if g[i].Connections == nil {
			g[i].Connections = []string{}
		}
	}
	return g
}
