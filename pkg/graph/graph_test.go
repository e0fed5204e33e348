package graph

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/glyphgraph/pkg/glyph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

func build(t *testing.T, rows ...string) Graph {
	t.Helper()
	res, err := glyph.Extract(context.Background(), grid.MustParse(rows...), glyph.Options{})
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	return Assemble(res.Components, res.Reach)
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want Graph
	}{
		{
			name: "glyph and corridor",
			rows: []string{"GR"},
			want: Graph{
				{Name: "A", Connections: []string{}, Center: grid.Cell{X: 0, Y: 0}},
			},
		},
		{
			name: "three in a row",
			rows: []string{"GRGRG"},
			want: Graph{
				{Name: "A", Connections: []string{"B"}, Center: grid.Cell{X: 0, Y: 0}},
				{Name: "B", Connections: []string{"C"}, Center: grid.Cell{X: 2, Y: 0}},
				{Name: "C", Connections: []string{}, Center: grid.Cell{X: 4, Y: 0}},
			},
		},
		{
			name: "isolated single cell",
			rows: []string{"...", "..G", "..."},
			want: Graph{
				{Name: "A", Connections: []string{}, Center: grid.Cell{X: 2, Y: 1}},
			},
		},
		{
			name: "hub",
			rows: []string{
				"G.G.G",
				"R.R.R",
				"RRRRR",
			},
			want: Graph{
				{Name: "A", Connections: []string{"B", "C"}, Center: grid.Cell{X: 0, Y: 0}},
				{Name: "B", Connections: []string{"C"}, Center: grid.Cell{X: 2, Y: 0}},
				{Name: "C", Connections: []string{}, Center: grid.Cell{X: 4, Y: 0}},
			},
		},
		{
			name: "no glyphs",
			rows: []string{"RRR"},
			want: Graph{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := build(t, tt.rows...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Assemble() = %+v, want %+v", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestAssembleEdgesOnce(t *testing.T) {
	g := build(t,
		"GRGRG",
		"R.R.R",
		"GRGRG",
	)

	res, err := glyph.Extract(context.Background(), grid.MustParse("GRGRG", "R.R.R", "GRGRG"), glyph.Options{})
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if g.EdgeCount() != res.Reach.EdgeCount() {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), res.Reach.EdgeCount())
	}

	seen := make(map[[2]string]bool)
	for _, n := range g {
		for _, c := range n.Connections {
			key := [2]string{n.Name, c}
			rev := [2]string{c, n.Name}
			if seen[key] || seen[rev] {
				t.Errorf("edge %s-%s listed twice", n.Name, c)
			}
			seen[key] = true
		}
	}
}

func TestNeighbors(t *testing.T) {
	g := build(t, "GRGRG")
	if got := g.Neighbors("B"); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("Neighbors(B) = %v, want [A C]", got)
	}
	if got := g.Incoming("C"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Incoming(C) = %v, want [B]", got)
	}
	if _, ok := g.Lookup("Z"); ok {
		t.Error("Lookup(Z) should miss")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Graph
		wantErr bool
	}{
		{"empty", Graph{}, false},
		{"ok", Graph{{Name: "A", Connections: []string{"B"}}, {Name: "B"}}, false},
		{"unnamed", Graph{{Name: ""}}, true},
		{"duplicate", Graph{{Name: "A"}, {Name: "A"}}, true},
		{"unknown", Graph{{Name: "A", Connections: []string{"Q"}}}, true},
		{"backward", Graph{{Name: "A"}, {Name: "B", Connections: []string{"A"}}}, true},
		{"self", Graph{{Name: "A", Connections: []string{"A"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(build(t, "GR"), &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	want := `[
  {
    "name": "A",
    "connections": [],
    "center": {
      "X": 0,
      "Y": 0
    }
  }
]
`
	if buf.String() != want {
		t.Errorf("Write() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteNil(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(nil, &buf); err != nil {
		t.Fatalf("Write(nil) error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Write(nil) = %q, want []", buf.String())
	}
}

func TestFileRoundTrip(t *testing.T) {
	g := build(t, "GRGRG")
	dir := t.TempDir()

	for _, name := range []string{"graph.json", "graph.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(g, path); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}
			back, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			if !reflect.DeepEqual(back, g) {
				t.Errorf("ReadFile() = %+v, want %+v", back, g)
			}
		})
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ReadFile(missing) should fail")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"name":"A","connections":["B"]}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(bad); err == nil {
		t.Error("ReadFile(dangling connection) should fail")
	}
}
