package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/graph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

func sampleGraph() graph.Graph {
	return graph.Graph{
		{Name: "A", Connections: []string{"B"}, Center: grid.Cell{X: 0, Y: 0}},
		{Name: "B", Connections: []string{}, Center: grid.Cell{X: 2, Y: 0}},
	}
}

// exercise runs the shared Store contract against s.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first := &Record{ID: "one", CreatedAt: base, Source: "a.png", CellSize: 16, Graph: sampleGraph(), Overlay: []byte{1, 2, 3}}
	second := &Record{ID: "two", CreatedAt: base.Add(time.Minute), Source: "b.png", CellSize: 8, Graph: graph.Graph{}}
	for _, r := range []*Record{first, second} {
		if err := s.Put(ctx, r); err != nil {
			t.Fatalf("Put(%s) error: %v", r.ID, err)
		}
	}

	got, err := s.Get(ctx, "one")
	if err != nil {
		t.Fatalf("Get(one) error: %v", err)
	}
	if !reflect.DeepEqual(got.Graph, sampleGraph()) {
		t.Errorf("Get(one).Graph = %+v, want %+v", got.Graph, sampleGraph())
	}
	if got.Nodes != 2 || got.Edges != 1 {
		t.Errorf("Get(one) counts = %d/%d, want 2/1", got.Nodes, got.Edges)
	}
	if !got.CreatedAt.Equal(base) {
		t.Errorf("Get(one).CreatedAt = %v, want %v", got.CreatedAt, base)
	}
	if string(got.Overlay) != "\x01\x02\x03" {
		t.Errorf("Get(one).Overlay = %v, want [1 2 3]", got.Overlay)
	}

	_, err = s.Get(ctx, "missing")
	if got := errors.GetCode(err); got != errors.ErrCodeGraphNotFound {
		t.Errorf("Get(missing) code = %q, want %q", got, errors.ErrCodeGraphNotFound)
	}

	list, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "two" || list[1].ID != "one" {
		t.Fatalf("List() = %+v, want [two one]", list)
	}
	if list[1].Graph != nil || list[1].Overlay != nil {
		t.Error("List() should omit graph and overlay payloads")
	}
	if list[1].Source != "a.png" || list[1].CellSize != 16 {
		t.Errorf("List()[1] = %+v, want source a.png cell size 16", list[1])
	}

	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d records, want 1", len(list))
	}

	// Put with an existing ID replaces.
	first.Source = "renamed.png"
	if err := s.Put(ctx, first); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "one"); got.Source != "renamed.png" {
		t.Errorf("replaced Source = %q, want renamed.png", got.Source)
	}
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exercise(t, s)
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "graphs.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteInMemory(t *testing.T) {
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite(:memory:) error: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graphs.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRecord("x.png", 16, sampleGraph())
	if err := s.Put(ctx, r); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, r.ID); err != nil {
		t.Errorf("Get after reopen error: %v", err)
	}
}

func TestMongo(t *testing.T) {
	uri := os.Getenv("GLYPHGRAPH_MONGO_URI")
	if uri == "" {
		t.Skip("GLYPHGRAPH_MONGO_URI not set")
	}
	s, err := NewMongo(context.Background(), uri, "glyphgraph_test_"+time.Now().Format("150405"))
	if err != nil {
		t.Fatalf("NewMongo() error: %v", err)
	}
	defer func() {
		_ = s.coll.Database().Drop(context.Background())
		s.Close()
	}()
	exercise(t, s)
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("diagram.png", 16, sampleGraph())
	if r.ID == "" {
		t.Error("NewRecord should assign an ID")
	}
	if r.Nodes != 2 || r.Edges != 1 {
		t.Errorf("NewRecord counts = %d/%d, want 2/1", r.Nodes, r.Edges)
	}
	if NewRecord("d", 1, nil).ID == r.ID {
		t.Error("NewRecord IDs should be unique")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Backend: BackendMemory}, false},
		{"sqlite", Config{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "sub", "g.db")}, false},
		{"default sqlite", Config{Path: ":memory:"}, false},
		{"sqlite without path", Config{Backend: BackendSQLite}, true},
		{"mongo without uri", Config{Backend: BackendMongo}, true},
		{"unknown", Config{Backend: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
