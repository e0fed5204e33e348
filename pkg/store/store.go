// Package store persists extraction results.
//
// A [Record] is one run of the pipeline: where the input came from, the
// graph it produced, and optionally the rendered overlay PNG. Three
// backends implement [Store]:
//
//   - memory: process-local, for tests and a throwaway server
//   - sqlite: a single file, the default for the CLI history
//   - mongo: a shared collection for multi-instance API deployments
//
// Use [Open] to select a backend from configuration.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/glyphgraph/pkg/graph"
)

// DefaultListLimit is used by List when limit is zero or less.
const DefaultListLimit = 20

// Record is a stored extraction result.
type Record struct {
	ID        string      `json:"id" bson:"_id"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	Source    string      `json:"source" bson:"source"`
	CellSize  int         `json:"cell_size" bson:"cell_size"`
	Nodes     int         `json:"nodes" bson:"nodes"`
	Edges     int         `json:"edges" bson:"edges"`
	Graph     graph.Graph `json:"graph,omitempty" bson:"graph,omitempty"`
	Overlay   []byte      `json:"-" bson:"overlay,omitempty"`
}

// NewRecord builds a record for g with a fresh ID and the current time.
func NewRecord(source string, cellSize int, g graph.Graph) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		CellSize:  cellSize,
		Nodes:     g.NodeCount(),
		Edges:     g.EdgeCount(),
		Graph:     g,
	}
}

// summary returns r without its graph and overlay.
func (r Record) summary() Record {
	r.Graph = nil
	r.Overlay = nil
	return r
}

// prepare fills in a missing ID, timestamp and counts.
func (r *Record) prepare() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Nodes == 0 && r.Edges == 0 {
		r.Nodes = r.Graph.NodeCount()
		r.Edges = r.Graph.EdgeCount()
	}
}

// Store persists records.
type Store interface {
	// Put saves r, assigning an ID and timestamp when they are unset.
	// Saving an existing ID replaces the record.
	Put(ctx context.Context, r *Record) error

	// Get loads a full record. A missing ID is GRAPH_NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first, without graph or
	// overlay payloads.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close() error
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
