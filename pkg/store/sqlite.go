package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/graph"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite stores records in a single SQLite database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a private in-memory database.
func NewSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open database")
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "migrate database")
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS graphs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		source TEXT NOT NULL,
		cell_size INTEGER NOT NULL,
		nodes INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		graph JSON NOT NULL,
		overlay BLOB
	);

	CREATE INDEX IF NOT EXISTS idx_graphs_created ON graphs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Put(ctx context.Context, r *Record) error {
	r.prepare()
	data, err := graph.Marshal(r.Graph)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO graphs (id, created_at, source, cell_size, nodes, edges, graph, overlay)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.CreatedAt.UTC().Format(timeLayout), r.Source, r.CellSize, r.Nodes, r.Edges, string(data), r.Overlay)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert graph %s", r.ID)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*Record, error) {
	var (
		r       Record
		created string
		data    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, cell_size, nodes, edges, graph, overlay
		FROM graphs WHERE id = ?
	`, id).Scan(&r.ID, &created, &r.Source, &r.CellSize, &r.Nodes, &r.Edges, &data, &r.Overlay)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query graph %s", id)
	}
	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.Graph, err = graph.Unmarshal([]byte(data)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode graph %s", id)
	}
	return &r, nil
}

func (s *SQLite) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, cell_size, nodes, edges
		FROM graphs ORDER BY created_at DESC, id ASC LIMIT ?
	`, listLimit(limit))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list graphs")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			created string
		)
		if err := rows.Scan(&r.ID, &created, &r.Source, &r.CellSize, &r.Nodes, &r.Edges); err != nil {
			return nil, fmt.Errorf("scan graph: %w", err)
		}
		if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graphs: %w", err)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLite)(nil)
