package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"ontoqa/internal/graph"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ TripleStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

// OpenSQLiteStore opens an existing database. Unlike NewSQLiteStore it never
// creates one; a missing file is reported as os.ErrNotExist.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open database: %s is a directory", path)
	}
	return NewSQLiteStore(path)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS triples (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT,
			edge_type TEXT NOT NULL,
			head_entity TEXT NOT NULL,
			tail_entity TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_triples_edge_type ON triples(edge_type);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// ImportTriples replaces the stored snapshot in a single transaction.
// Edge types are stored verbatim; they are validated when the graph is built.
func (s *SQLiteStore) ImportTriples(ctx context.Context, triples []graph.Triple) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM triples`); err != nil {
		return fmt.Errorf("failed to clear triples: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO triples (source_id, edge_type, head_entity, tail_entity)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range triples {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Kind, t.Head, t.Tail); err != nil {
			return fmt.Errorf("failed to insert triple %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadTriples(ctx context.Context) ([]graph.Triple, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source_id, edge_type, head_entity, tail_entity FROM triples ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query triples: %w", err)
	}
	defer rows.Close()

	var triples []graph.Triple
	for rows.Next() {
		var t graph.Triple
		var id sql.NullString
		if err := rows.Scan(&id, &t.Kind, &t.Head, &t.Tail); err != nil {
			return nil, fmt.Errorf("failed to scan triple: %w", err)
		}
		t.ID = id.String
		triples = append(triples, t)
	}
	return triples, rows.Err()
}

func (s *SQLiteStore) CountByKind(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT edge_type, COUNT(*) FROM triples GROUP BY edge_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
