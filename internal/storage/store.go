package storage

import (
	"context"

	"ontoqa/internal/graph"
)

// TripleStore persists base triples so an ontology can be rebuilt from them.
// Only the base load is stored; inferred relationships never are.
type TripleStore interface {
	// ImportTriples replaces the stored snapshot with triples.
	ImportTriples(ctx context.Context, triples []graph.Triple) error

	// LoadTriples returns the stored snapshot in import order.
	LoadTriples(ctx context.Context) ([]graph.Triple, error)

	// CountByKind reports how many stored triples use each edge type string.
	CountByKind(ctx context.Context) (map[string]int, error)

	Close() error
}
