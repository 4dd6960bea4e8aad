package graph

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Relationship is a directed, typed edge between two entities.
// Only Inferred is ever set after construction, and only by the inference engine.
type Relationship struct {
	Head     *Entity
	Tail     *Entity
	Kind     EdgeKind
	Inferred bool
}

// NewRelationship validates kind and builds a base relationship.
func NewRelationship(head, tail *Entity, kind string) (*Relationship, error) {
	k, err := ParseEdgeKind(kind)
	if err != nil {
		return nil, err
	}
	return &Relationship{Head: head, Tail: tail, Kind: k}, nil
}

// Inverse returns the inferred tail-side relationship, or nil when the kind has no inverse.
func (r *Relationship) Inverse() *Relationship {
	inv, ok := r.Kind.Inverse()
	if !ok {
		return nil
	}
	return &Relationship{Head: r.Tail, Tail: r.Head, Kind: inv, Inferred: true}
}

func (r *Relationship) String() string {
	s := fmt.Sprintf("%s -- %s --> %s", r.Head, r.Kind, r.Tail)
	if r.Inferred {
		s += " (inferred)"
	}
	return s
}

type relationKey struct {
	tail int
	kind EdgeKind
}

// Entity is a named node. Two entities are equal iff their names are equal,
// which the Graph guarantees by handing out one *Entity per name.
type Entity struct {
	ID   int
	Name string

	relationships []*Relationship
	seen          map[relationKey]struct{}
}

func newEntity(id int, name string) *Entity {
	return &Entity{
		ID:   id,
		Name: name,
		seen: make(map[relationKey]struct{}),
	}
}

func (e *Entity) String() string {
	return e.Name
}

// Relationships returns the outgoing edges in insertion order.
func (e *Entity) Relationships() []*Relationship {
	return e.relationships
}

// AddRelationship appends rel unless an edge with the same tail and kind exists.
// It reports whether rel was added.
func (e *Entity) AddRelationship(rel *Relationship) bool {
	key := relationKey{tail: rel.Tail.ID, kind: rel.Kind}
	if _, dup := e.seen[key]; dup {
		logrus.WithField("relationship", rel.String()).Debug("Relationship already exists")
		return false
	}
	e.seen[key] = struct{}{}
	e.relationships = append(e.relationships, rel)
	return true
}

// Has reports whether e has an outgoing edge of kind to tail.
func (e *Entity) Has(kind EdgeKind, tail *Entity) bool {
	_, ok := e.seen[relationKey{tail: tail.ID, kind: kind}]
	return ok
}

// Graph is the entity registry. It owns every entity by name and, through
// them, every relationship.
type Graph struct {
	entities []*Entity
	byName   map[string]*Entity
	frozen   bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		byName: make(map[string]*Entity),
	}
}

// GetOrCreate returns the entity called name, creating it on first use.
func (g *Graph) GetOrCreate(name string) *Entity {
	if e, ok := g.byName[name]; ok {
		return e
	}
	e := newEntity(len(g.entities), name)
	g.entities = append(g.entities, e)
	g.byName[name] = e
	return e
}

// Get looks up an entity without creating it.
func (g *Graph) Get(name string) (*Entity, bool) {
	e, ok := g.byName[name]
	return e, ok
}

// Entities returns all entities in creation order.
func (g *Graph) Entities() []*Entity {
	return g.entities
}

// Relationships concatenates every entity's outgoing list, in entity then edge order.
func (g *Graph) Relationships() []*Relationship {
	var out []*Relationship
	for _, e := range g.entities {
		out = append(out, e.relationships...)
	}
	return out
}

// AddTriple validates and adds one base relationship.
func (g *Graph) AddTriple(t Triple) error {
	if g.frozen {
		return ErrGraphFrozen
	}
	if _, err := ParseEdgeKind(t.Kind); err != nil {
		if t.ID != "" {
			return fmt.Errorf("triple %s: %w", t.ID, err)
		}
		return err
	}
	head := g.GetOrCreate(t.Head)
	tail := g.GetOrCreate(t.Tail)
	rel, err := NewRelationship(head, tail, t.Kind)
	if err != nil {
		return err
	}
	head.AddRelationship(rel)
	return nil
}

// Load adds triples in order. The first invalid triple aborts the load.
func (g *Graph) Load(triples []Triple) error {
	for _, t := range triples {
		if err := g.AddTriple(t); err != nil {
			return err
		}
	}
	return nil
}

// Merge adds relationships to their head entities, skipping duplicates.
// It returns the relationships that were actually added.
func (g *Graph) Merge(rels []*Relationship) ([]*Relationship, error) {
	if g.frozen {
		return nil, ErrGraphFrozen
	}
	var added []*Relationship
	for _, rel := range rels {
		if rel.Head.AddRelationship(rel) {
			added = append(added, rel)
		}
	}
	return added, nil
}

// Freeze makes the graph read-only. There is no way back.
func (g *Graph) Freeze() {
	g.frozen = true
}

func (g *Graph) Frozen() bool {
	return g.frozen
}
