package graph

import (
	"errors"
	"fmt"
)

// EdgeKind is the type of a directed relationship between two entities.
type EdgeKind string

const (
	KindInstanceOf            EdgeKind = "InstanceOf"
	KindSubclassOf            EdgeKind = "SubclassOf"
	KindHasAttribute          EdgeKind = "HasAttribute"
	KindHasInstance           EdgeKind = "HasInstance"
	KindSuperclassOf          EdgeKind = "SuperclassOf"
	KindAttributeOf           EdgeKind = "AttributeOf"
	KindMutuallyExclusiveWith EdgeKind = "MutuallyExclusiveWith"
)

var (
	// ErrInvalidEdgeKind is returned when a triple names a kind outside the catalog.
	ErrInvalidEdgeKind = errors.New("invalid edge kind")
	// ErrGraphFrozen is returned when the graph is mutated after Freeze.
	ErrGraphFrozen = errors.New("graph is frozen")
)

// AllKinds lists the catalog in declaration order.
var AllKinds = []EdgeKind{
	KindInstanceOf,
	KindSubclassOf,
	KindHasAttribute,
	KindHasInstance,
	KindSuperclassOf,
	KindAttributeOf,
	KindMutuallyExclusiveWith,
}

var inverses = map[EdgeKind]EdgeKind{
	KindInstanceOf:   KindHasInstance,
	KindSubclassOf:   KindSuperclassOf,
	KindHasAttribute: KindAttributeOf,
	KindHasInstance:  KindInstanceOf,
	KindSuperclassOf: KindSubclassOf,
	KindAttributeOf:  KindHasAttribute,
}

type composition struct {
	first, second EdgeKind
}

// compositions is the one-hop transitive table: first∘second -> result.
var compositions = map[composition]EdgeKind{
	{KindInstanceOf, KindSubclassOf}:   KindInstanceOf,
	{KindSubclassOf, KindSubclassOf}:   KindSubclassOf,
	{KindSubclassOf, KindHasAttribute}: KindHasAttribute,
	{KindInstanceOf, KindHasAttribute}: KindHasAttribute,
}

// ParseEdgeKind validates s against the catalog. Matching is case-sensitive.
func ParseEdgeKind(s string) (EdgeKind, error) {
	k := EdgeKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEdgeKind, s)
	}
	return k, nil
}

// IsValid reports whether k is part of the catalog.
func (k EdgeKind) IsValid() bool {
	switch k {
	case KindInstanceOf, KindSubclassOf, KindHasAttribute,
		KindHasInstance, KindSuperclassOf, KindAttributeOf,
		KindMutuallyExclusiveWith:
		return true
	default:
		return false
	}
}

// Inverse returns the kind stated from the tail's point of view.
// MutuallyExclusiveWith is symmetric and has none.
func (k EdgeKind) Inverse() (EdgeKind, bool) {
	inv, ok := inverses[k]
	return inv, ok
}

// IsTransitive reports whether k takes part in one-hop composition as the first edge.
func (k EdgeKind) IsTransitive() bool {
	return k == KindInstanceOf || k == KindSubclassOf || k == KindHasAttribute
}

// IsExclusion reports whether k is the exclusion kind.
func (k EdgeKind) IsExclusion() bool {
	return k == KindMutuallyExclusiveWith
}

// IsHierarchical reports whether a query walk may descend along k.
func (k EdgeKind) IsHierarchical() bool {
	return k == KindInstanceOf || k == KindSubclassOf
}

func (k EdgeKind) String() string {
	return string(k)
}

// Compose returns the kind implied by following first and then second.
func Compose(first, second EdgeKind) (EdgeKind, bool) {
	k, ok := compositions[composition{first, second}]
	return k, ok
}

// Triple is one row of base data: (kind, head, tail) as raw strings.
// ID identifies the row in its source and is only used for error context.
type Triple struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Kind string `json:"kind" yaml:"kind"`
	Head string `json:"head" yaml:"head"`
	Tail string `json:"tail" yaml:"tail"`
}

// Stats summarizes the graph contents.
type Stats struct {
	Entities      int
	Relationships int
	Inferred      int
	ByKind        map[EdgeKind]int
}
