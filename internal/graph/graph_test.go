package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdgeKind(t *testing.T) {
	for _, k := range AllKinds {
		got, err := ParseEdgeKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseEdgeKind("IsProbablyA")
	assert.ErrorIs(t, err, ErrInvalidEdgeKind)

	_, err = ParseEdgeKind("instanceof")
	assert.ErrorIs(t, err, ErrInvalidEdgeKind, "kinds are case-sensitive")
}

func TestEdgeKind_Inverse(t *testing.T) {
	cases := map[EdgeKind]EdgeKind{
		KindInstanceOf:   KindHasInstance,
		KindSubclassOf:   KindSuperclassOf,
		KindHasAttribute: KindAttributeOf,
		KindHasInstance:  KindInstanceOf,
		KindSuperclassOf: KindSubclassOf,
		KindAttributeOf:  KindHasAttribute,
	}
	for k, want := range cases {
		got, ok := k.Inverse()
		assert.True(t, ok, k)
		assert.Equal(t, want, got)
	}

	_, ok := KindMutuallyExclusiveWith.Inverse()
	assert.False(t, ok)
}

func TestCompose(t *testing.T) {
	tests := []struct {
		first, second EdgeKind
		want          EdgeKind
		ok            bool
	}{
		{KindInstanceOf, KindSubclassOf, KindInstanceOf, true},
		{KindSubclassOf, KindSubclassOf, KindSubclassOf, true},
		{KindSubclassOf, KindHasAttribute, KindHasAttribute, true},
		{KindInstanceOf, KindHasAttribute, KindHasAttribute, true},
		{KindInstanceOf, KindInstanceOf, "", false},
		{KindHasAttribute, KindSubclassOf, "", false},
		{KindSubclassOf, KindMutuallyExclusiveWith, "", false},
	}
	for _, tt := range tests {
		got, ok := Compose(tt.first, tt.second)
		assert.Equal(t, tt.ok, ok, "%s∘%s", tt.first, tt.second)
		assert.Equal(t, tt.want, got)
	}
}

func TestGraph_GetOrCreate(t *testing.T) {
	g := NewGraph()

	dog := g.GetOrCreate("dog")
	assert.Same(t, dog, g.GetOrCreate("dog"))
	assert.NotSame(t, dog, g.GetOrCreate("Dog"), "names are case-sensitive")

	got, ok := g.Get("dog")
	require.True(t, ok)
	assert.Same(t, dog, got)

	_, ok = g.Get("cat")
	assert.False(t, ok)
	assert.Len(t, g.Entities(), 2, "Get must not create entities")
}

func TestGraph_Load(t *testing.T) {
	g := NewGraph()
	err := g.Load([]Triple{
		{Kind: "InstanceOf", Head: "Lassie", Tail: "dog"},
		{Kind: "SubclassOf", Head: "dog", Tail: "animal"},
		{Kind: "SubclassOf", Head: "dog", Tail: "animal"},
		{Kind: "HasAttribute", Head: "dog", Tail: "four-legged"},
	})
	require.NoError(t, err)

	t.Run("Entities in first-reference order", func(t *testing.T) {
		var names []string
		for _, e := range g.Entities() {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{"Lassie", "dog", "animal", "four-legged"}, names)
	})

	t.Run("Duplicate triples are dropped", func(t *testing.T) {
		dog, _ := g.Get("dog")
		assert.Len(t, dog.Relationships(), 2)
	})

	t.Run("Relationships in entity then edge order", func(t *testing.T) {
		var got []string
		for _, r := range g.Relationships() {
			got = append(got, r.String())
		}
		assert.Equal(t, []string{
			"Lassie -- InstanceOf --> dog",
			"dog -- SubclassOf --> animal",
			"dog -- HasAttribute --> four-legged",
		}, got)
	})
}

func TestGraph_LoadInvalidKind(t *testing.T) {
	g := NewGraph()
	err := g.Load([]Triple{
		{ID: "35", Kind: "InstanceOf", Head: "oak", Tail: "tree"},
		{ID: "36", Kind: "IsProbablyA", Head: "car", Tail: "tree"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEdgeKind)
	assert.Contains(t, err.Error(), "triple 36")
}

func TestGraph_AcceptsOddInput(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Load([]Triple{
		{Kind: "SubclassOf", Head: "", Tail: ""},
		{Kind: "SubclassOf", Head: "loop", Tail: "loop"},
	}))
	assert.Len(t, g.Entities(), 2)
}

func TestRelationship_Inverse(t *testing.T) {
	g := NewGraph()
	a, b := g.GetOrCreate("a"), g.GetOrCreate("b")

	rel, err := NewRelationship(a, b, "HasAttribute")
	require.NoError(t, err)
	inv := rel.Inverse()
	require.NotNil(t, inv)
	assert.Same(t, b, inv.Head)
	assert.Same(t, a, inv.Tail)
	assert.Equal(t, KindAttributeOf, inv.Kind)
	assert.True(t, inv.Inferred)

	excl, err := NewRelationship(a, b, "MutuallyExclusiveWith")
	require.NoError(t, err)
	assert.Nil(t, excl.Inverse())

	_, err = NewRelationship(a, b, "RelatedTo")
	assert.ErrorIs(t, err, ErrInvalidEdgeKind)
}

func TestGraph_Freeze(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddTriple(Triple{Kind: "SubclassOf", Head: "a", Tail: "b"}))
	g.Freeze()
	assert.True(t, g.Frozen())

	assert.ErrorIs(t, g.AddTriple(Triple{Kind: "SubclassOf", Head: "b", Tail: "c"}), ErrGraphFrozen)

	a, _ := g.Get("a")
	b, _ := g.Get("b")
	_, err := g.Merge([]*Relationship{{Head: b, Tail: a, Kind: KindSuperclassOf, Inferred: true}})
	assert.ErrorIs(t, err, ErrGraphFrozen)
}

func TestGraph_Stats(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Load([]Triple{
		{Kind: "SubclassOf", Head: "a", Tail: "b"},
		{Kind: "MutuallyExclusiveWith", Head: "b", Tail: "c"},
	}))
	a, _ := g.Get("a")
	b, _ := g.Get("b")
	added, err := g.Merge([]*Relationship{
		{Head: b, Tail: a, Kind: KindSuperclassOf, Inferred: true},
		{Head: b, Tail: a, Kind: KindSuperclassOf, Inferred: true},
	})
	require.NoError(t, err)
	assert.Len(t, added, 1)

	stats := g.Stats()
	assert.Equal(t, 3, stats.Entities)
	assert.Equal(t, 3, stats.Relationships)
	assert.Equal(t, 1, stats.Inferred)
	assert.Equal(t, 1, stats.ByKind[KindSuperclassOf])
	assert.Equal(t, 1, stats.ByKind[KindMutuallyExclusiveWith])
}
