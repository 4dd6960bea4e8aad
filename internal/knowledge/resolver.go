package knowledge

import (
	"ontoqa/internal/graph"
	"ontoqa/internal/metrics"
)

// Resolver answers queries against a frozen graph and memoizes every answer.
// It is safe for concurrent use once constructed.
type Resolver struct {
	graph   *graph.Graph
	cache   *resultCache
	metrics *resolverMetrics
}

// NewResolver freezes g and returns a resolver over it. Metrics are
// registered with mr.
func NewResolver(g *graph.Graph, mr metrics.Registry) *Resolver {
	g.Freeze()
	return &Resolver{
		graph:   g,
		cache:   newResultCache(),
		metrics: newResolverMetrics(mr),
	}
}

// IsSubclassOf walks SubclassOf edges from query looking for target.
func (r *Resolver) IsSubclassOf(query, target string) Result {
	return r.resolve(OpSubclassOf, query, target, r.walkSubclass)
}

// IsInstanceOf walks InstanceOf and SubclassOf edges from query looking for
// target. A MutuallyExclusiveWith edge on any visited entity whose tail is
// target, or a superclass of target, answers No.
func (r *Resolver) IsInstanceOf(query, target string) Result {
	return r.resolve(OpInstanceOf, query, target, r.walkInstance)
}

// HasAttribute walks InstanceOf and SubclassOf edges from query looking for a
// HasAttribute edge to attribute. Exclusions do not apply.
func (r *Resolver) HasAttribute(query, attribute string) Result {
	return r.resolve(OpHasAttribute, query, attribute, r.walkAttribute)
}

// CacheSize reports how many answers are memoized.
func (r *Resolver) CacheSize() int {
	return r.cache.len()
}

func (r *Resolver) resolve(op Operation, query, target string, walk func(q, t *graph.Entity) Result) Result {
	r.metrics.queries.WithLabelValues(string(op)).Inc()

	key := cacheKey{op: op, query: query, target: target}
	if res, ok := r.cache.get(key); ok {
		r.metrics.cacheHits.WithLabelValues(string(op)).Inc()
		return res
	}

	res := r.compute(op, query, target, walk)
	r.cache.put(key, res)
	r.metrics.results.WithLabelValues(string(op), res.String()).Inc()
	return res
}

func (r *Resolver) compute(op Operation, query, target string, walk func(q, t *graph.Entity) Result) Result {
	q, ok := r.graph.Get(query)
	if !ok {
		return DontKnow
	}
	t, ok := r.graph.Get(target)
	if !ok {
		return DontKnow
	}
	if q == t {
		return Yes
	}
	r.metrics.traversals.WithLabelValues(string(op)).Inc()
	return walk(q, t)
}

func (r *Resolver) walkSubclass(query, target *graph.Entity) Result {
	return walk(query, onlySubclass, func(e *graph.Entity) (Result, bool) {
		if e.Has(graph.KindSubclassOf, target) {
			return Yes, true
		}
		return DontKnow, false
	})
}

func (r *Resolver) walkInstance(query, target *graph.Entity) Result {
	return walk(query, hierarchical, func(e *graph.Entity) (Result, bool) {
		// Every exclusion on e is checked before any match on e.
		for _, rel := range e.Relationships() {
			if !rel.Kind.IsExclusion() {
				continue
			}
			if rel.Tail == target || r.IsSubclassOf(target.Name, rel.Tail.Name) == Yes {
				return No, true
			}
		}
		if e.Has(graph.KindInstanceOf, target) || e.Has(graph.KindSubclassOf, target) {
			return Yes, true
		}
		return DontKnow, false
	})
}

func (r *Resolver) walkAttribute(query, attribute *graph.Entity) Result {
	return walk(query, hierarchical, func(e *graph.Entity) (Result, bool) {
		if e.Has(graph.KindHasAttribute, attribute) {
			return Yes, true
		}
		return DontKnow, false
	})
}

func onlySubclass(k graph.EdgeKind) bool {
	return k == graph.KindSubclassOf
}

func hierarchical(k graph.EdgeKind) bool {
	return k.IsHierarchical()
}

// walk is a depth-first search from start along edges accepted by follow.
// visit is called once per reachable entity; a true second return stops the
// walk with that result. A visited set bounds the walk on cyclic graphs.
func walk(start *graph.Entity, follow func(graph.EdgeKind) bool, visit func(*graph.Entity) (Result, bool)) Result {
	visited := map[*graph.Entity]bool{start: true}
	stack := []*graph.Entity{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if res, done := visit(cur); done {
			return res
		}
		for _, rel := range cur.Relationships() {
			if !follow(rel.Kind) || visited[rel.Tail] {
				continue
			}
			visited[rel.Tail] = true
			stack = append(stack, rel.Tail)
		}
	}
	return DontKnow
}
