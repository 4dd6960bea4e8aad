package inference

import "ontoqa/internal/graph"

// Rule derives new relationships from one existing relationship.
type Rule interface {
	Name() string
	Infer(rel *graph.Relationship, idx *Index) []*graph.Relationship
}

// RuleResult is the per-rule outcome of a run.
type RuleResult struct {
	Rule     string
	Produced int
}

// Chain applies rules in order to each relationship it is given.
type Chain struct {
	rules []Rule
}

func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: rules}
}

// DefaultRules are the inverse rule followed by the one-hop transitive rule.
func DefaultRules() []Rule {
	return []Rule{NewInverseRule(), NewTransitiveRule()}
}

// Apply runs every rule over rels and returns what they produced, in
// relationship-then-rule order. Relationships already in the graph, or already
// produced earlier in this call, are dropped; a rule is credited only with the
// relationships it contributed first.
func (c *Chain) Apply(rels []*graph.Relationship, idx *Index, results []RuleResult) []*graph.Relationship {
	type key struct {
		head, tail *graph.Entity
		kind       graph.EdgeKind
	}
	seen := make(map[key]bool)

	var out []*graph.Relationship
	for _, rel := range rels {
		for i, r := range c.rules {
			for _, p := range r.Infer(rel, idx) {
				k := key{p.Head, p.Tail, p.Kind}
				if seen[k] || p.Head.Has(p.Kind, p.Tail) {
					continue
				}
				seen[k] = true
				results[i].Produced++
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Chain) newResults() []RuleResult {
	results := make([]RuleResult, len(c.rules))
	for i, r := range c.rules {
		results[i].Rule = r.Name()
	}
	return results
}

// InverseRule restates each relationship from its tail's side.
type InverseRule struct{}

func NewInverseRule() *InverseRule {
	return &InverseRule{}
}

func (r *InverseRule) Name() string {
	return "inverse"
}

func (r *InverseRule) Infer(rel *graph.Relationship, _ *Index) []*graph.Relationship {
	if inv := rel.Inverse(); inv != nil {
		return []*graph.Relationship{inv}
	}
	return nil
}

// TransitiveRule composes two adjacent relationships using graph.Compose.
type TransitiveRule struct{}

func NewTransitiveRule() *TransitiveRule {
	return &TransitiveRule{}
}

func (r *TransitiveRule) Name() string {
	return "transitive"
}

// Infer pairs rel with the indexed relationships on either side of it.
// rel as the first hop: (H -k-> T) + (T -k2-> T2) => H -> T2.
// rel as the second hop: (X -k0-> H) + (H -k-> T) => X -> T.
// Over a full snapshot the second form only rediscovers pairs the first form
// finds, which Chain.Apply drops; it matters when rel is newly added.
func (r *TransitiveRule) Infer(rel *graph.Relationship, idx *Index) []*graph.Relationship {
	var out []*graph.Relationship
	if rel.Kind.IsTransitive() {
		for _, next := range idx.From(rel.Tail) {
			if kind, ok := graph.Compose(rel.Kind, next.Kind); ok {
				out = append(out, &graph.Relationship{Head: rel.Head, Tail: next.Tail, Kind: kind, Inferred: true})
			}
		}
	}
	for _, prev := range idx.Into(rel.Head) {
		if !prev.Kind.IsTransitive() {
			continue
		}
		if kind, ok := graph.Compose(prev.Kind, rel.Kind); ok {
			out = append(out, &graph.Relationship{Head: prev.Head, Tail: rel.Tail, Kind: kind, Inferred: true})
		}
	}
	return out
}
