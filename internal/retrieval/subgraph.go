package retrieval

import (
	"sort"

	"ontoqa/internal/graph"
)

// Config controls how neighbourhood subgraphs are extracted.
type Config struct {
	MaxHops      int
	BaseOnly     bool // skip inferred relationships
	AllowedKinds map[graph.EdgeKind]bool
}

func DefaultConfig() Config {
	return Config{
		MaxHops:      1,
		BaseOnly:     false,
		AllowedKinds: nil,
	}
}

// Subgraph is the part of the ontology within MaxHops of the seed entities,
// following relationships from head to tail.
type Subgraph struct {
	MaxHops  int
	Seeds    []string
	Missing  []string
	Entities []string
	Depths   map[string]int
	Edges    []*graph.Relationship
}

func Extract(g *graph.Graph, seeds []string, cfg Config) *Subgraph {
	if cfg.MaxHops < 0 {
		cfg.MaxHops = 0
	}
	sg := &Subgraph{MaxHops: cfg.MaxHops, Depths: map[string]int{}}
	if g == nil {
		return sg
	}

	queue := make([]queueItem, 0, len(seeds))
	for _, name := range seeds {
		e, ok := g.Get(name)
		if !ok {
			sg.Missing = append(sg.Missing, name)
			continue
		}
		if _, seen := sg.Depths[name]; seen {
			continue
		}
		sg.Seeds = append(sg.Seeds, name)
		sg.Depths[name] = 0
		queue = append(queue, queueItem{entity: e, depth: 0})
	}

	edgeSeen := make(map[*graph.Relationship]bool)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= cfg.MaxHops {
			continue
		}

		for _, rel := range cur.entity.Relationships() {
			if !edgeAllowed(rel, cfg) {
				continue
			}
			if !edgeSeen[rel] {
				edgeSeen[rel] = true
				sg.Edges = append(sg.Edges, rel)
			}

			nextDepth := cur.depth + 1
			prevDepth, seen := sg.Depths[rel.Tail.Name]
			if !seen || nextDepth < prevDepth {
				sg.Depths[rel.Tail.Name] = nextDepth
				queue = append(queue, queueItem{entity: rel.Tail, depth: nextDepth})
			}
		}
	}

	sg.Entities = sortedKeys(sg.Depths)
	sort.SliceStable(sg.Edges, func(i, j int) bool {
		a, b := sg.Edges[i], sg.Edges[j]
		if a.Head.Name == b.Head.Name {
			if a.Tail.Name == b.Tail.Name {
				return a.Kind < b.Kind
			}
			return a.Tail.Name < b.Tail.Name
		}
		return a.Head.Name < b.Head.Name
	})
	return sg
}

type queueItem struct {
	entity *graph.Entity
	depth  int
}

func edgeAllowed(rel *graph.Relationship, cfg Config) bool {
	if cfg.BaseOnly && rel.Inferred {
		return false
	}
	if len(cfg.AllowedKinds) == 0 {
		return true
	}
	return cfg.AllowedKinds[rel.Kind]
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
