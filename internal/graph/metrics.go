package graph

func (g *Graph) Stats() Stats {
	stats := Stats{ByKind: make(map[EdgeKind]int)}
	if g == nil {
		return stats
	}
	stats.Entities = len(g.entities)
	for _, e := range g.entities {
		for _, rel := range e.relationships {
			stats.Relationships++
			stats.ByKind[rel.Kind]++
			if rel.Inferred {
				stats.Inferred++
			}
		}
	}
	return stats
}
