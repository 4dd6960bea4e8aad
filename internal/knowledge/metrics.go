package knowledge

import (
	"ontoqa/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

type resolverMetrics struct {
	queries    *prometheus.CounterVec
	cacheHits  *prometheus.CounterVec
	traversals *prometheus.CounterVec
	results    *prometheus.CounterVec
}

func newResolverMetrics(mr metrics.Registry) *resolverMetrics {
	return &resolverMetrics{
		queries: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ontoqa",
			Subsystem: "resolver",
			Name:      "queries_total",
			Help:      `Queries received, including those answered from the cache.`,
		}, []string{"operation"}),
		cacheHits: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ontoqa",
			Subsystem: "resolver",
			Name:      "cache_hits_total",
			Help:      `Queries answered from the memo cache.`,
		}, []string{"operation"}),
		traversals: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ontoqa",
			Subsystem: "resolver",
			Name:      "traversals_total",
			Help: `Graph walks started.

Queries short-circuited by absence or identity do not walk the graph and are
not counted here.
`,
		}, []string{"operation"}),
		results: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ontoqa",
			Subsystem: "resolver",
			Name:      "results_total",
			Help:      `Computed (uncached) results by value.`,
		}, []string{"operation", "result"}),
	}
}
