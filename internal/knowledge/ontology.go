package knowledge

import (
	"fmt"
	"time"

	"ontoqa/internal/graph"
	"ontoqa/internal/inference"
	"ontoqa/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type options struct {
	mode      string
	maxRounds int
}

// Option configures NewOntology.
type Option func(*options)

// WithInferenceMode selects inference.ModeSinglePass (the default) or
// inference.ModeFixedPoint.
func WithInferenceMode(mode string) Option {
	return func(o *options) { o.mode = mode }
}

// WithMaxRounds bounds fixed-point inference. Zero means inference.DefaultMaxRounds.
func WithMaxRounds(n int) Option {
	return func(o *options) { o.maxRounds = n }
}

// Ontology is a loaded, inferred and frozen knowledge graph with a resolver
// over it.
type Ontology struct {
	*Resolver

	graph    *graph.Graph
	report   *inference.Report
	gatherer prometheus.Gatherer
}

// NewOntology loads triples, runs inference once and freezes the graph.
// An invalid edge kind aborts construction with graph.ErrInvalidEdgeKind.
func NewOntology(triples []graph.Triple, opts ...Option) (*Ontology, error) {
	o := options{mode: inference.ModeSinglePass}
	for _, opt := range opts {
		opt(&o)
	}

	g := graph.NewGraph()
	if err := g.Load(triples); err != nil {
		return nil, fmt.Errorf("failed to load ontology: %w", err)
	}

	mr, gatherer := metrics.NewRegistry()
	buildSeconds := mr.NewSummary(prometheus.SummaryOpts{
		Namespace: "ontoqa",
		Subsystem: "inference",
		Name:      "duration_seconds",
		Help:      `The time it takes to infer relationships after loading.`,
	})

	start := time.Now()
	engine := inference.NewEngine(g.Relationships())
	var (
		report *inference.Report
		err    error
	)
	switch o.mode {
	case inference.ModeSinglePass, "":
		report, err = engine.Run(g)
	case inference.ModeFixedPoint:
		report, err = engine.RunToFixedPoint(g, o.maxRounds)
	default:
		return nil, fmt.Errorf("unknown inference mode %q", o.mode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to infer relationships: %w", err)
	}
	buildSeconds.Observe(time.Since(start).Seconds())

	stats := g.Stats()
	logrus.WithFields(logrus.Fields{
		"entities":      stats.Entities,
		"relationships": stats.Relationships,
		"inferred":      stats.Inferred,
	}).Info("Ontology ready")

	return &Ontology{
		Resolver: NewResolver(g, mr),
		graph:    g,
		report:   report,
		gatherer: gatherer,
	}, nil
}

// Graph returns the frozen graph.
func (o *Ontology) Graph() *graph.Graph {
	return o.graph
}

// Inference returns the report of the inference run performed at construction.
func (o *Ontology) Inference() *inference.Report {
	return o.report
}

// Gatherer exposes this ontology's metrics.
func (o *Ontology) Gatherer() prometheus.Gatherer {
	return o.gatherer
}
