package inference

import (
	"fmt"

	"ontoqa/internal/graph"

	"github.com/sirupsen/logrus"
)

const (
	ModeSinglePass = "single_pass"
	ModeFixedPoint = "fixed_point"
)

// DefaultMaxRounds bounds RunToFixedPoint when the caller passes zero.
const DefaultMaxRounds = 64

// Index gives O(1) access to relationships by head and by tail entity.
type Index struct {
	from map[*graph.Entity][]*graph.Relationship
	into map[*graph.Entity][]*graph.Relationship
}

// NewIndex indexes rels by head and tail.
func NewIndex(rels []*graph.Relationship) *Index {
	idx := &Index{
		from: make(map[*graph.Entity][]*graph.Relationship),
		into: make(map[*graph.Entity][]*graph.Relationship),
	}
	for _, rel := range rels {
		idx.add(rel)
	}
	return idx
}

func (idx *Index) add(rel *graph.Relationship) {
	idx.from[rel.Head] = append(idx.from[rel.Head], rel)
	idx.into[rel.Tail] = append(idx.into[rel.Tail], rel)
}

// From returns the indexed relationships whose head is e.
func (idx *Index) From(e *graph.Entity) []*graph.Relationship {
	return idx.from[e]
}

// Into returns the indexed relationships whose tail is e.
func (idx *Index) Into(e *graph.Entity) []*graph.Relationship {
	return idx.into[e]
}

// Report describes what a run added to the graph.
type Report struct {
	Mode   string
	Rounds int
	Rules  []RuleResult
	Added  []*graph.Relationship

	// Converged is false when fixed-point inference hit its round limit with
	// relationships still to add. A single pass never claims convergence.
	Converged bool
}

// Engine infers relationships implied by a snapshot of the graph.
type Engine struct {
	chain    *Chain
	snapshot []*graph.Relationship
	index    *Index
}

// NewEngine indexes snapshot once. With no rules, DefaultRules is used.
func NewEngine(snapshot []*graph.Relationship, rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{
		chain:    NewChain(rules...),
		snapshot: snapshot,
		index:    NewIndex(snapshot),
	}
}

// Run makes one pass over the snapshot and merges the result into g.
// Chains longer than one composition are not closed; see RunToFixedPoint.
func (e *Engine) Run(g *graph.Graph) (*Report, error) {
	results := e.chain.newResults()
	produced := e.chain.Apply(e.snapshot, e.index, results)

	added, err := mergeByHead(g, produced)
	if err != nil {
		return nil, err
	}

	report := &Report{Mode: ModeSinglePass, Rounds: 1, Rules: results, Added: added}
	logReport(report)
	return report, nil
}

// RunToFixedPoint repeats inference over newly added relationships until a
// round adds nothing or maxRounds is reached.
func (e *Engine) RunToFixedPoint(g *graph.Graph, maxRounds int) (*Report, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	// The shared index grows as rounds add edges, so the engine's own
	// snapshot index is left untouched for later single-pass runs.
	idx := NewIndex(e.snapshot)
	results := e.chain.newResults()
	report := &Report{Mode: ModeFixedPoint, Rules: results}

	work := e.snapshot
	for len(work) > 0 && report.Rounds < maxRounds {
		report.Rounds++
		produced := e.chain.Apply(work, idx, results)
		added, err := mergeByHead(g, produced)
		if err != nil {
			return nil, err
		}
		for _, rel := range added {
			idx.add(rel)
		}
		report.Added = append(report.Added, added...)
		work = added
	}
	report.Converged = len(work) == 0
	if !report.Converged {
		// Check whether the pending edges would add anything, without merging.
		pending := e.chain.Apply(work, idx, e.chain.newResults())
		report.Converged = len(pending) == 0
	}
	if !report.Converged {
		logrus.WithField("maxRounds", maxRounds).Warn("Inference round limit reached with pending work")
	}

	logReport(report)
	return report, nil
}

// mergeByHead groups rels by head entity in first-seen order and merges each group.
func mergeByHead(g *graph.Graph, rels []*graph.Relationship) ([]*graph.Relationship, error) {
	var order []*graph.Entity
	groups := make(map[*graph.Entity][]*graph.Relationship)
	for _, rel := range rels {
		if _, ok := groups[rel.Head]; !ok {
			order = append(order, rel.Head)
		}
		groups[rel.Head] = append(groups[rel.Head], rel)
	}

	var added []*graph.Relationship
	for _, head := range order {
		a, err := g.Merge(groups[head])
		if err != nil {
			return nil, fmt.Errorf("merge inferred relationships for %q: %w", head.Name, err)
		}
		added = append(added, a...)
	}
	return added, nil
}

func logReport(r *Report) {
	fields := logrus.Fields{
		"mode":   r.Mode,
		"rounds": r.Rounds,
		"added":  len(r.Added),
	}
	for _, rr := range r.Rules {
		fields[rr.Rule] = rr.Produced
	}
	logrus.WithFields(fields).Info("Inferred relationships")
}
