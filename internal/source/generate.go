package source

import (
	"fmt"
	"io"
	"os"
	"math/rand/v2"
	"strconv"

	"ontoqa/internal/graph"
)

// DefaultVocabulary is the entity pool used by Generate when none is given.
var DefaultVocabulary = []string{
	"drink", "musical instrument", "food", "geographic region", "product",
	"animal", "piano", "grand piano", "baby grand", "upright piano",
	"digital piano", "acoustic piano", "electric piano", "alcoholic drink",
	"non-alcoholic drink", "carbonated drink", "soft drink", "soda", "cola",
	"lemon-lime soda", "orange soda", "root beer", "ginger ale", "tonic water",
	"club soda", "sparkling water", "lemonade", "fruit punch", "sports drink",
	"energy drink", "tea", "black tea", "green tea", "white tea", "oolong tea",
	"herbal tea", "chai", "bubble tea", "coffee", "hot", "cold", "creamy",
	"sweet", "sour", "bitter", "spicy", "aromatic", "strong", "weak", "Indian",
	"Chinese", "Japanese", "Korean", "Thai", "Vietnamese", "Mediterranean",
	"Middle Eastern", "European", "American",
}

// GenerateOptions controls synthetic ontology generation.
type GenerateOptions struct {
	Records    int
	Seed       uint64
	Vocabulary []string
	Kinds      []graph.EdgeKind
}

// Generate returns Records random triples over the vocabulary. The same seed
// yields the same triples. Random edges freely form cycles.
func Generate(opts GenerateOptions) []graph.Triple {
	vocab := opts.Vocabulary
	if len(vocab) == 0 {
		vocab = DefaultVocabulary
	}
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = []graph.EdgeKind{graph.KindInstanceOf, graph.KindSubclassOf, graph.KindHasAttribute}
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	triples := make([]graph.Triple, 0, opts.Records)
	for i := 0; i < opts.Records; i++ {
		triples = append(triples, graph.Triple{
			ID:   strconv.Itoa(i),
			Kind: string(kinds[rng.IntN(len(kinds))]),
			Head: vocab[rng.IntN(len(vocab))],
			Tail: vocab[rng.IntN(len(vocab))],
		})
	}
	return triples
}

// WriteGenerated writes Generate(opts) as CSV.
func WriteGenerated(w io.Writer, opts GenerateOptions) error {
	return WriteCSV(w, Generate(opts))
}

// WriteGeneratedFile writes Generate(opts) as CSV to path. A failure to flush
// on close is reported like any write error.
func WriteGeneratedFile(path string, opts GenerateOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return WriteGenerated(f, opts)
}
