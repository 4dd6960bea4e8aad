package source

import (
	"fmt"
	"io"

	"ontoqa/internal/graph"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Triples []graph.Triple `yaml:"triples"`
}

// ReadYAML reads a document of the form
//
//	triples:
//	  - {id: "1", kind: InstanceOf, head: Lassie, tail: dog}
func ReadYAML(r io.Reader) ([]graph.Triple, error) {
	var doc yamlDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode triples: %w", err)
	}
	for i := range doc.Triples {
		if doc.Triples[i].ID == "" {
			doc.Triples[i].ID = fmt.Sprint(i + 1)
		}
	}
	return doc.Triples, nil
}
