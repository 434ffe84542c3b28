package io

import (
	"fmt"
	"os"

	"github.com/stigtools/tcrsim/internal/recomb"
	"gopkg.in/yaml.v3"
)

// recombinationFile mirrors tcell_recombination.yaml's shape: a
// "segments" list whose entries are one or more ordered segment names
// (one for a V weight, two for V,D or V,J, three for V,D,J) followed by a
// float probability, and a "recombination" map of array-name to array
// of floats. Segments entries are parsed directly from yaml.Node since
// they are heterogeneous (mixed strings + a trailing float), a shape a
// flat key-value unmarshal does not model.
type recombinationFile struct {
	Segments      []yaml.Node          `yaml:"segments"`
	Recombination map[string][]float64 `yaml:"recombination"`
}

// LoadRecombinationTable reads tcell_recombination.yaml into a
// recomb.Table. It does not call Validate; callers should do so and
// route any resulting Warnings through their logger.
func LoadRecombinationTable(path string) (*recomb.Table, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("io: reading recombination table %s: %w", path, err)
	}

	var raw recombinationFile
	if err := yaml.Unmarshal(dat, &raw); err != nil {
		return nil, fmt.Errorf("io: parsing recombination YAML %s: %w", path, err)
	}

	tuples := make(map[string]float64, len(raw.Segments))
	for i, node := range raw.Segments {
		names, prob, err := parseTupleEntry(&node)
		if err != nil {
			return nil, fmt.Errorf("io: %s: segments[%d]: %w", path, i, err)
		}
		tuples[recomb.TupleKey(names...)] = prob
	}

	return recomb.NewTable(tuples, raw.Recombination), nil
}

// parseTupleEntry decodes one "segments" list entry: a sequence whose
// last element is a probability and whose preceding elements are
// ordered segment names.
func parseTupleEntry(node *yaml.Node) (names []string, prob float64, err error) {
	if node.Kind != yaml.SequenceNode || len(node.Content) < 2 {
		return nil, 0, fmt.Errorf("expected a sequence of 2+ elements (names..., probability)")
	}
	last := node.Content[len(node.Content)-1]
	if err := last.Decode(&prob); err != nil {
		return nil, 0, fmt.Errorf("decoding trailing probability: %w", err)
	}
	for _, n := range node.Content[:len(node.Content)-1] {
		var name string
		if err := n.Decode(&name); err != nil {
			return nil, 0, fmt.Errorf("decoding segment name: %w", err)
		}
		names = append(names, name)
	}
	return names, prob, nil
}
