package sem

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed patterns.yaml
var defaultPatternsYAML []byte

// InferTable drives the heuristic classification of free action
// strings. It is data, not code, so domain vocabularies can be
// extended without rebuilding.
type InferTable struct {
	Groups  []PatternGroup `yaml:"groups"`
	Default PatternGroup   `yaml:"default"`
}

type PatternGroup struct {
	Kind       string   `yaml:"kind"`
	Constraint string   `yaml:"constraint"`
	Patterns   []string `yaml:"patterns"`
}

var (
	defaultTableOnce sync.Once
	defaultTable     *InferTable
)

// DefaultPatterns returns the built-in pattern table.
func DefaultPatterns() *InferTable {
	defaultTableOnce.Do(func() {
		t := &InferTable{}
		if err := yaml.Unmarshal(defaultPatternsYAML, t); err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadPatterns reads a pattern table from a YAML file.
func LoadPatterns(path string) (*InferTable, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read pattern table: %w", err)
	}
	t := &InferTable{}
	if err := yaml.Unmarshal(d, t); err != nil {
		return nil, fmt.Errorf("could not parse pattern table %s: %w", path, err)
	}
	if t.Default.Kind == "" {
		t.Default = PatternGroup{Kind: "object", Constraint: "movable"}
	}
	return t, nil
}

// Infer classifies an action string by case-folded substring match
// against the ordered groups, falling back to the default.
func (t *InferTable) Infer(action string) (kind, constraint string) {
	lower := strings.ToLower(action)
	for _, g := range t.Groups {
		for _, p := range g.Patterns {
			if strings.Contains(lower, p) {
				return g.Kind, g.Constraint
			}
		}
	}
	return t.Default.Kind, t.Default.Constraint
}
