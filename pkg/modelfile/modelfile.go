// Package modelfile loads transition-graph definitions from YAML or JSON
// files. A definition names the properties and the weighted edges between
// them; invariant code is bound at build time from a registry supplied by
// the caller, so the same file drives validation, graph export, and runs.
package modelfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/model"
	"github.com/seedbed/espalier/pkg/random"
)

// PropertySpec declares one property of the graph.
type PropertySpec struct {
	Description string `yaml:"description" json:"description"`
	// Invariant names the entry in the caller's registry that supplies the
	// property's invariant. Empty means a structural property with no check.
	Invariant string `yaml:"invariant,omitempty" json:"invariant,omitempty"`
}

// TransitionSpec declares one weighted edge.
type TransitionSpec struct {
	To     string  `yaml:"to" json:"to"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Spec is the file-level structure of a model definition.
type Spec struct {
	Description string                      `yaml:"description" json:"description"`
	EntryPoint  string                      `yaml:"entry_point" json:"entry_point"`
	Properties  []PropertySpec              `yaml:"properties" json:"properties"`
	Transitions map[string][]TransitionSpec `yaml:"transitions" json:"transitions"`
}

// InvariantFunc builds a property's invariant step from bound generators.
type InvariantFunc func(...random.Generator) domain.Step

// Registry maps invariant names from the file to their implementations.
type Registry map[string]InvariantFunc

// Load parses a model definition from raw bytes. JSON is detected by the
// extension hint; everything else is treated as YAML.
func Load(data []byte, ext string) (*Spec, error) {
	var spec Spec
	if strings.ToLower(ext) == ".json" {
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse model definition: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse model definition: %w", err)
		}
	}
	return &spec, nil
}

// LoadFile reads and parses a model definition file.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model definition: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Build resolves the spec into a runnable model. Every property naming an
// invariant must have a registry entry; properties without one become
// structural nodes. The returned model is not yet validated.
func (s *Spec) Build(registry Registry) (*model.Model, error) {
	if s.EntryPoint == "" {
		return nil, fmt.Errorf("model definition %q: missing entry_point", s.Description)
	}

	props := make(map[string]*model.Property, len(s.Properties))
	for _, ps := range s.Properties {
		if ps.Description == "" {
			return nil, fmt.Errorf("model definition %q: property with empty description", s.Description)
		}
		if _, dup := props[ps.Description]; dup {
			return nil, fmt.Errorf("model definition %q: duplicate property %q", s.Description, ps.Description)
		}
		prop := &model.Property{Description: ps.Description}
		if ps.Invariant != "" {
			fn, ok := registry[ps.Invariant]
			if !ok {
				return nil, fmt.Errorf("property %q: no invariant %q in registry", ps.Description, ps.Invariant)
			}
			prop.Invariant = fn
		}
		props[ps.Description] = prop
	}

	entry, ok := props[s.EntryPoint]
	if !ok {
		return nil, fmt.Errorf("model definition %q: entry_point %q is not a declared property", s.Description, s.EntryPoint)
	}

	table := make(model.TransitionTable, len(s.Transitions))
	for from, edges := range s.Transitions {
		source, ok := props[from]
		if !ok {
			return nil, fmt.Errorf("transition source %q is not a declared property", from)
		}
		out := make([]model.Transition, 0, len(edges))
		for _, edge := range edges {
			target, ok := props[edge.To]
			if !ok {
				return nil, fmt.Errorf("transition %q -> %q: target is not a declared property", from, edge.To)
			}
			out = append(out, model.Transition{Weight: edge.Weight, To: target})
		}
		table[source] = out
	}

	return &model.Model{
		Description: s.Description,
		EntryPoint:  entry,
		Transitions: table,
	}, nil
}
