// Package graph exports transition graphs for visualization, as Mermaid
// flowcharts and as Graphviz DOT documents. Output is deterministic:
// properties are emitted sorted by description.
package graph

import (
	"sort"
	"strings"

	"github.com/seedbed/espalier/pkg/model"
)

// orderedProperties collects every property the model references, sorted by
// description. Targets absent from the table still appear as terminal nodes.
func orderedProperties(m *model.Model) []*model.Property {
	seen := make(map[*model.Property]bool)
	var props []*model.Property

	add := func(p *model.Property) {
		if p != nil && !seen[p] {
			seen[p] = true
			props = append(props, p)
		}
	}

	add(m.EntryPoint)
	for source, edges := range m.Transitions {
		add(source)
		for _, edge := range edges {
			add(edge.To)
		}
	}

	sort.Slice(props, func(i, j int) bool {
		return props[i].Description < props[j].Description
	})
	return props
}

// isTerminal reports whether the property has no outgoing transitions.
func isTerminal(m *model.Model, p *model.Property) bool {
	return len(m.Transitions[p]) == 0
}

func sanitizeID(description string) string {
	var sb strings.Builder
	for _, r := range description {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
