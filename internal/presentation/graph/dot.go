package graph

import (
	"fmt"

	"github.com/awalterschulze/gographviz"

	"github.com/seedbed/espalier/pkg/model"
)

// Dot renders the model as a Graphviz DOT digraph. The entry point is drawn
// as a double circle, terminal properties as boxes with doubled borders, and
// every edge carries its weight as a label.
func Dot(m *model.Model) (string, error) {
	g := gographviz.NewGraph()
	name := sanitizeID(m.Description)
	if name == "" {
		name = "model"
	}
	if err := g.SetName(name); err != nil {
		return "", fmt.Errorf("failed to name graph: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", fmt.Errorf("failed to mark graph directed: %w", err)
	}

	props := orderedProperties(m)
	for _, p := range props {
		attrs := map[string]string{
			"label": fmt.Sprintf("%q", p.Description),
			"shape": "box",
		}
		switch {
		case p == m.EntryPoint:
			attrs["shape"] = "doublecircle"
		case isTerminal(m, p):
			attrs["peripheries"] = "2"
		}
		if err := g.AddNode(name, sanitizeID(p.Description), attrs); err != nil {
			return "", fmt.Errorf("failed to add node %q: %w", p.Description, err)
		}
	}

	for _, p := range props {
		for _, edge := range m.Transitions[p] {
			attrs := map[string]string{
				"label": fmt.Sprintf("\"%.2f\"", edge.Weight),
			}
			if err := g.AddEdge(sanitizeID(p.Description), sanitizeID(edge.To.Description), true, attrs); err != nil {
				return "", fmt.Errorf("failed to add edge %q -> %q: %w", p.Description, edge.To.Description, err)
			}
		}
	}

	return g.String(), nil
}
