package graph

import (
	"fmt"
	"strings"

	"github.com/seedbed/espalier/pkg/model"
)

// Mermaid renders the model as a Mermaid flowchart. The entry point is a
// circle, terminal properties are double rectangles, everything else a
// rectangle; edges are labeled with their weight.
func Mermaid(m *model.Model) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	props := orderedProperties(m)
	for _, p := range props {
		safeID := sanitizeID(p.Description)

		opener, closer := "[", "]"
		switch {
		case p == m.EntryPoint:
			opener, closer = "((", "))"
		case isTerminal(m, p):
			opener, closer = "[[", "]]"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, p.Description, closer))
	}

	for _, p := range props {
		safeID := sanitizeID(p.Description)
		for _, edge := range m.Transitions[p] {
			safeTo := sanitizeID(edge.To.Description)
			sb.WriteString(fmt.Sprintf("    %s -- \"%.2f\" --> %s\n", safeID, edge.Weight, safeTo))
		}
	}

	return sb.String()
}
