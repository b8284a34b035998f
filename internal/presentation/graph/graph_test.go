package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedbed/espalier/internal/presentation/graph"
	"github.com/seedbed/espalier/pkg/model"
)

func forkModel() *model.Model {
	entry := &model.Property{Description: "enqueue item"}
	drain := &model.Property{Description: "drain queue"}
	exit := &model.Property{Description: "exit"}

	return &model.Model{
		Description: "queue service",
		EntryPoint:  entry,
		Transitions: model.TransitionTable{
			entry: {
				{Weight: 0.6, To: drain},
				{Weight: 0.4, To: exit},
			},
			drain: {
				{Weight: 1.0, To: entry},
			},
		},
	}
}

func TestMermaid(t *testing.T) {
	out := graph.Mermaid(forkModel())

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `enqueue_item(("enqueue item"))`, "entry point is a circle")
	assert.Contains(t, out, `exit[["exit"]]`, "terminal property is a double rectangle")
	assert.Contains(t, out, `drain_queue["drain queue"]`)
	assert.Contains(t, out, `enqueue_item -- "0.60" --> drain_queue`)
	assert.Contains(t, out, `enqueue_item -- "0.40" --> exit`)
	assert.Contains(t, out, `drain_queue -- "1.00" --> enqueue_item`)
}

func TestMermaid_Deterministic(t *testing.T) {
	m := forkModel()
	assert.Equal(t, graph.Mermaid(m), graph.Mermaid(m))
}

func TestDot(t *testing.T) {
	out, err := graph.Dot(forkModel())
	require.NoError(t, err)

	assert.Contains(t, out, "digraph queue_service")
	assert.Contains(t, out, "doublecircle")
	assert.Contains(t, out, "enqueue_item->drain_queue")
	assert.Contains(t, out, `"0.60"`)
}

func TestDot_Deterministic(t *testing.T) {
	m := forkModel()
	a, err := graph.Dot(m)
	require.NoError(t, err)
	b, err := graph.Dot(m)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
