package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/mmresearcher/graph"
)

type routeState struct {
	Message string
	Visited []string
}

func visit(name string) func(ctx context.Context, s routeState) (routeState, error) {
	return func(ctx context.Context, s routeState) (routeState, error) {
		s.Visited = append(s.Visited, name)
		return s, nil
	}
}

func TestConditionalEdges(t *testing.T) {
	t.Parallel()

	priority := func(ctx context.Context, s routeState) string {
		switch {
		case strings.Contains(s.Message, "URGENT"):
			return "urgent"
		case strings.Contains(s.Message, "NORMAL"):
			return "normal"
		default:
			return graph.END
		}
	}

	tests := []struct {
		name     string
		message  string
		expected []string
	}{
		{
			name:     "routes to urgent",
			message:  "URGENT: Fix the bug",
			expected: []string{"router", "urgent"},
		},
		{
			name:     "routes to normal",
			message:  "NORMAL request",
			expected: []string{"router", "normal"},
		},
		{
			name:     "conditional edge to END",
			message:  "nothing to do",
			expected: []string{"router"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := graph.NewStateGraph[routeState]()
			g.AddNode("router", "router", visit("router"))
			g.AddNode("urgent", "urgent", visit("urgent"))
			g.AddNode("normal", "normal", visit("normal"))
			g.AddConditionalEdge("router", priority, "urgent", "normal", graph.END)
			g.AddEdge("urgent", graph.END)
			g.AddEdge("normal", graph.END)
			g.SetEntryPoint("router")

			runnable, err := g.Compile()
			require.NoError(t, err)

			out, err := runnable.Invoke(context.Background(), routeState{Message: tt.message})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.Visited)
		})
	}
}

func TestConditionalEdges_EvaluatedOncePerVisit(t *testing.T) {
	calls := 0

	g := graph.NewStateGraph[routeState]()
	g.AddNode("start", "start", visit("start"))
	g.AddNode("left", "left", visit("left"))
	g.AddConditionalEdge("start", func(ctx context.Context, s routeState) string {
		calls++
		return "left"
	}, "left", graph.END)
	g.AddEdge("left", graph.END)
	g.SetEntryPoint("start")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), routeState{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestConditionalEdges_UndeclaredTarget(t *testing.T) {
	g := graph.NewStateGraph[routeState]()
	g.AddNode("start", "start", visit("start"))
	g.AddNode("left", "left", visit("left"))
	g.AddNode("right", "right", visit("right"))
	g.AddConditionalEdge("start", func(ctx context.Context, s routeState) string {
		return "right"
	}, "left")
	g.AddEdge("left", graph.END)
	g.AddEdge("right", graph.END)
	g.SetEntryPoint("start")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), routeState{})
	assert.ErrorIs(t, err, graph.ErrInvalidRoute)
}
