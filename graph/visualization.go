package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Exporter provides methods to export graphs in different formats
type Exporter[S any] struct {
	graph *StateGraph[S]
}

// NewExporter creates a new graph exporter for the given graph
func NewExporter[S any](graph *StateGraph[S]) *Exporter[S] {
	return &Exporter[S]{graph: graph}
}

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string
}

// DrawMermaid generates a Mermaid diagram representation of the graph
func (ge *Exporter[S]) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{
		Direction: "TD",
	})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options.
// Conditional edges are drawn as dotted arrows to each declared target.
func (ge *Exporter[S]) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	fmt.Fprintf(&sb, "flowchart %s\n", direction)

	if ge.graph.entryPoint != "" {
		sb.WriteString("    START([\"START\"])\n")
		sb.WriteString("    style START fill:#90EE90\n")
	}

	for _, name := range ge.sortedNodes() {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", name, name)
	}

	if ge.referencesEnd() {
		sb.WriteString("    END([\"END\"])\n")
		sb.WriteString("    style END fill:#FFB6C1\n")
	}

	if ge.graph.entryPoint != "" {
		fmt.Fprintf(&sb, "    START --> %s\n", ge.graph.entryPoint)
	}

	for _, edge := range ge.graph.edges {
		fmt.Fprintf(&sb, "    %s --> %s\n", edge.From, edge.To)
	}

	for _, cond := range ge.sortedConditionals() {
		for _, to := range cond.Targets {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", cond.From, to)
		}
	}

	if ge.graph.entryPoint != "" {
		fmt.Fprintf(&sb, "    style %s fill:#87CEEB\n", ge.graph.entryPoint)
	}

	return sb.String()
}

// DrawDOT generates a DOT (Graphviz) representation of the graph
func (ge *Exporter[S]) DrawDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")

	if ge.graph.entryPoint != "" {
		sb.WriteString("    START [label=\"START\", shape=ellipse, style=filled, fillcolor=lightgreen];\n")
		fmt.Fprintf(&sb, "    START -> %s;\n", ge.graph.entryPoint)
		fmt.Fprintf(&sb, "    %s [style=filled, fillcolor=lightblue];\n", ge.graph.entryPoint)
	}

	if ge.referencesEnd() {
		sb.WriteString("    END [label=\"END\", shape=ellipse, style=filled, fillcolor=lightpink];\n")
	}

	for _, edge := range ge.graph.edges {
		fmt.Fprintf(&sb, "    %s -> %s;\n", edge.From, edge.To)
	}

	for _, cond := range ge.sortedConditionals() {
		for _, to := range cond.Targets {
			fmt.Fprintf(&sb, "    %s -> %s [style=dashed];\n", cond.From, to)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func (ge *Exporter[S]) sortedNodes() []string {
	names := make([]string, 0, len(ge.graph.nodes))
	for name := range ge.graph.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ge *Exporter[S]) sortedConditionals() []ConditionalEdge[S] {
	conds := make([]ConditionalEdge[S], 0, len(ge.graph.conditionalEdges))
	for _, c := range ge.graph.conditionalEdges {
		conds = append(conds, c)
	}
	sort.Slice(conds, func(i, j int) bool { return conds[i].From < conds[j].From })
	return conds
}

func (ge *Exporter[S]) referencesEnd() bool {
	for _, edge := range ge.graph.edges {
		if edge.To == END {
			return true
		}
	}
	for _, cond := range ge.graph.conditionalEdges {
		for _, to := range cond.Targets {
			if to == END {
				return true
			}
		}
	}
	return false
}
