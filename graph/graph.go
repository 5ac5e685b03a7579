package graph

import (
	"context"
	"errors"
)

// END is a special constant used to represent the end node in the graph.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")

	// ErrDuplicateEdge is returned when a node has more than one outgoing route.
	// Execution is strictly sequential, so fan-out is rejected at compile time.
	ErrDuplicateEdge = errors.New("node has more than one outgoing route")

	// ErrCycle is returned by Compile when the graph is not acyclic.
	ErrCycle = errors.New("graph contains a cycle")

	// ErrInvalidRoute is returned when a conditional edge selects a target
	// that was not declared when the edge was added.
	ErrInvalidRoute = errors.New("conditional edge returned an undeclared target")
)

// Edge represents an edge in the graph.
type Edge struct {
	// From is the name of the node from which the edge originates.
	From string

	// To is the name of the node to which the edge points.
	To string
}

// TypedNode represents a typed node in the graph.
type TypedNode[S any] struct {
	Name        string
	Description string
	Function    func(ctx context.Context, state S) (S, error)
}

// ConditionalEdge routes from a node to one of a fixed set of targets.
type ConditionalEdge[S any] struct {
	From      string
	Condition func(ctx context.Context, state S) string
	Targets   []string
}

func (e ConditionalEdge[S]) allows(target string) bool {
	for _, t := range e.Targets {
		if t == target {
			return true
		}
	}
	return false
}
