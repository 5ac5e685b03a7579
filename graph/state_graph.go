package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// StateGraph represents a generic state-based graph with compile-time type safety.
// The type parameter S represents the state type, which is typically a struct.
//
// Nodes run one at a time. Each node receives the running state and returns a
// result that is merged into the running state through the graph's schema, so
// with a field-wise schema a node can return only the fields it produces.
//
// Example usage:
//
//	type MyState struct {
//	    Count int
//	    Name  string
//	}
//
//	g := graph.NewStateGraph[MyState]()
//	g.AddNode("increment", "Increment counter", func(ctx context.Context, state MyState) (MyState, error) {
//	    state.Count++
//	    return state, nil
//	})
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]TypedNode[S]

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// conditionalEdges maps a "From" node to its router; the "To" node is chosen at runtime
	conditionalEdges map[string]ConditionalEdge[S]

	// entryPoint is the name of the entry point node in the graph
	entryPoint string

	// Schema defines the state structure and update logic
	Schema StateSchemaTyped[S]
}

// NewStateGraph creates a new instance of StateGraph with type safety.
// The type parameter S specifies the state type.
//
// Example:
//
//	g := graph.NewStateGraph[MyState]()
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:            make(map[string]TypedNode[S]),
		conditionalEdges: make(map[string]ConditionalEdge[S]),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
func (g *StateGraph[S]) AddNode(name string, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = TypedNode[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds a conditional edge where the target node is determined at runtime.
// Every node the condition may return must be listed in targets; Compile checks
// that they exist and Invoke rejects any other value.
//
// Example:
//
//	g.AddConditionalEdge("check", func(ctx context.Context, state MyState) string {
//	    if state.Count > 10 {
//	        return "high"
//	    }
//	    return "low"
//	}, "high", "low")
func (g *StateGraph[S]) AddConditionalEdge(from string, condition func(ctx context.Context, state S) string, targets ...string) {
	g.conditionalEdges[from] = ConditionalEdge[S]{
		From:      from,
		Condition: condition,
		Targets:   targets,
	}
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetSchema sets the state schema for the graph.
func (g *StateGraph[S]) SetSchema(schema StateSchemaTyped[S]) {
	g.Schema = schema
}

// StateRunnable represents a compiled state graph that can be invoked with type safety.
type StateRunnable[S any] struct {
	graph     *StateGraph[S]
	order     []string
	tracer    *Tracer
	listeners []NodeListener[S]
}

// Compile validates the state graph and returns a StateRunnable instance.
//
// The graph must have an entry point, every edge and conditional target must
// name a known node or END, every node must have exactly one outgoing route
// (a static edge or a conditional edge), and the graph must be acyclic.
func (g *StateGraph[S]) Compile() (*StateRunnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: entry point %s", ErrNodeNotFound, g.entryPoint)
	}

	successors := make(map[string][]string, len(g.nodes))
	routed := make(map[string]bool, len(g.nodes))

	for _, edge := range g.edges {
		if _, ok := g.nodes[edge.From]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, edge.From)
		}
		if err := g.checkTarget(edge.To); err != nil {
			return nil, err
		}
		if routed[edge.From] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, edge.From)
		}
		routed[edge.From] = true
		successors[edge.From] = append(successors[edge.From], edge.To)
	}

	for from, cond := range g.conditionalEdges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, from)
		}
		if routed[from] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, from)
		}
		if len(cond.Targets) == 0 {
			return nil, fmt.Errorf("conditional edge from %s declares no targets", from)
		}
		for _, to := range cond.Targets {
			if err := g.checkTarget(to); err != nil {
				return nil, err
			}
		}
		routed[from] = true
		successors[from] = append(successors[from], cond.Targets...)
	}

	for name := range g.nodes {
		if !routed[name] {
			return nil, fmt.Errorf("%w: %s", ErrNoOutgoingEdge, name)
		}
	}

	order, err := topologicalOrder(g.nodes, successors)
	if err != nil {
		return nil, err
	}

	return &StateRunnable[S]{
		graph: g,
		order: order,
	}, nil
}

func (g *StateGraph[S]) checkTarget(name string) error {
	if name == END {
		return nil
	}
	if _, ok := g.nodes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, name)
	}
	return nil
}

// topologicalOrder sorts the nodes with Kahn's algorithm. Ties are broken by
// name so the order is stable between runs.
func topologicalOrder[S any](nodes map[string]TypedNode[S], successors map[string][]string) ([]string, error) {
	indegree := make(map[string]int, len(nodes))
	for name := range nodes {
		indegree[name] += 0
		for _, to := range successors[name] {
			if to != END {
				indegree[to]++
			}
		}
	}

	var ready []string
	for name, d := range indegree {
		if d == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		var released []string
		for _, to := range successors[name] {
			if to == END {
				continue
			}
			indegree[to]--
			if indegree[to] == 0 {
				released = append(released, to)
			}
		}
		sort.Strings(released)
		ready = append(ready, released...)
		sort.Strings(ready)
	}

	if len(order) != len(nodes) {
		return nil, ErrCycle
	}
	return order, nil
}

// Order returns the node names in a topological order of the compiled graph.
func (r *StateRunnable[S]) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Graph returns the graph the runnable was compiled from.
func (r *StateRunnable[S]) Graph() *StateGraph[S] {
	return r.graph
}

// SetTracer sets a tracer for observability.
func (r *StateRunnable[S]) SetTracer(tracer *Tracer) {
	r.tracer = tracer
}

// GetTracer returns the current tracer.
func (r *StateRunnable[S]) GetTracer() *Tracer {
	return r.tracer
}

// AddListener registers a listener notified of every node event.
func (r *StateRunnable[S]) AddListener(listener NodeListener[S]) {
	r.listeners = append(r.listeners, listener)
}

// Invoke executes the compiled state graph with the given input state.
//
// Nodes run strictly one after another starting at the entry point. A failing
// node aborts the run: Invoke returns the zero state and a *NodeError wrapping
// the node's error. No node is retried and no partial state is returned.
func (r *StateRunnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	var zero S
	state := initialState

	// If schema is defined, merge initialState into schema's initial state
	if r.graph.Schema != nil {
		var err error
		state, err = r.graph.Schema.Update(r.graph.Schema.Init(), initialState)
		if err != nil {
			return zero, fmt.Errorf("failed to initialize state with schema: %w", err)
		}
	}

	ctx = WithRunID(ctx, uuid.NewString())

	var graphSpan *TraceSpan
	if r.tracer != nil {
		graphSpan = r.tracer.StartSpan(ctx, TraceEventGraphStart, "graph")
		ctx = ContextWithSpan(ctx, graphSpan)
	}
	endGraph := func(err error) {
		if graphSpan != nil {
			r.tracer.EndSpan(ctx, graphSpan, err)
		}
	}

	current := r.graph.entryPoint
	for current != END {
		if err := ctx.Err(); err != nil {
			endGraph(err)
			return zero, err
		}

		node, ok := r.graph.nodes[current]
		if !ok {
			err := fmt.Errorf("%w: %s", ErrNodeNotFound, current)
			endGraph(err)
			return zero, err
		}

		result, err := r.runNode(ctx, node, state)
		if err != nil {
			r.notify(ctx, NodeEventError, current, state, err)
			nodeErr := &NodeError{Node: current, Err: err}
			endGraph(nodeErr)
			return zero, nodeErr
		}

		state, err = r.mergeState(state, result)
		if err != nil {
			endGraph(err)
			return zero, err
		}
		r.notify(ctx, NodeEventComplete, current, state, nil)

		next, err := r.nextNode(ctx, current, state)
		if err != nil {
			endGraph(err)
			return zero, err
		}
		if r.tracer != nil {
			r.tracer.TraceEdgeTraversal(ctx, current, next)
		}
		current = next
	}

	endGraph(nil)
	return state, nil
}

// runNode executes a single node, converting a panic into an error.
func (r *StateRunnable[S]) runNode(ctx context.Context, node TypedNode[S], state S) (result S, err error) {
	r.notify(ctx, NodeEventStart, node.Name, state, nil)

	var span *TraceSpan
	if r.tracer != nil {
		span = r.tracer.StartSpan(ctx, TraceEventNodeStart, node.Name)
		ctx = ContextWithSpan(ctx, span)
	}

	defer func() {
		if p := recover(); p != nil {
			var zero S
			result, err = zero, fmt.Errorf("panic in node %s: %v", node.Name, p)
		}
		if span != nil {
			r.tracer.EndSpan(ctx, span, err)
		}
	}()

	return node.Function(ctx, state)
}

// mergeState merges a node result into the current state.
func (r *StateRunnable[S]) mergeState(current, result S) (S, error) {
	if r.graph.Schema == nil {
		return result, nil
	}
	state, err := r.graph.Schema.Update(current, result)
	if err != nil {
		var zero S
		return zero, fmt.Errorf("schema update failed: %w", err)
	}
	return state, nil
}

// nextNode determines the node to run after current.
func (r *StateRunnable[S]) nextNode(ctx context.Context, current string, state S) (string, error) {
	if cond, ok := r.graph.conditionalEdges[current]; ok {
		next := cond.Condition(ctx, state)
		if !cond.allows(next) {
			return "", fmt.Errorf("%w: %q from %s", ErrInvalidRoute, next, current)
		}
		return next, nil
	}

	for _, edge := range r.graph.edges {
		if edge.From == current {
			return edge.To, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
}

func (r *StateRunnable[S]) notify(ctx context.Context, event NodeEvent, nodeName string, state S, err error) {
	for _, l := range r.listeners {
		l.OnNodeEvent(ctx, event, nodeName, state, err)
	}
}
