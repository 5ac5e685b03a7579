package graph

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TraceEvent represents different types of events in graph execution
type TraceEvent string

const (
	// TraceEventGraphStart indicates the start of graph execution
	TraceEventGraphStart TraceEvent = "graph_start"

	// TraceEventGraphEnd indicates the end of graph execution
	TraceEventGraphEnd TraceEvent = "graph_end"

	// TraceEventNodeStart indicates the start of node execution
	TraceEventNodeStart TraceEvent = "node_start"

	// TraceEventNodeEnd indicates the end of node execution
	TraceEventNodeEnd TraceEvent = "node_end"

	// TraceEventNodeError indicates an error occurred in node execution
	TraceEventNodeError TraceEvent = "node_error"

	// TraceEventEdgeTraversal indicates traversal from one node to another
	TraceEventEdgeTraversal TraceEvent = "edge_traversal"
)

// TraceSpan represents a span of execution with timing and metadata
type TraceSpan struct {
	// ID is a unique identifier for this span
	ID string

	// ParentID is the ID of the parent span (empty for root spans)
	ParentID string

	// RunID identifies the Invoke call the span belongs to
	RunID string

	// Event indicates the type of event this span represents
	Event TraceEvent

	// NodeName is the name of the node being executed (if applicable)
	NodeName string

	// FromNode is the source node for edge traversals
	FromNode string

	// ToNode is the destination node for edge traversals
	ToNode string

	// StartTime is when this span began
	StartTime time.Time

	// EndTime is when this span completed (zero for ongoing spans)
	EndTime time.Time

	// Duration is the total time taken (calculated when span ends)
	Duration time.Duration

	// Error contains any error that occurred during execution
	Error error
}

// TraceHook defines the interface for trace event handlers
type TraceHook interface {
	// OnEvent is called when a trace event occurs
	OnEvent(ctx context.Context, span *TraceSpan)
}

// TraceHookFunc is a function adapter for TraceHook
type TraceHookFunc func(ctx context.Context, span *TraceSpan)

// OnEvent implements the TraceHook interface
func (f TraceHookFunc) OnEvent(ctx context.Context, span *TraceSpan) {
	f(ctx, span)
}

// Tracer manages trace collection and hooks. It is safe to share one tracer
// between concurrent runs; spans carry the RunID of the run that produced them.
type Tracer struct {
	mu    sync.Mutex
	hooks []TraceHook
	spans map[string]*TraceSpan
}

// NewTracer creates a new tracer instance
func NewTracer() *Tracer {
	return &Tracer{
		spans: make(map[string]*TraceSpan),
	}
}

// AddHook registers a new trace hook
func (t *Tracer) AddHook(hook TraceHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook)
}

// StartSpan creates a new trace span
func (t *Tracer) StartSpan(ctx context.Context, event TraceEvent, nodeName string) *TraceSpan {
	span := &TraceSpan{
		ID:        uuid.NewString(),
		RunID:     RunIDFromContext(ctx),
		Event:     event,
		NodeName:  nodeName,
		StartTime: time.Now(),
	}

	// Extract parent ID from context if available
	if parentSpan := SpanFromContext(ctx); parentSpan != nil {
		span.ParentID = parentSpan.ID
	}

	t.record(ctx, span)
	return span
}

// EndSpan completes a trace span
func (t *Tracer) EndSpan(ctx context.Context, span *TraceSpan, err error) {
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Error = err

	switch {
	case span.Event == TraceEventNodeStart && err != nil:
		span.Event = TraceEventNodeError
	case span.Event == TraceEventNodeStart:
		span.Event = TraceEventNodeEnd
	case span.Event == TraceEventGraphStart:
		span.Event = TraceEventGraphEnd
	}

	t.notify(ctx, span)
}

// TraceEdgeTraversal records an edge traversal event
func (t *Tracer) TraceEdgeTraversal(ctx context.Context, fromNode, toNode string) {
	now := time.Now()
	span := &TraceSpan{
		ID:        uuid.NewString(),
		RunID:     RunIDFromContext(ctx),
		Event:     TraceEventEdgeTraversal,
		FromNode:  fromNode,
		ToNode:    toNode,
		StartTime: now,
		EndTime:   now,
	}

	if parentSpan := SpanFromContext(ctx); parentSpan != nil {
		span.ParentID = parentSpan.ID
	}

	t.record(ctx, span)
}

// Spans returns all collected spans ordered by start time.
func (t *Tracer) Spans() []*TraceSpan {
	t.mu.Lock()
	defer t.mu.Unlock()

	spans := make([]*TraceSpan, 0, len(t.spans))
	for _, s := range t.spans {
		spans = append(spans, s)
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].StartTime.Before(spans[j].StartTime)
	})
	return spans
}

// Clear removes all collected spans
func (t *Tracer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = make(map[string]*TraceSpan)
}

func (t *Tracer) record(ctx context.Context, span *TraceSpan) {
	t.mu.Lock()
	t.spans[span.ID] = span
	t.mu.Unlock()

	t.notify(ctx, span)
}

func (t *Tracer) notify(ctx context.Context, span *TraceSpan) {
	t.mu.Lock()
	hooks := make([]TraceHook, len(t.hooks))
	copy(hooks, t.hooks)
	t.mu.Unlock()

	for _, hook := range hooks {
		hook.OnEvent(ctx, span)
	}
}

type spanContextKey struct{}

type runIDContextKey struct{}

// ContextWithSpan returns a new context with the span stored
func ContextWithSpan(ctx context.Context, span *TraceSpan) context.Context {
	return context.WithValue(ctx, spanContextKey{}, span)
}

// SpanFromContext extracts a span from context
func SpanFromContext(ctx context.Context) *TraceSpan {
	if span, ok := ctx.Value(spanContextKey{}).(*TraceSpan); ok {
		return span
	}
	return nil
}

// WithRunID stores the run identifier in the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey{}, runID)
}

// RunIDFromContext returns the run identifier set by Invoke, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDContextKey{}).(string); ok {
		return id
	}
	return ""
}
