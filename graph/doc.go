// Package graph provides a small typed state-graph engine for building
// multi-step pipelines out of plain Go functions.
//
// A StateGraph[S] holds named nodes, static edges and conditional edges. Each
// node is a function from the running state to a result of the same type;
// the graph's StateSchemaTyped decides how that result is merged back into
// the running state, which lets a node return only the fields it produces.
//
// # Execution model
//
// Compile validates the structure before anything runs:
//
//   - the entry point must be set and exist
//   - every edge and every conditional target must name a node or END
//   - every node has exactly one outgoing route, static or conditional
//   - the graph must be acyclic
//
// Invoke then walks the graph from the entry point, one node at a time. A
// conditional edge is evaluated once per visit and must return one of the
// targets declared with AddConditionalEdge. The first node error aborts the
// run and is returned as a *NodeError that unwraps to the original error.
// Nothing is retried and no partial state is returned on failure.
//
// # Example
//
//	type Doc struct {
//		Text    string
//		Summary string
//	}
//
//	g := graph.NewStateGraph[Doc]()
//	g.AddNode("summarize", "Summarize text", func(ctx context.Context, d Doc) (Doc, error) {
//		return Doc{Summary: firstSentence(d.Text)}, nil
//	})
//	g.SetEntryPoint("summarize")
//	g.AddEdge("summarize", graph.END)
//	g.SetSchema(graph.NewStructSchema(Doc{}, mergeDoc))
//
//	runnable, err := g.Compile()
//	if err != nil {
//		return err
//	}
//	out, err := runnable.Invoke(ctx, Doc{Text: input})
//
// # Observability
//
// Listeners registered with AddListener receive start, complete and error
// events for every node. A Tracer records graph, node and edge spans, and
// Exporter renders the graph as Mermaid or DOT.
package graph
