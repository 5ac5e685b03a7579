package research

import (
	"context"
	"fmt"

	"github.com/smallnest/mmresearcher/config"
	"github.com/smallnest/mmresearcher/graph"
	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/log"
)

type options struct {
	planning    bool
	podcast     bool
	videoAnchor bool
	outputDir   string
	logger      log.Logger
	listeners   []graph.NodeListener[State]
	tracer      *graph.Tracer
}

// Option configures a Pipeline.
type Option func(*options)

// WithPlanning adds the planning stage before web research.
func WithPlanning() Option {
	return func(o *options) { o.planning = true }
}

// WithPodcast adds the podcast stage after the report.
func WithPodcast() Option {
	return func(o *options) { o.podcast = true }
}

// WithVideoAnchor lets a video URL stand in for a missing topic.
func WithVideoAnchor() Option {
	return func(o *options) { o.videoAnchor = true }
}

// WithOutputDir sets where the podcast audio is written. Default ".".
func WithOutputDir(dir string) Option {
	return func(o *options) { o.outputDir = dir }
}

// WithLogger sets the logger used by the stages.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithListener registers a listener for stage events.
func WithListener(l graph.NodeListener[State]) Option {
	return func(o *options) { o.listeners = append(o.listeners, l) }
}

// WithTracer records a span for every run and stage.
func WithTracer(t *graph.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// Pipeline is a compiled research workflow. It holds no per-run state and
// may run several inputs concurrently.
type Pipeline struct {
	runnable    *graph.StateRunnable[State]
	videoAnchor bool
}

// New builds the research graph:
//
//	[plan] -> search -> analyze_video | skip_video -> report -> [podcast]
//
// The client is used for every external call and cfg is read, never changed.
func New(client llm.Client, cfg config.Configuration, opts ...Option) (*Pipeline, error) {
	o := options{outputDir: "."}
	for _, opt := range opts {
		opt(&o)
	}
	if client == nil {
		return nil, fmt.Errorf("research: client is required")
	}

	st := &stages{
		client:      client,
		cfg:         cfg,
		logger:      log.OrDefault(o.logger),
		outputDir:   o.outputDir,
		videoAnchor: o.videoAnchor,
	}

	g := graph.NewStateGraph[State]()
	g.SetSchema(stateSchema())

	if o.planning {
		g.AddNode(NodePlan, "Plans the report sections", st.plan)
		g.AddEdge(NodePlan, NodeSearch)
		g.SetEntryPoint(NodePlan)
	} else {
		g.SetEntryPoint(NodeSearch)
	}

	g.AddNode(NodeSearch, "Researches the topic with web search grounding", st.search)
	g.AddNode(NodeAnalyzeVideo, "Analyzes the video content", st.analyzeVideo)
	g.AddNode(NodeSkipVideo, "Records that no video was analyzed", st.skipVideo)
	g.AddNode(NodeReport, "Synthesizes the research and renders the report", st.synthesizeReport)

	g.AddConditionalEdge(NodeSearch, routeVideo, NodeAnalyzeVideo, NodeSkipVideo)
	g.AddEdge(NodeAnalyzeVideo, NodeReport)
	g.AddEdge(NodeSkipVideo, NodeReport)

	if o.podcast {
		g.AddNode(NodePodcast, "Writes and voices a podcast discussion", st.podcast)
		g.AddEdge(NodeReport, NodePodcast)
		g.AddEdge(NodePodcast, graph.END)
	} else {
		g.AddEdge(NodeReport, graph.END)
	}

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("research: compile graph: %w", err)
	}
	for _, l := range o.listeners {
		runnable.AddListener(l)
	}
	if o.tracer != nil {
		runnable.SetTracer(o.tracer)
	}

	return &Pipeline{runnable: runnable, videoAnchor: o.videoAnchor}, nil
}

// Run executes the pipeline for one input. Input is validated before any
// external call. A stage failure aborts the run and is returned as a
// *graph.NodeError naming the stage and wrapping its cause; no partial output
// is returned.
func (p *Pipeline) Run(ctx context.Context, in Input) (Output, error) {
	state := newState(in)
	if err := p.validate(state); err != nil {
		return Output{}, err
	}

	final, err := p.runnable.Invoke(ctx, state)
	if err != nil {
		return Output{}, err
	}
	return final.output(), nil
}

func (p *Pipeline) validate(s State) error {
	switch {
	case s.Topic == "" && s.VideoURL == "":
		return fmt.Errorf("%w: a topic or a video URL is required", ErrValidation)
	case s.Topic == "" && !p.videoAnchor:
		return fmt.Errorf("%w: a topic is required", ErrValidation)
	}
	return nil
}

// Graph returns the underlying graph, for example to draw it.
func (p *Pipeline) Graph() *graph.StateGraph[State] {
	return p.runnable.Graph()
}

// Stages returns the stage names in execution order, including both
// branches of the video decision.
func (p *Pipeline) Stages() []string {
	return p.runnable.Order()
}
