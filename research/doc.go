// Package research runs the multi-modal research pipeline.
//
// A run takes a topic and optionally a video URL, researches the topic with
// a search-grounded model call, analyzes the video when one is given,
// synthesizes both into a markdown report and can turn the findings into a
// two-speaker podcast written as a WAV file.
//
//	p, err := research.New(client, cfg, research.WithPodcast())
//	if err != nil {
//		return err
//	}
//	out, err := p.Run(ctx, research.Input{Topic: "Quantum Computing"})
//
// Stages run one at a time on a graph.StateGraph[State]. Each stage returns
// only the State fields it owns and the graph merges them into the running
// state. When no video is given the video stage is replaced by one that
// records NoVideoSentinel.
//
// Errors keep their cause: the failing stage is available through
// errors.As with *graph.NodeError, and the kind through errors.Is with
// ErrValidation, ErrPlanning, ErrReportGeneration or the llm package
// sentinels.
package research
