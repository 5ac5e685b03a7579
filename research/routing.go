package research

import (
	"context"
	"fmt"
)

// Node names of the research graph.
const (
	NodePlan         = "plan"
	NodeSearch       = "search"
	NodeAnalyzeVideo = "analyze_video"
	NodeSkipVideo    = "skip_video"
	NodeReport       = "report"
	NodePodcast      = "podcast"
)

// NoVideoSentinel is stored as the video analysis when no video was given.
// It marks an intentional skip, unlike an empty successful analysis.
const NoVideoSentinel = "No video provided for analysis."

// VideoRoute is the decision taken after web research.
type VideoRoute int

const (
	// SkipToReport records the sentinel and goes on to the report.
	SkipToReport VideoRoute = iota
	// NeedsVideoAnalysis analyzes the video before the report.
	NeedsVideoAnalysis
)

func (r VideoRoute) String() string {
	switch r {
	case NeedsVideoAnalysis:
		return "NeedsVideoAnalysis"
	case SkipToReport:
		return "SkipToReport"
	default:
		return fmt.Sprintf("VideoRoute(%d)", int(r))
	}
}

// ShouldAnalyzeVideo decides whether the video analysis stage runs.
func ShouldAnalyzeVideo(s State) VideoRoute {
	if s.VideoURL != "" {
		return NeedsVideoAnalysis
	}
	return SkipToReport
}

// routeVideo is the conditional edge leaving the search node.
func routeVideo(ctx context.Context, s State) string {
	return nodeFor(ShouldAnalyzeVideo(s))
}

// nodeFor maps every VideoRoute to its node. It returns "" for a route
// without a node; "" is never a declared target, so the graph fails the run
// with graph.ErrInvalidRoute.
func nodeFor(route VideoRoute) string {
	switch route {
	case NeedsVideoAnalysis:
		return NodeAnalyzeVideo
	case SkipToReport:
		return NodeSkipVideo
	default:
		return ""
	}
}
