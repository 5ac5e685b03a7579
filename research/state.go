package research

import (
	"strings"

	"github.com/smallnest/mmresearcher/graph"
	"github.com/smallnest/mmresearcher/llm"
)

// Section is one planned part of the report.
type Section struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Plan is the outline produced by the planning stage.
type Plan struct {
	Sections []Section `json:"sections"`
}

// State is threaded through the pipeline. Stages return partial updates of
// the same type: a nil field means "not written by this stage".
type State struct {
	// Input, never changed by stages.
	Topic    string
	VideoURL string

	Plan *Plan

	SearchText        *string
	SearchSourcesText *string
	Citations         *llm.Grounding
	// VideoText holds the video analysis, or NoVideoSentinel when the
	// analysis was skipped.
	VideoText *string

	SynthesisText *string

	Report           *string
	PodcastScript    *string
	PodcastAudioPath *string
}

// Input starts a run.
type Input struct {
	Topic    string
	VideoURL string
}

// Output is the result of a successful run. Podcast fields are empty when
// the podcast stage is disabled.
type Output struct {
	Report           string
	SynthesisText    string
	PodcastScript    string
	PodcastAudioPath string
	// Citations are the grounding sources of the web research, if any.
	Citations *llm.Grounding
}

func newState(in Input) State {
	return State{Topic: strings.TrimSpace(in.Topic), VideoURL: strings.TrimSpace(in.VideoURL)}
}

func (s State) output() Output {
	return Output{
		Report:           deref(s.Report),
		SynthesisText:    deref(s.SynthesisText),
		PodcastScript:    deref(s.PodcastScript),
		PodcastAudioPath: deref(s.PodcastAudioPath),
		Citations:        s.Citations,
	}
}

// mergeState assigns every non-nil artifact of update onto current and never
// clears a field. Input fields are seeded once, when the run starts from an
// empty state, and never overwritten afterwards.
func mergeState(current, update State) (State, error) {
	if current.Topic == "" && current.VideoURL == "" {
		current.Topic, current.VideoURL = update.Topic, update.VideoURL
	}
	if update.Plan != nil {
		current.Plan = update.Plan
	}
	if update.SearchText != nil {
		current.SearchText = update.SearchText
	}
	if update.SearchSourcesText != nil {
		current.SearchSourcesText = update.SearchSourcesText
	}
	if update.Citations != nil {
		current.Citations = update.Citations
	}
	if update.VideoText != nil {
		current.VideoText = update.VideoText
	}
	if update.SynthesisText != nil {
		current.SynthesisText = update.SynthesisText
	}
	if update.Report != nil {
		current.Report = update.Report
	}
	if update.PodcastScript != nil {
		current.PodcastScript = update.PodcastScript
	}
	if update.PodcastAudioPath != nil {
		current.PodcastAudioPath = update.PodcastAudioPath
	}
	return current, nil
}

func stateSchema() graph.StateSchemaTyped[State] {
	return graph.NewStructSchema(State{}, mergeState)
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
