package research

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/mmresearcher/config"
	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/llm/llmtest"
	"github.com/smallnest/mmresearcher/log"
)

func TestMergeState(t *testing.T) {
	current := State{Topic: "t", VideoURL: "v", SearchText: ptr("search"), SynthesisText: ptr("old")}

	got, err := mergeState(current, State{Topic: "other", SynthesisText: ptr("fresh"), Report: ptr("r")})
	require.NoError(t, err)

	assert.Equal(t, "t", got.Topic, "input fields are never overwritten")
	assert.Equal(t, "v", got.VideoURL)
	assert.Equal(t, "search", *got.SearchText, "unset fields are kept")
	assert.Equal(t, "fresh", *got.SynthesisText)
	assert.Equal(t, "r", *got.Report)

	got, err = mergeState(got, State{})
	require.NoError(t, err)
	assert.NotNil(t, got.SearchText, "an empty update clears nothing")
	assert.NotNil(t, got.Report)
}

func TestMergeState_EmptyStringIsAValue(t *testing.T) {
	got, err := mergeState(State{Topic: "t"}, State{SearchSourcesText: ptr("")})
	require.NoError(t, err)
	require.NotNil(t, got.SearchSourcesText)
	assert.Equal(t, "", *got.SearchSourcesText)
}

func TestShouldAnalyzeVideo(t *testing.T) {
	assert.Equal(t, NeedsVideoAnalysis, ShouldAnalyzeVideo(State{Topic: "t", VideoURL: "http://v"}))
	assert.Equal(t, SkipToReport, ShouldAnalyzeVideo(State{Topic: "t"}))

	assert.Equal(t, NodeAnalyzeVideo, routeVideo(context.Background(), State{VideoURL: "http://v"}))
	assert.Equal(t, NodeSkipVideo, routeVideo(context.Background(), State{}))
	assert.Equal(t, "VideoRoute(7)", VideoRoute(7).String())
}

func TestNodeFor(t *testing.T) {
	assert.Equal(t, NodeAnalyzeVideo, nodeFor(NeedsVideoAnalysis))
	assert.Equal(t, NodeSkipVideo, nodeFor(SkipToReport))
	assert.Equal(t, "", nodeFor(VideoRoute(7)), "unknown routes map to no node")

	p, err := New(&llmtest.Fake{}, config.Default(), WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)
	for _, target := range []string{NodeAnalyzeVideo, NodeSkipVideo} {
		assert.Contains(t, p.Stages(), target)
	}
	assert.NotContains(t, p.Stages(), "")
}

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sections int
		wantErr  bool
	}{
		{"valid", `{"sections":[{"title":"A","description":"a"},{"title":"B","description":"b"},{"title":"C","description":"c"}]}`, 3, false},
		{"code fence", "```json\n{\"sections\":[{\"title\":\"A\",\"description\":\"a\"}]}\n```", 1, false},
		{"trailing comma repaired", `{"sections":[{"title":"A","description":"a"},]}`, 1, false},
		{"unquoted keys repaired", `{sections:[{title:"A",description:"a"}]}`, 1, false},
		{"truncated repaired", `{"sections":[{"title":"A","description":"a"}`, 1, false},
		{"no sections", `{"sections":[]}`, 0, true},
		{"blank title", `{"sections":[{"title":"  ","description":"a"}]}`, 0, true},
		{"not json", `I cannot help with that.`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := parsePlan(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPlanning)
				return
			}
			require.NoError(t, err)
			assert.Len(t, plan.Sections, tt.sections)
			assert.Equal(t, "A", plan.Sections[0].Title)
		})
	}
}

func TestPodcastFilename(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Quantum Computing", "research_podcast_Quantum_Computing.wav"},
		{"AI/ML: the future?", "research_podcast_AIML_the_future.wav"},
		{"  padded  ", "research_podcast___padded.wav"},
		{"self-driving_cars", "research_podcast_self-driving_cars.wav"},
		{"???", "research_podcast_podcast.wav"},
		{"", "research_podcast_podcast.wav"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PodcastFilename(tt.topic), tt.topic)
	}
}

func TestSearchPrompt(t *testing.T) {
	assert.Equal(t, "Research this topic and give me an overview: X", searchPrompt("X", nil))

	p := searchPrompt("X", &Plan{Sections: []Section{{Title: "A", Description: "a"}, {Title: "B", Description: "b"}}})
	assert.Contains(t, p, "Research this topic and give me an overview: X\n\n")
	assert.Contains(t, p, "- A: a\n- B: b")
}

func TestSynthesizeReport_FreshSynthesisWins(t *testing.T) {
	client := &llmtest.Fake{TextResponses: []llm.TextResult{{Text: "fresh"}}}
	st := &stages{client: client, cfg: config.Default(), logger: &log.NoOpLogger{}}

	update, err := st.synthesizeReport(context.Background(), State{Topic: "t", SynthesisText: ptr("stale")})
	require.NoError(t, err)

	assert.Equal(t, "fresh", *update.SynthesisText)
	assert.Contains(t, *update.Report, "## Executive Summary\nfresh\n")
	assert.NotContains(t, *update.Report, "stale")
}

func TestSynthesizeReport_RequiresTopic(t *testing.T) {
	client := &llmtest.Fake{}
	st := &stages{client: client, cfg: config.Default(), logger: &log.NoOpLogger{}}

	_, err := st.synthesizeReport(context.Background(), State{VideoURL: "http://v"})
	assert.ErrorIs(t, err, ErrReportGeneration)
	assert.Empty(t, client.Calls())
}

func TestSearch_NoGroundingIsSuccess(t *testing.T) {
	client := &llmtest.Fake{TextResponses: []llm.TextResult{{Text: "overview"}}}
	st := &stages{client: client, cfg: config.Default(), logger: &log.NoOpLogger{}}

	update, err := st.search(context.Background(), State{Topic: "t"})
	require.NoError(t, err)
	assert.Equal(t, "overview", *update.SearchText)
	require.NotNil(t, update.SearchSourcesText)
	assert.Equal(t, "", *update.SearchSourcesText)
	assert.Nil(t, update.Citations)
}

func TestSearch_InvalidGrounding(t *testing.T) {
	client := &llmtest.Fake{TextResponses: []llm.TextResult{{
		Text:      "overview",
		Grounding: &llm.Grounding{Supports: []llm.Support{{Text: "x", SourceIndices: []int{4}}}},
	}}}
	st := &stages{client: client, cfg: config.Default(), logger: &log.NoOpLogger{}}

	_, err := st.search(context.Background(), State{Topic: "t"})
	assert.ErrorIs(t, err, llm.ErrUpstreamService)
}
