package research

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/smallnest/mmresearcher/audio"
	"github.com/smallnest/mmresearcher/config"
	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/log"
	"github.com/smallnest/mmresearcher/report"
)

// stages holds what every stage function needs. Each stage reads the running
// state and returns a partial update holding only the fields it owns.
type stages struct {
	client      llm.Client
	cfg         config.Configuration
	logger      log.Logger
	outputDir   string
	videoAnchor bool
}

// subject is what the run is about: the topic, or the video URL when the
// video may stand in for a missing topic.
func (st *stages) subject(s State) string {
	if s.Topic == "" && st.videoAnchor {
		return s.VideoURL
	}
	return s.Topic
}

func (st *stages) plan(ctx context.Context, s State) (State, error) {
	subject := st.subject(s)
	if subject == "" {
		return State{}, fmt.Errorf("%w: a topic is required to plan a report", ErrValidation)
	}

	res, err := st.client.GenerateText(ctx, llm.TextRequest{
		Prompt:      fmt.Sprintf(planPrompt, subject),
		Model:       st.cfg.PlanModel,
		Temperature: st.cfg.PlanTemperature,
		Format:      llm.FormatJSON,
		Schema:      planSchema,
	})
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrPlanning, err)
	}

	plan, err := parsePlan(res.Text)
	if err != nil {
		return State{}, err
	}
	st.logger.Info("planned %d sections for %q", len(plan.Sections), subject)
	return State{Plan: plan}, nil
}

func (st *stages) search(ctx context.Context, s State) (State, error) {
	subject := st.subject(s)
	if subject == "" {
		return State{}, fmt.Errorf("%w: a topic is required for web research", ErrValidation)
	}

	res, err := st.client.GenerateText(ctx, llm.TextRequest{
		Prompt:      searchPrompt(subject, s.Plan),
		Model:       st.cfg.SearchModel,
		Temperature: st.cfg.SearchTemperature,
		Grounding:   true,
		SearchQuery: subject,
	})
	if err != nil {
		return State{}, err
	}
	if err := res.Grounding.Validate(); err != nil {
		return State{}, err
	}

	sources := res.Grounding.FormatSources()
	if sources == "" {
		st.logger.Debug("web research for %q returned no sources", subject)
	} else {
		st.logger.Info("web research for %q cited %d sources", subject, len(res.Grounding.Sources))
	}

	return State{
		SearchText:        ptr(res.Text),
		SearchSourcesText: ptr(sources),
		Citations:         res.Grounding,
	}, nil
}

func (st *stages) analyzeVideo(ctx context.Context, s State) (State, error) {
	text, err := st.client.AnalyzeVideo(ctx, llm.VideoRequest{
		URI:    s.VideoURL,
		Prompt: videoPrompt(st.subject(s)),
		Model:  st.cfg.VideoModel,
	})
	if err != nil {
		return State{}, err
	}
	return State{VideoText: ptr(text)}, nil
}

func (st *stages) skipVideo(ctx context.Context, s State) (State, error) {
	st.logger.Debug("no video given, skipping video analysis")
	return State{VideoText: ptr(NoVideoSentinel)}, nil
}

// synthesizeReport merges the research into one narrative and renders the
// markdown report. The synthesis computed here is the one rendered, whatever
// the state held before.
func (st *stages) synthesizeReport(ctx context.Context, s State) (State, error) {
	subject := st.subject(s)
	if subject == "" {
		return State{}, fmt.Errorf("%w: a topic is required", ErrReportGeneration)
	}

	res, err := st.client.GenerateText(ctx, llm.TextRequest{
		Prompt:      synthesisPromptFor(subject, deref(s.SearchText), deref(s.VideoText)),
		Model:       st.cfg.SynthesisModel,
		Temperature: st.cfg.SynthesisTemperature,
	})
	if err != nil {
		return State{}, err
	}

	md := report.Render(report.Fields{
		Topic:     subject,
		Synthesis: res.Text,
		VideoURL:  s.VideoURL,
		Sources:   deref(s.SearchSourcesText),
	})
	return State{SynthesisText: ptr(res.Text), Report: ptr(md)}, nil
}

func (st *stages) podcast(ctx context.Context, s State) (State, error) {
	subject := st.subject(s)

	res, err := st.client.GenerateText(ctx, llm.TextRequest{
		Prompt:      podcastPromptFor(subject, deref(s.SearchText), deref(s.VideoText)),
		Model:       st.cfg.SynthesisModel,
		Temperature: st.cfg.PodcastScriptTemperature,
	})
	if err != nil {
		return State{}, err
	}
	script := res.Text

	pcm, err := st.client.SynthesizeSpeech(ctx, llm.SpeechRequest{
		Script: script,
		Voices: st.cfg.Voices(),
		Model:  st.cfg.TTSModel,
	})
	if err != nil {
		return State{}, err
	}

	format := audio.Format{
		Channels:    st.cfg.TTSChannels,
		SampleRate:  st.cfg.TTSRate,
		SampleWidth: st.cfg.TTSSampleWidth,
	}
	path := filepath.Join(st.outputDir, PodcastFilename(subject))
	if err := audio.WriteWAV(path, pcm, format); err != nil {
		if errors.Is(err, audio.ErrInvalidFormat) {
			return State{}, fmt.Errorf("%w: %w", llm.ErrSpeechSynthesis, err)
		}
		return State{}, fmt.Errorf("write podcast audio: %w", err)
	}
	st.logger.Info("podcast audio written to %s (%s)", path, audio.Duration(len(pcm), format).Round(100*time.Millisecond))

	return State{PodcastScript: ptr(script), PodcastAudioPath: ptr(path)}, nil
}
