package llm_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/llm/llmtest"
	"github.com/smallnest/mmresearcher/log"
)

func TestCompose_UnsupportedCapabilities(t *testing.T) {
	fake := &llmtest.Fake{TextResponses: []llm.TextResult{{Text: "hello"}}}
	client := llm.Compose(fake, nil, nil)

	res, err := client.GenerateText(context.Background(), llm.TextRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)

	_, err = client.AnalyzeVideo(context.Background(), llm.VideoRequest{URI: "http://v"})
	assert.ErrorIs(t, err, llm.ErrUnsupportedMedia)

	_, err = client.SynthesizeSpeech(context.Background(), llm.SpeechRequest{Script: "Mike: hi"})
	assert.ErrorIs(t, err, llm.ErrSpeechSynthesis)
}

func TestServiceError_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := llm.Upstream(llm.OpGenerateText, "m", cause)

	assert.ErrorIs(t, err, llm.ErrUpstreamService)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "generate_text (m)")

	var se *llm.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "m", se.Model)

	// already classified errors pass through unchanged
	assert.Same(t, err, llm.Upstream(llm.OpGenerateText, "m", err))
	assert.Nil(t, llm.Upstream(llm.OpGenerateText, "m", nil))
}

func TestWithTimeout(t *testing.T) {
	slow := &llmtest.Fake{
		TextFunc: func(ctx context.Context, req llm.TextRequest) (llm.TextResult, error) {
			<-ctx.Done()
			return llm.TextResult{}, ctx.Err()
		},
	}
	client := llm.WithTimeout(slow, 10*time.Millisecond)

	_, err := client.GenerateText(context.Background(), llm.TextRequest{Model: "m"})
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrUpstreamService)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Same(t, llm.Client(slow), llm.WithTimeout(slow, 0))
}

func TestWithTimeout_PassesThroughFastCalls(t *testing.T) {
	fake := &llmtest.Fake{VideoText: "video summary"}
	client := llm.WithTimeout(fake, time.Second)

	text, err := client.AnalyzeVideo(context.Background(), llm.VideoRequest{URI: "http://v"})
	require.NoError(t, err)
	assert.Equal(t, "video summary", text)
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewCustomLogger(&buf, log.LogLevelDebug)

	fake := &llmtest.Fake{
		TextResponses: []llm.TextResult{{Text: "ok", Grounding: &llm.Grounding{Sources: []llm.Source{{Index: 1}}}}},
		VideoErr:      errors.New("boom"),
	}
	client := llm.WithLogging(fake, logger)

	_, err := client.GenerateText(context.Background(), llm.TextRequest{Model: "search-model", Grounding: true})
	require.NoError(t, err)
	_, err = client.AnalyzeVideo(context.Background(), llm.VideoRequest{Model: "video-model"})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "generate_text model=search-model finished")
	assert.Contains(t, out, "returned 1 sources")
	assert.Contains(t, out, "[ERROR] analyze_video model=video-model failed")
	assert.Equal(t, 2, strings.Count(out, "model="+"search-model"))
}
