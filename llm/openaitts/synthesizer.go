// Package openaitts implements llm.SpeechSynthesizer on the OpenAI speech
// endpoint.
package openaitts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/log"
)

// DefaultModel is used when a request names no model.
const DefaultModel = openai.TTSModel1

// Synthesizer renders a script one line at a time, each with the speaker's
// voice, and concatenates the PCM in script order. The endpoint returns
// 24 kHz 16-bit mono PCM.
type Synthesizer struct {
	client *openai.Client
	logger log.Logger
}

var _ llm.SpeechSynthesizer = (*Synthesizer)(nil)

// New creates a Synthesizer. baseURL may be empty for the public API.
func New(token, baseURL string, logger log.Logger) *Synthesizer {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewWithClient(openai.NewClientWithConfig(cfg), logger)
}

// NewWithClient creates a Synthesizer on an existing go-openai client.
func NewWithClient(client *openai.Client, logger log.Logger) *Synthesizer {
	return &Synthesizer{client: client, logger: log.OrDefault(logger)}
}

// SynthesizeSpeech implements llm.SpeechSynthesizer.
func (s *Synthesizer) SynthesizeSpeech(ctx context.Context, req llm.SpeechRequest) ([]byte, error) {
	lines, err := llm.PrepareScript(req.Script, req.Voices)
	if err != nil {
		return nil, err
	}

	model := openai.SpeechModel(req.Model)
	if model == "" {
		model = DefaultModel
	}

	var pcm bytes.Buffer
	for i, line := range lines {
		resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          model,
			Input:          line.Text,
			Voice:          openai.SpeechVoice(req.Voices[line.Speaker]),
			ResponseFormat: openai.SpeechResponseFormatPcm,
		})
		if err != nil {
			return nil, classify(string(model), i, err)
		}
		_, err = io.Copy(&pcm, resp)
		resp.Close()
		if err != nil {
			return nil, llm.Upstream(llm.OpSynthesizeSpeech, string(model), fmt.Errorf("line %d: read audio: %w", i+1, err))
		}
		s.logger.Debug("openaitts: line %d/%d (%s) done", i+1, len(lines), line.Speaker)
	}
	return pcm.Bytes(), nil
}

func classify(model string, line int, err error) error {
	err = fmt.Errorf("line %d: %w", line+1, err)

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusBadRequest {
		return &llm.ServiceError{Op: llm.OpSynthesizeSpeech, Model: model, Kind: llm.ErrSpeechSynthesis, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusBadRequest {
		return &llm.ServiceError{Op: llm.OpSynthesizeSpeech, Model: model, Kind: llm.ErrSpeechSynthesis, Err: err}
	}
	return llm.Upstream(llm.OpSynthesizeSpeech, model, err)
}
