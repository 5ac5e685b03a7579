// Package gemini implements llm.Client on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/smallnest/mmresearcher/config"
	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/log"
)

// ContentGenerator is the part of the genai SDK the client uses.
// *genai.Models implements it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures New.
type Options struct {
	// APIKey defaults to $GEMINI_API_KEY, then $GOOGLE_API_KEY.
	APIKey string
	// BaseURL overrides the service endpoint.
	BaseURL    string
	HTTPClient *http.Client
	Logger     log.Logger
}

// Client talks to Gemini. It is safe for concurrent use.
type Client struct {
	models ContentGenerator
	logger log.Logger
}

var _ llm.Client = (*Client)(nil)

// New creates a Client with its own genai SDK client.
func New(ctx context.Context, opts Options) (*Client, error) {
	key := opts.APIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("%w: gemini: GEMINI_API_KEY is not set", config.ErrConfiguration)
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return NewWithGenerator(client.Models, opts.Logger), nil
}

// NewWithGenerator creates a Client on an existing content generator.
func NewWithGenerator(models ContentGenerator, logger log.Logger) *Client {
	return &Client{models: models, logger: log.OrDefault(logger)}
}

// GenerateText implements llm.TextGenerator. Grounded requests enable the
// Google Search tool and return the response's grounding metadata.
func (c *Client) GenerateText(ctx context.Context, req llm.TextRequest) (llm.TextResult, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.Grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.Format == llm.FormatJSON {
		cfg.ResponseMIMEType = "application/json"
		if req.Schema != nil {
			cfg.ResponseJsonSchema = req.Schema
		}
	}

	resp, err := c.models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return llm.TextResult{}, classify(llm.OpGenerateText, req.Model, err, nil)
	}
	if err := checkResponse(resp); err != nil {
		return llm.TextResult{}, llm.Upstream(llm.OpGenerateText, req.Model, err)
	}

	result := llm.TextResult{Text: resp.Text()}
	if req.Grounding {
		result.Grounding = groundingFrom(resp.Candidates[0].GroundingMetadata)
		if result.Grounding == nil {
			c.logger.Debug("gemini: %s returned no grounding metadata", req.Model)
		}
	}
	return result, nil
}

// AnalyzeVideo implements llm.VideoAnalyzer by passing the URI as file data.
// The service rejecting the URI fails with llm.ErrUnsupportedMedia.
func (c *Client) AnalyzeVideo(ctx context.Context, req llm.VideoRequest) (string, error) {
	parts := []*genai.Part{
		{FileData: &genai.FileData{FileURI: req.URI}},
		genai.NewPartFromText(req.Prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.models.GenerateContent(ctx, req.Model, contents, nil)
	if err != nil {
		return "", classify(llm.OpAnalyzeVideo, req.Model, err, llm.ErrUnsupportedMedia)
	}
	if err := checkResponse(resp); err != nil {
		return "", llm.Upstream(llm.OpAnalyzeVideo, req.Model, err)
	}
	return resp.Text(), nil
}

// SynthesizeSpeech implements llm.SpeechSynthesizer with multi-speaker TTS.
// The result is raw 16-bit PCM as returned by the service.
func (c *Client) SynthesizeSpeech(ctx context.Context, req llm.SpeechRequest) ([]byte, error) {
	lines, err := llm.PrepareScript(req.Script, req.Voices)
	if err != nil {
		return nil, err
	}
	speech, err := speechConfig(lines, req.Voices)
	if err != nil {
		return nil, &llm.ServiceError{Op: llm.OpSynthesizeSpeech, Model: req.Model, Kind: llm.ErrSpeechSynthesis, Err: err}
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig:       speech,
	}
	prompt := fmt.Sprintf("TTS the following conversation between %s:\n%s",
		strings.Join(speakerOrder(lines), " and "), llm.FormatScript(lines))

	resp, err := c.models.GenerateContent(ctx, req.Model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, classify(llm.OpSynthesizeSpeech, req.Model, err, llm.ErrSpeechSynthesis)
	}
	if err := checkResponse(resp); err != nil {
		return nil, &llm.ServiceError{Op: llm.OpSynthesizeSpeech, Model: req.Model, Kind: llm.ErrSpeechSynthesis, Err: err}
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return nil, &llm.ServiceError{
			Op: llm.OpSynthesizeSpeech, Model: req.Model, Kind: llm.ErrSpeechSynthesis,
			Err: errors.New("response contains no audio"),
		}
	}
	return pcm, nil
}

// classify maps an SDK error to the llm taxonomy. A 400 from the service is
// reported as badRequest when it is set.
func classify(op, model string, err error, badRequest error) error {
	if code, ok := statusCode(err); ok && code == http.StatusBadRequest && badRequest != nil {
		return &llm.ServiceError{Op: op, Model: model, Kind: badRequest, Err: err}
	}
	return llm.Upstream(op, model, err)
}

func statusCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func checkResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errors.New("empty response")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return errors.New("response has no candidates")
	}
	return nil
}
