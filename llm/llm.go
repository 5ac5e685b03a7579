package llm

import "context"

// Operation names used in errors and log lines.
const (
	OpGenerateText     = "generate_text"
	OpAnalyzeVideo     = "analyze_video"
	OpSynthesizeSpeech = "synthesize_speech"
)

// Format selects the shape of a text response.
type Format int

const (
	// FormatText asks for free-form text.
	FormatText Format = iota
	// FormatJSON asks for a JSON document, optionally constrained by TextRequest.Schema.
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// TextRequest is a single text generation call.
type TextRequest struct {
	Prompt      string
	Model       string
	Temperature float64

	// Grounding enables web search grounding. Backends that cannot ground
	// answer without sources.
	Grounding bool
	// SearchQuery is what grounding searches for. Empty means Prompt.
	SearchQuery string

	Format Format
	// Schema is a JSON schema for FormatJSON responses. Optional.
	Schema map[string]any
}

// TextResult is the answer to a TextRequest.
type TextResult struct {
	Text string
	// Grounding is nil when the service returned no grounding metadata.
	Grounding *Grounding
}

// VideoRequest asks a model to describe the content behind a video URI.
type VideoRequest struct {
	URI    string
	Prompt string
	Model  string
}

// SpeechRequest asks for multi-speaker speech. Script lines are attributed
// "Speaker: utterance" and Voices maps every speaker to a voice identifier.
type SpeechRequest struct {
	Script string
	Voices map[string]string
	Model  string
}

// TextGenerator produces text, optionally grounded in web search results.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (TextResult, error)
}

// VideoAnalyzer produces a textual analysis of a video.
type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, req VideoRequest) (string, error)
}

// SpeechSynthesizer turns a dialogue script into raw PCM audio bytes.
type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// Client is the full generative service capability used by the research pipeline.
type Client interface {
	TextGenerator
	VideoAnalyzer
	SpeechSynthesizer
}
