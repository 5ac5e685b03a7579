// Package llm defines the generative service capability used by the
// research pipeline.
//
// The capability is split into three small interfaces, TextGenerator,
// VideoAnalyzer and SpeechSynthesizer, that together form a Client. Backends
// live in sub-packages:
//
//   - gemini: Google Gemini through google.golang.org/genai, with search
//     grounding, video understanding and multi-speaker speech.
//   - langchain: any langchaingo llms.Model as a TextGenerator.
//   - openaitts: the OpenAI speech endpoint as a SpeechSynthesizer.
//
// Use Compose to assemble a Client from parts, and WithTimeout and
// WithLogging to decorate it.
//
// # Errors
//
// Failures carry one of ErrUnsupportedMedia, ErrSpeechSynthesis or
// ErrUpstreamService, usually inside a *ServiceError that also keeps the
// backend's own error:
//
//	var apiErr genai.APIError
//	if errors.Is(err, llm.ErrUnsupportedMedia) && errors.As(err, &apiErr) {
//		fmt.Println(apiErr.Message)
//	}
//
// Calls are never retried here. Retry policy belongs to the caller.
package llm
