package llm

import (
	"context"
	"fmt"
)

type composite struct {
	TextGenerator
	VideoAnalyzer
	SpeechSynthesizer
}

// Compose builds a Client from separate capabilities. A nil video analyzer or
// speech synthesizer is replaced by Unsupported, so the resulting client
// fails those calls with the matching error kind instead of panicking.
func Compose(text TextGenerator, video VideoAnalyzer, speech SpeechSynthesizer) Client {
	if video == nil {
		video = Unsupported{}
	}
	if speech == nil {
		speech = Unsupported{}
	}
	return composite{TextGenerator: text, VideoAnalyzer: video, SpeechSynthesizer: speech}
}

// Unsupported is a backend stand-in for capabilities it lacks.
type Unsupported struct {
	Backend string
}

func (u Unsupported) name() string {
	if u.Backend == "" {
		return "backend"
	}
	return u.Backend
}

// AnalyzeVideo always fails with ErrUnsupportedMedia.
func (u Unsupported) AnalyzeVideo(ctx context.Context, req VideoRequest) (string, error) {
	return "", &ServiceError{
		Op:    OpAnalyzeVideo,
		Model: req.Model,
		Kind:  ErrUnsupportedMedia,
		Err:   fmt.Errorf("%s cannot analyze video", u.name()),
	}
}

// SynthesizeSpeech always fails with ErrSpeechSynthesis.
func (u Unsupported) SynthesizeSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	return nil, &ServiceError{
		Op:    OpSynthesizeSpeech,
		Model: req.Model,
		Kind:  ErrSpeechSynthesis,
		Err:   fmt.Errorf("%s cannot synthesize speech", u.name()),
	}
}
