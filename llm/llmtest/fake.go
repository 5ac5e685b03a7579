// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/smallnest/mmresearcher/llm"
)

// Call records one request made to a Fake.
type Call struct {
	Op     string
	Text   llm.TextRequest
	Video  llm.VideoRequest
	Speech llm.SpeechRequest
}

// Fake is an in-memory llm.Client. It returns canned responses and records
// every call. The zero value answers every text request with an empty result.
type Fake struct {
	// TextFunc, when set, answers GenerateText.
	TextFunc func(ctx context.Context, req llm.TextRequest) (llm.TextResult, error)
	// TextResponses are returned by GenerateText in order; the last one repeats.
	TextResponses []llm.TextResult
	TextErr       error

	VideoText string
	VideoErr  error

	Audio     []byte
	SpeechErr error

	mu      sync.Mutex
	calls   []Call
	textIdx int
}

var _ llm.Client = (*Fake)(nil)

// ErrNoResponse is returned when a Fake has nothing scripted for a call.
var ErrNoResponse = errors.New("llmtest: no scripted response")

func (f *Fake) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

// GenerateText implements llm.TextGenerator.
func (f *Fake) GenerateText(ctx context.Context, req llm.TextRequest) (llm.TextResult, error) {
	f.record(Call{Op: llm.OpGenerateText, Text: req})
	if err := ctx.Err(); err != nil {
		return llm.TextResult{}, err
	}
	if f.TextFunc != nil {
		return f.TextFunc(ctx, req)
	}
	if f.TextErr != nil {
		return llm.TextResult{}, f.TextErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.TextResponses) == 0 {
		return llm.TextResult{}, nil
	}
	res := f.TextResponses[min(f.textIdx, len(f.TextResponses)-1)]
	f.textIdx++
	return res, nil
}

// AnalyzeVideo implements llm.VideoAnalyzer.
func (f *Fake) AnalyzeVideo(ctx context.Context, req llm.VideoRequest) (string, error) {
	f.record(Call{Op: llm.OpAnalyzeVideo, Video: req})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.VideoErr != nil {
		return "", f.VideoErr
	}
	return f.VideoText, nil
}

// SynthesizeSpeech implements llm.SpeechSynthesizer. Like the real backends
// it rejects scripts with unknown speakers before producing audio.
func (f *Fake) SynthesizeSpeech(ctx context.Context, req llm.SpeechRequest) ([]byte, error) {
	f.record(Call{Op: llm.OpSynthesizeSpeech, Speech: req})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := llm.PrepareScript(req.Script, req.Voices); err != nil {
		return nil, err
	}
	if f.SpeechErr != nil {
		return nil, f.SpeechErr
	}
	if f.Audio == nil {
		return nil, ErrNoResponse
	}
	out := make([]byte, len(f.Audio))
	copy(out, f.Audio)
	return out, nil
}

// Calls returns a copy of every recorded call in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Ops returns the operation name of every recorded call in order.
func (f *Fake) Ops() []string {
	calls := f.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// TextRequests returns the recorded GenerateText requests in order.
func (f *Fake) TextRequests() []llm.TextRequest {
	var reqs []llm.TextRequest
	for _, c := range f.Calls() {
		if c.Op == llm.OpGenerateText {
			reqs = append(reqs, c.Text)
		}
	}
	return reqs
}
