package llm

import (
	"context"
	"errors"
	"time"

	"github.com/smallnest/mmresearcher/log"
)

// WithTimeout bounds every call of c by d. A call that runs out of time
// fails as an upstream service error. d <= 0 returns c unchanged.
func WithTimeout(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return &timeoutClient{next: c, timeout: d}
}

type timeoutClient struct {
	next    Client
	timeout time.Duration
}

func (t *timeoutClient) classify(op, model string, err error) error {
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return Upstream(op, model, err)
	}
	return err
}

func (t *timeoutClient) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	res, err := t.next.GenerateText(ctx, req)
	return res, t.classify(OpGenerateText, req.Model, err)
}

func (t *timeoutClient) AnalyzeVideo(ctx context.Context, req VideoRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	text, err := t.next.AnalyzeVideo(ctx, req)
	return text, t.classify(OpAnalyzeVideo, req.Model, err)
}

func (t *timeoutClient) SynthesizeSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	pcm, err := t.next.SynthesizeSpeech(ctx, req)
	return pcm, t.classify(OpSynthesizeSpeech, req.Model, err)
}

// WithLogging logs every call of c with its model and latency.
func WithLogging(c Client, logger log.Logger) Client {
	return &loggingClient{next: c, logger: log.OrDefault(logger)}
}

type loggingClient struct {
	next   Client
	logger log.Logger
}

func (l *loggingClient) done(op, model string, start time.Time, err error) {
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		l.logger.Error("%s model=%s failed after %s: %v", op, model, elapsed, err)
		return
	}
	l.logger.Info("%s model=%s finished in %s", op, model, elapsed)
}

func (l *loggingClient) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	l.logger.Debug("%s model=%s temperature=%.2f grounding=%v format=%s", OpGenerateText, req.Model, req.Temperature, req.Grounding, req.Format)
	start := time.Now()
	res, err := l.next.GenerateText(ctx, req)
	l.done(OpGenerateText, req.Model, start, err)
	if err == nil && res.Grounding != nil {
		l.logger.Debug("%s returned %d sources", OpGenerateText, len(res.Grounding.Sources))
	}
	return res, err
}

func (l *loggingClient) AnalyzeVideo(ctx context.Context, req VideoRequest) (string, error) {
	l.logger.Debug("%s model=%s uri=%s", OpAnalyzeVideo, req.Model, req.URI)
	start := time.Now()
	text, err := l.next.AnalyzeVideo(ctx, req)
	l.done(OpAnalyzeVideo, req.Model, start, err)
	return text, err
}

func (l *loggingClient) SynthesizeSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	l.logger.Debug("%s model=%s voices=%d", OpSynthesizeSpeech, req.Model, len(req.Voices))
	start := time.Now()
	pcm, err := l.next.SynthesizeSpeech(ctx, req)
	l.done(OpSynthesizeSpeech, req.Model, start, err)
	if err == nil {
		l.logger.Debug("%s returned %d bytes", OpSynthesizeSpeech, len(pcm))
	}
	return pcm, err
}
