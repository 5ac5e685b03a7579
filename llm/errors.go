package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMedia is returned when the service cannot process a media reference.
	ErrUnsupportedMedia = errors.New("unsupported media")
	// ErrSpeechSynthesis is returned when a script cannot be turned into audio.
	ErrSpeechSynthesis = errors.New("speech synthesis failed")
	// ErrUpstreamService is returned for any other failure of the generative service.
	ErrUpstreamService = errors.New("upstream service error")
)

// ServiceError reports a failed call to the generative service. It matches
// both its Kind sentinel and the underlying cause with errors.Is and errors.As.
type ServiceError struct {
	Op    string
	Model string
	// Kind is one of ErrUnsupportedMedia, ErrSpeechSynthesis or ErrUpstreamService.
	Kind error
	Err  error
}

func (e *ServiceError) Error() string {
	msg := e.Op
	if e.Model != "" {
		msg += " (" + e.Model + ")"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", msg, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Upstream wraps err as an unclassified service failure unless it already
// carries one of the package sentinels.
func Upstream(op, model string, err error) error {
	if err == nil || Classified(err) {
		return err
	}
	return &ServiceError{Op: op, Model: model, Kind: ErrUpstreamService, Err: err}
}

// Classified reports whether err already carries a service error kind.
func Classified(err error) bool {
	return errors.Is(err, ErrUnsupportedMedia) ||
		errors.Is(err, ErrSpeechSynthesis) ||
		errors.Is(err, ErrUpstreamService)
}
