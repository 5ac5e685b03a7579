package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrConfiguration is returned when a tunable cannot be parsed, is outside its
// declared bounds, or is not a recognized option.
var ErrConfiguration = errors.New("configuration error")

// Kind is the value type of an option.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	default:
		return "string"
	}
}

// Option describes one recognized configuration field.
type Option struct {
	// Name is the field name used in override mappings, e.g. "search_temperature".
	Name string
	// Env is the environment variable that overrides the field.
	Env string

	Kind    Kind
	Default string
	Help    string

	// Min and Max bound numeric options (inclusive).
	Min, Max float64

	set func(c *Configuration, raw string) error
}

// Configuration is the resolved, read-only set of per-run tunables. It is a
// plain value and is safe to share between concurrent runs.
type Configuration struct {
	PlanModel      string
	SearchModel    string
	SynthesisModel string
	VideoModel     string
	TTSModel       string

	PlanTemperature          float64
	SearchTemperature        float64
	SynthesisTemperature     float64
	PodcastScriptTemperature float64

	MikeVoice  string
	SarahVoice string

	TTSChannels    int
	TTSRate        int
	TTSSampleWidth int

	RequestTimeoutSeconds int
}

// Speaker names used in podcast scripts. They key the voice map.
const (
	SpeakerMike  = "Mike"
	SpeakerSarah = "Sarah"
)

// Voices returns the speaker to voice identifier map for speech synthesis.
func (c Configuration) Voices() map[string]string {
	return map[string]string{
		SpeakerMike:  c.MikeVoice,
		SpeakerSarah: c.SarahVoice,
	}
}

// RequestTimeout is the per-call deadline for the generative service, or 0 for none.
func (c Configuration) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func stringOption(name, def, help string, field func(*Configuration) *string) Option {
	return Option{
		Name: name, Env: strings.ToUpper(name), Kind: KindString, Default: def, Help: help,
		set: func(c *Configuration, raw string) error {
			*field(c) = raw
			return nil
		},
	}
}

func floatOption(name, def string, min, max float64, help string, field func(*Configuration) *float64) Option {
	o := Option{Name: name, Env: strings.ToUpper(name), Kind: KindFloat, Default: def, Min: min, Max: max, Help: help}
	o.set = func(c *Configuration, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", raw)
		}
		if math.IsNaN(v) || !(v >= o.Min && v <= o.Max) {
			return fmt.Errorf("%v outside [%v, %v]", v, o.Min, o.Max)
		}
		*field(c) = v
		return nil
	}
	return o
}

func intOption(name, def string, min, max float64, help string, field func(*Configuration) *int) Option {
	o := Option{Name: name, Env: strings.ToUpper(name), Kind: KindInt, Default: def, Min: min, Max: max, Help: help}
	o.set = func(c *Configuration, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("not an integer: %q", raw)
		}
		if float64(v) < o.Min || float64(v) > o.Max {
			return fmt.Errorf("%d outside [%v, %v]", v, o.Min, o.Max)
		}
		*field(c) = v
		return nil
	}
	return o
}

// options is the single table of every recognized tunable.
var options = []Option{
	stringOption("plan_model", "gemini-2.5-flash", "model used to plan report sections",
		func(c *Configuration) *string { return &c.PlanModel }),
	stringOption("search_model", "gemini-2.5-flash", "model with web search grounding",
		func(c *Configuration) *string { return &c.SearchModel }),
	stringOption("synthesis_model", "gemini-2.5-flash", "model used for synthesis and podcast scripts",
		func(c *Configuration) *string { return &c.SynthesisModel }),
	stringOption("video_model", "gemini-2.5-flash", "model with video understanding",
		func(c *Configuration) *string { return &c.VideoModel }),
	stringOption("tts_model", "gemini-2.5-flash-preview-tts", "speech synthesis model",
		func(c *Configuration) *string { return &c.TTSModel }),

	floatOption("plan_temperature", "0.2", 0, 2, "temperature for planning",
		func(c *Configuration) *float64 { return &c.PlanTemperature }),
	floatOption("search_temperature", "0.0", 0, 2, "temperature for factual search",
		func(c *Configuration) *float64 { return &c.SearchTemperature }),
	floatOption("synthesis_temperature", "0.3", 0, 2, "temperature for synthesis",
		func(c *Configuration) *float64 { return &c.SynthesisTemperature }),
	floatOption("podcast_script_temperature", "0.4", 0, 2, "temperature for podcast dialogue",
		func(c *Configuration) *float64 { return &c.PodcastScriptTemperature }),

	stringOption("mike_voice", "Kore", "voice for the host, Mike",
		func(c *Configuration) *string { return &c.MikeVoice }),
	stringOption("sarah_voice", "Puck", "voice for the expert, Sarah",
		func(c *Configuration) *string { return &c.SarahVoice }),

	intOption("tts_channels", "1", 1, 8, "audio channel count",
		func(c *Configuration) *int { return &c.TTSChannels }),
	intOption("tts_rate", "24000", 8000, 192000, "audio sample rate in Hz",
		func(c *Configuration) *int { return &c.TTSRate }),
	intOption("tts_sample_width", "2", 1, 4, "audio sample width in bytes",
		func(c *Configuration) *int { return &c.TTSSampleWidth }),

	intOption("request_timeout_seconds", "120", 0, 3600, "per-call service timeout, 0 disables",
		func(c *Configuration) *int { return &c.RequestTimeoutSeconds }),
}

// Options returns a copy of the option table.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Default returns the configuration built from compiled-in defaults only.
func Default() Configuration {
	c, err := ResolveWith(func(string) (string, bool) { return "", false }, nil)
	if err != nil {
		// defaults are constants checked by tests
		panic(err)
	}
	return c
}

// Resolve builds the configuration from the process environment, the given
// overrides and the compiled-in defaults.
func Resolve(overrides map[string]string) (Configuration, error) {
	return ResolveWith(os.LookupEnv, overrides)
}

// ResolveWith is Resolve with an injectable environment lookup.
//
// For every option the first non-empty value wins, in this order: the
// environment variable named by the upper-cased option name, the override
// mapping entry, the compiled-in default.
func ResolveWith(lookupEnv func(string) (string, bool), overrides map[string]string) (Configuration, error) {
	if err := checkOverrideKeys(overrides); err != nil {
		return Configuration{}, err
	}

	var c Configuration
	for _, o := range options {
		raw, source := o.Default, "default"
		if v, ok := overrides[o.Name]; ok && strings.TrimSpace(v) != "" {
			raw, source = strings.TrimSpace(v), "override"
		}
		if v, ok := lookupEnv(o.Env); ok && strings.TrimSpace(v) != "" {
			raw, source = strings.TrimSpace(v), "environment "+o.Env
		}

		if o.Kind == KindString && raw == "" {
			return Configuration{}, fmt.Errorf("%w: %s is empty", ErrConfiguration, o.Name)
		}
		if err := o.set(&c, raw); err != nil {
			return Configuration{}, fmt.Errorf("%w: %s from %s: %v", ErrConfiguration, o.Name, source, err)
		}
	}
	return c, nil
}

func checkOverrideKeys(overrides map[string]string) error {
	known := make(map[string]bool, len(options))
	for _, o := range options {
		known[o.Name] = true
	}

	var unknown []string
	for k := range overrides {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: unknown option(s) %s", ErrConfiguration, strings.Join(unknown, ", "))
}
