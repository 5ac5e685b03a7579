package llm

import (
	"fmt"
	"strings"
)

// Source is one web page the service consulted. Index is 1-based and stable
// within a single response.
type Source struct {
	Index int
	Title string
	URI   string
}

// Support ties a span of the generated text to the sources backing it.
type Support struct {
	Text          string
	SourceIndices []int
}

// Grounding is the citation record attached to a grounded response.
type Grounding struct {
	Sources  []Source
	Supports []Support
	Queries  []string
}

// Validate checks that every support refers to a known source.
func (g *Grounding) Validate() error {
	if g == nil {
		return nil
	}
	known := make(map[int]bool, len(g.Sources))
	for _, s := range g.Sources {
		if s.Index < 1 {
			return fmt.Errorf("%w: source %q has index %d", ErrUpstreamService, s.Title, s.Index)
		}
		known[s.Index] = true
	}
	for i, sup := range g.Supports {
		for _, idx := range sup.SourceIndices {
			if !known[idx] {
				return fmt.Errorf("%w: support %d cites unknown source %d", ErrUpstreamService, i, idx)
			}
		}
	}
	return nil
}

// Source returns the source with the given 1-based index.
func (g *Grounding) Source(index int) (Source, bool) {
	if g == nil {
		return Source{}, false
	}
	for _, s := range g.Sources {
		if s.Index == index {
			return s, true
		}
	}
	return Source{}, false
}

// FormatSources renders the sources as numbered "title / uri" pairs, the form
// embedded in research reports. It returns "" when there are no sources.
func (g *Grounding) FormatSources() string {
	if g == nil || len(g.Sources) == 0 {
		return ""
	}
	lines := make([]string, 0, len(g.Sources))
	for _, s := range g.Sources {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = "No title"
		}
		uri := strings.TrimSpace(s.URI)
		if uri == "" {
			uri = "No URI"
		}
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s", s.Index, title, uri))
	}
	return strings.Join(lines, "\n")
}
