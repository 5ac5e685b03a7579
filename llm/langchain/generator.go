// Package langchain adapts langchaingo models to llm.TextGenerator.
package langchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/log"
	"github.com/smallnest/mmresearcher/websearch"
)

// Generator serves text requests with any langchaingo model. langchaingo has
// no portable search grounding: grounded requests are answered from the
// results of a websearch.Searcher when one is set, and without sources
// otherwise.
type Generator struct {
	model    llms.Model
	searcher websearch.Searcher
	logger   log.Logger

	warnOnce sync.Once
}

var _ llm.TextGenerator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithSearcher grounds requests on web search results.
func WithSearcher(s websearch.Searcher) Option {
	return func(g *Generator) {
		g.searcher = s
	}
}

// New wraps model.
func New(model llms.Model, logger log.Logger, opts ...Option) *Generator {
	g := &Generator{model: model, logger: log.OrDefault(logger)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateText implements llm.TextGenerator.
func (g *Generator) GenerateText(ctx context.Context, req llm.TextRequest) (llm.TextResult, error) {
	prompt := req.Prompt
	var grounding *llm.Grounding
	if req.Grounding {
		if g.searcher == nil {
			g.warnOnce.Do(func() {
				g.logger.Warn("langchain: no web searcher configured, answering without sources")
			})
		} else {
			var err error
			prompt, grounding, err = g.ground(ctx, req)
			if err != nil {
				return llm.TextResult{}, err
			}
		}
	}

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	var messages []llms.MessageContent
	if req.Format == llm.FormatJSON {
		opts = append(opts, llms.WithJSONMode())
		system := "Respond with a single JSON document and nothing else."
		if req.Schema != nil {
			schema, err := json.Marshal(req.Schema)
			if err != nil {
				return llm.TextResult{}, fmt.Errorf("langchain: encode schema: %w", err)
			}
			system += " The document must match this JSON schema:\n" + string(schema)
		}
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := g.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return llm.TextResult{}, llm.Upstream(llm.OpGenerateText, req.Model, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return llm.TextResult{}, llm.Upstream(llm.OpGenerateText, req.Model, errors.New("model returned no choices"))
	}
	text := resp.Choices[0].Content
	if grounding != nil {
		grounding.Supports = citedSupports(text, len(grounding.Sources))
	}
	return llm.TextResult{Text: text, Grounding: grounding}, nil
}

// ground runs the web search for req and returns the prompt with the
// results prepended. No results means no grounding.
func (g *Generator) ground(ctx context.Context, req llm.TextRequest) (string, *llm.Grounding, error) {
	query := req.SearchQuery
	if query == "" {
		query = req.Prompt
	}
	results, err := g.searcher.Search(ctx, query)
	if err != nil {
		return "", nil, llm.Upstream(llm.OpGenerateText, req.Model, fmt.Errorf("web search: %w", err))
	}
	g.logger.Debug("langchain: web search for %q returned %d results", query, len(results))
	if len(results) == 0 {
		return req.Prompt, nil, nil
	}

	grounding := &llm.Grounding{Queries: []string{query}}
	for i, r := range results {
		grounding.Sources = append(grounding.Sources, llm.Source{Index: i + 1, Title: r.Title, URI: r.URL})
	}
	prompt := "Use these web search results. Cite them with their number in brackets, like [1] or [1, 2].\n\n" +
		websearch.FormatResults(results) + "\n\n" + req.Prompt
	return prompt, grounding, nil
}

var citation = regexp.MustCompile(`\[(\d+(?:\s*,\s*\d+)*)\]`)

// citedSupports turns every paragraph of text citing known sources into a
// support. Citations of unknown sources are ignored.
func citedSupports(text string, sources int) []llm.Support {
	var supports []llm.Support
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		var indices []int
		seen := map[int]bool{}
		for _, m := range citation.FindAllStringSubmatch(para, -1) {
			for _, n := range strings.Split(m[1], ",") {
				i, err := strconv.Atoi(strings.TrimSpace(n))
				if err != nil || i < 1 || i > sources || seen[i] {
					continue
				}
				seen[i] = true
				indices = append(indices, i)
			}
		}
		if len(indices) > 0 {
			supports = append(supports, llm.Support{Text: para, SourceIndices: indices})
		}
	}
	return supports
}
