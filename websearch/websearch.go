// Package websearch looks up web pages for grounding model answers on
// backends without built-in search.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result is one search hit.
type Result struct {
	Title       string
	URL         string
	Description string
}

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// StatusError reports a non-200 answer from a search provider.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api returned status: %d", e.Provider, e.StatusCode)
}

// FormatResults renders results as a numbered context block for a prompt.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found"
	}
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. Title: %s\nURL: %s\nDescription: %s\n\n", i+1, r.Title, r.URL, r.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// plainText strips markup such as search highlight tags from s and collapses
// whitespace. Input that does not parse is returned trimmed.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
