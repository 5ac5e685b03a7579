package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
)

// Brave searches the web with the Brave Search API.
type Brave struct {
	APIKey  string
	BaseURL string
	Count   int
	Country string
	Lang    string

	client *http.Client
}

var _ Searcher = (*Brave)(nil)

type BraveOption func(*Brave)

// WithBraveBaseURL sets the base URL for the Brave Search API.
func WithBraveBaseURL(baseURL string) BraveOption {
	return func(b *Brave) {
		b.BaseURL = baseURL
	}
}

// WithBraveCount sets the number of results to return (1-20).
func WithBraveCount(count int) BraveOption {
	return func(b *Brave) {
		b.Count = min(max(count, 1), 20)
	}
}

// WithBraveCountry sets the country code for search results (e.g., "US").
func WithBraveCountry(country string) BraveOption {
	return func(b *Brave) {
		b.Country = country
	}
}

// WithBraveLang sets the language code for search results (e.g., "en").
func WithBraveLang(lang string) BraveOption {
	return func(b *Brave) {
		b.Lang = lang
	}
}

// WithBraveHTTPClient sets the HTTP client used for requests.
func WithBraveHTTPClient(c *http.Client) BraveOption {
	return func(b *Brave) {
		b.client = c
	}
}

// NewBrave creates a Brave searcher.
// If apiKey is empty, it tries to read from BRAVE_API_KEY environment variable.
func NewBrave(apiKey string, opts ...BraveOption) (*Brave, error) {
	if apiKey == "" {
		apiKey = os.Getenv("BRAVE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("BRAVE_API_KEY not set")
	}

	b := &Brave{
		APIKey:  apiKey,
		BaseURL: "https://api.search.brave.com/res/v1/web/search",
		Count:   10,
		Country: "US",
		Lang:    "en",
		client:  http.DefaultClient,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search implements Searcher.
func (b *Brave) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(b.Count))
	if b.Country != "" {
		params.Set("country", b.Country)
	}
	if b.Lang != "" {
		params.Set("search_lang", b.Lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: "brave", StatusCode: resp.StatusCode}
	}

	var body braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(body.Web.Results))
	for _, r := range body.Web.Results {
		results = append(results, Result{
			Title:       plainText(r.Title),
			URL:         r.URL,
			Description: plainText(r.Description),
		})
	}
	return results, nil
}
