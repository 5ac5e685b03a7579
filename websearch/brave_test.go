package websearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrave(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "")
	_, err := NewBrave("")
	assert.Error(t, err)

	t.Setenv("BRAVE_API_KEY", "env-key")
	b, err := NewBrave("", WithBraveCount(50), WithBraveCountry("DE"), WithBraveLang("de"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", b.APIKey)
	assert.Equal(t, 20, b.Count)
	assert.Equal(t, "DE", b.Country)
	assert.Equal(t, "de", b.Lang)

	b, err = NewBrave("explicit", WithBraveCount(0))
	require.NoError(t, err)
	assert.Equal(t, "explicit", b.APIKey)
	assert.Equal(t, 1, b.Count)
}

func TestBraveSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "quantum computing", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		assert.Equal(t, "en", r.URL.Query().Get("search_lang"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"Qubits","url":"https://a.example","description":"about qubits"},
			{"title":"Gates &amp; circuits","url":"https://b.example","description":"about <strong>gates</strong>\n  today"}]}}`))
	}))
	defer server.Close()

	b, err := NewBrave("k", WithBraveBaseURL(server.URL), WithBraveCount(3), WithBraveHTTPClient(server.Client()))
	require.NoError(t, err)

	results, err := b.Search(context.Background(), "quantum computing")
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{Title: "Qubits", URL: "https://a.example", Description: "about qubits"},
		{Title: "Gates & circuits", URL: "https://b.example", Description: "about gates today"},
	}, results)
}

func TestBraveSearch_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	b, err := NewBrave("k", WithBraveBaseURL(server.URL))
	require.NoError(t, err)

	_, err = b.Search(context.Background(), "q")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "brave api returned status: 429", err.Error())
}

func TestFormatResults(t *testing.T) {
	assert.Equal(t, "No results found", FormatResults(nil))
	assert.Equal(t,
		"1. Title: A\nURL: https://a\nDescription: a\n\n2. Title: B\nURL: https://b\nDescription: b",
		FormatResults([]Result{{"A", "https://a", "a"}, {"B", "https://b", "b"}}))
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain  ", "plain"},
		{"a <strong>bold</strong> claim", "a bold claim"},
		{"Q&amp;A", "Q&A"},
		{"<p>x</p><script>alert(1)</script><style>p{}</style>", "x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plainText(tt.in), tt.in)
	}
}
