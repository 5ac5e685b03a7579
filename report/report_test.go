package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	got := Render(Fields{
		Topic:     "Quantum Computing",
		Synthesis: "X",
		VideoURL:  "http://v",
		Sources:   "1. A\n   http://a",
	})

	want := `# Research Report: Quantum Computing

## Executive Summary
X

## Video Source
- **URL**: http://v

## Additional Sources
1. A
   http://a

---
*Report generated using multi-modal AI research combining web search and video analysis*
`
	assert.Equal(t, want, got)
	assert.Contains(t, got, "# Research Report: Quantum Computing")
	assert.Contains(t, got, "## Executive Summary\nX\n")
}

func TestRender_SectionOrder(t *testing.T) {
	got := Render(Fields{Topic: "t"})

	headings := []string{"# Research Report: t", "## Executive Summary", "## Video Source", "## Additional Sources", "---"}
	last := -1
	for _, h := range headings {
		idx := strings.Index(got, h)
		require.GreaterOrEqual(t, idx, 0, "missing %q", h)
		assert.Greater(t, idx, last, "%q out of order", h)
		last = idx
	}
}

func TestRender_ValuesAreNotReexpanded(t *testing.T) {
	got := Render(Fields{Topic: "{video_url}", Synthesis: "see {topic}", VideoURL: "http://v"})

	assert.Contains(t, got, "# Research Report: {video_url}\n")
	assert.Contains(t, got, "see {topic}")
}

func TestRender_Deterministic(t *testing.T) {
	f := Fields{Topic: "a", Synthesis: "b", VideoURL: "c", Sources: "d"}
	assert.Equal(t, Render(f), Render(f))
}

func TestHTML(t *testing.T) {
	out := string(HTML("# Title\n\nSee [docs](https://example.com).\n\n<script>alert(1)</script>"))

	assert.Contains(t, out, `<h1 id="title">Title</h1>`)
	assert.Contains(t, out, `href="https://example.com"`)
	assert.NotContains(t, out, "<script>")
}

func TestDocument(t *testing.T) {
	md := Render(Fields{Topic: "Quantum <Computing>", Synthesis: "X"})

	out, err := Document("Quantum <Computing>", md)
	require.NoError(t, err)

	page := string(out)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Quantum &lt;Computing&gt;</title>")
	assert.Contains(t, page, "<h2")
	assert.Contains(t, page, "Executive Summary")
}
