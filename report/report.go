// Package report renders research findings as markdown and HTML.
package report

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// Fields are the values substituted into the report template.
type Fields struct {
	Topic     string
	Synthesis string
	VideoURL  string
	// Sources is the numbered source list of the web research.
	Sources string
}

const layout = `# Research Report: {topic}

## Executive Summary
{synthesis_text}

## Video Source
- **URL**: {video_url}

## Additional Sources
{search_sources_text}

---
*Report generated using multi-modal AI research combining web search and video analysis*
`

// Render fills the fixed report layout. It is a pure function of f: every
// value is inserted verbatim, once, and never re-expanded.
func Render(f Fields) string {
	r := strings.NewReplacer(
		"{topic}", f.Topic,
		"{synthesis_text}", f.Synthesis,
		"{video_url}", f.VideoURL,
		"{search_sources_text}", f.Sources,
	)
	return r.Replace(layout)
}

// HTML converts markdown to sanitized HTML.
func HTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	return bluemonday.UGCPolicy().SanitizeBytes(markdown.Render(doc, renderer))
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; color: #222; }
h1 { border-bottom: 2px solid #eee; padding-bottom: .3rem; }
a { color: #0b62c4; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Document wraps the HTML rendering of md in a standalone page.
func Document(title, md string) ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(HTML(md)), // #nosec G203 -- sanitized by bluemonday
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
