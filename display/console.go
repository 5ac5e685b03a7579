// Package display renders pipeline progress and model responses on a terminal.
package display

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/smallnest/mmresearcher/graph"
	"github.com/smallnest/mmresearcher/llm"
)

// MaxSupports is how many grounding supports Response prints.
const MaxSupports = 5

// snippetLen is the length at which support text is cut.
const snippetLen = 100

// Console writes styled output to a terminal. Styles degrade to plain text
// when the writer is not a terminal.
type Console struct {
	out io.Writer

	heading lipgloss.Style
	stage   lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
	bold    lipgloss.Style

	mu     sync.Mutex
	starts map[string]time.Time
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		out:     w,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		stage:   r.NewStyle().Foreground(lipgloss.Color("14")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("10")),
		fail:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		dim:     r.NewStyle().Faint(true),
		bold:    r.NewStyle().Bold(true),
		starts:  make(map[string]time.Time),
	}
}

// Stage prints one progress line for a node event.
func (c *Console) Stage(event graph.NodeEvent, node string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event {
	case graph.NodeEventStart:
		c.starts[node] = time.Now()
		fmt.Fprintf(c.out, "%s %s\n", c.stage.Render("▶"), node)
	case graph.NodeEventComplete:
		fmt.Fprintf(c.out, "%s %s %s\n", c.ok.Render("✓"), node, c.dim.Render(c.elapsed(node)))
	case graph.NodeEventError:
		fmt.Fprintf(c.out, "%s %s %s: %v\n", c.fail.Render("✗"), node, c.dim.Render(c.elapsed(node)), err)
	}
}

func (c *Console) elapsed(node string) string {
	start, ok := c.starts[node]
	if !ok {
		return ""
	}
	delete(c.starts, node)
	return "(" + time.Since(start).Round(time.Millisecond).String() + ")"
}

// Listener adapts c to a graph listener for any state type.
func Listener[S any](c *Console) graph.NodeListener[S] {
	return graph.NodeListenerFunc[S](func(ctx context.Context, event graph.NodeEvent, node string, state S, err error) {
		c.Stage(event, node, err)
	})
}

// Heading prints a section title.
func (c *Console) Heading(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n%s\n%s\n", c.heading.Render(title), strings.Repeat("=", 50))
}

// Field prints a "label: value" line.
func (c *Console) Field(label, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", c.bold.Render(label+":"), value)
}

// Response prints a model answer followed by its sources and the first
// MaxSupports text segments backed by them.
func (c *Console) Response(text string, g *llm.Grounding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, strings.TrimRight(text, "\n"))
	if g == nil || (len(g.Sources) == 0 && len(g.Supports) == 0) {
		return
	}

	fmt.Fprintf(c.out, "\n%s\n%s\n%s\n", strings.Repeat("=", 50), c.heading.Render("References & Sources"), strings.Repeat("=", 50))

	if len(g.Sources) > 0 {
		fmt.Fprintf(c.out, "\n%s\n", c.bold.Render(fmt.Sprintf("Sources (%d):", len(g.Sources))))
		for _, s := range g.Sources {
			title, uri := s.Title, s.URI
			if title == "" {
				title = "No title"
			}
			if uri == "" {
				uri = "No URI"
			}
			fmt.Fprintf(c.out, "%d. %s\n   %s\n", s.Index, title, c.dim.Render(uri))
		}
	}

	if len(g.Supports) > 0 {
		fmt.Fprintf(c.out, "\n%s\n", c.bold.Render("Text segments with source backing:"))
		for _, sup := range g.Supports[:min(len(g.Supports), MaxSupports)] {
			nums := make([]string, len(sup.SourceIndices))
			for i, idx := range sup.SourceIndices {
				nums[i] = strconv.Itoa(idx)
			}
			fmt.Fprintf(c.out, "• %q %s\n", Snippet(sup.Text, snippetLen), c.dim.Render("(sources: "+strings.Join(nums, ", ")+")"))
		}
	}
}

// Snippet shortens text to n runes, marking the cut with "...".
func Snippet(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
