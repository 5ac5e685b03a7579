package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrounding_FormatSources(t *testing.T) {
	g := &Grounding{Sources: []Source{
		{Index: 1, Title: "A", URI: "http://a"},
		{Index: 2, Title: "", URI: "http://b"},
		{Index: 3, Title: "C", URI: " "},
	}}

	want := "1. A\n   http://a\n2. No title\n   http://b\n3. C\n   No URI"
	assert.Equal(t, want, g.FormatSources())
}

func TestGrounding_FormatSourcesEmpty(t *testing.T) {
	var nilGrounding *Grounding
	assert.Equal(t, "", nilGrounding.FormatSources())
	assert.Equal(t, "", (&Grounding{}).FormatSources())
}

func TestGrounding_Validate(t *testing.T) {
	sources := []Source{{Index: 1, Title: "A"}, {Index: 2, Title: "B"}}

	tests := []struct {
		name    string
		g       *Grounding
		wantErr bool
	}{
		{"nil", nil, false},
		{"valid", &Grounding{Sources: sources, Supports: []Support{{Text: "x", SourceIndices: []int{1, 2}}}}, false},
		{"unknown index", &Grounding{Sources: sources, Supports: []Support{{Text: "x", SourceIndices: []int{3}}}}, true},
		{"zero index", &Grounding{Sources: []Source{{Index: 0}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUpstreamService)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGrounding_Source(t *testing.T) {
	g := &Grounding{Sources: []Source{{Index: 2, Title: "B"}}}

	s, ok := g.Source(2)
	assert.True(t, ok)
	assert.Equal(t, "B", s.Title)

	_, ok = g.Source(1)
	assert.False(t, ok)
}
