package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var voices = map[string]string{"Mike": "Kore", "Sarah": "Puck"}

func TestParseScript(t *testing.T) {
	script := `# Episode 1

[Intro music]
**Mike:** Welcome to the show!
Sarah: Thanks for having me.

*Mike*: So, what is it?
Sarah:It is a thing.
See https://example.com
https://example.com/page
`
	lines := ParseScript(script)

	assert.Equal(t, []Line{
		{Speaker: "Mike", Text: "Welcome to the show!"},
		{Speaker: "Sarah", Text: "Thanks for having me."},
		{Speaker: "Mike", Text: "So, what is it?"},
		{Speaker: "Sarah", Text: "It is a thing."},
	}, lines)
}

func TestValidateScript(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{"valid", "Mike: Hi\nSarah: Hello", false},
		{"unknown speaker", "Mike: Hi\nJohn: Hello", true},
		{"no utterances", "just some prose\n\n", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := PrepareScript(tt.script, voices)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSpeechSynthesis)
				return
			}
			require.NoError(t, err)
			assert.Len(t, lines, 2)
		})
	}
}

func TestValidateScript_EmptyVoice(t *testing.T) {
	err := ValidateScript([]Line{{Speaker: "Mike", Text: "Hi"}}, map[string]string{"Mike": " "})
	assert.ErrorIs(t, err, ErrSpeechSynthesis)
}

func TestFormatScript(t *testing.T) {
	lines := ParseScript("**Mike:** Hi\n\nSarah: Hello")
	assert.Equal(t, "Mike: Hi\nSarah: Hello", FormatScript(lines))
}
