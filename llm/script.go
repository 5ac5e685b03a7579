package llm

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Line is one attributed utterance of a dialogue script.
type Line struct {
	Speaker string
	Text    string
}

func (l Line) String() string {
	return l.Speaker + ": " + l.Text
}

// scriptLine matches "Speaker: utterance", tolerating markdown emphasis
// around the speaker name such as "**Mike:** ...".
var scriptLine = regexp.MustCompile(`^[*_]*\s*([A-Za-z][A-Za-z0-9 .'-]{0,39}?)\s*[*_]*\s*:\s*[*_]*\s*(\S.*)$`)

// ParseScript extracts the attributed utterances of a script. Lines that are
// not of the form "Speaker: utterance" (blank lines, headings, stage
// directions) are skipped.
func ParseScript(script string) []Line {
	var lines []Line
	for _, raw := range strings.Split(script, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		m := scriptLine.FindStringSubmatch(raw)
		if m == nil || strings.HasPrefix(m[2], "//") {
			// a bare URL would parse as speaker "https"
			continue
		}
		lines = append(lines, Line{Speaker: m[1], Text: strings.TrimSpace(m[2])})
	}
	return lines
}

// ValidateScript checks that lines is non-empty and every speaker has a
// voice. Failures wrap ErrSpeechSynthesis.
func ValidateScript(lines []Line, voices map[string]string) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: script has no attributed lines", ErrSpeechSynthesis)
	}
	for i, l := range lines {
		voice, ok := voices[l.Speaker]
		if !ok {
			return fmt.Errorf("%w: line %d: speaker %q has no voice (known: %s)",
				ErrSpeechSynthesis, i+1, l.Speaker, strings.Join(speakers(voices), ", "))
		}
		if strings.TrimSpace(voice) == "" {
			return fmt.Errorf("%w: speaker %q has an empty voice", ErrSpeechSynthesis, l.Speaker)
		}
	}
	return nil
}

// PrepareScript parses and validates a script in one step.
func PrepareScript(script string, voices map[string]string) ([]Line, error) {
	lines := ParseScript(script)
	if err := ValidateScript(lines, voices); err != nil {
		return nil, err
	}
	return lines, nil
}

// FormatScript joins lines back into plain "Speaker: utterance" text.
func FormatScript(lines []Line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func speakers(voices map[string]string) []string {
	names := make([]string, 0, len(voices))
	for name := range voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
