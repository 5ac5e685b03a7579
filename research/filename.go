package research

import (
	"strings"
	"unicode"
)

// PodcastFilename derives the podcast file name from a topic: letters,
// digits, spaces, hyphens and underscores are kept, trailing spaces are
// trimmed and the remaining spaces become underscores.
func PodcastFilename(topic string) string {
	var sb strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	safe := strings.ReplaceAll(strings.TrimRight(sb.String(), " "), " ", "_")
	if safe == "" {
		safe = "podcast"
	}
	return "research_podcast_" + safe + ".wav"
}
