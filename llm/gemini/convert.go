package gemini

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/smallnest/mmresearcher/llm"
)

// groundingFrom converts grounding metadata. Source indices are the 1-based
// chunk positions; chunks without web data are skipped but keep their number,
// and support indices pointing at them are dropped.
func groundingFrom(md *genai.GroundingMetadata) *llm.Grounding {
	if md == nil {
		return nil
	}

	g := &llm.Grounding{Queries: md.WebSearchQueries}
	known := map[int]bool{}
	for i, chunk := range md.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		g.Sources = append(g.Sources, llm.Source{Index: i + 1, Title: chunk.Web.Title, URI: chunk.Web.URI})
		known[i+1] = true
	}

	for _, s := range md.GroundingSupports {
		if s == nil || s.Segment == nil {
			continue
		}
		sup := llm.Support{Text: s.Segment.Text}
		for _, idx := range s.GroundingChunkIndices {
			if known[int(idx)+1] {
				sup.SourceIndices = append(sup.SourceIndices, int(idx)+1)
			}
		}
		g.Supports = append(g.Supports, sup)
	}

	if len(g.Sources) == 0 && len(g.Supports) == 0 && len(g.Queries) == 0 {
		return nil
	}
	return g
}

// speechConfig maps the script's speakers to prebuilt voices. The service
// takes one voice, or exactly two speakers for multi-speaker output.
func speechConfig(lines []llm.Line, voices map[string]string) (*genai.SpeechConfig, error) {
	speakers := speakerOrder(lines)
	switch len(speakers) {
	case 1:
		return &genai.SpeechConfig{VoiceConfig: prebuilt(voices[speakers[0]])}, nil
	case 2:
		cfgs := make([]*genai.SpeakerVoiceConfig, len(speakers))
		for i, name := range speakers {
			cfgs[i] = &genai.SpeakerVoiceConfig{Speaker: name, VoiceConfig: prebuilt(voices[name])}
		}
		return &genai.SpeechConfig{
			MultiSpeakerVoiceConfig: &genai.MultiSpeakerVoiceConfig{SpeakerVoiceConfigs: cfgs},
		}, nil
	default:
		return nil, fmt.Errorf("multi-speaker speech supports at most 2 speakers, script has %d", len(speakers))
	}
}

func prebuilt(voice string) *genai.VoiceConfig {
	return &genai.VoiceConfig{PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice}}
}

// speakerOrder lists distinct speakers in order of first appearance.
func speakerOrder(lines []llm.Line) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lines {
		if !seen[l.Speaker] {
			seen[l.Speaker] = true
			out = append(out, l.Speaker)
		}
	}
	return out
}

// inlineAudio returns the first inline data blob of the first candidate.
func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	content := resp.Candidates[0].Content
	if content == nil {
		return nil
	}
	for _, p := range content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return p.InlineData.Data
		}
	}
	return nil
}
