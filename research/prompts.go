package research

import (
	"fmt"
	"strings"
)

const planPrompt = `You are planning a research report about: %s

Propose between 3 and 5 sections for the report. Each section needs a short
title and a one or two sentence description of what it should cover.

Respond with JSON of the form:
{"sections": [{"title": "...", "description": "..."}]}`

// planSchema constrains the planning response.
var planSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"sections": map[string]any{
			"type":     "array",
			"minItems": 3,
			"maxItems": 5,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
				"required": []string{"title", "description"},
			},
		},
	},
	"required": []string{"sections"},
}

func searchPrompt(subject string, plan *Plan) string {
	prompt := "Research this topic and give me an overview: " + subject
	if plan == nil || len(plan.Sections) == 0 {
		return prompt
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nMake sure the overview covers these sections:\n")
	for _, s := range plan.Sections {
		fmt.Fprintf(&sb, "- %s: %s\n", s.Title, s.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func videoPrompt(subject string) string {
	return "Based on the video content, give me an overview of this topic: " + subject
}

const synthesisPrompt = `You are a research analyst. Write a comprehensive synthesis about "%s" from the research below.

SEARCH RESULTS:
%s

VIDEO CONTENT:
%s

Combine both sources into one coherent narrative: highlight the key insights,
note where the sources agree or add to each other, and keep it factual. Write
a few well-structured paragraphs in markdown without a top-level heading.`

func synthesisPromptFor(subject, searchText, videoText string) string {
	return fmt.Sprintf(synthesisPrompt, subject, searchText, videoText)
}

const podcastPrompt = `Create a natural, engaging podcast conversation between Mike and Sarah about "%s".

Mike is a curious host. Sarah is a research expert.

Use this research:

SEARCH FINDINGS:
%s

VIDEO INSIGHTS:
%s

The conversation must:
- open with Mike asking Sarah an opening question about the topic
- have 5 to 7 exchanges of natural back-and-forth discussion
- include follow-up questions from Mike
- close with Sarah synthesizing the main takeaways
- stay conversational and accessible, about 3 to 4 minutes when spoken

Write every line as "Speaker: utterance" using only the names Mike and Sarah,
with no headings, stage directions or narration. For example:

Mike: Welcome to the show! Today we're talking about ...
Sarah: Thanks, Mike. ...`

func podcastPromptFor(subject, searchText, videoText string) string {
	return fmt.Sprintf(podcastPrompt, subject, searchText, videoText)
}
