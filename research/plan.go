package research

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// parsePlan decodes a planning response. Malformed JSON is repaired before
// giving up; a plan without sections or with a blank title is rejected.
func parsePlan(content string) (*Plan, error) {
	content = stripCodeFence(content)

	var plan Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return nil, fmt.Errorf("%w: malformed plan: %v (repair failed: %v)", ErrPlanning, err, repairErr)
		}
		plan = Plan{}
		if err := json.Unmarshal([]byte(repaired), &plan); err != nil {
			return nil, fmt.Errorf("%w: malformed plan after repair: %v", ErrPlanning, err)
		}
	}

	if len(plan.Sections) == 0 {
		return nil, fmt.Errorf("%w: plan has no sections", ErrPlanning)
	}
	for i := range plan.Sections {
		s := &plan.Sections[i]
		s.Title = strings.TrimSpace(s.Title)
		s.Description = strings.TrimSpace(s.Description)
		if s.Title == "" {
			return nil, fmt.Errorf("%w: section %d has no title", ErrPlanning, i+1)
		}
	}
	return &plan, nil
}

// stripCodeFence removes a surrounding markdown code fence such as ```json.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
