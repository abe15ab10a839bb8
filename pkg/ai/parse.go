package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"plantcare/pkg/apperr"
)

var fenceRX = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls the JSON object out of model text that may wrap it in
// a code fence or prose.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRX.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// DecodeJSON extracts and unmarshals a JSON object from model text.
func DecodeJSON(text string, v any) error {
	raw := ExtractJSON(text)
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return apperr.External("malformed ai json", fmt.Errorf("%w / raw: %.200s", err, text))
	}
	return nil
}

func parsePlanDraft(text string) (*PlanDraft, error) {
	var d PlanDraft
	if err := DecodeJSON(text, &d); err != nil {
		return nil, err
	}
	if len(d.Tasks) == 0 {
		return nil, apperr.External("ai care plan has no tasks", nil)
	}
	return &d, nil
}

// parseChatReply accepts either the JSON envelope or plain prose.
func parseChatReply(text string) *ChatReply {
	var env struct {
		Content string            `json:"content"`
		Actions []json.RawMessage `json:"suggested_actions"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &env); err == nil && env.Content != "" {
		return &ChatReply{Content: env.Content, Actions: DecodeActions(env.Actions)}
	}
	return &ChatReply{Content: strings.TrimSpace(text), Actions: []Action{}}
}
