// pkg/ai/openai_client.go

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"plantcare/pkg/apperr"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

func NewOpenAI(endpoint, key, model string, timeout time.Duration) Client {
	c := &openAI{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		httpc:    &http.Client{Timeout: timeout},
	}
	return &llm{c: c, provider: "openai", model: model}
}

func (c *openAI) complete(ctx context.Context, r completion) (string, error) {
	messages := make([]map[string]any, 0, len(r.Messages)+1)
	if r.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": r.System})
	}
	for i, m := range r.Messages {
		if i == 0 && r.Image != nil {
			url := fmt.Sprintf("data:%s;base64,%s", r.Image.MediaType, base64.StdEncoding.EncodeToString(r.Image.Data))
			messages = append(messages, map[string]any{
				"role": m.Role,
				"content": []map[string]any{
					{"type": "image_url", "image_url": map[string]string{"url": url}},
					{"type": "text", "text": m.Content},
				},
			})
			continue
		}
		messages = append(messages, map[string]any{"role": m.Role, "content": m.Content})
	}
	reqBody := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  r.MaxTokens,
		"temperature": 0.2,
	}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", apperr.External("openai request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", apperr.External("openai request failed", err)
	}
	defer resp.Body.Close()

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.External("openai decode", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", apperr.External("openai api error", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if len(out.Choices) == 0 {
		return "", apperr.External("openai returned no choices", nil)
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", apperr.External("openai returned empty content", nil)
	}
	return content, nil
}
