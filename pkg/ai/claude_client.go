// pkg/ai/claude_client.go

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

const anthropicVersion = "2023-06-01"

type claude struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

func NewClaude(endpoint, key, model string, timeout time.Duration) Client {
	c := &claude{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		httpc:    &http.Client{Timeout: timeout},
	}
	return &llm{c: c, provider: "claude", model: model}
}

func (c *claude) complete(ctx context.Context, r completion) (string, error) {
	type block struct {
		Type   string            `json:"type"`
		Text   string            `json:"text,omitempty"`
		Source map[string]string `json:"source,omitempty"`
	}
	type msg struct {
		Role    string  `json:"role"`
		Content []block `json:"content"`
	}
	msgs := make([]msg, 0, len(r.Messages))
	for i, m := range r.Messages {
		var blocks []block
		// image rides on the first user turn
		if i == 0 && r.Image != nil {
			blocks = append(blocks, block{Type: "image", Source: map[string]string{
				"type":       "base64",
				"media_type": r.Image.MediaType,
				"data":       base64.StdEncoding.EncodeToString(r.Image.Data),
			}})
		}
		blocks = append(blocks, block{Type: "text", Text: m.Content})
		msgs = append(msgs, msg{Role: m.Role, Content: blocks})
	}
	reqBody := map[string]any{
		"model":      c.model,
		"max_tokens": r.MaxTokens,
		"messages":   msgs,
	}
	if r.System != "" {
		reqBody["system"] = r.System
	}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/messages", bytes.NewReader(b))
	if err != nil {
		return "", apperr.External("claude request", err)
	}
	req.Header.Set("x-api-key", c.key)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", apperr.External("claude request failed", err)
	}
	defer resp.Body.Close()

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.External("claude decode", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", apperr.External("claude api error", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	for _, blk := range out.Content {
		if blk.Type == "text" && strings.TrimSpace(blk.Text) != "" {
			return blk.Text, nil
		}
	}
	return "", apperr.External("claude returned no text", nil)
}
