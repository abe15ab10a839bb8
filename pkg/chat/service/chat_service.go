package service

import (
	"context"

	"plantcare/pkg/ai"
)

type Reply struct {
	Response         string      `json:"response"`
	SuggestedActions []ai.Action `json:"suggested_actions"`
	Provider         string      `json:"provider"`
}

type ApplyResult struct {
	Success      bool   `json:"success"`
	UpdatedField string `json:"updated_field"`
	NewValue     string `json:"new_value,omitempty"`
	Message      string `json:"message,omitempty"`
}

type ChatService interface {
	// Chat is stateless: the caller sends the conversation so far.
	Chat(ctx context.Context, actor string, plantID uint, messages []ai.Message) (*Reply, error)
	ApplyAction(ctx context.Context, actor string, plantID uint, action ai.Action) (*ApplyResult, error)
}
