package ai

import (
	"log"

	"plantcare/config"
)

// FromConfig picks a provider. "auto" prefers Claude, then OpenAI, and
// otherwise returns the unavailable client so callers use their fallbacks.
func FromConfig(cfg config.AppConfig) Client {
	claudeOK := cfg.ClaudeAPIKey != ""
	openaiOK := cfg.OpenAIAPIKey != ""

	var c Client
	switch cfg.AIProvider {
	case "claude":
		if claudeOK {
			c = NewClaude(cfg.ClaudeEndpoint, cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.AITimeout)
		}
	case "openai":
		if openaiOK {
			c = NewOpenAI(cfg.OpenAIEndpoint, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AITimeout)
		}
	case "mock":
		c = NewMock()
	case "none":
	default:
		switch {
		case claudeOK:
			c = NewClaude(cfg.ClaudeEndpoint, cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.AITimeout)
		case openaiOK:
			c = NewOpenAI(cfg.OpenAIEndpoint, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AITimeout)
		}
	}
	if c == nil {
		log.Printf("[ai] provider %q not configured, using fallbacks only", cfg.AIProvider)
		return NewUnavailable()
	}
	log.Printf("[ai] provider=%s model=%s", c.Provider(), c.Model())
	return c
}
