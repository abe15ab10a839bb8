// pkg/ai/mock_client.go

package ai

import (
	"context"
	"sync"

	"plantcare/entities"
	"plantcare/pkg/apperr"
)

// Mock is a scripted Client. Unset responses fail like an unreachable provider.
type Mock struct {
	Draft          *PlanDraft
	Reply          *ChatReply
	Text           string
	Identification *Identification
	Health         *HealthAnalysis
	Err            error

	// CompleteFn overrides Text when set.
	CompleteFn func(prompt string) (string, error)

	mu      sync.Mutex
	Calls   map[string]int
	Prompts []string
}

func NewMock() *Mock { return &Mock{Calls: map[string]int{}} }

func (m *Mock) Provider() string { return "mock" }
func (m *Mock) Model() string    { return "mock-1" }

func (m *Mock) record(op, prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[op]++
	if prompt != "" {
		m.Prompts = append(m.Prompts, prompt)
	}
}

func (m *Mock) fail() error {
	if m.Err != nil {
		return apperr.External("mock", m.Err)
	}
	return apperr.External("mock", ErrUnavailable)
}

func (m *Mock) GenerateCarePlan(_ context.Context, in PlanInput) (*PlanDraft, error) {
	m.record("care_plan", renderCarePlanPrompt(in))
	if m.Err != nil || m.Draft == nil {
		return nil, m.fail()
	}
	d := *m.Draft
	return &d, nil
}

func (m *Mock) Chat(_ context.Context, in ChatInput) (*ChatReply, error) {
	m.record("chat", "")
	if m.Err != nil || m.Reply == nil {
		return nil, m.fail()
	}
	r := *m.Reply
	return &r, nil
}

func (m *Mock) Complete(_ context.Context, prompt string) (string, error) {
	m.record("complete", prompt)
	if m.CompleteFn != nil {
		return m.CompleteFn(prompt)
	}
	if m.Err != nil || m.Text == "" {
		return "", m.fail()
	}
	return m.Text, nil
}

func (m *Mock) IdentifyPlant(context.Context, Image) (*Identification, error) {
	m.record("identify", "")
	if m.Err != nil || m.Identification == nil {
		return nil, m.fail()
	}
	id := *m.Identification
	return &id, nil
}

func (m *Mock) AnalyzeHealth(context.Context, Image, entities.Plant) (*HealthAnalysis, error) {
	m.record("health", "")
	if m.Err != nil || m.Health == nil {
		return nil, m.fail()
	}
	h := *m.Health
	return &h, nil
}

// CallCount is safe to use while calls are in flight.
func (m *Mock) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}
