package ai

import (
	"context"
	"log"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
)

type actorKey struct{}
type opKey struct{}

type actor struct {
	userID  string
	plantID uint
}

// WithActor tags ctx with the user and plant an AI call is made for.
func WithActor(ctx context.Context, userID string, plantID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, actor{userID: userID, plantID: plantID})
}

// WithOperation names the operation recorded for Complete calls.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

type UsageRecorder interface {
	Record(ctx context.Context, u entities.AIUsage) error
}

type usageLog struct{ db *gorm.DB }

func NewUsageLog(db *gorm.DB) UsageRecorder { return &usageLog{db: db} }

func (l *usageLog) Record(ctx context.Context, u entities.AIUsage) error {
	return database.Conn(ctx, l.db).Create(&u).Error
}

// WithUsage wraps c so every call is written to rec.
func WithUsage(c Client, rec UsageRecorder) Client { return &metered{Client: c, rec: rec} }

type metered struct {
	Client
	rec UsageRecorder
}

func (m *metered) note(ctx context.Context, op string, err error) {
	if v, ok := ctx.Value(opKey{}).(string); ok && op == "complete" {
		op = v
	}
	u := entities.AIUsage{
		Operation: op,
		Provider:  m.Provider(),
		Model:     m.Model(),
		Success:   err == nil,
	}
	if a, ok := ctx.Value(actorKey{}).(actor); ok {
		u.UserID = a.userID
		if a.plantID != 0 {
			pid := a.plantID
			u.PlantID = &pid
		}
	}
	if err != nil {
		u.Error = err.Error()
	}
	// record outside a cancelled request context
	if rerr := m.rec.Record(context.WithoutCancel(ctx), u); rerr != nil {
		log.Printf("[ai] usage log: %v", rerr)
	}
}

func (m *metered) GenerateCarePlan(ctx context.Context, in PlanInput) (*PlanDraft, error) {
	d, err := m.Client.GenerateCarePlan(ctx, in)
	m.note(ctx, "care_plan", err)
	return d, err
}

func (m *metered) Chat(ctx context.Context, in ChatInput) (*ChatReply, error) {
	r, err := m.Client.Chat(ctx, in)
	m.note(ctx, "chat", err)
	return r, err
}

func (m *metered) Complete(ctx context.Context, prompt string) (string, error) {
	s, err := m.Client.Complete(ctx, prompt)
	m.note(ctx, "complete", err)
	return s, err
}

func (m *metered) IdentifyPlant(ctx context.Context, img Image) (*Identification, error) {
	id, err := m.Client.IdentifyPlant(ctx, img)
	m.note(ctx, "identify", err)
	return id, err
}

func (m *metered) AnalyzeHealth(ctx context.Context, img Image, plant entities.Plant) (*HealthAnalysis, error) {
	h, err := m.Client.AnalyzeHealth(ctx, img, plant)
	m.note(ctx, "health", err)
	return h, err
}
