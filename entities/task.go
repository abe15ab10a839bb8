package entities

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

const (
	TaskWater       = "water"
	TaskFertilize   = "fertilize"
	TaskMist        = "mist"
	TaskRotate      = "rotate"
	TaskTrim        = "trim"
	TaskRepot       = "repot"
	TaskCheck       = "check"
	TaskChangeWater = "change_water"
	TaskCheckRoots  = "check_roots"
	TaskPotUp       = "pot_up"
)

// DefaultTaskTypes is the built-in catalogue; users may add custom types.
var DefaultTaskTypes = []string{
	TaskWater, TaskFertilize, TaskMist, TaskRotate, TaskTrim, TaskRepot,
	TaskCheck, TaskChangeWater, TaskCheckRoots, TaskPotUp,
}

const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// PriorityRank orders priorities for listings, lower first.
func PriorityRank(p string) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

func NormalizePriority(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return p
	}
	return PriorityNormal
}

const (
	RecurDays   = "days"
	RecurWeeks  = "weeks"
	RecurMonths = "months"
)

type Recurrence struct {
	Type     string `json:"type"`
	Interval int    `json:"interval"`
}

// Next advances a YYYY-MM-DD date by one interval of the rule's unit.
func (r Recurrence) Next(due string) (string, error) {
	d, err := time.Parse(DateLayout, due)
	if err != nil {
		return "", err
	}
	switch r.Type {
	case RecurWeeks:
		d = d.AddDate(0, 0, 7*r.Interval)
	case RecurMonths:
		d = d.AddDate(0, r.Interval, 0)
	default:
		d = d.AddDate(0, 0, r.Interval)
	}
	return d.Format(DateLayout), nil
}

// Normalized clamps the interval to at least 1 and defaults the unit to days.
func (r Recurrence) Normalized() Recurrence {
	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case RecurWeeks:
		r.Type = RecurWeeks
	case RecurMonths:
		r.Type = RecurMonths
	default:
		r.Type = RecurDays
	}
	if r.Interval < 1 {
		r.Interval = 1
	}
	return r
}

const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
	TaskSkipped   = "skipped"
)

// Task is pending until exactly one of CompletedAt or SkippedAt is set.
type Task struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CarePlanID   *uint       `gorm:"index" json:"care_plan_id"`
	PlantID      uint        `gorm:"index" json:"plant_id"`
	TaskType     string      `gorm:"index" json:"task_type"`
	DueDate      string      `gorm:"index" json:"due_date"`
	Recurrence   *Recurrence `gorm:"serializer:json" json:"recurrence"`
	Instructions string      `json:"instructions"`
	Priority     string      `json:"priority"`
	CompletedAt  *time.Time  `json:"completed_at"`
	CompletedBy  *string     `json:"completed_by"`
	SkippedAt    *time.Time  `json:"skipped_at"`
	SkipReason   *string     `json:"skip_reason"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (t *Task) Status() string {
	switch {
	case t.CompletedAt != nil:
		return TaskCompleted
	case t.SkippedAt != nil:
		return TaskSkipped
	}
	return TaskPending
}

func (t *Task) Pending() bool { return t.CompletedAt == nil && t.SkippedAt == nil }

// TaskView is a task joined with the display fields of its plant.
type TaskView struct {
	Task
	PlantName string  `json:"plant_name"`
	Species   *string `json:"species"`
	Status    string  `json:"status" gorm:"-"`
}
