package serviceImp

import (
	"strings"
	"time"

	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/season"
)

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func validDate(s, def string) string {
	if _, err := time.Parse(entities.DateLayout, strings.TrimSpace(s)); err != nil {
		return def
	}
	return strings.TrimSpace(s)
}

// fallbackDraft is the default plan used whenever the provider fails.
func fallbackDraft(plant *entities.Plant, seasonName string, now time.Time) *ai.PlanDraft {
	day := func(n int) string { return now.AddDate(0, 0, n).Format(entities.DateLayout) }

	water := 7
	fertilize := 30
	switch seasonName {
	case season.Summer:
		water = 5
	case season.Winter:
		water = 10
		fertilize = 60
	}

	d := &ai.PlanDraft{
		Reasoning:        "Default care plan based on general houseplant guidelines",
		NextPhotoCheck:   day(photoCheckDays),
		PhotoCheckReason: "Regular health check",
		Tasks: []ai.DraftTask{
			{
				Type:         entities.TaskWater,
				DueDate:      day(0),
				Recurrence:   &entities.Recurrence{Type: entities.RecurDays, Interval: water},
				Instructions: "Water thoroughly until water drains from bottom",
				Priority:     entities.PriorityNormal,
			},
			{
				Type:         entities.TaskCheck,
				DueDate:      day(3),
				Recurrence:   &entities.Recurrence{Type: entities.RecurDays, Interval: 7},
				Instructions: "Check soil moisture and leaf condition",
				Priority:     entities.PriorityLow,
			},
			{
				Type:         entities.TaskFertilize,
				DueDate:      day(14),
				Recurrence:   &entities.Recurrence{Type: entities.RecurDays, Interval: fertilize},
				Instructions: "Apply balanced liquid fertilizer at half strength",
				Priority:     entities.PriorityLow,
			},
		},
	}
	if plant.IsPropagation && plant.WaterMedium() {
		d.Tasks = append(d.Tasks, ai.DraftTask{
			Type:         entities.TaskChangeWater,
			DueDate:      day(3),
			Recurrence:   &entities.Recurrence{Type: entities.RecurDays, Interval: 5},
			Instructions: "Replace the water with fresh room-temperature water",
			Priority:     entities.PriorityNormal,
		})
	}
	return d
}

// normalizeTasks turns draft tasks into rows: lowercased types, valid dates,
// normalised recurrence and priority, one task per type and due date.
func normalizeTasks(plantID uint, in []ai.DraftTask, today string) []entities.Task {
	out := make([]entities.Task, 0, len(in))
	seen := map[string]bool{}
	for _, d := range in {
		typ := strings.ToLower(strings.TrimSpace(d.Type))
		if typ == "prune" {
			typ = entities.TaskTrim
		}
		if typ == "" {
			continue
		}
		due := validDate(d.DueDate, today)
		if due < today {
			due = today
		}
		key := typ + "|" + due
		if seen[key] {
			continue
		}
		seen[key] = true
		var rec *entities.Recurrence
		if d.Recurrence != nil {
			r := d.Recurrence.Normalized()
			rec = &r
		}
		out = append(out, entities.Task{
			PlantID:      plantID,
			TaskType:     typ,
			DueDate:      due,
			Recurrence:   rec,
			Instructions: strings.TrimSpace(d.Instructions),
			Priority:     entities.NormalizePriority(d.Priority),
		})
	}
	return out
}

// filterTasks drops, in order: disabled types, rotate on fixed plants, and
// the task types that do not apply to the propagation medium.
func filterTasks(plant *entities.Plant, disabled map[string]bool, tasks []entities.Task) []entities.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if disabled[t.TaskType] {
			continue
		}
		if t.TaskType == entities.TaskRotate && !plant.Rotatable() {
			continue
		}
		if plant.IsPropagation {
			if plant.WaterMedium() {
				switch t.TaskType {
				case entities.TaskWater, entities.TaskFertilize, entities.TaskRotate:
					continue
				}
			} else if t.TaskType == entities.TaskChangeWater {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
