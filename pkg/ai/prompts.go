package ai

import (
	"fmt"
	"sort"
	"strings"

	"plantcare/entities"
)

const systemPlantExpert = "You are a houseplant care expert. Tailor every answer to the specific plant described."

func or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func describePlant(p entities.Plant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", or(p.Name, "unnamed"))
	fmt.Fprintf(&b, "Species: %s\n", or(p.SpeciesName(), "Unknown houseplant"))
	if p.SpeciesConfidence != nil && !p.SpeciesConfirmed {
		fmt.Fprintf(&b, "Species confidence: %.0f%%\n", *p.SpeciesConfidence*100)
	}
	fmt.Fprintf(&b, "Pot size: %s\n", or(p.PotSize, "medium"))
	fmt.Fprintf(&b, "Soil type: %s\n", or(p.SoilType, "standard"))
	fmt.Fprintf(&b, "Light condition: %s\n", or(p.LightCondition, "medium"))
	fmt.Fprintf(&b, "Location: %s\n", or(p.Location, "Not specified"))
	fmt.Fprintf(&b, "Current health: %s\n", or(p.HealthStatus, entities.HealthUnknown))
	if p.IsPropagation {
		b.WriteString("PROPAGATION: this is a cutting being rooted, not a mature plant\n")
		if p.PropagationDate != nil {
			fmt.Fprintf(&b, "Propagation started: %s\n", *p.PropagationDate)
		}
		if p.WaterMedium() {
			b.WriteString("Growing medium: water\n")
		} else {
			fmt.Fprintf(&b, "Growing medium: %s\n", or(p.SoilType, "rooting medium"))
		}
	}
	if p.HasGrowLight {
		hours := "unspecified"
		if p.GrowLightHours != nil {
			hours = fmt.Sprintf("%g", *p.GrowLightHours)
		}
		fmt.Fprintf(&b, "Grow light: yes, %s hours/day\n", hours)
	}
	if strings.TrimSpace(p.Notes) != "" {
		fmt.Fprintf(&b, "Owner's notes: %s\n", p.Notes)
	}
	return b.String()
}

func renderCarePlanPrompt(in PlanInput) string {
	var hist strings.Builder
	for i, l := range in.CareLog {
		if i == 10 {
			break
		}
		fmt.Fprintf(&hist, "- %s on %s", l.Action, l.PerformedAt.Format(entities.DateLayout))
		if l.Outcome != "" {
			fmt.Fprintf(&hist, " (outcome: %s)", l.Outcome)
		}
		hist.WriteString("\n")
	}
	var stats strings.Builder
	keys := make([]string, 0, len(in.Stats))
	for k := range in.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&stats, "- %s: %d completed\n", k, in.Stats[k])
	}

	return fmt.Sprintf(`Generate a care plan for this plant.

%s
Season: %s
Today's date: %s

Recent care history:
%s
Completed task counts:
%s
Known care needs for this species:
%s

Care guide notes:
%s

Build a personalised schedule from the species needs, the season, the plant's health and its history.

Respond ONLY with valid JSON:
{
  "reasoning": "short rationale",
  "next_photo_check": "YYYY-MM-DD",
  "photo_check_reason": "why a photo is wanted then",
  "tasks": [
    {
      "type": "water|fertilize|trim|repot|rotate|mist|check|change_water|check_roots|pot_up",
      "due_date": "YYYY-MM-DD",
      "recurrence": {"type": "days", "interval": 7},
      "instructions": "specific instructions",
      "priority": "low|normal|high|urgent"
    }
  ]
}

Include 3-5 different task types with intervals suited to the species and season.
For water propagations use "change_water" (every 3-7 days) instead of "water", add "check_roots",
add "pot_up" when roots should be ready and do not fertilize.
More grow light hours mean more water.`,
		describePlant(in.Plant), in.Season, in.Today,
		or(hist.String(), "none\n"), or(stats.String(), "none\n"),
		or(in.SpeciesNotes, "none"), or(in.GuideNotes, "none"))
}

const chatInstruction = `

If you recommend a change to the plant's information or care schedule, include it in suggested_actions.
Always respond with valid JSON:
{
  "content": "your reply to the user",
  "suggested_actions": [
    {"type": "update_species|update_care_schedule|update_notes|update_health",
     "field": "field to update", "current": "current value", "new": "proposed value", "reason": "why"}
  ]
}
Leave suggested_actions empty when nothing should change.`

func renderChatSystem(in ChatInput) string {
	var b strings.Builder
	b.WriteString("You are a friendly plant care expert chatting about one specific plant. Never give generic advice.\n\n")
	b.WriteString("## This plant\n")
	b.WriteString(describePlant(in.Plant))
	if len(in.CareLog) > 0 {
		b.WriteString("\n## Recent care\n")
		for i, l := range in.CareLog {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s", l.PerformedAt.Format("Jan 2"), l.Action)
			if l.Notes != "" {
				fmt.Fprintf(&b, " - %s", l.Notes)
			}
			b.WriteString("\n")
		}
	}
	if len(in.Tasks) > 0 {
		b.WriteString("\n## Scheduled tasks\n")
		for i, t := range in.Tasks {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s", t.DueDate, t.TaskType)
			if t.Instructions != "" {
				fmt.Fprintf(&b, " - %s", t.Instructions)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\nIf the species identification looks wrong, suggest correcting it.")
	return b.String()
}

// chatMessages appends the action instruction to the last user turn.
func chatMessages(in ChatInput) []Message {
	msgs := make([]Message, len(in.Messages))
	copy(msgs, in.Messages)
	if n := len(msgs); n > 0 && msgs[n-1].Role == "user" {
		msgs[n-1].Content += chatInstruction
	}
	return msgs
}

const identifyPrompt = `Analyze this plant photo and identify:
1. Species or common name with a confidence from 0 to 1
2. Up to 3 candidate species with confidences when uncertain
3. Health: thriving, healthy, struggling, critical or unknown
4. Visible issues such as pests, disease or over/under watering
5. Maturity: young, juvenile, mature or unknown

Respond ONLY with valid JSON:
{"species": "Common Name (Scientific Name)", "confidence": 0.85,
 "candidates": [{"species": "...", "confidence": 0.85}],
 "health_status": "healthy", "issues": [], "maturity": "mature", "notes": ""}
Always include at least one candidate.`

func renderHealthPrompt(p entities.Plant) string {
	return fmt.Sprintf(`Analyze this plant photo for health.

%s
Assess the health status (thriving, healthy, struggling, critical), visible problems,
recommendations and whether the pot, soil and light suit the plant.

Respond ONLY with valid JSON:
{"health_status": "healthy", "issues": [], "recommendations": [],
 "conditions_appropriate": true, "condition_notes": "", "urgency": "none|low|medium|high"}`, describePlant(p))
}
