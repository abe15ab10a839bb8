package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	ActionUpdateSpecies      = "update_species"
	ActionUpdateCareSchedule = "update_care_schedule"
	ActionUpdateNotes        = "update_notes"
	ActionUpdateHealth       = "update_health"
)

// Action is a change the assistant proposes for a plant. The concrete
// types below are the only implementations.
type Action interface {
	ActionType() string
}

type UpdateSpecies struct {
	Species string
	Reason  string
}

type UpdateCareSchedule struct {
	Reason string
}

type UpdateNotes struct {
	Notes  string
	Reason string
}

type UpdateHealth struct {
	Status string
	Reason string
}

func (UpdateSpecies) ActionType() string      { return ActionUpdateSpecies }
func (UpdateCareSchedule) ActionType() string { return ActionUpdateCareSchedule }
func (UpdateNotes) ActionType() string        { return ActionUpdateNotes }
func (UpdateHealth) ActionType() string       { return ActionUpdateHealth }

// wireAction is the JSON shape models emit and clients send back.
type wireAction struct {
	Type    string          `json:"type"`
	Field   string          `json:"field,omitempty"`
	Current json.RawMessage `json:"current,omitempty"`
	New     json.RawMessage `json:"new,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

func (a UpdateSpecies) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireAction{Type: ActionUpdateSpecies, Field: "species", New: quote(a.Species), Reason: a.Reason})
}

func (a UpdateCareSchedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireAction{Type: ActionUpdateCareSchedule, Field: "care_schedule", Reason: a.Reason})
}

func (a UpdateNotes) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireAction{Type: ActionUpdateNotes, Field: "notes", New: quote(a.Notes), Reason: a.Reason})
}

func (a UpdateHealth) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireAction{Type: ActionUpdateHealth, Field: "health_status", New: quote(a.Status), Reason: a.Reason})
}

// DecodeAction parses one tagged action.
func DecodeAction(raw []byte) (Action, error) {
	var w wireAction
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	nv := rawText(w.New)
	reason := strings.TrimSpace(w.Reason)
	switch strings.TrimSpace(w.Type) {
	case ActionUpdateSpecies:
		if nv == "" {
			return nil, fmt.Errorf("update_species: new value required")
		}
		return UpdateSpecies{Species: nv, Reason: reason}, nil
	case ActionUpdateCareSchedule:
		return UpdateCareSchedule{Reason: reason}, nil
	case ActionUpdateNotes:
		if nv == "" {
			return nil, fmt.Errorf("update_notes: new value required")
		}
		return UpdateNotes{Notes: nv, Reason: reason}, nil
	case ActionUpdateHealth:
		if nv == "" {
			return nil, fmt.Errorf("update_health: new value required")
		}
		return UpdateHealth{Status: strings.ToLower(nv), Reason: reason}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", w.Type)
}

// DecodeActions keeps the well-formed actions and drops the rest.
func DecodeActions(raws []json.RawMessage) []Action {
	out := make([]Action, 0, len(raws))
	for _, r := range raws {
		if a, err := DecodeAction(r); err == nil {
			out = append(out, a)
		}
	}
	return out
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// rawText returns a JSON string's value, or the raw JSON for other values.
func rawText(r json.RawMessage) string {
	if len(r) == 0 || string(r) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r))
}
