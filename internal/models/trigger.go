package models

import "encoding/json"

// TriggerType selects which visit transition fires a trigger
type TriggerType string

const (
	TriggerEntry TriggerType = "entry"
	TriggerExit  TriggerType = "exit"
)

// IsValid reports whether t is a known trigger type.
func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerEntry, TriggerExit:
		return true
	}
	return false
}

// TriggerAction is the kind of side effect a trigger requests
type TriggerAction string

const (
	ActionReminder     TriggerAction = "reminder"
	ActionModeSwitch   TriggerAction = "mode_switch"
	ActionNotification TriggerAction = "notification"
	ActionTaskCreate   TriggerAction = "task_create"
)

// IsValid reports whether a is a known action type.
func (a TriggerAction) IsValid() bool {
	switch a {
	case ActionReminder, ActionModeSwitch, ActionNotification, ActionTaskCreate:
		return true
	}
	return false
}

// Trigger is an automation attached to a place. It fires on the matching
// entry/exit event, at most once per cooldown window.
type Trigger struct {
	ID      string `json:"id" db:"id"`
	UID     string `json:"uid" db:"uid"`
	PlaceID string `json:"placeId" db:"place_id"`

	Name        string        `json:"name" db:"name"`
	TriggerType TriggerType   `json:"triggerType" db:"trigger_type"`
	ActionType  TriggerAction `json:"actionType" db:"action_type"`

	// ActionPayload is forwarded verbatim to the action dispatcher
	ActionPayload json.RawMessage `json:"actionPayload,omitempty" db:"action_payload"`

	Enabled         bool   `json:"enabled" db:"enabled"`
	CooldownMinutes int64  `json:"cooldownMinutes" db:"cooldown_minutes"`
	LastTriggered   *int64 `json:"lastTriggered,omitempty" db:"last_triggered"` // Unix timestamp

	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}

// TriggerCreate is the payload for creating a trigger
type TriggerCreate struct {
	Name            string          `json:"name" binding:"required"`
	TriggerType     TriggerType     `json:"triggerType" binding:"required"`
	ActionType      TriggerAction   `json:"actionType" binding:"required"`
	ActionPayload   json.RawMessage `json:"actionPayload"`
	Enabled         *bool           `json:"enabled"`
	CooldownMinutes *int64          `json:"cooldownMinutes"`
}
