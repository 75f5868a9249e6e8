package engine

import (
	"context"
	"log"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// TriggerEngine evaluates entry/exit events against the place's configured
// triggers. Each qualifying trigger fires independently, at most once per its
// own cooldown window, in creation order.
type TriggerEngine struct {
	store      TriggerStore
	dispatcher ActionDispatcher
}

// NewTriggerEngine creates a trigger engine.
func NewTriggerEngine(store TriggerStore, dispatcher ActionDispatcher) *TriggerEngine {
	return &TriggerEngine{store: store, dispatcher: dispatcher}
}

// Handle fires the place's triggers matching eventType and returns the action
// requests it emitted. A trigger inside its cooldown is skipped. Dispatch is
// fire-and-forget: last_triggered is updated before delivery is attempted, so
// the once-per-cooldown guarantee holds even when delivery fails.
func (e *TriggerEngine) Handle(ctx context.Context, place *models.Place, eventType models.TriggerType, now time.Time) ([]ActionRequest, error) {
	if !eventType.IsValid() {
		return nil, &InvalidInputError{Field: "eventType", Reason: "must be entry or exit"}
	}

	triggers, err := e.store.EnabledTriggers(ctx, place.ID, eventType)
	if err != nil {
		return nil, err
	}

	var fired []ActionRequest
	for _, trig := range triggers {
		if trig.LastTriggered != nil {
			elapsed := now.Unix() - *trig.LastTriggered
			if elapsed < trig.CooldownMinutes*60 {
				continue
			}
		}

		if err := e.store.MarkFired(ctx, trig.ID, now); err != nil {
			log.Printf("[TriggerEngine] failed to mark trigger %s fired: %v", trig.ID, err)
			continue
		}

		req := ActionRequest{
			TriggerID:  trig.ID,
			UID:        trig.UID,
			PlaceID:    place.ID,
			PlaceName:  place.Name,
			ActionType: trig.ActionType,
			Payload:    trig.ActionPayload,
			FiredAt:    now.Unix(),
		}
		fired = append(fired, req)

		if err := e.dispatcher.Dispatch(ctx, req); err != nil {
			derr := &DispatchError{TriggerID: trig.ID, Err: err}
			log.Printf("[TriggerEngine] %v (action %s on %q)", derr, e.describeAction(trig.ActionType), place.Name)
		}
	}

	return fired, nil
}

// describeAction maps the closed action set to log wording. The switch is
// exhaustive over models.TriggerAction.
func (e *TriggerEngine) describeAction(a models.TriggerAction) string {
	switch a {
	case models.ActionReminder:
		return "reminder"
	case models.ActionModeSwitch:
		return "mode switch"
	case models.ActionNotification:
		return "notification"
	case models.ActionTaskCreate:
		return "task creation"
	}
	return string(a)
}
