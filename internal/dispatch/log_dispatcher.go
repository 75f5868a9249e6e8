package dispatch

import (
	"context"
	"log"

	"github.com/jengzang/places-backend-go/internal/engine"
)

// LogDispatcher is the default action dispatcher: it writes each action
// request to the server log. Deployments integrating a notification or task
// system replace it behind the engine.ActionDispatcher interface.
type LogDispatcher struct{}

// NewLogDispatcher creates a log-only dispatcher.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Dispatch logs the action request.
func (d *LogDispatcher) Dispatch(_ context.Context, req engine.ActionRequest) error {
	log.Printf("[Dispatch] %s action for place %q (trigger=%s, owner=%s, payload=%s)",
		req.ActionType, req.PlaceName, req.TriggerID, req.UID, string(req.Payload))
	return nil
}
