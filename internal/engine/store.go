package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// The engine persists through these interfaces and never through a concrete
// database. internal/repository provides the sqlite implementations.

// PlaceStore is the place lookup/creation surface the engine needs.
type PlaceStore interface {
	// GetPlace returns the place or nil when it does not exist.
	GetPlace(ctx context.Context, id string) (*models.Place, error)
	// PlacesNear returns the owner's places whose center lies within
	// maxDistanceMeters of the coordinate.
	PlacesNear(ctx context.Context, uid string, lat, lon, maxDistanceMeters float64) ([]models.Place, error)
	CreatePlace(ctx context.Context, place *models.Place) error
}

// VisitStore tracks visit sessions. OpenVisit must return a ConsistencyError
// when more than one open session exists for the owner.
type VisitStore interface {
	OpenVisit(ctx context.Context, uid string) (*models.Visit, error)
	VisitsBetween(ctx context.Context, uid string, from, to time.Time) ([]models.Visit, error)
	MarkRoutine(ctx context.Context, visitIDs []string) error
	// ApplyTransition applies the close/open pair and the exited place's
	// aggregate updates as one atomic unit.
	ApplyTransition(ctx context.Context, t *Transition) error
}

// TriggerStore is the trigger surface the engine needs.
type TriggerStore interface {
	// EnabledTriggers returns enabled triggers for the place with the given
	// type, in creation order.
	EnabledTriggers(ctx context.Context, placeID string, triggerType models.TriggerType) ([]models.Trigger, error)
	MarkFired(ctx context.Context, triggerID string, at time.Time) error
}

// TagStore resolves tag names for context snapshots.
type TagStore interface {
	PlaceTagNames(ctx context.Context, placeID string) ([]string, error)
}

// ListStore resolves list names for context snapshots.
type ListStore interface {
	PlaceListNames(ctx context.Context, placeID string) ([]string, error)
}

// Transition is the atomic write produced by one visit state change. Closed
// and Opened may each be nil, never both.
type Transition struct {
	UID string
	// Closed is the visit to close, with ExitedAt/DwellMinutes/DayOfWeek set.
	Closed *models.Visit
	// Opened is the new visit to insert, with ExitedAt nil.
	Opened *models.Visit
}

// VisitTransition is what Observe reports back to its caller.
type VisitTransition struct {
	Exited       *models.Visit  `json:"exited,omitempty"`
	ExitedPlace  *models.Place  `json:"exitedPlace,omitempty"`
	Entered      *models.Visit  `json:"entered,omitempty"`
	EnteredPlace *models.Place  `json:"enteredPlace,omitempty"`
}

// ActionRequest is handed to the action dispatcher when a trigger fires.
// Payload is the trigger's action_payload, forwarded verbatim.
type ActionRequest struct {
	TriggerID  string               `json:"triggerId"`
	UID        string               `json:"uid"`
	PlaceID    string               `json:"placeId"`
	PlaceName  string               `json:"placeName"`
	ActionType models.TriggerAction `json:"actionType"`
	Payload    json.RawMessage      `json:"payload,omitempty"`
	FiredAt    int64                `json:"firedAt"` // Unix timestamp
}

// ActionDispatcher delivers action requests to the outside world. Delivery is
// fire-and-forget; failures must not affect the visit transition.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, req ActionRequest) error
}
