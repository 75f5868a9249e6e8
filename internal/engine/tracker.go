package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

// VisitTracker consumes the stream of location samples and maintains the
// "inside which place" state per owner. It is the only writer of visit
// sessions; everything it changes for one sample is committed as a single
// transition.
type VisitTracker struct {
	places     PlaceStore
	visits     VisitStore
	triggers   *TriggerEngine
	discoverer *PlaceDiscoverer
	cfg        Config
	locks      *ownerLocks
	loc        *time.Location
}

// NewVisitTracker creates a visit tracker. loc is the timezone used to derive
// day-of-week from entry timestamps; nil means the server's local timezone.
func NewVisitTracker(places PlaceStore, visits VisitStore, triggers *TriggerEngine, discoverer *PlaceDiscoverer, cfg Config, loc *time.Location) *VisitTracker {
	if loc == nil {
		loc = time.Local
	}
	return &VisitTracker{
		places:     places,
		visits:     visits,
		triggers:   triggers,
		discoverer: discoverer,
		cfg:        cfg,
		locks:      newOwnerLocks(),
		loc:        loc,
	}
}

// Observe processes one location sample for an owner. It returns the visit
// transition it caused, or nil when the sample left the state unchanged.
//
// Samples for the same owner are serialized; the open/close logic is not
// commutative and interleaving two samples could corrupt the open-visit
// invariant.
func (t *VisitTracker) Observe(ctx context.Context, uid string, lat, lon float64, ts time.Time) (*VisitTransition, error) {
	if !spatial.ValidCoordinate(lat, lon) {
		return nil, &InvalidInputError{Field: "coordinate", Reason: "latitude must be in [-90,90] and longitude in [-180,180]"}
	}
	if uid == "" {
		return nil, &InvalidInputError{Field: "uid", Reason: "must not be empty"}
	}

	mu := t.locks.get(uid)
	mu.Lock()
	defer mu.Unlock()

	open, err := t.visits.OpenVisit(ctx, uid)
	if err != nil {
		return nil, err
	}
	if open != nil && ts.Unix() < open.EnteredAt {
		return nil, &TemporalOrderingError{Timestamp: ts, OpenSince: time.Unix(open.EnteredAt, 0)}
	}

	candidates, err := t.places.PlacesNear(ctx, uid, lat, lon, t.cfg.SearchRadiusMeters)
	if err != nil {
		return nil, err
	}
	current := matchPlace(candidates, lat, lon)

	// Still inside the same place: nothing to do, dwell accrues implicitly.
	if open != nil && current != nil && current.ID == open.PlaceID {
		return nil, nil
	}

	// Not at a known place and no session open: only discovery cares.
	if open == nil && current == nil {
		t.discoverer.Ingest(uid, lat, lon, ts)
		return nil, nil
	}

	transition := &Transition{UID: uid}
	result := &VisitTransition{}

	if open != nil {
		closed := *open
		exited := ts.Unix()
		dwell := (exited - closed.EnteredAt) / 60
		closed.ExitedAt = &exited
		closed.DwellMinutes = &dwell
		closed.DayOfWeek = int(time.Unix(closed.EnteredAt, 0).In(t.loc).Weekday())
		transition.Closed = &closed
		result.Exited = &closed

		exitedPlace, err := t.places.GetPlace(ctx, closed.PlaceID)
		if err != nil {
			return nil, err
		}
		if exitedPlace == nil {
			return nil, &ConsistencyError{UID: uid, Detail: "open visit references unknown place " + closed.PlaceID}
		}
		result.ExitedPlace = exitedPlace
	}

	if current != nil {
		opened := &models.Visit{
			ID:        uuid.NewString(),
			UID:       uid,
			PlaceID:   current.ID,
			EnteredAt: ts.Unix(),
			DayOfWeek: int(ts.In(t.loc).Weekday()),
		}
		transition.Opened = opened
		result.Entered = opened
		result.EnteredPlace = current
	} else {
		// Leaving a place for unknown territory still feeds discovery.
		t.discoverer.Ingest(uid, lat, lon, ts)
	}

	if err := t.visits.ApplyTransition(ctx, transition); err != nil {
		return nil, err
	}

	// Trigger evaluation happens after the transition committed and can no
	// longer roll it back. Exit events fire before entry events.
	if result.ExitedPlace != nil {
		if _, err := t.triggers.Handle(ctx, result.ExitedPlace, models.TriggerExit, ts); err != nil {
			log.Printf("[VisitTracker] trigger handling failed on exit of place %s: %v", result.ExitedPlace.ID, err)
		}
	}
	if result.EnteredPlace != nil {
		if _, err := t.triggers.Handle(ctx, result.EnteredPlace, models.TriggerEntry, ts); err != nil {
			log.Printf("[VisitTracker] trigger handling failed on entry of place %s: %v", result.EnteredPlace.ID, err)
		}
	}

	return result, nil
}
