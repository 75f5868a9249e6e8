package engine

import (
	"context"
	"sync"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

// memStore is an in-memory implementation of the engine's store interfaces,
// good enough to drive the engine through whole scenarios without a database.
type memStore struct {
	mu       sync.Mutex
	places   map[string]*models.Place
	visits   []*models.Visit
	triggers []*models.Trigger
	tags     map[string][]string
	lists    map[string][]string
}

func newMemStore() *memStore {
	return &memStore{
		places: make(map[string]*models.Place),
		tags:   make(map[string][]string),
		lists:  make(map[string][]string),
	}
}

func (s *memStore) addPlace(p models.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.places[p.ID] = &cp
}

func (s *memStore) addVisit(v models.Visit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := v
	s.visits = append(s.visits, &cp)
}

func (s *memStore) addTrigger(t models.Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := t
	s.triggers = append(s.triggers, &cp)
}

func (s *memStore) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) PlacesNear(ctx context.Context, uid string, lat, lon, maxDistanceMeters float64) ([]models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Place
	for _, p := range s.places {
		if p.UID != uid {
			continue
		}
		if spatial.HaversineDistance(lat, lon, p.Latitude, p.Longitude) <= maxDistanceMeters {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) CreatePlace(ctx context.Context, place *models.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *place
	s.places[place.ID] = &cp
	return nil
}

func (s *memStore) OpenVisit(ctx context.Context, uid string) (*models.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var open *models.Visit
	for _, v := range s.visits {
		if v.UID != uid || v.ExitedAt != nil {
			continue
		}
		if open != nil {
			return nil, &ConsistencyError{UID: uid, Detail: "multiple open visits"}
		}
		open = v
	}
	if open == nil {
		return nil, nil
	}
	cp := *open
	return &cp, nil
}

func (s *memStore) VisitsBetween(ctx context.Context, uid string, from, to time.Time) ([]models.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Visit
	for _, v := range s.visits {
		if v.UID != uid {
			continue
		}
		if v.EnteredAt < from.Unix() || v.EnteredAt > to.Unix() {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *memStore) MarkRoutine(ctx context.Context, visitIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]struct{}, len(visitIDs))
	for _, id := range visitIDs {
		ids[id] = struct{}{}
	}
	for _, v := range s.visits {
		if _, ok := ids[v.ID]; ok {
			v.IsRoutine = true
		}
	}
	return nil
}

func (s *memStore) ApplyTransition(ctx context.Context, t *Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Closed != nil {
		closed := false
		for _, v := range s.visits {
			if v.ID == t.Closed.ID && v.ExitedAt == nil {
				v.ExitedAt = t.Closed.ExitedAt
				v.DwellMinutes = t.Closed.DwellMinutes
				v.DayOfWeek = t.Closed.DayOfWeek
				closed = true
				break
			}
		}
		if !closed {
			return &ConsistencyError{UID: t.UID, Detail: "open visit " + t.Closed.ID + " vanished before close"}
		}
		if p, ok := s.places[t.Closed.PlaceID]; ok {
			p.VisitCount++
			if t.Closed.DwellMinutes != nil {
				p.TotalDwellMinutes += *t.Closed.DwellMinutes
			}
			if p.FirstVisited == nil {
				entered := t.Closed.EnteredAt
				p.FirstVisited = &entered
			}
			p.LastVisited = t.Closed.ExitedAt
		}
	}
	if t.Opened != nil {
		cp := *t.Opened
		s.visits = append(s.visits, &cp)
	}
	return nil
}

func (s *memStore) EnabledTriggers(ctx context.Context, placeID string, triggerType models.TriggerType) ([]models.Trigger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Trigger
	for _, t := range s.triggers {
		if t.PlaceID == placeID && t.TriggerType == triggerType && t.Enabled {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memStore) MarkFired(ctx context.Context, triggerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.triggers {
		if t.ID == triggerID {
			fired := at.Unix()
			t.LastTriggered = &fired
			return nil
		}
	}
	return nil
}

func (s *memStore) PlaceTagNames(ctx context.Context, placeID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags[placeID], nil
}

func (s *memStore) PlaceListNames(ctx context.Context, placeID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists[placeID], nil
}

func (s *memStore) visitByID(id string) *models.Visit {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.visits {
		if v.ID == id {
			cp := *v
			return &cp
		}
	}
	return nil
}

// recordingDispatcher captures dispatched action requests.
type recordingDispatcher struct {
	mu   sync.Mutex
	reqs []ActionRequest
	err  error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, req ActionRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reqs = append(d.reqs, req)
	return d.err
}

func (d *recordingDispatcher) requests() []ActionRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ActionRequest, len(d.reqs))
	copy(out, d.reqs)
	return out
}
