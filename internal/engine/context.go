package engine

import (
	"context"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// PlaceContextBuilder composes the owner's current situation into one
// snapshot for presentation layers. It only reads; it is safe to call at
// arbitrary frequency.
type PlaceContextBuilder struct {
	places   PlaceStore
	visits   VisitStore
	tags     TagStore
	lists    ListStore
	routines *RoutineAnalyzer
	cfg      Config
	loc      *time.Location
	now      func() time.Time
}

// NewPlaceContextBuilder creates a context builder.
func NewPlaceContextBuilder(places PlaceStore, visits VisitStore, tags TagStore, lists ListStore, routines *RoutineAnalyzer, cfg Config, loc *time.Location) *PlaceContextBuilder {
	if loc == nil {
		loc = time.Local
	}
	return &PlaceContextBuilder{
		places:   places,
		visits:   visits,
		tags:     tags,
		lists:    lists,
		routines: routines,
		cfg:      cfg,
		loc:      loc,
		now:      time.Now,
	}
}

// Build assembles the owner's place context. lat/lon are optional; without
// them the current place comes from the open visit alone and nearby places
// are omitted.
func (b *PlaceContextBuilder) Build(ctx context.Context, uid string, lat, lon *float64) (*models.PlaceContext, error) {
	now := b.now()
	out := &models.PlaceContext{
		NearbyPlaces:      []models.Place{},
		CurrentPlaceTags:  []string{},
		CurrentPlaceLists: []string{},
	}

	open, err := b.visits.OpenVisit(ctx, uid)
	if err != nil {
		return nil, err
	}

	var current *models.Place
	if open != nil {
		current, err = b.places.GetPlace(ctx, open.PlaceID)
		if err != nil {
			return nil, err
		}
		minutes := (now.Unix() - open.EnteredAt) / 60
		out.TimeAtCurrentPlace = &minutes
	}

	if lat != nil && lon != nil {
		nearby, err := b.places.PlacesNear(ctx, uid, *lat, *lon, b.cfg.NearbyRadiusMeters)
		if err != nil {
			return nil, err
		}
		out.NearbyPlaces = nearby

		// The coordinate wins over a stale open visit when the two disagree;
		// this is the same matching rule the tracker applies, read-only.
		if matched := matchPlace(nearby, *lat, *lon); matched != nil {
			if current == nil || current.ID != matched.ID {
				current = matched
				out.TimeAtCurrentPlace = nil
			}
		}
	}

	if current != nil {
		out.CurrentPlace = current
		out.IsAtKnownPlace = true
		out.PlaceCategory = current.Category.Label()

		tagNames, err := b.tags.PlaceTagNames(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		if tagNames != nil {
			out.CurrentPlaceTags = tagNames
		}
		listNames, err := b.lists.PlaceListNames(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		if listNames != nil {
			out.CurrentPlaceLists = listNames
		}
	}

	mostVisited, err := b.mostVisitedToday(ctx, uid, now)
	if err != nil {
		return nil, err
	}
	out.MostVisitedToday = mostVisited

	expected, err := b.routines.ExpectedPlace(ctx, uid, now)
	if err != nil {
		return nil, err
	}
	if expected != nil {
		out.TypicalPlaceForTime = expected.PlaceName
	}

	return out, nil
}

func (b *PlaceContextBuilder) mostVisitedToday(ctx context.Context, uid string, now time.Time) (string, error) {
	local := now.In(b.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, b.loc)

	visits, err := b.visits.VisitsBetween(ctx, uid, midnight, now)
	if err != nil {
		return "", err
	}
	counts := make(map[string]int)
	for _, v := range visits {
		counts[v.PlaceID]++
	}

	bestID := ""
	best := 0
	for id, n := range counts {
		if n > best || (n == best && id < bestID) {
			bestID = id
			best = n
		}
	}
	if bestID == "" {
		return "", nil
	}
	place, err := b.places.GetPlace(ctx, bestID)
	if err != nil || place == nil {
		return "", err
	}
	return place.Name, nil
}
