package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

// PlaceService handles business logic for place CRUD and statistics. Visit
// state changes are the engine's job; this service never touches sessions.
type PlaceService struct {
	places *repository.PlaceRepository
	visits *repository.VisitRepository
	tags   *repository.TagRepository
	cfg    engine.Config
}

// NewPlaceService creates a new place service
func NewPlaceService(places *repository.PlaceRepository, visits *repository.VisitRepository, tags *repository.TagRepository, cfg engine.Config) *PlaceService {
	return &PlaceService{places: places, visits: visits, tags: tags, cfg: cfg}
}

// CreatePlace validates and persists a new place
func (s *PlaceService) CreatePlace(ctx context.Context, uid string, req models.PlaceCreate) (*models.Place, error) {
	if !spatial.ValidCoordinate(req.Latitude, req.Longitude) {
		return nil, &engine.InvalidInputError{Field: "coordinate", Reason: "latitude must be in [-90,90] and longitude in [-180,180]"}
	}
	if req.RadiusMeters == 0 {
		req.RadiusMeters = s.cfg.DefaultPlaceRadiusMeters
	}
	if req.RadiusMeters <= 0 {
		return nil, &engine.InvalidInputError{Field: "radiusMeters", Reason: "must be positive"}
	}
	if req.Category == "" {
		req.Category = models.CategoryOther
	}
	if !req.Category.IsValid() {
		return nil, &engine.InvalidInputError{Field: "category", Reason: "unknown category " + string(req.Category)}
	}

	place := &models.Place{
		ID:             uuid.NewString(),
		UID:            uid,
		Name:           req.Name,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		RadiusMeters:   req.RadiusMeters,
		Category:       req.Category,
		Address:        req.Address,
		IsAutoDetected: req.IsAutoDetected,
		Metadata:       req.Metadata,
	}
	if err := s.places.CreatePlace(ctx, place); err != nil {
		return nil, err
	}
	return s.places.GetPlace(ctx, place.ID)
}

// QuickAdd creates a place from the current location with minimal info,
// attaching tags by name and creating missing ones on the fly.
func (s *PlaceService) QuickAdd(ctx context.Context, uid string, req models.QuickAddRequest) (*models.Place, error) {
	name := req.Name
	if name == "" {
		name = "Location " + time.Now().Format("Jan 02 3:04PM")
	}
	place, err := s.CreatePlace(ctx, uid, models.PlaceCreate{
		Name:      name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Category:  req.Category,
		Metadata:  map[string]interface{}{"created_via": "quick_add"},
	})
	if err != nil {
		return nil, err
	}

	for _, tagName := range req.Tags {
		tag, err := s.tags.GetTagByName(ctx, uid, tagName)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			tag = &models.Tag{ID: uuid.NewString(), UID: uid, Name: tagName}
			if err := s.tags.CreateTag(ctx, tag); err != nil {
				return nil, err
			}
		}
		if err := s.tags.AddTagToPlace(ctx, place.ID, tag.ID); err != nil {
			return nil, err
		}
	}

	return place, nil
}

// GetPlace retrieves a single place, or nil when it does not exist
func (s *PlaceService) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	return s.places.GetPlace(ctx, id)
}

// ListPlaces retrieves the owner's places, optionally filtered by category
func (s *PlaceService) ListPlaces(ctx context.Context, uid string, category models.PlaceCategory) ([]models.Place, error) {
	if category != "" && !category.IsValid() {
		return nil, &engine.InvalidInputError{Field: "category", Reason: "unknown category " + string(category)}
	}
	return s.places.ListPlaces(ctx, uid, category)
}

// UpdatePlace validates and applies a partial update; nil result means the
// place does not exist
func (s *PlaceService) UpdatePlace(ctx context.Context, id string, upd models.PlaceUpdate) (*models.Place, error) {
	if upd.RadiusMeters != nil && *upd.RadiusMeters <= 0 {
		return nil, &engine.InvalidInputError{Field: "radiusMeters", Reason: "must be positive"}
	}
	if upd.Category != nil && !upd.Category.IsValid() {
		return nil, &engine.InvalidInputError{Field: "category", Reason: "unknown category " + string(*upd.Category)}
	}
	if upd.Latitude != nil || upd.Longitude != nil {
		current, err := s.places.GetPlace(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, nil
		}
		lat, lon := current.Latitude, current.Longitude
		if upd.Latitude != nil {
			lat = *upd.Latitude
		}
		if upd.Longitude != nil {
			lon = *upd.Longitude
		}
		if !spatial.ValidCoordinate(lat, lon) {
			return nil, &engine.InvalidInputError{Field: "coordinate", Reason: "latitude must be in [-90,90] and longitude in [-180,180]"}
		}
	}
	return s.places.UpdatePlace(ctx, id, upd)
}

// DeletePlace removes a place and everything it owns
func (s *PlaceService) DeletePlace(ctx context.Context, id string) (bool, error) {
	return s.places.DeletePlace(ctx, id)
}

// FindNearby returns the owner's places within maxDistanceMeters of the coordinate
func (s *PlaceService) FindNearby(ctx context.Context, uid string, lat, lon, maxDistanceMeters float64) ([]models.Place, error) {
	if !spatial.ValidCoordinate(lat, lon) {
		return nil, &engine.InvalidInputError{Field: "coordinate", Reason: "latitude must be in [-90,90] and longitude in [-180,180]"}
	}
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = s.cfg.NearbyRadiusMeters
	}
	return s.places.PlacesNear(ctx, uid, lat, lon, maxDistanceMeters)
}

// MostVisited returns the owner's places ordered by visit count
func (s *PlaceService) MostVisited(ctx context.Context, uid string, limit int) ([]models.Place, error) {
	return s.places.MostVisited(ctx, uid, limit)
}

// CurrentPlace returns the place of the owner's open visit, or nil
func (s *PlaceService) CurrentPlace(ctx context.Context, uid string) (*models.Place, error) {
	open, err := s.visits.OpenVisit(ctx, uid)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, nil
	}
	return s.places.GetPlace(ctx, open.PlaceID)
}

// PlaceStats summarizes visit history for one place; nil when it does not exist
func (s *PlaceService) PlaceStats(ctx context.Context, id string) (*models.PlaceStats, error) {
	place, err := s.places.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, nil
	}

	stats := &models.PlaceStats{
		PlaceID:           place.ID,
		Name:              place.Name,
		Category:          place.Category.Label(),
		VisitCount:        place.VisitCount,
		TotalDwellMinutes: place.TotalDwellMinutes,
		FirstVisited:      place.FirstVisited,
		LastVisited:       place.LastVisited,
	}
	if place.VisitCount > 0 {
		stats.AvgDwellMinutes = float64(place.TotalDwellMinutes) / float64(place.VisitCount)
	}
	return stats, nil
}

// PlaceVisits returns the most recent visits to a place. The bool reports
// whether the place exists.
func (s *PlaceService) PlaceVisits(ctx context.Context, id string, limit int) ([]models.Visit, bool, error) {
	place, err := s.places.GetPlace(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if place == nil {
		return nil, false, nil
	}
	visits, err := s.visits.VisitsForPlace(ctx, id, limit)
	if err != nil {
		return nil, true, err
	}
	return visits, true, nil
}
