package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

const placeColumns = `id, uid, name, latitude, longitude, radius_meters, category, address,
	is_auto_detected, is_confirmed, visit_count, total_dwell_minutes,
	first_visited, last_visited, metadata, created_at, updated_at`

// PlaceRepository handles database operations for places
type PlaceRepository struct {
	db *sql.DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *sql.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func scanPlace(row interface{ Scan(...interface{}) error }) (*models.Place, error) {
	var p models.Place
	var firstVisited, lastVisited sql.NullInt64
	var metadata sql.NullString
	err := row.Scan(
		&p.ID, &p.UID, &p.Name, &p.Latitude, &p.Longitude, &p.RadiusMeters,
		&p.Category, &p.Address, &p.IsAutoDetected, &p.IsConfirmed,
		&p.VisitCount, &p.TotalDwellMinutes,
		&firstVisited, &lastVisited, &metadata, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if firstVisited.Valid {
		p.FirstVisited = &firstVisited.Int64
	}
	if lastVisited.Valid {
		p.LastVisited = &lastVisited.Int64
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &p.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode place metadata: %w", err)
		}
	}
	return &p, nil
}

func marshalMetadata(m map[string]interface{}) (interface{}, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode place metadata: %w", err)
	}
	return string(raw), nil
}

// CreatePlace inserts a new place
func (r *PlaceRepository) CreatePlace(ctx context.Context, p *models.Place) error {
	metadata, err := marshalMetadata(p.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO places
		(id, uid, name, latitude, longitude, radius_meters, category, address,
		 is_auto_detected, is_confirmed, visit_count, total_dwell_minutes,
		 first_visited, last_visited, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.UID, p.Name, p.Latitude, p.Longitude, p.RadiusMeters,
		p.Category, p.Address, p.IsAutoDetected, p.IsConfirmed,
		p.VisitCount, p.TotalDwellMinutes, p.FirstVisited, p.LastVisited, metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to insert place: %w", err)
	}
	return nil
}

// GetPlace retrieves a single place by ID, or nil when it does not exist
func (r *PlaceRepository) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places WHERE id = ?"
	p, err := scanPlace(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return p, nil
}

// ListPlaces retrieves the owner's places, optionally filtered by category
func (r *PlaceRepository) ListPlaces(ctx context.Context, uid string, category models.PlaceCategory) ([]models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places WHERE uid = ?"
	args := []interface{}{uid}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY name"

	return r.queryPlaces(ctx, query, args...)
}

// PlacesNear returns the owner's places whose center lies within
// maxDistanceMeters of the coordinate. A bounding box prefilters in SQL; the
// exact haversine check runs on the survivors.
func (r *PlaceRepository) PlacesNear(ctx context.Context, uid string, lat, lon, maxDistanceMeters float64) ([]models.Place, error) {
	minLat, maxLat, minLon, maxLon := spatial.BoundingBox(lat, lon, maxDistanceMeters)
	query := "SELECT " + placeColumns + ` FROM places
		WHERE uid = ? AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`
	candidates, err := r.queryPlaces(ctx, query, uid, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}

	var places []models.Place
	for _, p := range candidates {
		if spatial.HaversineDistance(lat, lon, p.Latitude, p.Longitude) <= maxDistanceMeters {
			places = append(places, p)
		}
	}
	return places, nil
}

// MostVisited returns the owner's places ordered by visit count
func (r *PlaceRepository) MostVisited(ctx context.Context, uid string, limit int) ([]models.Place, error) {
	if limit < 1 {
		limit = 10
	}
	query := "SELECT " + placeColumns + ` FROM places
		WHERE uid = ? AND visit_count > 0
		ORDER BY visit_count DESC, name LIMIT ?`
	return r.queryPlaces(ctx, query, uid, limit)
}

// UpdatePlace applies a partial update and returns the updated place, or nil
// when the place does not exist
func (r *PlaceRepository) UpdatePlace(ctx context.Context, id string, upd models.PlaceUpdate) (*models.Place, error) {
	var sets []string
	var args []interface{}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Latitude != nil {
		sets = append(sets, "latitude = ?")
		args = append(args, *upd.Latitude)
	}
	if upd.Longitude != nil {
		sets = append(sets, "longitude = ?")
		args = append(args, *upd.Longitude)
	}
	if upd.RadiusMeters != nil {
		sets = append(sets, "radius_meters = ?")
		args = append(args, *upd.RadiusMeters)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *upd.Address)
	}
	if upd.IsConfirmed != nil {
		sets = append(sets, "is_confirmed = ?")
		args = append(args, *upd.IsConfirmed)
	}
	if upd.Metadata != nil {
		metadata, err := marshalMetadata(upd.Metadata)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "metadata = ?")
		args = append(args, metadata)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		query := "UPDATE places SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to update place: %w", err)
		}
	}

	return r.GetPlace(ctx, id)
}

// DeletePlace removes a place; visits and triggers cascade with it
func (r *PlaceRepository) DeletePlace(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM places WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete place: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

func (r *PlaceRepository) queryPlaces(ctx context.Context, query string, args ...interface{}) ([]models.Place, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}
