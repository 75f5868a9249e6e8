package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/places-backend-go/internal/models"
)

// ListRepository handles database operations for place lists and their
// ordered memberships
type ListRepository struct {
	db *sql.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

const listColumns = `l.id, l.uid, l.name, l.description, l.icon, l.color, l.created_at,
	(SELECT COUNT(*) FROM place_list_members m WHERE m.list_id = l.id) AS place_count`

func scanList(row interface{ Scan(...interface{}) error }) (*models.PlaceList, error) {
	var l models.PlaceList
	err := row.Scan(&l.ID, &l.UID, &l.Name, &l.Description, &l.Icon, &l.Color, &l.CreatedAt, &l.PlaceCount)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateList inserts a new place list
func (r *ListRepository) CreateList(ctx context.Context, l *models.PlaceList) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO place_lists (id, uid, name, description, icon, color) VALUES (?, ?, ?, ?, ?, ?)",
		l.ID, l.UID, l.Name, l.Description, l.Icon, l.Color)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// GetList retrieves a list by ID, or nil
func (r *ListRepository) GetList(ctx context.Context, id string) (*models.PlaceList, error) {
	query := "SELECT " + listColumns + " FROM place_lists l WHERE l.id = ?"
	l, err := scanList(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return l, nil
}

// GetListByName retrieves the owner's list with the given name, or nil
func (r *ListRepository) GetListByName(ctx context.Context, uid, name string) (*models.PlaceList, error) {
	query := "SELECT " + listColumns + " FROM place_lists l WHERE l.uid = ? AND l.name = ?"
	l, err := scanList(r.db.QueryRowContext(ctx, query, uid, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list by name: %w", err)
	}
	return l, nil
}

// ListLists returns all of the owner's lists with place counts
func (r *ListRepository) ListLists(ctx context.Context, uid string) ([]models.PlaceList, error) {
	query := "SELECT " + listColumns + " FROM place_lists l WHERE l.uid = ? ORDER BY l.name"
	return r.queryLists(ctx, query, uid)
}

// ListsForPlace returns the lists a place belongs to
func (r *ListRepository) ListsForPlace(ctx context.Context, placeID string) ([]models.PlaceList, error) {
	query := "SELECT " + listColumns + ` FROM place_lists l
		JOIN place_list_members m ON m.list_id = l.id
		WHERE m.place_id = ? ORDER BY l.name`
	return r.queryLists(ctx, query, placeID)
}

// PlaceListNames returns the names of the lists a place belongs to
func (r *ListRepository) PlaceListNames(ctx context.Context, placeID string) ([]string, error) {
	lists, err := r.ListsForPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(lists))
	for _, l := range lists {
		names = append(names, l.Name)
	}
	return names, nil
}

// DeleteList removes a list and its memberships; reports whether it existed
func (r *ListRepository) DeleteList(ctx context.Context, uid, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM place_lists WHERE id = ? AND uid = ?", id, uid)
	if err != nil {
		return false, fmt.Errorf("failed to delete list: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// PlacesInList returns the places in a list in membership order
func (r *ListRepository) PlacesInList(ctx context.Context, listID string) ([]models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places
		JOIN place_list_members m ON m.place_id = places.id
		WHERE m.list_id = ? ORDER BY m.position, places.name`
	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query list places: %w", err)
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

// AddPlaceToList appends a place to a list; adding an existing member is a no-op
func (r *ListRepository) AddPlaceToList(ctx context.Context, listID, placeID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO place_list_members (list_id, place_id, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM place_list_members WHERE list_id = ?))`,
		listID, placeID, listID)
	if err != nil {
		return fmt.Errorf("failed to add place to list: %w", err)
	}
	return nil
}

// RemovePlaceFromList removes a place from a list
func (r *ListRepository) RemovePlaceFromList(ctx context.Context, listID, placeID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM place_list_members WHERE list_id = ? AND place_id = ?", listID, placeID)
	if err != nil {
		return fmt.Errorf("failed to remove place from list: %w", err)
	}
	return nil
}

func (r *ListRepository) queryLists(ctx context.Context, query string, args ...interface{}) ([]models.PlaceList, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.PlaceList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}
