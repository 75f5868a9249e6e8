package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/places-backend-go/internal/models"
)

// TagRepository handles database operations for tags and place-tag links
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

// CreateTag inserts a new tag
func (r *TagRepository) CreateTag(ctx context.Context, t *models.Tag) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO place_tags (id, uid, name, color) VALUES (?, ?, ?, ?)",
		t.ID, t.UID, t.Name, t.Color)
	if err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	return nil
}

// GetTag retrieves a tag by ID scoped to the owner, or nil
func (r *TagRepository) GetTag(ctx context.Context, uid, id string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRowContext(ctx,
		"SELECT id, uid, name, color, created_at FROM place_tags WHERE id = ? AND uid = ?",
		id, uid).Scan(&t.ID, &t.UID, &t.Name, &t.Color, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

// GetTagByName retrieves the owner's tag with the given name, or nil
func (r *TagRepository) GetTagByName(ctx context.Context, uid, name string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRowContext(ctx,
		"SELECT id, uid, name, color, created_at FROM place_tags WHERE uid = ? AND name = ?",
		uid, name).Scan(&t.ID, &t.UID, &t.Name, &t.Color, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag by name: %w", err)
	}
	return &t, nil
}

// ListTags returns all of the owner's tags
func (r *TagRepository) ListTags(ctx context.Context, uid string) ([]models.Tag, error) {
	return r.queryTags(ctx,
		"SELECT id, uid, name, color, created_at FROM place_tags WHERE uid = ? ORDER BY name", uid)
}

// TagsForPlace returns the tags attached to a place
func (r *TagRepository) TagsForPlace(ctx context.Context, placeID string) ([]models.Tag, error) {
	query := `SELECT t.id, t.uid, t.name, t.color, t.created_at
		FROM place_tags t
		JOIN place_tag_links l ON l.tag_id = t.id
		WHERE l.place_id = ? ORDER BY t.name`
	return r.queryTags(ctx, query, placeID)
}

// PlaceTagNames returns the tag names attached to a place
func (r *TagRepository) PlaceTagNames(ctx context.Context, placeID string) ([]string, error) {
	tags, err := r.TagsForPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}

// DeleteTag removes a tag and its links; reports whether it existed
func (r *TagRepository) DeleteTag(ctx context.Context, uid, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM place_tags WHERE id = ? AND uid = ?", id, uid)
	if err != nil {
		return false, fmt.Errorf("failed to delete tag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// AddTagToPlace links a tag to a place; adding an existing link is a no-op
func (r *TagRepository) AddTagToPlace(ctx context.Context, placeID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO place_tag_links (place_id, tag_id) VALUES (?, ?)",
		placeID, tagID)
	if err != nil {
		return fmt.Errorf("failed to link tag to place: %w", err)
	}
	return nil
}

// RemoveTagFromPlace unlinks a tag from a place
func (r *TagRepository) RemoveTagFromPlace(ctx context.Context, placeID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM place_tag_links WHERE place_id = ? AND tag_id = ?", placeID, tagID)
	if err != nil {
		return fmt.Errorf("failed to unlink tag from place: %w", err)
	}
	return nil
}

func (r *TagRepository) queryTags(ctx context.Context, query string, args ...interface{}) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.UID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
