package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

const triggerColumns = `id, uid, place_id, name, trigger_type, action_type, action_payload,
	enabled, cooldown_minutes, last_triggered, created_at`

// TriggerRepository handles database operations for place triggers
type TriggerRepository struct {
	db *sql.DB
}

// NewTriggerRepository creates a new trigger repository
func NewTriggerRepository(db *sql.DB) *TriggerRepository {
	return &TriggerRepository{db: db}
}

func scanTrigger(row interface{ Scan(...interface{}) error }) (*models.Trigger, error) {
	var t models.Trigger
	var payload sql.NullString
	var lastTriggered sql.NullInt64
	err := row.Scan(&t.ID, &t.UID, &t.PlaceID, &t.Name, &t.TriggerType, &t.ActionType,
		&payload, &t.Enabled, &t.CooldownMinutes, &lastTriggered, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if payload.Valid && payload.String != "" {
		t.ActionPayload = []byte(payload.String)
	}
	if lastTriggered.Valid {
		t.LastTriggered = &lastTriggered.Int64
	}
	return &t, nil
}

// CreateTrigger inserts a new trigger
func (r *TriggerRepository) CreateTrigger(ctx context.Context, t *models.Trigger) error {
	var payload interface{}
	if len(t.ActionPayload) > 0 {
		payload = string(t.ActionPayload)
	}
	query := `INSERT INTO place_triggers
		(id, uid, place_id, name, trigger_type, action_type, action_payload, enabled, cooldown_minutes, last_triggered)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UID, t.PlaceID, t.Name, t.TriggerType, t.ActionType,
		payload, t.Enabled, t.CooldownMinutes, t.LastTriggered)
	if err != nil {
		return fmt.Errorf("failed to insert trigger: %w", err)
	}
	return nil
}

// TriggersForPlace returns all triggers for a place in creation order
func (r *TriggerRepository) TriggersForPlace(ctx context.Context, placeID string) ([]models.Trigger, error) {
	query := "SELECT " + triggerColumns + " FROM place_triggers WHERE place_id = ? ORDER BY rowid"
	return r.queryTriggers(ctx, query, placeID)
}

// EnabledTriggers returns enabled triggers for a place with the given type,
// in creation order. Creation order keeps firing deterministic.
func (r *TriggerRepository) EnabledTriggers(ctx context.Context, placeID string, triggerType models.TriggerType) ([]models.Trigger, error) {
	query := "SELECT " + triggerColumns + ` FROM place_triggers
		WHERE place_id = ? AND trigger_type = ? AND enabled = 1 ORDER BY rowid`
	return r.queryTriggers(ctx, query, placeID, triggerType)
}

// MarkFired records a trigger firing
func (r *TriggerRepository) MarkFired(ctx context.Context, triggerID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE place_triggers SET last_triggered = ? WHERE id = ?", at.Unix(), triggerID)
	if err != nil {
		return fmt.Errorf("failed to mark trigger fired: %w", err)
	}
	return nil
}

// SetEnabled enables or disables a trigger; reports whether it existed
func (r *TriggerRepository) SetEnabled(ctx context.Context, placeID, triggerID string, enabled bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE place_triggers SET enabled = ? WHERE id = ? AND place_id = ?",
		enabled, triggerID, placeID)
	if err != nil {
		return false, fmt.Errorf("failed to update trigger: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// DeleteTrigger removes a trigger; reports whether it existed
func (r *TriggerRepository) DeleteTrigger(ctx context.Context, placeID, triggerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM place_triggers WHERE id = ? AND place_id = ?", triggerID, placeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete trigger: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

func (r *TriggerRepository) queryTriggers(ctx context.Context, query string, args ...interface{}) ([]models.Trigger, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query triggers: %w", err)
	}
	defer rows.Close()

	var triggers []models.Trigger
	for rows.Next() {
		t, err := scanTrigger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trigger: %w", err)
		}
		triggers = append(triggers, *t)
	}
	return triggers, rows.Err()
}
