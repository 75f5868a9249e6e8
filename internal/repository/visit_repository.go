package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/places-backend-go/internal/database"
	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/internal/models"
)

const visitColumns = `id, uid, place_id, entered_at, exited_at, dwell_minutes, day_of_week, is_routine, created_at`

// VisitRepository handles database operations for visit sessions
type VisitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *sql.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func scanVisit(row interface{ Scan(...interface{}) error }) (*models.Visit, error) {
	var v models.Visit
	var exitedAt, dwellMinutes sql.NullInt64
	err := row.Scan(&v.ID, &v.UID, &v.PlaceID, &v.EnteredAt, &exitedAt, &dwellMinutes,
		&v.DayOfWeek, &v.IsRoutine, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if exitedAt.Valid {
		v.ExitedAt = &exitedAt.Int64
	}
	if dwellMinutes.Valid {
		v.DwellMinutes = &dwellMinutes.Int64
	}
	return &v, nil
}

// OpenVisit returns the owner's open visit session, nil when none exists, or
// a ConsistencyError when the table holds more than one open session.
func (r *VisitRepository) OpenVisit(ctx context.Context, uid string) (*models.Visit, error) {
	query := "SELECT " + visitColumns + ` FROM place_visits
		WHERE uid = ? AND exited_at IS NULL ORDER BY entered_at`
	rows, err := r.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query open visit: %w", err)
	}
	defer rows.Close()

	var open []*models.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		open = append(open, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(open) {
	case 0:
		return nil, nil
	case 1:
		return open[0], nil
	default:
		return nil, &engine.ConsistencyError{
			UID:    uid,
			Detail: fmt.Sprintf("%d concurrently open visit sessions", len(open)),
		}
	}
}

// VisitsBetween returns the owner's visits entered inside [from, to]
func (r *VisitRepository) VisitsBetween(ctx context.Context, uid string, from, to time.Time) ([]models.Visit, error) {
	query := "SELECT " + visitColumns + ` FROM place_visits
		WHERE uid = ? AND entered_at >= ? AND entered_at <= ?
		ORDER BY entered_at`
	return r.queryVisits(ctx, query, uid, from.Unix(), to.Unix())
}

// VisitsForPlace returns the most recent visits to one place
func (r *VisitRepository) VisitsForPlace(ctx context.Context, placeID string, limit int) ([]models.Visit, error) {
	if limit < 1 {
		limit = 50
	}
	query := "SELECT " + visitColumns + ` FROM place_visits
		WHERE place_id = ? ORDER BY entered_at DESC LIMIT ?`
	return r.queryVisits(ctx, query, placeID, limit)
}

// MarkRoutine flags the given visits as part of a routine
func (r *VisitRepository) MarkRoutine(ctx context.Context, visitIDs []string) error {
	if len(visitIDs) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(visitIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := "UPDATE place_visits SET is_routine = 1 WHERE id IN (" + placeholders + ")"
	args := make([]interface{}, len(visitIDs))
	for i, id := range visitIDs {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark visits as routine: %w", err)
	}
	return nil
}

// ApplyTransition applies a visit close and/or open plus the exited place's
// aggregate updates as one transaction. A close that finds no open row means
// another writer got there first; the transition is rejected rather than
// applied halfway.
func (r *VisitRepository) ApplyTransition(ctx context.Context, t *engine.Transition) error {
	if t == nil || (t.Closed == nil && t.Opened == nil) {
		return nil
	}
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if c := t.Closed; c != nil {
			result, err := tx.ExecContext(ctx,
				`UPDATE place_visits SET exited_at = ?, dwell_minutes = ?, day_of_week = ?
				 WHERE id = ? AND exited_at IS NULL`,
				c.ExitedAt, c.DwellMinutes, c.DayOfWeek, c.ID)
			if err != nil {
				return fmt.Errorf("failed to close visit: %w", err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read close result: %w", err)
			}
			if affected != 1 {
				return &engine.ConsistencyError{UID: t.UID, Detail: "open visit " + c.ID + " vanished before close"}
			}

			_, err = tx.ExecContext(ctx,
				`UPDATE places SET
					visit_count = visit_count + 1,
					total_dwell_minutes = total_dwell_minutes + ?,
					first_visited = COALESCE(first_visited, ?),
					last_visited = ?,
					updated_at = CURRENT_TIMESTAMP
				 WHERE id = ?`,
				c.DwellMinutes, c.EnteredAt, c.ExitedAt, c.PlaceID)
			if err != nil {
				return fmt.Errorf("failed to update place aggregates: %w", err)
			}
		}

		if o := t.Opened; o != nil {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO place_visits (id, uid, place_id, entered_at, day_of_week)
				 VALUES (?, ?, ?, ?, ?)`,
				o.ID, o.UID, o.PlaceID, o.EnteredAt, o.DayOfWeek)
			if err != nil {
				return fmt.Errorf("failed to open visit: %w", err)
			}
		}

		return nil
	})
}

func (r *VisitRepository) queryVisits(ctx context.Context, query string, args ...interface{}) ([]models.Visit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []models.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}
