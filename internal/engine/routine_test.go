package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/models"
)

// addClosedVisit seeds a one-hour closed visit entered at the given time.
func addClosedVisit(store *memStore, id, uid, placeID string, entered time.Time) {
	exited := entered.Add(time.Hour).Unix()
	dwell := int64(60)
	store.addVisit(models.Visit{
		ID:           id,
		UID:          uid,
		PlaceID:      placeID,
		EnteredAt:    entered.Unix(),
		ExitedAt:     &exited,
		DwellMinutes: &dwell,
		DayOfWeek:    int(entered.UTC().Weekday()),
	})
}

func newTestAnalyzer(store *memStore, now time.Time) *RoutineAnalyzer {
	a := NewRoutineAnalyzer(store, store, DefaultConfig(), time.UTC)
	a.now = func() time.Time { return now }
	return a
}

func TestDetectRoutines_WeeklyPattern(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "office", UID: "u1", Name: "Office"})
	store.addPlace(models.Place{ID: "cafe", UID: "u1", Name: "Cafe"})

	now := time.Date(2026, 3, 30, 9, 30, 0, 0, time.UTC) // Monday morning
	// Office every Monday at 09:00 for the three prior weeks.
	for w := 1; w <= 3; w++ {
		addClosedVisit(store, fmt.Sprintf("v%d", w), "u1", "office", now.AddDate(0, 0, -7*w).Truncate(time.Hour))
	}
	// Cafe only twice: below the occurrence threshold.
	addClosedVisit(store, "c1", "u1", "cafe", now.AddDate(0, 0, -7))
	addClosedVisit(store, "c2", "u1", "cafe", now.AddDate(0, 0, -14))

	a := newTestAnalyzer(store, now)
	patterns, err := a.DetectRoutines(context.Background(), "u1", 28)
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, "office", p.PlaceID)
	assert.Equal(t, "Office", p.PlaceName)
	assert.Equal(t, int(time.Monday), p.DayOfWeek)
	assert.Equal(t, 4, p.HourBucket) // 09:00 falls in the 08:00-10:00 bucket
	assert.Equal(t, 3, p.Occurrences)
	assert.InDelta(t, 0.75, p.Confidence, 1e-9) // 3 of 4 weeks

	// The matching visits got marked retroactively.
	for w := 1; w <= 3; w++ {
		v := store.visitByID(fmt.Sprintf("v%d", w))
		require.NotNil(t, v)
		assert.True(t, v.IsRoutine)
	}
	assert.False(t, store.visitByID("c1").IsRoutine)
}

func TestDetectRoutines_IgnoresOpenVisits(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "office", UID: "u1", Name: "Office"})

	now := time.Date(2026, 3, 30, 9, 30, 0, 0, time.UTC)
	for w := 1; w <= 2; w++ {
		addClosedVisit(store, fmt.Sprintf("v%d", w), "u1", "office", now.AddDate(0, 0, -7*w).Truncate(time.Hour))
	}
	// An open visit in the same slot must not tip the count over the threshold.
	store.addVisit(models.Visit{ID: "open", UID: "u1", PlaceID: "office", EnteredAt: now.Add(-30 * time.Minute).Unix()})

	a := newTestAnalyzer(store, now)
	patterns, err := a.DetectRoutines(context.Background(), "u1", 28)
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestExpectedPlace_MatchesCurrentSlot(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "office", UID: "u1", Name: "Office"})

	now := time.Date(2026, 3, 30, 9, 30, 0, 0, time.UTC)
	for w := 1; w <= 3; w++ {
		addClosedVisit(store, fmt.Sprintf("v%d", w), "u1", "office", now.AddDate(0, 0, -7*w).Truncate(time.Hour))
	}

	a := newTestAnalyzer(store, now)
	expected, err := a.ExpectedPlace(context.Background(), "u1", now)
	require.NoError(t, err)
	require.NotNil(t, expected)
	assert.Equal(t, "office", expected.PlaceID)

	// A different slot has no expectation.
	expected, err = a.ExpectedPlace(context.Background(), "u1", now.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, expected)
}

func TestCheckDeviation(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "office", UID: "u1", Name: "Office"})
	store.addPlace(models.Place{ID: "cafe", UID: "u1", Name: "Cafe"})

	now := time.Date(2026, 3, 30, 9, 30, 0, 0, time.UTC)
	for w := 1; w <= 3; w++ {
		addClosedVisit(store, fmt.Sprintf("v%d", w), "u1", "office", now.AddDate(0, 0, -7*w).Truncate(time.Hour))
	}

	a := newTestAnalyzer(store, now)
	ctx := context.Background()

	// Nowhere in particular while the office routine is active: deviation,
	// with no actual place.
	report, err := a.CheckDeviation(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.IsDeviation)
	assert.Equal(t, "office", report.ExpectedPlaceID)
	assert.Nil(t, report.ActualPlaceID)

	// At the expected place: no deviation.
	store.addVisit(models.Visit{ID: "at-office", UID: "u1", PlaceID: "office", EnteredAt: now.Add(-10 * time.Minute).Unix()})
	report, err = a.CheckDeviation(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestCheckDeviation_AtWrongPlace(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "office", UID: "u1", Name: "Office"})
	store.addPlace(models.Place{ID: "cafe", UID: "u1", Name: "Cafe"})

	now := time.Date(2026, 3, 30, 9, 30, 0, 0, time.UTC)
	for w := 1; w <= 3; w++ {
		addClosedVisit(store, fmt.Sprintf("v%d", w), "u1", "office", now.AddDate(0, 0, -7*w).Truncate(time.Hour))
	}
	store.addVisit(models.Visit{ID: "at-cafe", UID: "u1", PlaceID: "cafe", EnteredAt: now.Add(-10 * time.Minute).Unix()})

	a := newTestAnalyzer(store, now)
	report, err := a.CheckDeviation(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.IsDeviation)
	require.NotNil(t, report.ActualPlaceID)
	assert.Equal(t, "cafe", *report.ActualPlaceID)
}

func TestCheckDeviation_NoRoutineNoDeviation(t *testing.T) {
	store := newMemStore()
	a := newTestAnalyzer(store, time.Date(2026, 3, 30, 9, 30, 0, 0, time.UTC))

	report, err := a.CheckDeviation(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, report)
}
