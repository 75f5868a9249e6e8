package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/models"
)

func newTestTracker(store *memStore) *VisitTracker {
	cfg := DefaultConfig()
	triggers := NewTriggerEngine(store, &recordingDispatcher{})
	discoverer := NewPlaceDiscoverer(store, cfg)
	return NewVisitTracker(store, store, triggers, discoverer, cfg, time.UTC)
}

func TestObserve_EnterDwellExit(t *testing.T) {
	store := newMemStore()
	// ~555m apart, both radius 100m, so the geofences do not overlap.
	store.addPlace(models.Place{ID: "a", UID: "u1", Name: "Cafe", Latitude: 37.7749, Longitude: -122.4194, RadiusMeters: 100})
	store.addPlace(models.Place{ID: "b", UID: "u1", Name: "Office", Latitude: 37.7799, Longitude: -122.4194, RadiusMeters: 100})

	tracker := newTestTracker(store)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday

	// First sample inside place A opens a visit.
	tr, err := tracker.Observe(ctx, "u1", 37.7749, -122.4194, t0)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Nil(t, tr.Exited)
	require.NotNil(t, tr.Entered)
	assert.Equal(t, "a", tr.Entered.PlaceID)
	assert.Equal(t, t0.Unix(), tr.Entered.EnteredAt)
	assert.Equal(t, int(time.Monday), tr.Entered.DayOfWeek)

	// A later sample still inside A changes nothing.
	tr, err = tracker.Observe(ctx, "u1", 37.77495, -122.41945, t0.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, tr)

	// Moving to place B closes A with the accrued dwell and opens B.
	tr, err = tracker.Observe(ctx, "u1", 37.7799, -122.4194, t0.Add(20*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.NotNil(t, tr.Exited)
	assert.Equal(t, "a", tr.Exited.PlaceID)
	require.NotNil(t, tr.Exited.DwellMinutes)
	assert.Equal(t, int64(20), *tr.Exited.DwellMinutes)
	require.NotNil(t, tr.Entered)
	assert.Equal(t, "b", tr.Entered.PlaceID)

	// Exactly one visit remains open.
	open, err := store.OpenVisit(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "b", open.PlaceID)

	// Closing A updated its aggregates.
	a, err := store.GetPlace(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.VisitCount)
	assert.Equal(t, int64(20), a.TotalDwellMinutes)
	require.NotNil(t, a.LastVisited)
	assert.Equal(t, t0.Add(20*time.Minute).Unix(), *a.LastVisited)
}

func TestObserve_ExitToUnknownFeedsDiscovery(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "a", UID: "u1", Name: "Cafe", Latitude: 37.7749, Longitude: -122.4194, RadiusMeters: 100})

	cfg := DefaultConfig()
	discoverer := NewPlaceDiscoverer(store, cfg)
	tracker := NewVisitTracker(store, store, NewTriggerEngine(store, &recordingDispatcher{}), discoverer, cfg, time.UTC)
	ctx := context.Background()
	t0 := time.Now().Add(-time.Hour)

	_, err := tracker.Observe(ctx, "u1", 37.7749, -122.4194, t0)
	require.NoError(t, err)

	// A sample far from every saved place closes the visit and buffers the
	// coordinate for discovery.
	tr, err := tracker.Observe(ctx, "u1", 37.8049, -122.4194, t0.Add(30*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.NotNil(t, tr.Exited)
	assert.Nil(t, tr.Entered)
	assert.Equal(t, 1, discoverer.SampleCount("u1"))

	open, err := store.OpenVisit(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestObserve_UnknownWithNoOpenVisit(t *testing.T) {
	store := newMemStore()
	cfg := DefaultConfig()
	discoverer := NewPlaceDiscoverer(store, cfg)
	tracker := NewVisitTracker(store, store, NewTriggerEngine(store, &recordingDispatcher{}), discoverer, cfg, time.UTC)

	tr, err := tracker.Observe(context.Background(), "u1", 51.5, -0.12, time.Now())
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, 1, discoverer.SampleCount("u1"))
}

func TestObserve_RejectsOutOfOrderSample(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "a", UID: "u1", Name: "Cafe", Latitude: 37.7749, Longitude: -122.4194, RadiusMeters: 100})

	tracker := newTestTracker(store)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err := tracker.Observe(ctx, "u1", 37.7749, -122.4194, t0)
	require.NoError(t, err)

	_, err = tracker.Observe(ctx, "u1", 37.7799, -122.4194, t0.Add(-time.Minute))
	var orderErr *TemporalOrderingError
	require.True(t, errors.As(err, &orderErr))

	// The rejected sample changed nothing.
	open, err := store.OpenVisit(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "a", open.PlaceID)
}

func TestObserve_RejectsInvalidInput(t *testing.T) {
	tracker := newTestTracker(newMemStore())
	ctx := context.Background()

	var inputErr *InvalidInputError
	_, err := tracker.Observe(ctx, "u1", 91, 0, time.Now())
	require.True(t, errors.As(err, &inputErr))

	_, err = tracker.Observe(ctx, "u1", 0, -181, time.Now())
	require.True(t, errors.As(err, &inputErr))

	_, err = tracker.Observe(ctx, "", 37.7749, -122.4194, time.Now())
	require.True(t, errors.As(err, &inputErr))
}

func TestObserve_FiresEntryAndExitTriggers(t *testing.T) {
	store := newMemStore()
	store.addPlace(models.Place{ID: "a", UID: "u1", Name: "Cafe", Latitude: 37.7749, Longitude: -122.4194, RadiusMeters: 100})
	store.addPlace(models.Place{ID: "b", UID: "u1", Name: "Office", Latitude: 37.7799, Longitude: -122.4194, RadiusMeters: 100})
	store.addTrigger(models.Trigger{ID: "t-exit", UID: "u1", PlaceID: "a", TriggerType: models.TriggerExit, ActionType: models.ActionReminder, Enabled: true, CooldownMinutes: 60})
	store.addTrigger(models.Trigger{ID: "t-entry", UID: "u1", PlaceID: "b", TriggerType: models.TriggerEntry, ActionType: models.ActionNotification, Enabled: true, CooldownMinutes: 60})

	dispatcher := &recordingDispatcher{}
	cfg := DefaultConfig()
	tracker := NewVisitTracker(store, store, NewTriggerEngine(store, dispatcher), NewPlaceDiscoverer(store, cfg), cfg, time.UTC)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err := tracker.Observe(ctx, "u1", 37.7749, -122.4194, t0)
	require.NoError(t, err)
	_, err = tracker.Observe(ctx, "u1", 37.7799, -122.4194, t0.Add(15*time.Minute))
	require.NoError(t, err)

	reqs := dispatcher.requests()
	require.Len(t, reqs, 2)
	// Exit fires before entry.
	assert.Equal(t, "t-exit", reqs[0].TriggerID)
	assert.Equal(t, "t-entry", reqs[1].TriggerID)
}

func TestMatchPlace_SmallestRadiusWins(t *testing.T) {
	last := int64(100)
	places := []models.Place{
		{ID: "big", Latitude: 37.7749, Longitude: -122.4194, RadiusMeters: 500},
		{ID: "small", Latitude: 37.7749, Longitude: -122.4194, RadiusMeters: 50, LastVisited: &last},
	}
	got := matchPlace(places, 37.7749, -122.4194)
	require.NotNil(t, got)
	assert.Equal(t, "small", got.ID)

	assert.Nil(t, matchPlace(places, 38.0, -122.4194))
}
