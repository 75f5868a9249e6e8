package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/models"
)

func TestTriggerEngine_CooldownWindow(t *testing.T) {
	store := newMemStore()
	place := models.Place{ID: "p1", UID: "u1", Name: "Gym"}
	store.addPlace(place)
	store.addTrigger(models.Trigger{
		ID: "t1", UID: "u1", PlaceID: "p1",
		TriggerType: models.TriggerEntry, ActionType: models.ActionReminder,
		Enabled: true, CooldownMinutes: 60,
	})

	dispatcher := &recordingDispatcher{}
	eng := NewTriggerEngine(store, dispatcher)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	fired, err := eng.Handle(ctx, &place, models.TriggerEntry, t0)
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, "t1", fired[0].TriggerID)
	assert.Equal(t, t0.Unix(), fired[0].FiredAt)

	// Inside the cooldown window nothing fires.
	fired, err = eng.Handle(ctx, &place, models.TriggerEntry, t0.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, fired)

	// Past the cooldown it fires again.
	fired, err = eng.Handle(ctx, &place, models.TriggerEntry, t0.Add(61*time.Minute))
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Len(t, dispatcher.requests(), 2)
}

func TestTriggerEngine_EventTypeFiltering(t *testing.T) {
	store := newMemStore()
	place := models.Place{ID: "p1", UID: "u1", Name: "Gym"}
	store.addPlace(place)
	store.addTrigger(models.Trigger{
		ID: "t-exit", UID: "u1", PlaceID: "p1",
		TriggerType: models.TriggerExit, ActionType: models.ActionModeSwitch,
		Enabled: true, CooldownMinutes: 60,
	})

	eng := NewTriggerEngine(store, &recordingDispatcher{})
	ctx := context.Background()

	fired, err := eng.Handle(ctx, &place, models.TriggerEntry, time.Now())
	require.NoError(t, err)
	assert.Empty(t, fired)

	fired, err = eng.Handle(ctx, &place, models.TriggerExit, time.Now())
	require.NoError(t, err)
	assert.Len(t, fired, 1)

	var inputErr *InvalidInputError
	_, err = eng.Handle(ctx, &place, models.TriggerType("bogus"), time.Now())
	require.True(t, errors.As(err, &inputErr))
}

func TestTriggerEngine_CooldownHoldsWhenDispatchFails(t *testing.T) {
	store := newMemStore()
	place := models.Place{ID: "p1", UID: "u1", Name: "Gym"}
	store.addPlace(place)
	store.addTrigger(models.Trigger{
		ID: "t1", UID: "u1", PlaceID: "p1",
		TriggerType: models.TriggerEntry, ActionType: models.ActionNotification,
		Enabled: true, CooldownMinutes: 60,
	})

	dispatcher := &recordingDispatcher{err: errors.New("webhook down")}
	eng := NewTriggerEngine(store, dispatcher)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// A failed delivery still counts as fired.
	fired, err := eng.Handle(ctx, &place, models.TriggerEntry, t0)
	require.NoError(t, err)
	require.Len(t, fired, 1)

	fired, err = eng.Handle(ctx, &place, models.TriggerEntry, t0.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, fired)
}

func TestTriggerEngine_ForwardsPayload(t *testing.T) {
	store := newMemStore()
	place := models.Place{ID: "p1", UID: "u1", Name: "Gym"}
	store.addPlace(place)
	payload := json.RawMessage(`{"message":"stretch first"}`)
	store.addTrigger(models.Trigger{
		ID: "t1", UID: "u1", PlaceID: "p1",
		TriggerType: models.TriggerEntry, ActionType: models.ActionReminder,
		ActionPayload: payload, Enabled: true, CooldownMinutes: 60,
	})

	dispatcher := &recordingDispatcher{}
	eng := NewTriggerEngine(store, dispatcher)

	_, err := eng.Handle(context.Background(), &place, models.TriggerEntry, time.Now())
	require.NoError(t, err)

	reqs := dispatcher.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "u1", reqs[0].UID)
	assert.Equal(t, "Gym", reqs[0].PlaceName)
	assert.Equal(t, models.ActionReminder, reqs[0].ActionType)
	assert.JSONEq(t, string(payload), string(reqs[0].Payload))
}
