package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movi-ai/movi/internal/model"
	"github.com/movi-ai/movi/internal/resolve"
	"github.com/movi-ai/movi/internal/store"
)

func newTestEvaluator(t *testing.T) (*Evaluator, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "movi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Seed(context.Background()))
	return NewEvaluator(s, resolve.New(s)), s
}

func removeVehicleCall(tripIdentifier string) *model.ToolCall {
	return &model.ToolCall{
		ID:        "call-1",
		Name:      "remove_vehicle_from_trip",
		Arguments: map[string]any{"trip_identifier": tripIdentifier},
	}
}

func updateRouteCall(routeIdentifier, newStatus string) *model.ToolCall {
	return &model.ToolCall{
		ID:   "call-1",
		Name: "update_route_status",
		Arguments: map[string]any{
			"route_identifier": routeIdentifier,
			"new_status":       newStatus,
		},
	}
}

func TestRemoveVehicleWithBookings(t *testing.T) {
	e, _ := newTestEvaluator(t)

	// The seeded "Bulk - 00:01" carries 25% bookings.
	result, err := e.Evaluate(context.Background(), removeVehicleCall("Bulk - 00:01"))
	require.NoError(t, err)
	assert.True(t, result.HasConsequences)
	assert.Equal(t, "The trip 'Bulk - 00:01' is already 25% booked by employees", result.Details)
}

func TestRemoveVehicleWithoutBookings(t *testing.T) {
	e, _ := newTestEvaluator(t)

	// The seeded "Path Path - 00:02" has zero bookings.
	result, err := e.Evaluate(context.Background(), removeVehicleCall("Path Path - 00:02"))
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)
	assert.Empty(t, result.Details)
}

func TestRemoveVehicleUnknownTripHasNoConsequence(t *testing.T) {
	e, _ := newTestEvaluator(t)

	result, err := e.Evaluate(context.Background(), removeVehicleCall("Ghost Trip"))
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)
}

// A missing or empty identifier is left for dispatch to reject; the
// evaluator never turns it into a turn-level fault.
func TestBadIdentifiersHaveNoConsequence(t *testing.T) {
	e, _ := newTestEvaluator(t)
	ctx := context.Background()

	result, err := e.Evaluate(ctx, removeVehicleCall(""))
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)

	result, err = e.Evaluate(ctx, &model.ToolCall{
		Name:      "remove_vehicle_from_trip",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)

	result, err = e.Evaluate(ctx, updateRouteCall("", "deactivated"))
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)
}

func TestRouteDeactivationCountsOnlyLiveTrips(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()

	// Route "Path-1 - 00:01" already carries the scheduled "Bulk - 00:01".
	route, err := s.FindRouteByName(ctx, "Path-1 - 00:01")
	require.NoError(t, err)

	rolling, err := s.CreateTrip(ctx, route.ID, "Morning Shuttle")
	require.NoError(t, err)
	require.NoError(t, s.UpdateTripStatus(ctx, rolling.ID, store.TripStatusInProgress))

	done, err := s.CreateTrip(ctx, route.ID, "Night Shuttle")
	require.NoError(t, err)
	require.NoError(t, s.UpdateTripStatus(ctx, done.ID, store.TripStatusCompleted))

	result, err := e.Evaluate(ctx, updateRouteCall("Path-1 - 00:01", "deactivated"))
	require.NoError(t, err)
	assert.True(t, result.HasConsequences)
	assert.Equal(t,
		"Deactivating route 'Path-1 - 00:01' will affect 2 active trip(s): 'Bulk - 00:01', 'Morning Shuttle'",
		result.Details)
	assert.NotContains(t, result.Details, "Night Shuttle")
}

func TestRouteDeactivationWithoutLiveTrips(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()

	trip, err := s.FindTripByName(ctx, "Bulk - 00:01")
	require.NoError(t, err)
	require.NoError(t, s.UpdateTripStatus(ctx, trip.ID, store.TripStatusCompleted))

	result, err := e.Evaluate(ctx, updateRouteCall("Path-1 - 00:01", "deactivated"))
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)
}

func TestRouteActivationIsNeverConsequential(t *testing.T) {
	e, _ := newTestEvaluator(t)

	// Reactivating carries no collateral impact even with live trips.
	result, err := e.Evaluate(context.Background(), updateRouteCall("Path-1 - 00:01", "active"))
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)
}

func TestUnknownToolHasNoConsequence(t *testing.T) {
	e, _ := newTestEvaluator(t)

	result, err := e.Evaluate(context.Background(), &model.ToolCall{
		Name:      "get_trip_status",
		Arguments: map[string]any{"trip_identifier": "Bulk - 00:01"},
	})
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)
}

// The check reflects database state at evaluation time, never a cached
// verdict from an earlier call.
func TestEvaluationIsPointInTime(t *testing.T) {
	e, s := newTestEvaluator(t)
	ctx := context.Background()

	result, err := e.Evaluate(ctx, removeVehicleCall("Bulk - 00:01"))
	require.NoError(t, err)
	require.True(t, result.HasConsequences)

	trip, err := s.FindTripByName(ctx, "Bulk - 00:01")
	require.NoError(t, err)
	require.NoError(t, s.UpdateTripBooking(ctx, trip.ID, 0))

	result, err = e.Evaluate(ctx, removeVehicleCall("Bulk - 00:01"))
	require.NoError(t, err)
	assert.False(t, result.HasConsequences)
}
