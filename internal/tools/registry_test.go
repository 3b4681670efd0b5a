package tools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movi-ai/movi/internal/resolve"
	"github.com/movi-ai/movi/internal/store"
	"github.com/movi-ai/movi/internal/tools/executor"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "movi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Seed(context.Background()))

	r := NewRegistry()
	Initialize(r, executor.Deps{Store: s, Resolver: resolve.New(s)})
	return r
}

func TestCatalogIsComplete(t *testing.T) {
	r := newTestRegistry(t)

	expected := []string{
		"get_unassigned_vehicles",
		"get_trip_status",
		"get_all_trips",
		"get_deployment_details",
		"get_all_routes",
		"find_routes_for_path",
		"get_all_stops",
		"list_stops_for_path",
		"create_new_stop",
		"create_new_path",
		"create_new_trip",
		"assign_vehicle_to_trip",
		"remove_vehicle_from_trip",
		"update_route_status",
	}
	assert.ElementsMatch(t, expected, r.List())
	assert.Len(t, r.ToOpenAIFormat(), len(expected))
}

func TestHighImpactClassification(t *testing.T) {
	r := newTestRegistry(t)

	assert.True(t, r.IsHighImpact("remove_vehicle_from_trip"))
	assert.True(t, r.IsHighImpact("update_route_status"))

	assert.False(t, r.IsHighImpact("get_trip_status"))
	assert.False(t, r.IsHighImpact("assign_vehicle_to_trip"))
	assert.False(t, r.IsHighImpact("create_new_trip"))
	assert.False(t, r.IsHighImpact("no_such_tool"))
}

func TestUnknownToolIsRecoverable(t *testing.T) {
	r := newTestRegistry(t)

	result, err := r.Execute(context.Background(), "no_such_tool", nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no_such_tool")
}

func TestMissingRequiredArgument(t *testing.T) {
	r := newTestRegistry(t)

	result, err := r.Execute(context.Background(), "get_trip_status", map[string]any{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "trip_identifier")
}

func TestEnumViolationRejectedBeforeDispatch(t *testing.T) {
	r := newTestRegistry(t)

	result, err := r.Execute(context.Background(), "update_route_status", map[string]any{
		"route_identifier": "Path-1 - 00:01",
		"new_status":       "paused",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "new_status")
}

func TestExecuteReadTool(t *testing.T) {
	r := newTestRegistry(t)

	result, err := r.Execute(context.Background(), "get_trip_status", map[string]any{
		"trip_identifier": "Bulk - 00:01",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Bulk - 00:01")
	assert.Contains(t, result.Message, "25%")
}

func TestEntityMissIsRecoverable(t *testing.T) {
	r := newTestRegistry(t)

	result, err := r.Execute(context.Background(), "get_trip_status", map[string]any{
		"trip_identifier": "Ghost Trip",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Ghost Trip")
}

func TestRemoveVehicleWithoutDeployment(t *testing.T) {
	r := newTestRegistry(t)

	result, err := r.Execute(context.Background(), "remove_vehicle_from_trip", map[string]any{
		"trip_identifier": "Path Path - 00:02",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Trip 'Path Path - 00:02' has no vehicle assigned to it.", result.Error)
}

func TestCreateNewPathResolvesAllStopsFirst(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, "create_new_path", map[string]any{
		"name":       "Ghost-Path",
		"stop_names": []any{"Gavipuram", "Atlantis"},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Atlantis")

	result, err = r.Execute(ctx, "create_new_path", map[string]any{
		"name":       "Short-Path",
		"stop_names": []any{"Gavipuram", "Temple"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestGetUnassignedVehicles(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, "get_unassigned_vehicles", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "KA-01-7890")
	assert.Contains(t, result.Message, "TN-07-1122")
	assert.NotContains(t, result.Message, "MH-12-3456")
}
