package resolve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/store"
)

func newTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "movi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Seed(context.Background()))
	return New(s), s
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeEntityNotFound, appErr.Code)
}

func TestTripByID(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	seeded, err := s.FindTripByName(ctx, "Bulk - 00:01")
	require.NoError(t, err)

	trip, err := r.Trip(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, trip.ID)
}

func TestTripByNameFragment(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	trip, err := r.Trip(ctx, "bulk")
	require.NoError(t, err)
	assert.Equal(t, "Bulk - 00:01", trip.DisplayName)

	trip, err = r.Trip(ctx, "  Bulk - 00:01  ")
	require.NoError(t, err)
	assert.Equal(t, "Bulk - 00:01", trip.DisplayName)
}

// A purely numeric identifier is only ever tried against the id column.
// A miss there is a miss, even when a display name happens to contain
// the digits.
func TestNumericIdentifierNeverFallsThroughToNames(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	route, err := s.FindRouteByName(ctx, "Path-1 - 00:01")
	require.NoError(t, err)
	_, err = s.CreateTrip(ctx, route.ID, "Express 777")
	require.NoError(t, err)

	_, err = r.Trip(ctx, "777")
	assertNotFound(t, err)
}

func TestResolutionIsIdempotent(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	first, err := r.Route(ctx, "path-1")
	require.NoError(t, err)
	second, err := r.Route(ctx, "path-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUnknownIdentifiers(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	_, err := r.Trip(ctx, "no such trip")
	assertNotFound(t, err)

	_, err = r.Vehicle(ctx, "ZZ-99-0000")
	assertNotFound(t, err)

	_, err = r.Driver(ctx, "9999")
	assertNotFound(t, err)
}

func TestEmptyIdentifierIsRejected(t *testing.T) {
	r, _ := newTestResolver(t)

	_, err := r.Stop(context.Background(), "   ")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestVehicleByPlateFragment(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	vehicle, err := r.Vehicle(ctx, "mh-12")
	require.NoError(t, err)
	assert.Equal(t, "MH-12-3456", vehicle.LicensePlate)
}

func TestDriverAndPathResolution(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	driver, err := r.Driver(ctx, "amit")
	require.NoError(t, err)
	assert.Equal(t, "Amit", driver.Name)

	path, err := r.Path(ctx, "tech")
	require.NoError(t, err)
	assert.Equal(t, "Tech-Loop", path.Name)
}
