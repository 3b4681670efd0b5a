// Package resolve turns loosely-specified identifiers into entity records.
//
// An identifier is either a surrogate id ("14") or a fragment of the
// entity's display field ("Bulk - 00:01", "bulk"). Purely numeric
// identifiers are matched against the id column only; they never fall
// through to the display-name substring path, so "25" can't accidentally
// pick up a trip named "Route 25 Express" when no trip id 25 exists.
// Substring matches are case-insensitive and return the first match by id.
package resolve

import (
	"context"
	"strings"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/store"
)

// Kind names an entity table for resolution and error reporting.
type Kind string

const (
	KindTrip    Kind = "trip"
	KindRoute   Kind = "route"
	KindVehicle Kind = "vehicle"
	KindDriver  Kind = "driver"
	KindStop    Kind = "stop"
	KindPath    Kind = "path"
)

// Resolver resolves identifiers against the store.
type Resolver struct {
	store *store.Store
}

// New creates a resolver over the given store.
func New(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// Trip resolves a trip by id or display-name fragment.
func (r *Resolver) Trip(ctx context.Context, identifier string) (*store.DailyTrip, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier must not be empty")
	}
	if id, ok := numericID(identifier); ok {
		trip, err := r.store.GetTripByID(ctx, id)
		return requireFound(trip, err, KindTrip, identifier)
	}
	trip, err := r.store.FindTripByName(ctx, identifier)
	return requireFound(trip, err, KindTrip, identifier)
}

// Route resolves a route by id or display-name fragment.
func (r *Resolver) Route(ctx context.Context, identifier string) (*store.Route, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier must not be empty")
	}
	if id, ok := numericID(identifier); ok {
		route, err := r.store.GetRouteByID(ctx, id)
		return requireFound(route, err, KindRoute, identifier)
	}
	route, err := r.store.FindRouteByName(ctx, identifier)
	return requireFound(route, err, KindRoute, identifier)
}

// Vehicle resolves a vehicle by id or license-plate fragment.
func (r *Resolver) Vehicle(ctx context.Context, identifier string) (*store.Vehicle, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier must not be empty")
	}
	if id, ok := numericID(identifier); ok {
		vehicle, err := r.store.GetVehicleByID(ctx, id)
		return requireFound(vehicle, err, KindVehicle, identifier)
	}
	vehicle, err := r.store.FindVehicleByPlate(ctx, identifier)
	return requireFound(vehicle, err, KindVehicle, identifier)
}

// Driver resolves a driver by id or name fragment.
func (r *Resolver) Driver(ctx context.Context, identifier string) (*store.Driver, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier must not be empty")
	}
	if id, ok := numericID(identifier); ok {
		driver, err := r.store.GetDriverByID(ctx, id)
		return requireFound(driver, err, KindDriver, identifier)
	}
	driver, err := r.store.FindDriverByName(ctx, identifier)
	return requireFound(driver, err, KindDriver, identifier)
}

// Stop resolves a stop by id or name fragment.
func (r *Resolver) Stop(ctx context.Context, identifier string) (*store.Stop, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier must not be empty")
	}
	if id, ok := numericID(identifier); ok {
		stop, err := r.store.GetStopByID(ctx, id)
		return requireFound(stop, err, KindStop, identifier)
	}
	stop, err := r.store.FindStopByName(ctx, identifier)
	return requireFound(stop, err, KindStop, identifier)
}

// Path resolves a path by id or name fragment.
func (r *Resolver) Path(ctx context.Context, identifier string) (*store.Path, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier must not be empty")
	}
	if id, ok := numericID(identifier); ok {
		path, err := r.store.GetPathByID(ctx, id)
		return requireFound(path, err, KindPath, identifier)
	}
	path, err := r.store.FindPathByName(ctx, identifier)
	return requireFound(path, err, KindPath, identifier)
}

// numericID reports whether the identifier is purely numeric and returns
// its value.
func numericID(identifier string) (int64, bool) {
	if identifier == "" {
		return 0, false
	}
	var id int64
	for _, r := range identifier {
		if r < '0' || r > '9' {
			return 0, false
		}
		id = id*10 + int64(r-'0')
	}
	return id, true
}

// requireFound converts a nil record into a NotFound error.
func requireFound[T any](record *T, err error, kind Kind, identifier string) (*T, error) {
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NotFound(string(kind), identifier)
	}
	return record, nil
}
