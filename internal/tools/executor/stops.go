// Package executor: stop and path tools.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/store"
)

// GetAllStops lists every stop.
type GetAllStops struct{ Deps }

func (t *GetAllStops) Name() string { return "get_all_stops" }

func (t *GetAllStops) Description() string {
	return "List all stops with their coordinates"
}

func (t *GetAllStops) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	stops, err := t.Store.ListStops(ctx)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Found %d stops.", len(stops))
	return finish(start, NewSuccessResult(msg, map[string]any{
		"count": len(stops),
		"stops": stops,
	}), nil)
}

// ListStopsForPath lists the stops of a path in traversal order.
type ListStopsForPath struct{ Deps }

func (t *ListStopsForPath) Name() string { return "list_stops_for_path" }

func (t *ListStopsForPath) Description() string {
	return "List the stops of a specific path in traversal order"
}

func (t *ListStopsForPath) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	identifier, err := stringArg(input, "path_identifier")
	if err != nil {
		return finish(start, nil, err)
	}

	path, err := t.Resolver.Path(ctx, identifier)
	if err != nil {
		return finish(start, nil, err)
	}

	stops, err := t.Store.StopsByIDs(ctx, store.ParseStopIDs(path.OrderedStopIDs))
	if err != nil {
		return nil, err
	}

	names := make([]string, len(stops))
	for i, s := range stops {
		names[i] = s.Name
	}

	msg := fmt.Sprintf("Path '%s' has %d stops: %s.", path.Name, len(stops), strings.Join(names, " -> "))
	return finish(start, NewSuccessResult(msg, map[string]any{
		"path":  path,
		"stops": stops,
	}), nil)
}

// CreateNewStop creates a stop with coordinates. Stop names are unique.
type CreateNewStop struct{ Deps }

func (t *CreateNewStop) Name() string { return "create_new_stop" }

func (t *CreateNewStop) Description() string {
	return "Create a new stop with a unique name and coordinates"
}

func (t *CreateNewStop) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	name, err := stringArg(input, "name")
	if err != nil {
		return finish(start, nil, err)
	}
	lat, err := floatArg(input, "latitude")
	if err != nil {
		return finish(start, nil, err)
	}
	lon, err := floatArg(input, "longitude")
	if err != nil {
		return finish(start, nil, err)
	}

	stop, err := t.Store.CreateStop(ctx, name, lat, lon)
	if err != nil {
		return finish(start, nil, err)
	}

	msg := fmt.Sprintf("Created stop '%s' at (%.4f, %.4f).", stop.Name, stop.Latitude, stop.Longitude)
	return finish(start, NewSuccessResult(msg, stop), nil)
}

// CreateNewPath creates a path over at least two existing stops, in the
// caller-given order. Every stop must resolve before anything is written;
// an unresolvable stop aborts the whole call.
type CreateNewPath struct{ Deps }

func (t *CreateNewPath) Name() string { return "create_new_path" }

func (t *CreateNewPath) Description() string {
	return "Create a new path over an ordered list of at least two existing stops"
}

func (t *CreateNewPath) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	name, err := stringArg(input, "name")
	if err != nil {
		return finish(start, nil, err)
	}
	stopNames, err := stringSliceArg(input, "stop_names")
	if err != nil {
		return finish(start, nil, err)
	}
	if len(stopNames) < 2 {
		return finish(start, nil, apperrors.Validation("a path requires at least 2 stops"))
	}

	// Resolve all stops before the write so a miss leaves no partial path.
	stopIDs := make([]int64, 0, len(stopNames))
	for _, stopName := range stopNames {
		stop, err := t.Resolver.Stop(ctx, stopName)
		if err != nil {
			return finish(start, nil, err)
		}
		stopIDs = append(stopIDs, stop.ID)
	}

	path, err := t.Store.CreatePath(ctx, name, stopIDs)
	if err != nil {
		return finish(start, nil, err)
	}

	msg := fmt.Sprintf("Created path '%s' over %d stops.", path.Name, len(stopIDs))
	return finish(start, NewSuccessResult(msg, path), nil)
}
