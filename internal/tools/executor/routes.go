// Package executor: route tools.
package executor

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/store"
)

// GetAllRoutes lists every route.
type GetAllRoutes struct{ Deps }

func (t *GetAllRoutes) Name() string { return "get_all_routes" }

func (t *GetAllRoutes) Description() string {
	return "List all routes with their path, shift time, and status"
}

func (t *GetAllRoutes) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	routes, err := t.Store.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Found %d routes.", len(routes))
	return finish(start, NewSuccessResult(msg, map[string]any{
		"count":  len(routes),
		"routes": routes,
	}), nil)
}

// FindRoutesForPath lists the routes running over a path.
type FindRoutesForPath struct{ Deps }

func (t *FindRoutesForPath) Name() string { return "find_routes_for_path" }

func (t *FindRoutesForPath) Description() string {
	return "Find all routes that run over a specific path"
}

func (t *FindRoutesForPath) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	identifier, err := stringArg(input, "path_identifier")
	if err != nil {
		return finish(start, nil, err)
	}

	path, err := t.Resolver.Path(ctx, identifier)
	if err != nil {
		return finish(start, nil, err)
	}

	routes, err := t.Store.RoutesByPathID(ctx, path.ID)
	if err != nil {
		return nil, err
	}

	if len(routes) == 0 {
		msg := fmt.Sprintf("No routes run over path '%s'.", path.Name)
		return finish(start, NewSuccessResult(msg, nil), nil)
	}

	msg := fmt.Sprintf("Found %d routes over path '%s'.", len(routes), path.Name)
	return finish(start, NewSuccessResult(msg, map[string]any{
		"path":   path,
		"count":  len(routes),
		"routes": routes,
	}), nil)
}

// UpdateRouteStatus activates or deactivates a route. High-impact when
// deactivating: the controller previews affected trips first.
type UpdateRouteStatus struct{ Deps }

func (t *UpdateRouteStatus) Name() string { return "update_route_status" }

func (t *UpdateRouteStatus) Description() string {
	return "Activate or deactivate a route"
}

func (t *UpdateRouteStatus) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	identifier, err := stringArg(input, "route_identifier")
	if err != nil {
		return finish(start, nil, err)
	}
	newStatus, err := stringArg(input, "new_status")
	if err != nil {
		return finish(start, nil, err)
	}
	if !store.ValidRouteStatus(newStatus) {
		return finish(start, nil, apperrors.Validation("status must be 'active' or 'deactivated'"))
	}

	route, err := t.Resolver.Route(ctx, identifier)
	if err != nil {
		return finish(start, nil, err)
	}

	if err := t.Store.UpdateRouteStatus(ctx, route.ID, newStatus); err != nil {
		return finish(start, nil, err)
	}

	msg := fmt.Sprintf("Route '%s' status updated to %s.", route.DisplayName, newStatus)
	return finish(start, NewSuccessResult(msg, map[string]any{
		"route_id":   route.ID,
		"new_status": newStatus,
	}), nil)
}
