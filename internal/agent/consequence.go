package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/movi-ai/movi/internal/errors"
	"github.com/movi-ai/movi/internal/model"
	"github.com/movi-ai/movi/internal/resolve"
	"github.com/movi-ai/movi/internal/store"
)

// ConsequenceResult is the outcome of a consequence check. Produced fresh
// per evaluation and never cached: it must reflect database state at
// decision time.
type ConsequenceResult struct {
	HasConsequences bool   `json:"has_consequences"`
	Details         string `json:"details,omitempty"`
}

// ConsequenceChecker previews the collateral impact of a high-impact tool
// call before it executes.
type ConsequenceChecker interface {
	Evaluate(ctx context.Context, call *model.ToolCall) (*ConsequenceResult, error)
}

// Evaluator is the production ConsequenceChecker over the store.
type Evaluator struct {
	store    *store.Store
	resolver *resolve.Resolver
}

// NewEvaluator creates a consequence evaluator.
func NewEvaluator(s *store.Store, r *resolve.Resolver) *Evaluator {
	return &Evaluator{store: s, resolver: r}
}

// Evaluate inspects related state for the given high-impact call. A tool
// the evaluator doesn't know, or an identifier that is missing, empty or
// unresolvable, reports no consequence: dispatch independently rejects
// bad identifiers with a descriptive tool result, which keeps recoverable
// problems out of the turn-level error path.
func (e *Evaluator) Evaluate(ctx context.Context, call *model.ToolCall) (*ConsequenceResult, error) {
	switch call.Name {
	case "remove_vehicle_from_trip":
		identifier, _ := call.Arguments["trip_identifier"].(string)
		return e.checkTripBookings(ctx, identifier)
	case "update_route_status":
		if status, _ := call.Arguments["new_status"].(string); status != store.RouteStatusDeactivated {
			return &ConsequenceResult{}, nil
		}
		identifier, _ := call.Arguments["route_identifier"].(string)
		return e.checkRouteDeactivation(ctx, identifier)
	default:
		return &ConsequenceResult{}, nil
	}
}

// checkTripBookings reports a consequence when the trip has live bookings.
func (e *Evaluator) checkTripBookings(ctx context.Context, identifier string) (*ConsequenceResult, error) {
	trip, err := e.resolver.Trip(ctx, identifier)
	if err != nil {
		if apperrors.IsToolRecoverable(err) {
			return &ConsequenceResult{}, nil
		}
		return nil, err
	}

	if trip.BookingStatusPercentage == 0 {
		return &ConsequenceResult{}, nil
	}

	slog.Debug("consequence found", "trip", trip.DisplayName, "booking_pct", trip.BookingStatusPercentage)
	return &ConsequenceResult{
		HasConsequences: true,
		Details: fmt.Sprintf("The trip '%s' is already %d%% booked by employees",
			trip.DisplayName, trip.BookingStatusPercentage),
	}, nil
}

// checkRouteDeactivation reports a consequence when the route still has
// trips that are scheduled or in progress.
func (e *Evaluator) checkRouteDeactivation(ctx context.Context, identifier string) (*ConsequenceResult, error) {
	route, err := e.resolver.Route(ctx, identifier)
	if err != nil {
		if apperrors.IsToolRecoverable(err) {
			return &ConsequenceResult{}, nil
		}
		return nil, err
	}

	trips, err := e.store.TripsByRouteID(ctx, route.ID)
	if err != nil {
		return nil, err
	}

	var affected []string
	for _, trip := range trips {
		if trip.LiveStatus == store.TripStatusScheduled || trip.LiveStatus == store.TripStatusInProgress {
			affected = append(affected, "'"+trip.DisplayName+"'")
		}
	}
	if len(affected) == 0 {
		return &ConsequenceResult{}, nil
	}

	slog.Debug("consequence found", "route", route.DisplayName, "affected_trips", len(affected))
	return &ConsequenceResult{
		HasConsequences: true,
		Details: fmt.Sprintf("Deactivating route '%s' will affect %d active trip(s): %s",
			route.DisplayName, len(affected), strings.Join(affected, ", ")),
	}, nil
}
