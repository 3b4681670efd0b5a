// Package executor: trip and deployment tools.
package executor

import (
	"context"
	"fmt"
	"time"
)

// GetTripStatus reports status, booking percentage and deployment details
// for one trip.
type GetTripStatus struct{ Deps }

func (t *GetTripStatus) Name() string { return "get_trip_status" }

func (t *GetTripStatus) Description() string {
	return "Get the status, booking percentage, and deployment details for a specific trip"
}

func (t *GetTripStatus) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	identifier, err := stringArg(input, "trip_identifier")
	if err != nil {
		return finish(start, nil, err)
	}

	trip, err := t.Resolver.Trip(ctx, identifier)
	if err != nil {
		return finish(start, nil, err)
	}

	deployment, err := t.Store.GetDeploymentByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	deploymentInfo := "No vehicle or driver assigned."
	if deployment != nil {
		vehicle, err := t.Store.GetVehicleByID(ctx, deployment.VehicleID)
		if err != nil {
			return nil, err
		}
		driver, err := t.Store.GetDriverByID(ctx, deployment.DriverID)
		if err != nil {
			return nil, err
		}
		if vehicle != nil && driver != nil {
			deploymentInfo = fmt.Sprintf("Assigned vehicle: %s, Driver: %s.", vehicle.LicensePlate, driver.Name)
		}
	}

	msg := fmt.Sprintf("Status of trip '%s':\n- Live Status: %s\n- Booking: %d%%\n- %s",
		trip.DisplayName, trip.LiveStatus, trip.BookingStatusPercentage, deploymentInfo)

	return finish(start, NewSuccessResult(msg, trip), nil)
}

// GetAllTrips lists every daily trip.
type GetAllTrips struct{ Deps }

func (t *GetAllTrips) Name() string { return "get_all_trips" }

func (t *GetAllTrips) Description() string {
	return "List all daily trips with their status and booking percentage"
}

func (t *GetAllTrips) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	trips, err := t.Store.ListTrips(ctx)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Found %d trips.", len(trips))
	return finish(start, NewSuccessResult(msg, map[string]any{
		"count": len(trips),
		"trips": trips,
	}), nil)
}

// GetDeploymentDetails reports which vehicle and driver serve a trip.
type GetDeploymentDetails struct{ Deps }

func (t *GetDeploymentDetails) Name() string { return "get_deployment_details" }

func (t *GetDeploymentDetails) Description() string {
	return "Get the vehicle and driver deployed on a specific trip"
}

func (t *GetDeploymentDetails) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	identifier, err := stringArg(input, "trip_identifier")
	if err != nil {
		return finish(start, nil, err)
	}

	trip, err := t.Resolver.Trip(ctx, identifier)
	if err != nil {
		return finish(start, nil, err)
	}

	deployment, err := t.Store.GetDeploymentByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if deployment == nil {
		msg := fmt.Sprintf("Trip '%s' has no vehicle or driver assigned.", trip.DisplayName)
		return finish(start, NewSuccessResult(msg, nil), nil)
	}

	vehicle, err := t.Store.GetVehicleByID(ctx, deployment.VehicleID)
	if err != nil {
		return nil, err
	}
	driver, err := t.Store.GetDriverByID(ctx, deployment.DriverID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Trip '%s' is served by vehicle %s with driver %s.",
		trip.DisplayName, vehicle.LicensePlate, driver.Name)
	return finish(start, NewSuccessResult(msg, map[string]any{
		"deployment": deployment,
		"vehicle":    vehicle,
		"driver":     driver,
	}), nil)
}

// AssignVehicleToTrip creates a deployment for a trip. A trip can carry at
// most one deployment; a second assignment is rejected, never overwritten.
type AssignVehicleToTrip struct{ Deps }

func (t *AssignVehicleToTrip) Name() string { return "assign_vehicle_to_trip" }

func (t *AssignVehicleToTrip) Description() string {
	return "Assign a vehicle and driver to a trip"
}

func (t *AssignVehicleToTrip) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	tripIdent, err := stringArg(input, "trip_identifier")
	if err != nil {
		return finish(start, nil, err)
	}
	vehicleIdent, err := stringArg(input, "vehicle_identifier")
	if err != nil {
		return finish(start, nil, err)
	}
	driverIdent, err := stringArg(input, "driver_identifier")
	if err != nil {
		return finish(start, nil, err)
	}

	trip, err := t.Resolver.Trip(ctx, tripIdent)
	if err != nil {
		return finish(start, nil, err)
	}
	vehicle, err := t.Resolver.Vehicle(ctx, vehicleIdent)
	if err != nil {
		return finish(start, nil, err)
	}
	driver, err := t.Resolver.Driver(ctx, driverIdent)
	if err != nil {
		return finish(start, nil, err)
	}

	deployment, err := t.Store.CreateDeployment(ctx, trip.ID, vehicle.ID, driver.ID)
	if err != nil {
		return finish(start, nil, err)
	}

	msg := fmt.Sprintf("Successfully assigned vehicle '%s' and driver '%s' to trip '%s'.",
		vehicle.LicensePlate, driver.Name, trip.DisplayName)
	return finish(start, NewSuccessResult(msg, deployment), nil)
}

// RemoveVehicleFromTrip deletes a trip's deployment. High-impact: the
// controller previews booking consequences before this runs.
type RemoveVehicleFromTrip struct{ Deps }

func (t *RemoveVehicleFromTrip) Name() string { return "remove_vehicle_from_trip" }

func (t *RemoveVehicleFromTrip) Description() string {
	return "Remove the assigned vehicle and driver from a specific trip"
}

func (t *RemoveVehicleFromTrip) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	identifier, err := stringArg(input, "trip_identifier")
	if err != nil {
		return finish(start, nil, err)
	}

	trip, err := t.Resolver.Trip(ctx, identifier)
	if err != nil {
		return finish(start, nil, err)
	}

	removed, err := t.Store.DeleteDeploymentByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		return finish(start, &Result{
			Success: false,
			Error:   fmt.Sprintf("Trip '%s' has no vehicle assigned to it.", trip.DisplayName),
		}, nil)
	}

	msg := fmt.Sprintf("Successfully removed vehicle from trip '%s'. Bookings may be affected.", trip.DisplayName)
	return finish(start, NewSuccessResult(msg, nil), nil)
}

// CreateNewTrip creates a daily trip on a route. Display names are unique
// across trips.
type CreateNewTrip struct{ Deps }

func (t *CreateNewTrip) Name() string { return "create_new_trip" }

func (t *CreateNewTrip) Description() string {
	return "Create a new daily trip on a route with a unique display name"
}

func (t *CreateNewTrip) Execute(ctx context.Context, input map[string]any) (*Result, error) {
	start := time.Now()

	routeIdent, err := stringArg(input, "route_identifier")
	if err != nil {
		return finish(start, nil, err)
	}
	displayName, err := stringArg(input, "display_name")
	if err != nil {
		return finish(start, nil, err)
	}

	route, err := t.Resolver.Route(ctx, routeIdent)
	if err != nil {
		return finish(start, nil, err)
	}

	trip, err := t.Store.CreateTrip(ctx, route.ID, displayName)
	if err != nil {
		return finish(start, nil, err)
	}

	msg := fmt.Sprintf("Created trip '%s' on route '%s'.", trip.DisplayName, route.DisplayName)
	return finish(start, NewSuccessResult(msg, trip), nil)
}
