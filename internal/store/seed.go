package store

import (
	"context"
	"log/slog"
)

// Seed populates the database with the demo fleet if it is empty.
// Safe to call on every boot.
func (s *Store) Seed(ctx context.Context) error {
	stops, err := s.ListStops(ctx)
	if err != nil {
		return err
	}
	if len(stops) > 0 {
		slog.Debug("database already seeded", "stops", len(stops))
		return nil
	}

	gavipuram, err := s.CreateStop(ctx, "Gavipuram", 12.95, 77.56)
	if err != nil {
		return err
	}
	temple, err := s.CreateStop(ctx, "Temple", 12.96, 77.57)
	if err != nil {
		return err
	}
	peenya, err := s.CreateStop(ctx, "Peenya", 12.97, 77.58)
	if err != nil {
		return err
	}
	odeon, err := s.CreateStop(ctx, "Odeon Circle", 12.98, 77.59)
	if err != nil {
		return err
	}

	path1, err := s.CreatePath(ctx, "Path-1", []int64{gavipuram.ID, temple.ID, peenya.ID})
	if err != nil {
		return err
	}
	path2, err := s.CreatePath(ctx, "Tech-Loop", []int64{odeon.ID, gavipuram.ID, temple.ID})
	if err != nil {
		return err
	}

	route1, err := s.CreateRoute(ctx, &Route{
		PathID: path1.ID, DisplayName: "Path-1 - 00:01", ShiftTime: "00:01",
		Direction: "UP", StartPoint: "Gavipuram", EndPoint: "Peenya",
	})
	if err != nil {
		return err
	}
	route2, err := s.CreateRoute(ctx, &Route{
		PathID: path1.ID, DisplayName: "Path-1 - 00:02", ShiftTime: "00:02",
		Direction: "DOWN", StartPoint: "Peenya", EndPoint: "Gavipuram",
	})
	if err != nil {
		return err
	}
	if _, err := s.CreateRoute(ctx, &Route{
		PathID: path2.ID, DisplayName: "Tech-Loop - 19:45", ShiftTime: "19:45",
		Direction: "UP", StartPoint: "Odeon Circle", EndPoint: "Temple",
		Status: RouteStatusDeactivated,
	}); err != nil {
		return err
	}

	vehicle1, err := s.CreateVehicle(ctx, "MH-12-3456", "Bus", 50)
	if err != nil {
		return err
	}
	if _, err := s.CreateVehicle(ctx, "KA-01-7890", "Cab", 4); err != nil {
		return err
	}
	if _, err := s.CreateVehicle(ctx, "TN-07-1122", "Bus", 40); err != nil {
		return err
	}

	driver1, err := s.CreateDriver(ctx, "Amit", "9876543210")
	if err != nil {
		return err
	}
	if _, err := s.CreateDriver(ctx, "Sunita", "9876543211"); err != nil {
		return err
	}

	trip1, err := s.CreateTrip(ctx, route1.ID, "Bulk - 00:01")
	if err != nil {
		return err
	}
	if _, err := s.CreateTrip(ctx, route2.ID, "Path Path - 00:02"); err != nil {
		return err
	}

	// Trip 1 ships with live bookings so the confirmation flow has
	// something to warn about out of the box.
	if err := s.UpdateTripBooking(ctx, trip1.ID, 25); err != nil {
		return err
	}

	if _, err := s.CreateDeployment(ctx, trip1.ID, vehicle1.ID, driver1.ID); err != nil {
		return err
	}

	slog.Info("database seeded", "stops", 4, "paths", 2, "routes", 3, "vehicles", 3, "drivers", 2, "trips", 2)
	return nil
}
