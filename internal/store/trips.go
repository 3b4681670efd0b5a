package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

const tripColumns = `id, route_id, display_name, trip_date, booking_status_percentage, live_status`

// GetTripByID returns the trip with the given id, or nil if none exists.
func (s *Store) GetTripByID(ctx context.Context, id int64) (*DailyTrip, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM daily_trips WHERE id = ?`, id)
	return scanTrip(row)
}

// FindTripByName returns the first trip whose display name contains the
// given fragment, case-insensitively. Returns nil if none matches.
func (s *Store) FindTripByName(ctx context.Context, fragment string) (*DailyTrip, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM daily_trips
		 WHERE instr(lower(display_name), lower(?)) > 0 ORDER BY id LIMIT 1`, fragment)
	return scanTrip(row)
}

// ListTrips returns all trips ordered by id.
func (s *Store) ListTrips(ctx context.Context) ([]DailyTrip, error) {
	return s.queryTrips(ctx, `SELECT `+tripColumns+` FROM daily_trips ORDER BY id`)
}

// TripsByRouteID returns all trips on the given route.
func (s *Store) TripsByRouteID(ctx context.Context, routeID int64) ([]DailyTrip, error) {
	return s.queryTrips(ctx,
		`SELECT `+tripColumns+` FROM daily_trips WHERE route_id = ? ORDER BY id`, routeID)
}

// CreateTrip inserts a new trip. The display name must be unique across
// all trips.
func (s *Store) CreateTrip(ctx context.Context, routeID int64, displayName string) (*DailyTrip, error) {
	existing, err := s.tripByExactName(ctx, displayName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("a trip named '" + displayName + "' already exists")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_trips (route_id, display_name, booking_status_percentage, live_status)
		 VALUES (?, ?, 0, ?)`, routeID, displayName, TripStatusScheduled)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create trip")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create trip")
	}
	return &DailyTrip{
		ID:          id,
		RouteID:     routeID,
		DisplayName: displayName,
		LiveStatus:  TripStatusScheduled,
	}, nil
}

// UpdateTripStatus sets the live status of the given trip.
func (s *Store) UpdateTripStatus(ctx context.Context, tripID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE daily_trips SET live_status = ? WHERE id = ?`, status, tripID)
	if err != nil {
		return apperrors.Persistence(err, "failed to update trip status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Persistence(err, "failed to update trip status")
	}
	if n == 0 {
		return apperrors.NotFound("trip", "")
	}
	return nil
}

// UpdateTripBooking sets the booking percentage of the given trip.
func (s *Store) UpdateTripBooking(ctx context.Context, tripID int64, percentage int) error {
	if percentage < 0 || percentage > 100 {
		return apperrors.Validation("booking percentage must be between 0 and 100")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE daily_trips SET booking_status_percentage = ? WHERE id = ?`, percentage, tripID)
	if err != nil {
		return apperrors.Persistence(err, "failed to update trip booking")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Persistence(err, "failed to update trip booking")
	}
	if n == 0 {
		return apperrors.NotFound("trip", "")
	}
	return nil
}

func (s *Store) tripByExactName(ctx context.Context, name string) (*DailyTrip, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM daily_trips WHERE lower(display_name) = lower(?)`, name)
	return scanTrip(row)
}

func (s *Store) queryTrips(ctx context.Context, query string, args ...any) ([]DailyTrip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list trips")
	}
	defer rows.Close()

	var trips []DailyTrip
	for rows.Next() {
		var t DailyTrip
		if err := rows.Scan(&t.ID, &t.RouteID, &t.DisplayName, &t.TripDate,
			&t.BookingStatusPercentage, &t.LiveStatus); err != nil {
			return nil, apperrors.Persistence(err, "failed to scan trip")
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "failed to list trips")
	}
	return trips, nil
}

func scanTrip(row *sql.Row) (*DailyTrip, error) {
	var t DailyTrip
	if err := row.Scan(&t.ID, &t.RouteID, &t.DisplayName, &t.TripDate,
		&t.BookingStatusPercentage, &t.LiveStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Persistence(err, "failed to load trip")
	}
	return &t, nil
}
