package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

// GetDeploymentByTripID returns the deployment for the given trip, or nil
// if the trip has none.
func (s *Store) GetDeploymentByTripID(ctx context.Context, tripID int64) (*Deployment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, vehicle_id, driver_id FROM deployments WHERE trip_id = ?`, tripID)
	return scanDeployment(row)
}

// ListDeployments returns all deployments ordered by id.
func (s *Store) ListDeployments(ctx context.Context) ([]Deployment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, vehicle_id, driver_id FROM deployments ORDER BY id`)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list deployments")
	}
	defer rows.Close()

	var deployments []Deployment
	for rows.Next() {
		var d Deployment
		if err := rows.Scan(&d.ID, &d.TripID, &d.VehicleID, &d.DriverID); err != nil {
			return nil, apperrors.Persistence(err, "failed to scan deployment")
		}
		deployments = append(deployments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "failed to list deployments")
	}
	return deployments, nil
}

// CreateDeployment assigns a vehicle and driver to a trip. The existence
// check and the insert run in one transaction so a trip can never end up
// with two deployments.
func (s *Store) CreateDeployment(ctx context.Context, tripID, vehicleID, driverID int64) (*Deployment, error) {
	var dep *Deployment

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var existingID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM deployments WHERE trip_id = ?`, tripID).Scan(&existingID)
		if err == nil {
			return apperrors.Conflict("trip already has a vehicle deployed")
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return apperrors.Persistence(err, "failed to check existing deployment")
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO deployments (trip_id, vehicle_id, driver_id) VALUES (?, ?, ?)`,
			tripID, vehicleID, driverID)
		if err != nil {
			return apperrors.Persistence(err, "failed to create deployment")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return apperrors.Persistence(err, "failed to create deployment")
		}
		dep = &Deployment{ID: id, TripID: tripID, VehicleID: vehicleID, DriverID: driverID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dep, nil
}

// DeleteDeploymentByTripID removes the deployment for the given trip.
// Returns the number of rows removed.
func (s *Store) DeleteDeploymentByTripID(ctx context.Context, tripID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM deployments WHERE trip_id = ?`, tripID)
	if err != nil {
		return 0, apperrors.Persistence(err, "failed to delete deployment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Persistence(err, "failed to delete deployment")
	}
	return n, nil
}

func scanDeployment(row *sql.Row) (*Deployment, error) {
	var d Deployment
	if err := row.Scan(&d.ID, &d.TripID, &d.VehicleID, &d.DriverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Persistence(err, "failed to load deployment")
	}
	return &d, nil
}
