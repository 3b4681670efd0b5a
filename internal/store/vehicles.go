package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

// GetVehicleByID returns the vehicle with the given id, or nil if none exists.
func (s *Store) GetVehicleByID(ctx context.Context, id int64) (*Vehicle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, license_plate, type, capacity FROM vehicles WHERE id = ?`, id)
	return scanVehicle(row)
}

// FindVehicleByPlate returns the first vehicle whose license plate contains
// the given fragment, case-insensitively. Returns nil if none matches.
func (s *Store) FindVehicleByPlate(ctx context.Context, fragment string) (*Vehicle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, license_plate, type, capacity FROM vehicles
		 WHERE instr(lower(license_plate), lower(?)) > 0 ORDER BY id LIMIT 1`, fragment)
	return scanVehicle(row)
}

// ListVehicles returns all vehicles ordered by id.
func (s *Store) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	return s.queryVehicles(ctx,
		`SELECT id, license_plate, type, capacity FROM vehicles ORDER BY id`)
}

// ListUnassignedVehicles returns vehicles with no deployment.
func (s *Store) ListUnassignedVehicles(ctx context.Context) ([]Vehicle, error) {
	return s.queryVehicles(ctx,
		`SELECT id, license_plate, type, capacity FROM vehicles
		 WHERE id NOT IN (SELECT vehicle_id FROM deployments) ORDER BY id`)
}

// CreateVehicle inserts a new vehicle. The license plate must be unique,
// compared case-insensitively.
func (s *Store) CreateVehicle(ctx context.Context, plate, vehicleType string, capacity int) (*Vehicle, error) {
	existing, err := s.vehicleByExactPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("a vehicle with plate '" + plate + "' already exists")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vehicles (license_plate, type, capacity) VALUES (?, ?, ?)`,
		plate, vehicleType, capacity)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create vehicle")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create vehicle")
	}
	return &Vehicle{ID: id, LicensePlate: plate, Type: vehicleType, Capacity: capacity}, nil
}

func (s *Store) vehicleByExactPlate(ctx context.Context, plate string) (*Vehicle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, license_plate, type, capacity FROM vehicles WHERE lower(license_plate) = lower(?)`, plate)
	return scanVehicle(row)
}

func (s *Store) queryVehicles(ctx context.Context, query string, args ...any) ([]Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list vehicles")
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.LicensePlate, &v.Type, &v.Capacity); err != nil {
			return nil, apperrors.Persistence(err, "failed to scan vehicle")
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "failed to list vehicles")
	}
	return vehicles, nil
}

func scanVehicle(row *sql.Row) (*Vehicle, error) {
	var v Vehicle
	if err := row.Scan(&v.ID, &v.LicensePlate, &v.Type, &v.Capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Persistence(err, "failed to load vehicle")
	}
	return &v, nil
}
