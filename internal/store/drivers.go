package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

const driverColumns = `id, name, COALESCE(phone_number, '')`

// GetDriverByID returns the driver with the given id, or nil if none exists.
func (s *Store) GetDriverByID(ctx context.Context, id int64) (*Driver, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = ?`, id)
	return scanDriver(row)
}

// FindDriverByName returns the first driver whose name contains the given
// fragment, case-insensitively. Returns nil if none matches.
func (s *Store) FindDriverByName(ctx context.Context, fragment string) (*Driver, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers
		 WHERE instr(lower(name), lower(?)) > 0 ORDER BY id LIMIT 1`, fragment)
	return scanDriver(row)
}

// ListDrivers returns all drivers ordered by id.
func (s *Store) ListDrivers(ctx context.Context) ([]Driver, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+driverColumns+` FROM drivers ORDER BY id`)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list drivers")
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.PhoneNumber); err != nil {
			return nil, apperrors.Persistence(err, "failed to scan driver")
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "failed to list drivers")
	}
	return drivers, nil
}

// CreateDriver inserts a new driver. A non-empty phone number must be
// unique; empty phone numbers are stored as NULL so they never collide.
func (s *Store) CreateDriver(ctx context.Context, name, phone string) (*Driver, error) {
	if phone != "" {
		existing, err := s.driverByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict("a driver with phone number '" + phone + "' already exists")
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO drivers (name, phone_number) VALUES (?, NULLIF(?, ''))`, name, phone)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create driver")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create driver")
	}
	return &Driver{ID: id, Name: name, PhoneNumber: phone}, nil
}

func (s *Store) driverByPhone(ctx context.Context, phone string) (*Driver, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE phone_number = ?`, phone)
	return scanDriver(row)
}

func scanDriver(row *sql.Row) (*Driver, error) {
	var d Driver
	if err := row.Scan(&d.ID, &d.Name, &d.PhoneNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Persistence(err, "failed to load driver")
	}
	return &d, nil
}
