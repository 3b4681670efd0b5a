package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

// GetStopByID returns the stop with the given id, or nil if none exists.
func (s *Store) GetStopByID(ctx context.Context, id int64) (*Stop, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude FROM stops WHERE id = ?`, id)
	return scanStop(row)
}

// FindStopByName returns the first stop whose name contains the given
// fragment, case-insensitively. Returns nil if none matches.
func (s *Store) FindStopByName(ctx context.Context, fragment string) (*Stop, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude FROM stops
		 WHERE instr(lower(name), lower(?)) > 0 ORDER BY id LIMIT 1`, fragment)
	return scanStop(row)
}

// ListStops returns all stops ordered by id.
func (s *Store) ListStops(ctx context.Context) ([]Stop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude FROM stops ORDER BY id`)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list stops")
	}
	defer rows.Close()

	var stops []Stop
	for rows.Next() {
		var st Stop
		if err := rows.Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude); err != nil {
			return nil, apperrors.Persistence(err, "failed to scan stop")
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "failed to list stops")
	}
	return stops, nil
}

// CreateStop inserts a new stop. The name must be unique.
func (s *Store) CreateStop(ctx context.Context, name string, lat, lon float64) (*Stop, error) {
	existing, err := s.stopByExactName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("a stop named '" + name + "' already exists")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO stops (name, latitude, longitude) VALUES (?, ?, ?)`,
		name, lat, lon)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create stop")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create stop")
	}
	return &Stop{ID: id, Name: name, Latitude: lat, Longitude: lon}, nil
}

// StopsByIDs returns stops in the order of the given ids.
// Missing ids are skipped.
func (s *Store) StopsByIDs(ctx context.Context, ids []int64) ([]Stop, error) {
	stops := make([]Stop, 0, len(ids))
	for _, id := range ids {
		st, err := s.GetStopByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if st != nil {
			stops = append(stops, *st)
		}
	}
	return stops, nil
}

func (s *Store) stopByExactName(ctx context.Context, name string) (*Stop, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude FROM stops WHERE lower(name) = lower(?)`, name)
	return scanStop(row)
}

func scanStop(row *sql.Row) (*Stop, error) {
	var st Stop
	if err := row.Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Persistence(err, "failed to load stop")
	}
	return &st, nil
}

// ParseStopIDs splits an ordered_stop_ids column value into ids.
func ParseStopIDs(csv string) []int64 {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// JoinStopIDs renders ids as an ordered_stop_ids column value.
func JoinStopIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
