package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

const routeColumns = `id, path_id, display_name, shift_time, direction, start_point, end_point, status`

// GetRouteByID returns the route with the given id, or nil if none exists.
func (s *Store) GetRouteByID(ctx context.Context, id int64) (*Route, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE id = ?`, id)
	return scanRoute(row)
}

// FindRouteByName returns the first route whose display name contains the
// given fragment, case-insensitively. Returns nil if none matches.
func (s *Store) FindRouteByName(ctx context.Context, fragment string) (*Route, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+routeColumns+` FROM routes
		 WHERE instr(lower(display_name), lower(?)) > 0 ORDER BY id LIMIT 1`, fragment)
	return scanRoute(row)
}

// ListRoutes returns all routes ordered by id.
func (s *Store) ListRoutes(ctx context.Context) ([]Route, error) {
	return s.queryRoutes(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY id`)
}

// RoutesByPathID returns all routes over the given path.
func (s *Store) RoutesByPathID(ctx context.Context, pathID int64) ([]Route, error) {
	return s.queryRoutes(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE path_id = ? ORDER BY id`, pathID)
}

// CreateRoute inserts a new route.
func (s *Store) CreateRoute(ctx context.Context, r *Route) (*Route, error) {
	if r.Status == "" {
		r.Status = RouteStatusActive
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO routes (path_id, display_name, shift_time, direction, start_point, end_point, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.PathID, r.DisplayName, r.ShiftTime, r.Direction, r.StartPoint, r.EndPoint, r.Status)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create route")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create route")
	}
	r.ID = id
	return r, nil
}

// UpdateRouteStatus sets the status of the given route.
func (s *Store) UpdateRouteStatus(ctx context.Context, routeID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE routes SET status = ? WHERE id = ?`, status, routeID)
	if err != nil {
		return apperrors.Persistence(err, "failed to update route status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Persistence(err, "failed to update route status")
	}
	if n == 0 {
		return apperrors.NotFound("route", "")
	}
	return nil
}

func (s *Store) queryRoutes(ctx context.Context, query string, args ...any) ([]Route, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list routes")
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.PathID, &r.DisplayName, &r.ShiftTime,
			&r.Direction, &r.StartPoint, &r.EndPoint, &r.Status); err != nil {
			return nil, apperrors.Persistence(err, "failed to scan route")
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "failed to list routes")
	}
	return routes, nil
}

func scanRoute(row *sql.Row) (*Route, error) {
	var r Route
	if err := row.Scan(&r.ID, &r.PathID, &r.DisplayName, &r.ShiftTime,
		&r.Direction, &r.StartPoint, &r.EndPoint, &r.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Persistence(err, "failed to load route")
	}
	return &r, nil
}
