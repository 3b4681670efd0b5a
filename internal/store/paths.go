package store

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

// GetPathByID returns the path with the given id, or nil if none exists.
func (s *Store) GetPathByID(ctx context.Context, id int64) (*Path, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, ordered_stop_ids FROM paths WHERE id = ?`, id)
	return scanPath(row)
}

// FindPathByName returns the first path whose name contains the given
// fragment, case-insensitively. Returns nil if none matches.
func (s *Store) FindPathByName(ctx context.Context, fragment string) (*Path, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, ordered_stop_ids FROM paths
		 WHERE instr(lower(name), lower(?)) > 0 ORDER BY id LIMIT 1`, fragment)
	return scanPath(row)
}

// ListPaths returns all paths ordered by id.
func (s *Store) ListPaths(ctx context.Context) ([]Path, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, ordered_stop_ids FROM paths ORDER BY id`)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to list paths")
	}
	defer rows.Close()

	var paths []Path
	for rows.Next() {
		var p Path
		if err := rows.Scan(&p.ID, &p.Name, &p.OrderedStopIDs); err != nil {
			return nil, apperrors.Persistence(err, "failed to scan path")
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "failed to list paths")
	}
	return paths, nil
}

// CreatePath inserts a new path over the given ordered stop ids.
// The name must be unique. Stop resolution happens at the caller; the
// insert itself is a single atomic statement.
func (s *Store) CreatePath(ctx context.Context, name string, stopIDs []int64) (*Path, error) {
	existing, err := s.pathByExactName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("a path named '" + name + "' already exists")
	}

	csv := JoinStopIDs(stopIDs)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO paths (name, ordered_stop_ids) VALUES (?, ?)`, name, csv)
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create path")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperrors.Persistence(err, "failed to create path")
	}
	return &Path{ID: id, Name: name, OrderedStopIDs: csv}, nil
}

func (s *Store) pathByExactName(ctx context.Context, name string) (*Path, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, ordered_stop_ids FROM paths WHERE lower(name) = lower(?)`, name)
	return scanPath(row)
}

func scanPath(row *sql.Row) (*Path, error) {
	var p Path
	if err := row.Scan(&p.ID, &p.Name, &p.OrderedStopIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Persistence(err, "failed to load path")
	}
	return &p, nil
}
