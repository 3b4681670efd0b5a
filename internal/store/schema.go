package store

// initSchema creates all tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stops (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS paths (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		ordered_stop_ids TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS routes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path_id INTEGER REFERENCES paths(id),
		display_name TEXT NOT NULL,
		shift_time TEXT NOT NULL,
		direction TEXT DEFAULT '',
		start_point TEXT DEFAULT '',
		end_point TEXT DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active'
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		license_plate TEXT UNIQUE NOT NULL,
		type TEXT DEFAULT '',
		capacity INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS drivers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone_number TEXT UNIQUE
	);

	CREATE TABLE IF NOT EXISTS daily_trips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		route_id INTEGER REFERENCES routes(id),
		display_name TEXT NOT NULL,
		trip_date TIMESTAMP,
		booking_status_percentage INTEGER NOT NULL DEFAULT 0,
		live_status TEXT NOT NULL DEFAULT 'scheduled'
	);

	CREATE TABLE IF NOT EXISTS deployments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trip_id INTEGER UNIQUE REFERENCES daily_trips(id),
		vehicle_id INTEGER REFERENCES vehicles(id),
		driver_id INTEGER REFERENCES drivers(id)
	);

	CREATE INDEX IF NOT EXISTS idx_trips_route ON daily_trips(route_id);
	CREATE INDEX IF NOT EXISTS idx_routes_path ON routes(path_id);
	`

	_, err := s.db.Exec(schema)
	return err
}
