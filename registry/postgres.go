package registry

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type PSQLRegistry struct {
	db *sql.DB
}

// Creates a new Postgres registry using the provided connection
// string.
//
// If clearDB is true, the feed_load table is dropped on startup. You
// probably only want this for testing.
func NewPSQLRegistry(connStr string, clearDB bool) (*PSQLRegistry, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if clearDB {
		_, err = db.Exec(`DROP TABLE IF EXISTS feed_load;`)
		if err != nil {
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS feed_load (
    id TEXT,
    hash TEXT NOT NULL,
    path TEXT NOT NULL,
    timezone TEXT NOT NULL,
    loaded_at TIMESTAMPTZ NOT NULL,
    calendar_start TEXT NOT NULL,
    calendar_end TEXT NOT NULL,
    stops INTEGER NOT NULL,
    trips INTEGER NOT NULL,
    stop_times INTEGER NOT NULL,
    warnings INTEGER NOT NULL,
    PRIMARY KEY (id)
);`)
	if err != nil {
		return nil, fmt.Errorf("creating feed_load table: %w", err)
	}

	return &PSQLRegistry{db: db}, nil
}

func (r *PSQLRegistry) RecordLoad(rec *LoadRecord) error {
	_, err := r.db.Exec(`
INSERT INTO feed_load (
    id,
    hash,
    path,
    timezone,
    loaded_at,
    calendar_start,
    calendar_end,
    stops,
    trips,
    stop_times,
    warnings
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
    hash = EXCLUDED.hash,
    path = EXCLUDED.path,
    timezone = EXCLUDED.timezone,
    loaded_at = EXCLUDED.loaded_at,
    calendar_start = EXCLUDED.calendar_start,
    calendar_end = EXCLUDED.calendar_end,
    stops = EXCLUDED.stops,
    trips = EXCLUDED.trips,
    stop_times = EXCLUDED.stop_times,
    warnings = EXCLUDED.warnings`,
		rec.ID,
		rec.Hash,
		rec.Path,
		rec.Timezone,
		rec.LoadedAt,
		rec.CalendarStart,
		rec.CalendarEnd,
		rec.Stops,
		rec.Trips,
		rec.StopTimes,
		rec.Warnings,
	)
	if err != nil {
		return fmt.Errorf("writing feed_load: %w", err)
	}

	return nil
}

func (r *PSQLRegistry) ListLoads(limit int) ([]*LoadRecord, error) {
	query := `
SELECT
    id,
    hash,
    path,
    timezone,
    loaded_at,
    calendar_start,
    calendar_end,
    stops,
    trips,
    stop_times,
    warnings
FROM feed_load
ORDER BY loaded_at DESC`

	params := []interface{}{}
	if limit > 0 {
		query += `
LIMIT $1`
		params = append(params, limit)
	}

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying feed_load: %w", err)
	}
	defer rows.Close()

	recs := []*LoadRecord{}
	for rows.Next() {
		rec := &LoadRecord{}
		err := rows.Scan(
			&rec.ID,
			&rec.Hash,
			&rec.Path,
			&rec.Timezone,
			&rec.LoadedAt,
			&rec.CalendarStart,
			&rec.CalendarEnd,
			&rec.Stops,
			&rec.Trips,
			&rec.StopTimes,
			&rec.Warnings,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning feed_load: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func (r *PSQLRegistry) Close() error {
	return r.db.Close()
}
