package registry

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

type SQLiteRegistry struct {
	db *sql.DB
}

func NewSQLiteRegistry(cfg ...SQLiteConfig) (*SQLiteRegistry, error) {
	onDisk := false
	directory := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = directory + "/tablica.db"
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS feed_load (
    id TEXT,
    hash TEXT NOT NULL,
    path TEXT NOT NULL,
    timezone TEXT NOT NULL,
    loaded_at TIMESTAMP NOT NULL,
    calendar_start TEXT NOT NULL,
    calendar_end TEXT NOT NULL,
    stops INTEGER NOT NULL,
    trips INTEGER NOT NULL,
    stop_times INTEGER NOT NULL,
    warnings INTEGER NOT NULL,
PRIMARY KEY (id)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating feed_load table: %w", err)
	}

	return &SQLiteRegistry{db: db}, nil
}

func (r *SQLiteRegistry) RecordLoad(rec *LoadRecord) error {
	_, err := r.db.Exec(`
INSERT OR REPLACE INTO feed_load (
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
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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

func (r *SQLiteRegistry) ListLoads(limit int) ([]*LoadRecord, error) {
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
LIMIT ?`
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

func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
