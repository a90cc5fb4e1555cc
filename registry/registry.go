package registry

import (
	"time"
)

// One record per accepted feed load. Records are bookkeeping only;
// query data lives in the in-memory snapshot.
type LoadRecord struct {
	ID            string
	Hash          string
	Path          string
	Timezone      string
	LoadedAt      time.Time
	CalendarStart string
	CalendarEnd   string
	Stops         int
	Trips         int
	StopTimes     int
	Warnings      int
}

// Persists feed load history.
type Registry interface {
	// Writes a load record. Records with the same ID are replaced.
	RecordLoad(rec *LoadRecord) error

	// Returns load records, most recent first. If limit is > 0, at
	// most limit records are returned.
	ListLoads(limit int) ([]*LoadRecord, error)

	Close() error
}
