package tablica

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"tablica.dev/tablica/model"
	"tablica.dev/tablica/parse"
	"tablica.dev/tablica/registry"
)

var ErrNoFeedLoaded = errors.New("no feed loaded")

// Board owns the current feed snapshot and serves the query API over
// it. The snapshot reference is swapped atomically on successful
// load, so in-flight queries always see one consistent snapshot and a
// failed reload leaves the previous one serving.
type Board struct {
	logger   *slog.Logger
	location *time.Location
	registry registry.Registry

	current atomic.Pointer[Snapshot]
}

// Creates a Board resolving all departure instants in the given time
// zone. The registry may be nil, in which case load history is not
// persisted.
func NewBoard(timezone string, logger *slog.Logger, reg registry.Registry) (*Board, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Board{
		logger:   logger,
		location: location,
		registry: reg,
	}, nil
}

// Loads a feed archive from path and publishes it as the current
// snapshot. On any failure the previous snapshot (if any) remains in
// effect, making a failed load safe to retry later.
//
// Loading an archive whose content hash matches the current snapshot
// is a no-op.
func (b *Board) Load(path string) (*Snapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feed archive: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(buf))

	if cur := b.current.Load(); cur != nil && cur.Hash == hash {
		b.logger.Info("feed unchanged, keeping current snapshot", "hash", hash)
		return cur, nil
	}

	feed, err := parse.ParseFeed(buf)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	snapshot := NewSnapshot(feed, b.location, hash)

	for _, warning := range feed.Warnings {
		b.logger.Warn("row skipped", "feed", snapshot.ID, "detail", warning)
	}

	if b.registry != nil {
		err := b.registry.RecordLoad(&registry.LoadRecord{
			ID:            snapshot.ID,
			Hash:          hash,
			Path:          path,
			Timezone:      b.location.String(),
			LoadedAt:      snapshot.LoadedAt,
			CalendarStart: feed.CalendarStart,
			CalendarEnd:   feed.CalendarEnd,
			Stops:         len(feed.Stops),
			Trips:         len(feed.Trips),
			StopTimes:     len(feed.StopTimes),
			Warnings:      len(feed.Warnings),
		})
		if err != nil {
			// Bookkeeping only; the load itself succeeded.
			b.logger.Error("recording feed load", "error", err)
		}
	}

	b.current.Store(snapshot)

	b.logger.Info("feed loaded",
		"feed", snapshot.ID,
		"hash", hash,
		"stops", len(feed.Stops),
		"trips", len(feed.Trips),
		"stop_times", len(feed.StopTimes),
		"rows_skipped", len(feed.Warnings),
	)

	return snapshot, nil
}

// Returns the current snapshot, or ErrNoFeedLoaded before the first
// successful Load.
func (b *Board) Current() (*Snapshot, error) {
	snapshot := b.current.Load()
	if snapshot == nil {
		return nil, ErrNoFeedLoaded
	}
	return snapshot, nil
}

func (b *Board) ListStops() (map[string]model.StopInfo, error) {
	snapshot, err := b.Current()
	if err != nil {
		return nil, err
	}
	return snapshot.ListStops(), nil
}

func (b *Board) NextDepartures(stopID string) (map[string][]model.Departure, error) {
	snapshot, err := b.Current()
	if err != nil {
		return nil, err
	}
	return snapshot.NextDepartures(stopID, time.Now()), nil
}

func (b *Board) WeekSchedule(routeID, stopID string) ([]model.ScheduleEvent, error) {
	snapshot, err := b.Current()
	if err != nil {
		return nil, err
	}
	return snapshot.WeekSchedule(routeID, stopID, time.Now()), nil
}
