package feed

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds at most one snapshot per feed class and coalesces refreshes:
// concurrent callers past the TTL share a single upstream fetch instead of
// issuing their own. Entries are overwritten, never evicted.
type Cache struct {
	acquirer *Acquirer
	ttl      time.Duration
	mockMode bool

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[Class]cacheEntry
}

type cacheEntry struct {
	snapshot Snapshot
	expires  time.Time
}

func NewCache(acquirer *Acquirer, ttl time.Duration, mockMode bool) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		acquirer: acquirer,
		ttl:      ttl,
		mockMode: mockMode,
		entries:  map[Class]cacheEntry{},
	}
}

// GetOrFetch returns the cached snapshot for the class, refreshing it when
// expired. A stale entry is returned immediately while the refresh runs in
// the background (stale-while-revalidate); only the very first fetch for a
// class blocks. The acquirer's hard timeout bounds every flight, so a stuck
// upstream can never wedge the shared slot.
func (c *Cache) GetOrFetch(ctx context.Context, class Class) Snapshot {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.entries[class]
	c.mu.RUnlock()

	if ok && now.Before(entry.expires) {
		return entry.snapshot
	}

	if ok {
		// Stale but present: kick a shared refresh and serve the stale copy.
		go func() {
			_, _, _ = c.group.Do(string(class), func() (interface{}, error) {
				return c.refresh(context.WithoutCancel(ctx), class), nil
			})
		}()
		return entry.snapshot
	}

	// Cold start: all callers block on the one shared flight.
	v, _, _ := c.group.Do(string(class), func() (interface{}, error) {
		return c.refresh(ctx, class), nil
	})
	return v.(Snapshot)
}

func (c *Cache) refresh(ctx context.Context, class Class) Snapshot {
	snap := c.acquirer.Acquire(ctx, class)
	c.mu.Lock()
	c.entries[class] = cacheEntry{snapshot: snap, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return snap
}

// CombinedSnapshot is the query shape served to collaborators.
type CombinedSnapshot struct {
	Buses     []VehiclePosition `json:"buses"`
	Trains    []VehiclePosition `json:"trains"`
	Timestamp time.Time         `json:"timestamp"`
	Source    Source            `json:"source"`
}

// Combined fetches both classes concurrently and derives the top-level
// provenance: live only when both classes are live, partial when exactly
// one degraded, error when both did, mock under mock mode.
func (c *Cache) Combined(ctx context.Context) CombinedSnapshot {
	var (
		wg     sync.WaitGroup
		buses  Snapshot
		trains Snapshot
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		buses = c.GetOrFetch(ctx, ClassBus)
	}()
	go func() {
		defer wg.Done()
		trains = c.GetOrFetch(ctx, ClassTrain)
	}()
	wg.Wait()

	return CombinedSnapshot{
		Buses:     buses.Vehicles,
		Trains:    trains.Vehicles,
		Timestamp: time.Now().UTC(),
		Source:    c.combinedSource(buses.Source, trains.Source),
	}
}

func (c *Cache) combinedSource(bus, train Source) Source {
	if c.mockMode {
		return SourceMock
	}
	busLive := bus == SourceLive
	trainLive := train == SourceLive
	switch {
	case busLive && trainLive:
		return SourceLive
	case busLive || trainLive:
		return SourcePartial
	default:
		return SourceError
	}
}

// LatestEpoch reports the newest capture time across cached entries, for
// health reporting. Zero when nothing has been fetched yet.
func (c *Cache) LatestEpoch() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var latest int64
	for _, e := range c.entries {
		if ts := e.snapshot.CapturedAt.Unix(); ts > latest {
			latest = ts
		}
	}
	return latest
}
