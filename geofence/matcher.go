package geofence

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// ZoneProvider supplies the current zone snapshot. It is consulted at most
// once per check; the matcher never mutates what it returns.
type ZoneProvider func() []Zone

// Matcher runs containment checks against the zone set, memoizing results
// per coordinate bucket so a burst of location ticks near the same spot does
// not rescan every zone. Boundary decisions may lag by up to the cache TTL.
type Matcher struct {
	zones     ZoneProvider
	bucketDeg float64
	resultTTL time.Duration

	mu      sync.RWMutex
	results map[string]bucketResult
}

type bucketResult struct {
	zones   []Zone
	expires time.Time
}

func NewMatcher(zones ZoneProvider, bucketDeg float64, resultTTL time.Duration) *Matcher {
	if bucketDeg <= 0 {
		bucketDeg = 0.001 // roughly 100 m of latitude
	}
	if resultTTL <= 0 {
		resultTTL = 60 * time.Second
	}
	return &Matcher{
		zones:     zones,
		bucketDeg: bucketDeg,
		resultTTL: resultTTL,
		results:   map[string]bucketResult{},
	}
}

// Check returns the active zones containing the point, ordered by priority
// (urgent first) with ties broken by ascending distance to the zone center.
func (m *Matcher) Check(lat, lon float64) []Zone {
	key := m.bucketKey(lat, lon)

	m.mu.RLock()
	cached, ok := m.results[key]
	m.mu.RUnlock()
	if ok && time.Now().Before(cached.expires) {
		return cached.zones
	}

	matched := m.scan(lat, lon)

	m.mu.Lock()
	m.results[key] = bucketResult{zones: matched, expires: time.Now().Add(m.resultTTL)}
	m.mu.Unlock()
	return matched
}

// Result wraps Check into the shape served at the API boundary.
func (m *Matcher) Result(lat, lon float64) CheckResult {
	zones := m.Check(lat, lon)
	ids := make([]string, 0, len(zones))
	for _, z := range zones {
		ids = append(ids, z.ID)
	}
	return CheckResult{Alerts: zones, TriggeredZoneIDs: ids}
}

func (m *Matcher) scan(lat, lon float64) []Zone {
	type hit struct {
		zone Zone
		dist float64
	}
	var hits []hit
	for _, z := range m.zones() {
		if !z.Active {
			continue
		}
		d := DistanceMeters(lat, lon, z.Lat, z.Lng)
		if d <= z.RadiusM {
			hits = append(hits, hit{zone: z, dist: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		ri, rj := hits[i].zone.Priority.Rank(), hits[j].zone.Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return hits[i].dist < hits[j].dist
	})
	out := make([]Zone, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.zone)
	}
	return out
}

func (m *Matcher) bucketKey(lat, lon float64) string {
	return fmt.Sprintf("%d:%d", int64(math.Floor(lat/m.bucketDeg)), int64(math.Floor(lon/m.bucketDeg)))
}

// DistanceMeters computes the great-circle distance between two points via
// the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
