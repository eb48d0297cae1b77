package geofence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticZones(zones []Zone) ZoneProvider {
	return func() []Zone { return zones }
}

func TestDistanceMeters(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		assert.Zero(t, DistanceMeters(33.7545, -84.4025, 33.7545, -84.4025))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := DistanceMeters(33.7545, -84.4025, 33.7600, -84.3900)
		d2 := DistanceMeters(33.7600, -84.3900, 33.7545, -84.4025)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("known distance", func(t *testing.T) {
		// One degree of latitude is about 111.2 km.
		d := DistanceMeters(33.0, -84.0, 34.0, -84.0)
		assert.InDelta(t, 111195, d, 100)
	})
}

func TestMatcherContainment(t *testing.T) {
	zone := Zone{ID: "stadium", Lat: 33.7545, Lng: -84.4025, RadiusM: 500, Priority: PriorityNormal, Active: true}
	m := NewMatcher(staticZones([]Zone{zone}), 0.001, time.Minute)

	// ~300 m north of center: triggered.
	inside := m.Check(33.7545+0.0027, -84.4025)
	require.Len(t, inside, 1)
	assert.Equal(t, "stadium", inside[0].ID)

	// ~600 m north of center: not triggered.
	outside := m.Check(33.7545+0.0054, -84.4025)
	assert.Empty(t, outside)
}

func TestMatcherRadiusBoundary(t *testing.T) {
	zone := Zone{ID: "z", Lat: 33.75, Lng: -84.40, RadiusM: 500, Priority: PriorityNormal, Active: true}
	m := NewMatcher(staticZones([]Zone{zone}), 0.001, time.Minute)

	for lat := 33.750; lat < 33.760; lat += 0.0005 {
		d := DistanceMeters(lat, -84.40, zone.Lat, zone.Lng)
		got := m.scan(lat, -84.40)
		if d <= zone.RadiusM {
			assert.Len(t, got, 1, "distance %.0f m should trigger", d)
		} else {
			assert.Empty(t, got, "distance %.0f m should not trigger", d)
		}
	}
}

func TestMatcherPriorityOrdering(t *testing.T) {
	center := [2]float64{33.75, -84.40}
	zones := []Zone{
		{ID: "n", Lat: center[0], Lng: center[1], RadiusM: 1000, Priority: PriorityNormal, Active: true},
		{ID: "u", Lat: center[0], Lng: center[1], RadiusM: 1000, Priority: PriorityUrgent, Active: true},
		{ID: "l", Lat: center[0], Lng: center[1], RadiusM: 1000, Priority: PriorityLow, Active: true},
		{ID: "h", Lat: center[0], Lng: center[1], RadiusM: 1000, Priority: PriorityHigh, Active: true},
	}
	m := NewMatcher(staticZones(zones), 0.001, time.Minute)

	got := m.Check(center[0], center[1])
	require.Len(t, got, 4)
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []string{"u", "h", "n", "l"}, ids)
}

func TestMatcherPriorityTieBrokenByDistance(t *testing.T) {
	zones := []Zone{
		{ID: "far", Lat: 33.7580, Lng: -84.40, RadiusM: 2000, Priority: PriorityHigh, Active: true},
		{ID: "near", Lat: 33.7510, Lng: -84.40, RadiusM: 2000, Priority: PriorityHigh, Active: true},
	}
	m := NewMatcher(staticZones(zones), 0.001, time.Minute)

	got := m.Check(33.75, -84.40)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID)
	assert.Equal(t, "far", got[1].ID)
}

func TestMatcherIgnoresInactiveZones(t *testing.T) {
	zones := []Zone{
		{ID: "off", Lat: 33.75, Lng: -84.40, RadiusM: 1000, Priority: PriorityUrgent, Active: false},
		{ID: "on", Lat: 33.75, Lng: -84.40, RadiusM: 1000, Priority: PriorityLow, Active: true},
	}
	m := NewMatcher(staticZones(zones), 0.001, time.Minute)

	got := m.Check(33.75, -84.40)
	require.Len(t, got, 1)
	assert.Equal(t, "on", got[0].ID)
}

func TestMatcherBucketCache(t *testing.T) {
	calls := 0
	provider := func() []Zone {
		calls++
		return []Zone{{ID: "z", Lat: 33.75, Lng: -84.40, RadiusM: 500, Priority: PriorityNormal, Active: true}}
	}
	m := NewMatcher(provider, 0.001, time.Minute)

	// Repeated checks in the same bucket hit the memoized result; the zone
	// set is scanned once.
	_ = m.Check(33.75001, -84.40001)
	_ = m.Check(33.75002, -84.40002)
	_ = m.Check(33.75003, -84.40003)
	assert.Equal(t, 1, calls)

	// A different bucket forces a fresh scan.
	_ = m.Check(33.76, -84.41)
	assert.Equal(t, 2, calls)
}

func TestMatcherBucketCacheExpires(t *testing.T) {
	calls := 0
	provider := func() []Zone {
		calls++
		return nil
	}
	m := NewMatcher(provider, 0.001, 10*time.Millisecond)

	_ = m.Check(33.75, -84.40)
	time.Sleep(20 * time.Millisecond)
	_ = m.Check(33.75, -84.40)
	assert.Equal(t, 2, calls)
}

func TestMatcherResultShape(t *testing.T) {
	zones := []Zone{
		{ID: "a", Lat: 33.75, Lng: -84.40, RadiusM: 1000, Priority: PriorityUrgent, Active: true},
		{ID: "b", Lat: 33.75, Lng: -84.40, RadiusM: 1000, Priority: PriorityLow, Active: true},
	}
	m := NewMatcher(staticZones(zones), 0.001, time.Minute)

	res := m.Result(33.75, -84.40)
	assert.Equal(t, []string{"a", "b"}, res.TriggeredZoneIDs)
	require.Len(t, res.Alerts, 2)
}
