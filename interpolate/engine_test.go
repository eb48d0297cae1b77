package interpolate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaseOutCubic(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutCubic(0))
	assert.Equal(t, 1.0, EaseOutCubic(1))

	prev := 0.0
	for i := 0; i <= 100; i++ {
		v := EaseOutCubic(float64(i) / 100)
		assert.GreaterOrEqual(t, v, prev, "eased progress must be monotonically non-decreasing")
		prev = v
	}
}

func TestEngineEndpoints(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e := NewEngine(2 * time.Second)

	start := Position{Lat: 33.75, Lon: -84.40}
	target := Position{Lat: 33.76, Lon: -84.39}

	e.SetTarget("v1", start, now)
	e.SetTarget("v1", target, now)

	// Progress 0: displayed equals start.
	got, ok := e.DisplayedAt("v1", now)
	require.True(t, ok)
	assert.Equal(t, start, got)

	// Progress 1: displayed equals target exactly.
	got, ok = e.DisplayedAt("v1", now.Add(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, target, got)

	// Past the duration the position stays settled.
	got, _ = e.DisplayedAt("v1", now.Add(time.Minute))
	assert.Equal(t, target, got)
}

func TestEngineFirstObservationSnaps(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e := NewEngine(2 * time.Second)

	target := Position{Lat: 33.75, Lon: -84.40}
	e.SetTarget("v1", target, now)

	got, ok := e.DisplayedAt("v1", now)
	require.True(t, ok)
	assert.Equal(t, target, got)
}

func TestEngineNoOpOnEqualTarget(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e := NewEngine(2 * time.Second)

	start := Position{Lat: 33.75, Lon: -84.40}
	target := Position{Lat: 33.76, Lon: -84.39}
	e.SetTarget("v1", start, now)
	e.SetTarget("v1", target, now)

	// A target equal to the displayed position is a no-op and must not
	// disturb the transition in flight.
	mid := now.Add(time.Second)
	before, _ := e.DisplayedAt("v1", mid)
	e.SetTarget("v1", before, mid)
	after, _ := e.DisplayedAt("v1", mid)
	assert.Equal(t, before, after)

	settled, _ := e.DisplayedAt("v1", now.Add(2*time.Second))
	assert.Equal(t, target, settled)
}

func TestEngineSupersedeRestartsFromMidpoint(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e := NewEngine(2 * time.Second)

	e.SetTarget("v1", Position{Lat: 0, Lon: 0}, now)
	e.SetTarget("v1", Position{Lat: 1, Lon: 0}, now)

	// Interrupt half way through: the displayed position at that instant
	// becomes the new start, never a queued animation.
	mid := now.Add(time.Second)
	displayed, _ := e.DisplayedAt("v1", mid)
	require.Greater(t, displayed.Lat, 0.0)
	require.Less(t, displayed.Lat, 1.0)

	newTarget := Position{Lat: 2, Lon: 0}
	e.SetTarget("v1", newTarget, mid)

	atRestart, _ := e.DisplayedAt("v1", mid)
	assert.Equal(t, displayed, atRestart)

	settled, _ := e.DisplayedAt("v1", mid.Add(2*time.Second))
	assert.Equal(t, newTarget, settled)
}

func TestEngineHeadingIndependent(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e := NewEngine(2 * time.Second)

	e.SetTarget("v1", Position{Lat: 0, Lon: 0}, now)
	e.SetHeading("v1", 0, now)
	e.SetHeading("v1", 90, now)

	// Heading animates without any position transition in flight.
	h, ok := e.HeadingAt("v1", now.Add(time.Second))
	require.True(t, ok)
	assert.Greater(t, h, 0.0)
	assert.Less(t, h, 90.0)

	h, _ = e.HeadingAt("v1", now.Add(2*time.Second))
	assert.InDelta(t, 90, h, 1e-9)

	pos, _ := e.DisplayedAt("v1", now.Add(time.Second))
	assert.Equal(t, Position{Lat: 0, Lon: 0}, pos)
}

func TestEngineHeadingShortestArc(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e := NewEngine(2 * time.Second)

	e.SetHeading("v1", 350, now)
	e.SetHeading("v1", 10, now)

	// 350° -> 10° rotates 20° through north, not 340° the long way round.
	h, _ := e.HeadingAt("v1", now.Add(time.Second))
	assert.True(t, h >= 350 || h <= 10, "heading %v should cross the 0/360 wrap", h)

	h, _ = e.HeadingAt("v1", now.Add(2*time.Second))
	assert.InDelta(t, 10, h, 1e-9)
}

func TestEngineForget(t *testing.T) {
	now := time.Unix(1700000000, 0)
	e := NewEngine(2 * time.Second)

	e.SetTarget("v1", Position{Lat: 1, Lon: 1}, now)
	e.Forget("v1")
	_, ok := e.DisplayedAt("v1", now)
	assert.False(t, ok)
}
