// Package interpolate smooths discrete feed updates into continuous motion
// for rendering. Between ~30s feed ticks a vehicle marker glides from its
// displayed position to the newly observed one instead of jumping.
package interpolate

import (
	"math"
	"sync"
	"time"
)

// DefaultDuration is the fixed animation length for a position transition.
const DefaultDuration = 2000 * time.Millisecond

// Position is a displayed coordinate pair.
type Position struct {
	Lat float64
	Lon float64
}

// animation runs from start toward target over a fixed duration. A newer
// target replaces it immediately, restarting from the interrupted midpoint;
// animations are never queued.
type animation struct {
	start     Position
	target    Position
	startedAt time.Time
}

type headingAnimation struct {
	start     float64
	target    float64
	startedAt time.Time
}

// Engine tracks per-vehicle animation state. All decisions are based on the
// currently displayed value, not the last settled one.
type Engine struct {
	duration time.Duration

	mu       sync.Mutex
	anims    map[string]*animation
	headings map[string]*headingAnimation
}

func NewEngine(duration time.Duration) *Engine {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Engine{
		duration: duration,
		anims:    map[string]*animation{},
		headings: map[string]*headingAnimation{},
	}
}

// EaseOutCubic maps linear progress to eased progress: fast start, gentle
// settle. Monotonically non-decreasing on [0,1].
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// SetTarget begins a transition toward target, capturing the currently
// displayed position as the new start. No-op when the target equals the
// displayed position. A transition in flight is cancelled and restarted
// from its midpoint.
func (e *Engine) SetTarget(id string, target Position, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.anims[id]
	if !ok {
		// First observation: show the vehicle at its target immediately.
		e.anims[id] = &animation{start: target, target: target, startedAt: now.Add(-e.duration)}
		return
	}
	displayed := e.displayedLocked(a, now)
	if displayed == target {
		return
	}
	e.anims[id] = &animation{start: displayed, target: target, startedAt: now}
}

// DisplayedAt returns the position to render for the vehicle at the given
// time. Unknown ids report false.
func (e *Engine) DisplayedAt(id string, now time.Time) (Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.anims[id]
	if !ok {
		return Position{}, false
	}
	return e.displayedLocked(a, now), true
}

func (e *Engine) displayedLocked(a *animation, now time.Time) Position {
	t := e.progress(a.startedAt, now)
	if t >= 1 {
		// Settle on the target exactly rather than a lerp rounding of it.
		return a.target
	}
	eased := EaseOutCubic(t)
	return Position{
		Lat: a.start.Lat + (a.target.Lat-a.start.Lat)*eased,
		Lon: a.start.Lon + (a.target.Lon-a.start.Lon)*eased,
	}
}

// SetHeading begins an eased rotation toward the target heading in degrees.
// Rotation is independent of position interpolation and never gates it.
func (e *Engine) SetHeading(id string, target float64, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, ok := e.headings[id]
	if !ok {
		e.headings[id] = &headingAnimation{start: target, target: target, startedAt: now.Add(-e.duration)}
		return
	}
	current := e.headingLocked(h, now)
	if current == target {
		return
	}
	e.headings[id] = &headingAnimation{start: current, target: target, startedAt: now}
}

// HeadingAt returns the heading to render, in [0,360).
func (e *Engine) HeadingAt(id string, now time.Time) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.headings[id]
	if !ok {
		return 0, false
	}
	return e.headingLocked(h, now), true
}

func (e *Engine) headingLocked(h *headingAnimation, now time.Time) float64 {
	t := e.progress(h.startedAt, now)
	if t >= 1 {
		return math.Mod(h.target+360, 360)
	}
	eased := EaseOutCubic(t)
	// Rotate along the shortest arc across the 0/360 wrap.
	delta := math.Mod(h.target-h.start+540, 360) - 180
	deg := math.Mod(h.start+delta*eased+360, 360)
	return deg
}

// Forget drops all animation state for a vehicle, e.g. when it leaves the
// feed.
func (e *Engine) Forget(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.anims, id)
	delete(e.headings, id)
}

func (e *Engine) progress(startedAt, now time.Time) float64 {
	t := float64(now.Sub(startedAt)) / float64(e.duration)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
