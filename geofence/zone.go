package geofence

// Priority orders zone alerts; lower values sort first.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityNormal: 2,
	PriorityLow:    3,
}

// Rank returns the sort rank for the priority; unknown priorities sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// Zone is a circular alert region. The matcher only reads zones; the set is
// owned and mutated elsewhere and handed in as a read-only snapshot.
type Zone struct {
	ID       string   `yaml:"id" json:"id"`
	Lat      float64  `yaml:"lat" json:"lat"`
	Lng      float64  `yaml:"lng" json:"lng"`
	RadiusM  float64  `yaml:"radius_m" json:"radiusMeters"`
	Priority Priority `yaml:"priority" json:"priority"`
	Message  string   `yaml:"message" json:"message"`
	Active   bool     `yaml:"active" json:"active"`
}

// CheckResult is the alert shape served to collaborators.
type CheckResult struct {
	Alerts           []Zone   `json:"alerts"`
	TriggeredZoneIDs []string `json:"triggeredZoneIds"`
}
