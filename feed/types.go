package feed

import (
	"time"
)

// Class identifies which upstream feed a position came from.
type Class string

const (
	ClassBus   Class = "bus"
	ClassTrain Class = "train"
)

// Source describes how a snapshot was obtained.
type Source string

const (
	SourceLive    Source = "live"
	SourceCached  Source = "cached"
	SourceMock    Source = "mock"
	SourcePartial Source = "partial"
	SourceError   Source = "error"
)

// VehiclePosition is one normalized vehicle record.
// Heading and Speed are optional; nil means the upstream did not report them.
type VehiclePosition struct {
	ID         string    `json:"id"`
	Class      Class     `json:"vehicleClass"`
	RouteID    string    `json:"routeId"`
	Lat        float64   `json:"latitude"`
	Lon        float64   `json:"longitude"`
	Heading    *float64  `json:"heading,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	ObservedAt time.Time `json:"observedAt"`
}

// Snapshot is the decoded state of one feed class at a point in time.
type Snapshot struct {
	Class      Class             `json:"class"`
	Vehicles   []VehiclePosition `json:"vehicles"`
	CapturedAt time.Time         `json:"capturedAt"`
	Source     Source            `json:"source"`
}

// EmptySnapshot returns a structurally valid snapshot with no vehicles.
// Consumers always receive one of these rather than an error.
func EmptySnapshot(class Class, src Source) Snapshot {
	return Snapshot{
		Class:      class,
		Vehicles:   []VehiclePosition{},
		CapturedAt: time.Now().UTC(),
		Source:     src,
	}
}

// BoundingBox is the configured service area. Coordinates outside it are
// treated as sensor noise and dropped during decoding.
type BoundingBox struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLon float64 `yaml:"min_lon"`
	MaxLon float64 `yaml:"max_lon"`
}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
