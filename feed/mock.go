package feed

import (
	"fmt"
	"math/rand"
	"time"
)

// mockSeed fixes the generator so mock snapshots are reproducible in tests.
const mockSeed = 1139

// MockSnapshot returns a deterministic snapshot inside the bounding box,
// tagged mock. Used when mock mode is enabled to bypass the network.
func MockSnapshot(class Class, box BoundingBox, now time.Time) Snapshot {
	rng := rand.New(rand.NewSource(mockSeed + int64(len(class))))
	count := 8
	prefix := "bus"
	if class == ClassTrain {
		count = 4
		prefix = "train"
	}
	vehicles := make([]VehiclePosition, 0, count)
	for i := 0; i < count; i++ {
		heading := rng.Float64() * 360
		speed := rng.Float64() * 20
		vehicles = append(vehicles, VehiclePosition{
			ID:         fmt.Sprintf("mock-%s-%d", prefix, i+1),
			Class:      class,
			RouteID:    fmt.Sprintf("%d", 10+i),
			Lat:        box.MinLat + rng.Float64()*(box.MaxLat-box.MinLat),
			Lon:        box.MinLon + rng.Float64()*(box.MaxLon-box.MinLon),
			Heading:    &heading,
			Speed:      &speed,
			ObservedAt: now,
		})
	}
	return Snapshot{Class: class, Vehicles: vehicles, CapturedAt: now, Source: SourceMock}
}
