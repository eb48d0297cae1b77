package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Decoder turns raw feed bytes into normalized vehicle records. Positions
// outside the service-area bounding box are dropped as sensor noise; for a
// given vehicle id an older observation never replaces a newer one.
type Decoder struct {
	Box BoundingBox
}

// DecodeTrains decodes a binary GTFS-RT FeedMessage. An envelope whose
// header cannot be parsed fails the whole cycle with DecodeError{Malformed};
// entities without a position are skipped.
func (d Decoder) DecodeTrains(raw []byte) ([]VehiclePosition, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(raw, &fm); err != nil {
		return nil, &DecodeError{Kind: DecodeMalformed, Err: err}
	}
	if fm.Header == nil || fm.Header.GtfsRealtimeVersion == nil {
		return nil, &DecodeError{Kind: DecodeMalformed, Err: errors.New("missing feed header version")}
	}

	headerTS := time.Now().UTC()
	if fm.Header.Timestamp != nil {
		headerTS = time.Unix(int64(*fm.Header.Timestamp), 0).UTC()
	}

	out := newPositionSet()
	for _, e := range fm.Entity {
		v := e.Vehicle
		if v == nil || v.Position == nil || v.Position.Latitude == nil || v.Position.Longitude == nil {
			continue
		}
		lat := float64(*v.Position.Latitude)
		lon := float64(*v.Position.Longitude)
		if !d.Box.Contains(lat, lon) {
			continue
		}
		id := ""
		if v.Vehicle != nil && v.Vehicle.Id != nil {
			id = *v.Vehicle.Id
		}
		if id == "" && e.Id != nil {
			id = *e.Id
		}
		if id == "" {
			continue
		}
		routeID := ""
		if v.Trip != nil && v.Trip.RouteId != nil {
			routeID = *v.Trip.RouteId
		}
		observed := headerTS
		if v.Timestamp != nil {
			observed = time.Unix(int64(*v.Timestamp), 0).UTC()
		}
		vp := VehiclePosition{
			ID:         id,
			Class:      ClassTrain,
			RouteID:    routeID,
			Lat:        lat,
			Lon:        lon,
			ObservedAt: observed,
		}
		if v.Position.Bearing != nil {
			h := float64(*v.Position.Bearing)
			vp.Heading = &h
		}
		if v.Position.Speed != nil {
			s := float64(*v.Position.Speed)
			vp.Speed = &s
		}
		out.add(vp)
	}
	return out.ordered(), nil
}

type busRecord struct {
	ID        string   `json:"id"`
	Route     string   `json:"route"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Timestamp int64    `json:"timestamp"`
	Heading   *float64 `json:"heading"`
	Speed     *float64 `json:"speed"`
}

// DecodeBuses decodes the structured bus feed. A missing top-level array is
// DecodeError{SchemaViolation}; individual malformed entries are skipped.
func (d Decoder) DecodeBuses(raw []byte) ([]VehiclePosition, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DecodeError{Kind: DecodeSchemaViolation, Err: fmt.Errorf("expected top-level array: %w", err)}
	}
	if entries == nil {
		// "null" unmarshals into a nil slice without error.
		return nil, &DecodeError{Kind: DecodeSchemaViolation, Err: errors.New("expected top-level array, got null")}
	}

	out := newPositionSet()
	for _, entry := range entries {
		var rec busRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			continue
		}
		if rec.ID == "" || rec.Lat == nil || rec.Lon == nil {
			continue
		}
		if !d.Box.Contains(*rec.Lat, *rec.Lon) {
			continue
		}
		observed := time.Now().UTC()
		if rec.Timestamp > 0 {
			observed = time.Unix(rec.Timestamp, 0).UTC()
		}
		out.add(VehiclePosition{
			ID:         rec.ID,
			Class:      ClassBus,
			RouteID:    rec.Route,
			Lat:        *rec.Lat,
			Lon:        *rec.Lon,
			Heading:    rec.Heading,
			Speed:      rec.Speed,
			ObservedAt: observed,
		})
	}
	return out.ordered(), nil
}

// Decode dispatches on feed class.
func (d Decoder) Decode(raw []byte, class Class) ([]VehiclePosition, error) {
	if class == ClassTrain {
		return d.DecodeTrains(raw)
	}
	return d.DecodeBuses(raw)
}

// positionSet keeps first-seen order while enforcing newest-wins per id.
type positionSet struct {
	order []string
	byID  map[string]VehiclePosition
}

func newPositionSet() *positionSet {
	return &positionSet{byID: map[string]VehiclePosition{}}
}

func (s *positionSet) add(vp VehiclePosition) {
	prev, ok := s.byID[vp.ID]
	if !ok {
		s.order = append(s.order, vp.ID)
		s.byID[vp.ID] = vp
		return
	}
	if vp.ObservedAt.Before(prev.ObservedAt) {
		return
	}
	s.byID[vp.ID] = vp
}

func (s *positionSet) ordered() []VehiclePosition {
	out := make([]VehiclePosition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
