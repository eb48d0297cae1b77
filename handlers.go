package transitlive

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/theoremus-urban-solutions/transit-live/feed"
)

// vehiclesResponse is the query shape served to collaborators. Data
// unavailability never produces an HTTP error; the source tag carries it.
type vehiclesResponse struct {
	Buses     []feed.VehiclePosition `json:"buses"`
	Trains    []feed.VehiclePosition `json:"trains"`
	Timestamp string                 `json:"timestamp"`
	Source    feed.Source            `json:"source"`
}

func handleVehicles(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		snap := svc.Vehicles(r.Context())
		_ = json.NewEncoder(w).Encode(vehiclesResponse{
			Buses:     snap.Buses,
			Trains:    snap.Trains,
			Timestamp: snap.Timestamp.Format(time.RFC3339),
			Source:    snap.Source,
		})
	}
}

// handleGeofenceCheck serves the alert query. Coordinates arrive as the
// "lat" and "lng" query parameters, matching the lat/lng spelling of the
// zone shape in the response.
func handleGeofenceCheck(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
		if latErr != nil || lngErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "lat and lng query parameters are required"})
			return
		}
		_ = json.NewEncoder(w).Encode(svc.CheckGeofences(lat, lng))
	}
}
