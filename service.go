package transitlive

import (
	"context"
	"time"

	"github.com/theoremus-urban-solutions/transit-live/feed"
	"github.com/theoremus-urban-solutions/transit-live/geofence"
)

// Service owns the position cache and the geofence matcher. It is an
// explicit object rather than package state so tests can run isolated
// instances side by side.
type Service struct {
	cfg     AppConfig
	cache   *feed.Cache
	matcher *geofence.Matcher
}

// NewService wires the engine from configuration: transport selection,
// acquirer, coalescing cache, and matcher. Configuration has already been
// validated; this constructor does not fail at runtime.
func NewService(cfg AppConfig) *Service {
	var transport feed.Transport
	if cfg.Deployment.Context == "relayed" {
		transport = feed.NewRelayTransport(cfg.Deployment.RelayURL)
	} else {
		transport = feed.NewDirectTransport()
	}

	ttl := time.Duration(cfg.Feeds.TTLMS) * time.Millisecond
	acquirer := feed.NewAcquirer(feed.AcquirerOptions{
		Transport: transport,
		Box:       cfg.ServiceArea,
		BusURL:    cfg.Feeds.BusURL,
		TrainURL:  cfg.Feeds.TrainURL,
		Timeout:   time.Duration(cfg.Feeds.FetchTimeoutMS) * time.Millisecond,
		TTL:       ttl,
		MockMode:  cfg.MockMode,
	})

	zones := make([]geofence.Zone, len(cfg.Geofence.Zones))
	copy(zones, cfg.Geofence.Zones)

	return &Service{
		cfg:   cfg,
		cache: feed.NewCache(acquirer, ttl, cfg.MockMode),
		matcher: geofence.NewMatcher(
			func() []geofence.Zone { return zones },
			cfg.Geofence.BucketDegrees,
			time.Duration(cfg.Geofence.ResultTTLMS)*time.Millisecond,
		),
	}
}

// Vehicles returns the combined bus+train snapshot for callers polling
// every few seconds. Degradation surfaces only in the source tag.
func (s *Service) Vehicles(ctx context.Context) feed.CombinedSnapshot {
	return s.cache.Combined(ctx)
}

// CheckGeofences returns the alerts triggered at a point, ordered by
// priority.
func (s *Service) CheckGeofences(lat, lon float64) geofence.CheckResult {
	return s.matcher.Result(lat, lon)
}

// LatestFeedEpoch reports the newest cached capture time, for health.
func (s *Service) LatestFeedEpoch() int64 {
	return s.cache.LatestEpoch()
}
