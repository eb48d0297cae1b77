package transitlive

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/transit-live/feed"
	"github.com/theoremus-urban-solutions/transit-live/geofence"
)

// ConfigError reports a missing required parameter. It is the only fatal
// error class and is raised once, at startup.
type ConfigError struct {
	Parameter string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: missing required parameter %q", e.Parameter)
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// DeploymentConfig selects the transport once at construction. In
// constrained networks the train feed's non-standard port is blocked, so
// fetches go through an HTTP relay instead.
type DeploymentConfig struct {
	Context  string `yaml:"context" validate:"omitempty,oneof=direct relayed"`
	RelayURL string `yaml:"relay_url" validate:"omitempty,url"`
}

type FeedsConfig struct {
	BusURL         string `yaml:"bus_url" validate:"omitempty,url"`
	TrainURL       string `yaml:"train_url" validate:"omitempty,url"`
	TTLMS          int    `yaml:"ttl_ms" validate:"gte=0"`
	FetchTimeoutMS int    `yaml:"fetch_timeout_ms" validate:"gte=0"`
}

type GeofenceConfig struct {
	BucketDegrees float64         `yaml:"bucket_degrees" validate:"gte=0"`
	ResultTTLMS   int             `yaml:"result_ttl_ms" validate:"gte=0"`
	Zones         []geofence.Zone `yaml:"zones"`
}

type AppConfig struct {
	Server      ServerConfig     `yaml:"server"`
	Deployment  DeploymentConfig `yaml:"deployment"`
	MockMode    bool             `yaml:"mock_mode"`
	ServiceArea feed.BoundingBox `yaml:"service_area"`
	Feeds       FeedsConfig      `yaml:"feeds"`
	Geofence    GeofenceConfig   `yaml:"geofence"`
	LogLevel    string           `yaml:"log_level"`
}

// LoadAppConfig reads and validates the configuration file. Everything the
// engine needs is supplied here; the core hardcodes none of it.
func LoadAppConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	paths := []string{path, "config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Validate enforces the required-parameter rules: fail fast, startup only.
func (c *AppConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.ServiceArea == (feed.BoundingBox{}) {
		return &ConfigError{Parameter: "service_area"}
	}
	if c.ServiceArea.MinLat >= c.ServiceArea.MaxLat || c.ServiceArea.MinLon >= c.ServiceArea.MaxLon {
		return &ConfigError{Parameter: "service_area"}
	}
	if !c.MockMode {
		if c.Feeds.BusURL == "" {
			return &ConfigError{Parameter: "feeds.bus_url"}
		}
		if c.Feeds.TrainURL == "" {
			return &ConfigError{Parameter: "feeds.train_url"}
		}
	}
	if c.Deployment.Context == "relayed" && c.Deployment.RelayURL == "" {
		return &ConfigError{Parameter: "deployment.relay_url"}
	}
	for _, z := range c.Geofence.Zones {
		if z.ID == "" {
			return &ConfigError{Parameter: "geofence.zones[].id"}
		}
		if z.RadiusM <= 0 {
			return &ConfigError{Parameter: "geofence.zones[].radius_m"}
		}
	}
	return nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 16182
	}
	if c.Deployment.Context == "" {
		c.Deployment.Context = "direct"
	}
	if c.Feeds.TTLMS == 0 {
		c.Feeds.TTLMS = 30000
	}
	if c.Feeds.FetchTimeoutMS == 0 {
		c.Feeds.FetchTimeoutMS = 10000
	}
	if c.Geofence.ResultTTLMS == 0 {
		c.Geofence.ResultTTLMS = 60000
	}
	if c.Geofence.BucketDegrees == 0 {
		c.Geofence.BucketDegrees = 0.001
	}
}
