package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ghalamif/vitalsync/internal/adapters/observability"
	"github.com/ghalamif/vitalsync/internal/adapters/opcua"
	"github.com/ghalamif/vitalsync/internal/adapters/permission"
	"github.com/ghalamif/vitalsync/internal/adapters/timescale"
	"github.com/ghalamif/vitalsync/internal/adapters/transport"
	"github.com/ghalamif/vitalsync/internal/domain"
)

// EnvBaseURL overrides endpoint.base_url when set.
const EnvBaseURL = "VITALSYNC_BASE_URL"

const (
	ProviderTimescale = "timescale"
	ProviderOPCUA     = "opcua"
)

type Config struct {
	Endpoint    transport.Config        `yaml:"endpoint"`
	Permissions PermissionsConfig       `yaml:"permissions"`
	Provider    ProviderConfig          `yaml:"provider"`
	Timescale   timescale.Config        `yaml:"timescale"`
	OPCUA       opcua.Config            `yaml:"opcua"`
	Metrics     MetricsConfig           `yaml:"metrics"`
	Log         observability.LogConfig `yaml:"log"`
	Schedule    ScheduleConfig          `yaml:"schedule"`
}

// PermissionsConfig lists what the user granted; the run checks it against
// the required set before reading anything.
type PermissionsConfig struct {
	Granted []string `yaml:"granted"`
}

type ProviderConfig struct {
	Kind string `yaml:"kind"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ScheduleConfig triggers repeated runs; zero means a single run.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.Endpoint.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Provider.Kind == "" {
		c.Provider.Kind = ProviderTimescale
	}
	if c.Permissions.Granted == nil {
		c.Permissions.Granted = []string{
			string(domain.PermissionReadHeartRate),
			string(domain.PermissionReadBodyTemperature),
		}
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}

	c.Endpoint.ApplyDefaults()
	c.Timescale.ApplyDefaults()
	c.OPCUA.ApplyDefaults()
	c.Log.ApplyDefaults()
}

func (c *Config) validate() error {
	if err := c.Endpoint.Validate(); err != nil {
		return fmt.Errorf("endpoint config: %w", err)
	}
	if _, err := permission.Parse(c.Permissions.Granted); err != nil {
		return fmt.Errorf("permissions config: %w", err)
	}

	switch c.Provider.Kind {
	case ProviderTimescale:
		if err := c.Timescale.Validate(); err != nil {
			return fmt.Errorf("timescale config: %w", err)
		}
	case ProviderOPCUA:
		if err := c.OPCUA.Validate(); err != nil {
			return fmt.Errorf("opcua config: %w", err)
		}
	default:
		return fmt.Errorf("provider.kind %q is not one of %s, %s", c.Provider.Kind, ProviderTimescale, ProviderOPCUA)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	if c.Schedule.Interval < 0 {
		return fmt.Errorf("schedule.interval must not be negative")
	}
	return nil
}
