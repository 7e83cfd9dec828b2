package vitalsync

import (
	"github.com/ghalamif/vitalsync/internal/adapters/observability"
	"github.com/ghalamif/vitalsync/internal/adapters/opcua"
	"github.com/ghalamif/vitalsync/internal/adapters/timescale"
	"github.com/ghalamif/vitalsync/internal/adapters/transport"
	"github.com/ghalamif/vitalsync/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// EndpointConfig locates the collection endpoint.
	EndpointConfig = transport.Config
	// PermissionsConfig lists the granted permission identifiers.
	PermissionsConfig = config.PermissionsConfig
	// ProviderConfig selects the record store backend.
	ProviderConfig = config.ProviderConfig
	// TimescaleConfig configures the SQL record store.
	TimescaleConfig = timescale.Config
	// OPCUAConfig configures the historian record store.
	OPCUAConfig = opcua.Config
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// LogConfig configures logrus and file rotation.
	LogConfig = observability.LogConfig
	// ScheduleConfig sets the interval between runs in Run.
	ScheduleConfig = config.ScheduleConfig
)

const (
	ProviderTimescale = config.ProviderTimescale
	ProviderOPCUA     = config.ProviderOPCUA
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
