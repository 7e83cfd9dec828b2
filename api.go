package vitalsync

import (
	"net/http"

	"github.com/sirupsen/logrus"

	base "github.com/ghalamif/vitalsync/pkg/vitalsync"
)

// Re-exported errors and states for convenience.
var ErrPermissionDenied = base.ErrPermissionDenied

const (
	StateDone         = base.StateDone
	StateFailed       = base.StateFailed
	ProviderTimescale = base.ProviderTimescale
	ProviderOPCUA     = base.ProviderOPCUA
)

// Type aliases so consumers can import github.com/ghalamif/vitalsync directly.
type (
	Config                = base.Config
	EndpointConfig        = base.EndpointConfig
	PermissionsConfig     = base.PermissionsConfig
	ProviderConfig        = base.ProviderConfig
	TimescaleConfig       = base.TimescaleConfig
	OPCUAConfig           = base.OPCUAConfig
	MetricsConfig         = base.MetricsConfig
	LogConfig             = base.LogConfig
	ScheduleConfig        = base.ScheduleConfig
	Flow                  = base.Flow
	FlowOption            = base.FlowOption
	StreamInOption        = base.StreamInOption
	StreamOutOption       = base.StreamOutOption
	SyncRuntime           = base.SyncRuntime
	SyncRuntimeOption     = base.SyncRuntimeOption
	Report                = base.Report
	State                 = base.State
	Reading               = base.Reading
	PresenterFunc         = base.PresenterFunc
	RecordStore           = base.RecordStore
	Transmitter           = base.Transmitter
	PermissionGate        = base.PermissionGate
	Presenter             = base.Presenter
	Clock                 = base.Clock
	Observability         = base.Observability
	Field                 = base.Field
	TimeWindow            = base.TimeWindow
	HeartRateSample       = base.HeartRateSample
	HeartRateRecord       = base.HeartRateRecord
	BodyTemperatureRecord = base.BodyTemperatureRecord
	ReducedMetrics        = base.ReducedMetrics
	HeartRateEntry        = base.HeartRateEntry
	SyncPayload           = base.SyncPayload
	Permission            = base.Permission
	PermissionSet         = base.PermissionSet
	ProviderError         = base.ProviderError
	TransportError        = base.TransportError
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...SyncRuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInRecordStore(s RecordStore) StreamInOption {
	return base.StreamInRecordStore(s)
}

func StreamInPermissionGate(g PermissionGate) StreamInOption {
	return base.StreamInPermissionGate(g)
}

func StreamInClock(c Clock) StreamInOption {
	return base.StreamInClock(c)
}

func StreamOutTransmitter(t Transmitter) StreamOutOption {
	return base.StreamOutTransmitter(t)
}

func StreamOutPresenter(p Presenter) StreamOutOption {
	return base.StreamOutPresenter(p)
}

func StreamOutCallback(fn PresenterFunc) StreamOutOption {
	return base.StreamOutCallback(fn)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

// Sync runtime and options.
func NewSyncRuntime(cfg *Config, opts ...SyncRuntimeOption) (*SyncRuntime, error) {
	return base.NewSyncRuntime(cfg, opts...)
}

func WithRecordStore(s RecordStore) SyncRuntimeOption {
	return base.WithRecordStore(s)
}

func WithTransmitter(t Transmitter) SyncRuntimeOption {
	return base.WithTransmitter(t)
}

func WithPermissionGate(g PermissionGate) SyncRuntimeOption {
	return base.WithPermissionGate(g)
}

func WithPresenter(p Presenter) SyncRuntimeOption {
	return base.WithPresenter(p)
}

func WithObservability(obs Observability) SyncRuntimeOption {
	return base.WithObservability(obs)
}

func WithClock(c Clock) SyncRuntimeOption {
	return base.WithClock(c)
}

func WithHTTPClient(c *http.Client) SyncRuntimeOption {
	return base.WithHTTPClient(c)
}

func WithLogger(l *logrus.Logger) SyncRuntimeOption {
	return base.WithLogger(l)
}

// Presenters.
func NewCallbackPresenter(fn PresenterFunc) Presenter {
	return base.NewCallbackPresenter(fn)
}

func NewChannelPresenter(buffer int) (Presenter, <-chan Reading, func()) {
	return base.NewChannelPresenter(buffer)
}
