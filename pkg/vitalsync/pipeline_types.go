package vitalsync

import (
	"github.com/ghalamif/vitalsync/internal/app/pipeline"
	"github.com/ghalamif/vitalsync/internal/domain"
	"github.com/ghalamif/vitalsync/internal/ports"
)

// RecordStore reads heart-rate and body-temperature records inside a window
// (SQL, OPC UA historian, device bridges, simulators).
type RecordStore = ports.RecordStore

// Transmitter delivers one payload per run to the collection endpoint.
type Transmitter = ports.Transmitter

// PermissionGate reports which read permissions the user granted.
type PermissionGate = ports.PermissionGate

// Presenter receives the final values of each run before they are sent.
type Presenter = ports.Presenter

// Clock supplies "now" for the daily read window.
type Clock = ports.Clock

// Observability emits metrics/logs about runs, reads and failures.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

type (
	TimeWindow            = domain.TimeWindow
	HeartRateSample       = domain.HeartRateSample
	HeartRateRecord       = domain.HeartRateRecord
	BodyTemperatureRecord = domain.BodyTemperatureRecord
	ReducedMetrics        = domain.ReducedMetrics
	HeartRateEntry        = domain.HeartRateEntry
	SyncPayload           = domain.SyncPayload
	Permission            = domain.Permission
	PermissionSet         = domain.PermissionSet
	ProviderError         = domain.ProviderError
	TransportError        = domain.TransportError
)

// Report describes a finished run.
type Report = pipeline.Report

// State is the stage a run reached.
type State = pipeline.State

// ErrPermissionDenied ends a run when a required permission is missing.
var ErrPermissionDenied = domain.ErrPermissionDenied

const (
	StateDone   = pipeline.StateDone
	StateFailed = pipeline.StateFailed
)
