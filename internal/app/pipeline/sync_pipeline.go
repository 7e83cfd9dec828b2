package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ghalamif/vitalsync/internal/domain"
	"github.com/ghalamif/vitalsync/internal/ports"
)

// Report describes a finished sync run. State is always StateDone or
// StateFailed; Err is set exactly when the run failed.
type Report struct {
	RunID   string
	State   State
	Window  domain.TimeWindow
	Reduced domain.ReducedMetrics
	Payload *domain.SyncPayload
	Err     error
}

// Syncer drives one run per Sync call: permission gate, concurrent windowed
// reads, reduction, payload build, presentation and a single send. It keeps
// no state between runs, and overlapping runs are not serialized.
type Syncer struct {
	store     ports.RecordStore
	tx        ports.Transmitter
	gate      ports.PermissionGate
	presenter ports.Presenter
	clock     ports.Clock
	obs       ports.Observability
	required  domain.PermissionSet
	newRunID  func() string
}

func NewSyncer(store ports.RecordStore, tx ports.Transmitter, gate ports.PermissionGate, presenter ports.Presenter, clock ports.Clock, obs ports.Observability) (*Syncer, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transmitter is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("permission gate is required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if obs == nil {
		return nil, fmt.Errorf("observability is required")
	}
	if presenter == nil {
		presenter = discardPresenter{}
	}
	return &Syncer{
		store:     store,
		tx:        tx,
		gate:      gate,
		presenter: presenter,
		clock:     clock,
		obs:       obs,
		required:  domain.RequiredPermissions(),
		newRunID:  uuid.NewString,
	}, nil
}

// Sync executes one run. The returned error matches Report.Err and is one of
// domain.ErrPermissionDenied, *domain.ProviderError, *domain.TransportError or
// the context error when ctx ends between stages.
func (s *Syncer) Sync(ctx context.Context) (rep Report, err error) {
	rep = Report{RunID: s.newRunID(), State: StateIdle}
	runField := ports.Field{Key: "run_id", Value: rep.RunID}
	s.obs.IncCounter("vitalsync_runs_total", 1)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync run panicked in state %s: %v", rep.State, r)
			s.obs.LogCritical("sync_panicked", err, runField)
		}
		if err != nil {
			failedIn := rep.State
			rep.State = StateFailed
			rep.Err = err
			s.obs.RecordFailure(domain.FailureReason(err), err,
				runField, ports.Field{Key: "state", Value: failedIn.String()})
			return
		}
		rep.State = StateDone
		s.obs.IncCounter("vitalsync_runs_succeeded_total", 1)
		s.obs.SetGauge("vitalsync_last_success_timestamp_seconds", float64(s.clock.Now().Unix()))
		s.obs.LogInfo("sync_done", runField)
	}()

	rep.State = StateAwaitingPermission
	granted := s.gate.Granted(ctx)
	if missing := granted.Missing(s.required); len(missing) > 0 {
		return rep, fmt.Errorf("%w: missing %v", domain.ErrPermissionDenied, missing)
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.State = StateReading
	rep.Window = domain.TodaySoFar(s.clock.Now())
	hr, bt, err := s.readWindow(ctx, rep.Window)
	if err != nil {
		return rep, err
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.State = StateReducing
	rep.Reduced = Reduce(hr, bt)
	s.recordReduced(rep.Reduced, runField)
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.State = StateBuilding
	payload := BuildPayload(rep.Reduced)
	rep.Payload = &payload

	entries := append([]domain.HeartRateEntry(nil), payload.HeartRateData...)
	s.presenter.OnDataFetched(entries, payload.BodyTemperature)
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.State = StateSending
	start := time.Now()
	if err := s.tx.Send(ctx, payload); err != nil {
		return rep, asTransportError(err)
	}
	s.obs.ObserveLatency("vitalsync_send_latency_seconds", time.Since(start).Seconds())
	return rep, nil
}

// readWindow issues both reads concurrently and waits for both. The first
// failure cancels the sibling read and its result is dropped.
func (s *Syncer) readWindow(ctx context.Context, w domain.TimeWindow) ([]domain.HeartRateRecord, []domain.BodyTemperatureRecord, error) {
	var (
		hr []domain.HeartRateRecord
		bt []domain.BodyTemperatureRecord
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(recoverRead(domain.RecordTypeHeartRate, func() error {
		recs, err := s.store.ReadHeartRateRecords(gctx, w)
		if err != nil {
			return asProviderError(domain.RecordTypeHeartRate, err)
		}
		hr = recs
		return nil
	}))
	g.Go(recoverRead(domain.RecordTypeBodyTemperature, func() error {
		recs, err := s.store.ReadBodyTemperatureRecords(gctx, w)
		if err != nil {
			return asProviderError(domain.RecordTypeBodyTemperature, err)
		}
		bt = recs
		return nil
	}))
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s.obs.ObserveLatency("vitalsync_read_latency_seconds", time.Since(start).Seconds())
	s.obs.IncCounter("vitalsync_records_read_total", float64(len(hr)+len(bt)))
	return hr, bt, nil
}

func (s *Syncer) recordReduced(m domain.ReducedMetrics, runField ports.Field) {
	fields := []ports.Field{runField}
	if hr := m.LatestHeartRate; hr != nil {
		s.obs.SetGauge("vitalsync_last_heart_rate_bpm", hr.BeatsPerMinute)
		fields = append(fields,
			ports.Field{Key: "bpm", Value: hr.BeatsPerMinute},
			ports.Field{Key: "bpm_time", Value: FormatInstant(hr.Time)})
	}
	if bt := m.LatestBodyTemperatureCelsius; bt != nil {
		s.obs.SetGauge("vitalsync_last_body_temperature_celsius", *bt)
		fields = append(fields, ports.Field{Key: "body_temperature_c", Value: *bt})
	}
	s.obs.LogInfo("sync_reduced", fields...)
}

// recoverRead turns a panic inside a read goroutine into a ProviderError.
// errgroup does not carry panics back to Wait, so the run-level recover
// never sees them.
func recoverRead(t domain.RecordType, read func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &domain.ProviderError{Type: t, Err: fmt.Errorf("panic: %v", r)}
			}
		}()
		return read()
	}
}

func asProviderError(t domain.RecordType, err error) error {
	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		return err
	}
	return &domain.ProviderError{Type: t, Err: err}
}

func asTransportError(err error) error {
	var trErr *domain.TransportError
	if errors.As(err, &trErr) {
		return err
	}
	return &domain.TransportError{Op: "send", Err: err}
}

type discardPresenter struct{}

func (discardPresenter) OnDataFetched([]domain.HeartRateEntry, float64) {}
