package vitalsync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ghalamif/vitalsync/internal/adapters/observability"
	"github.com/ghalamif/vitalsync/internal/adapters/opcua"
	"github.com/ghalamif/vitalsync/internal/adapters/permission"
	"github.com/ghalamif/vitalsync/internal/adapters/timescale"
	"github.com/ghalamif/vitalsync/internal/adapters/transport"
	"github.com/ghalamif/vitalsync/internal/app/config"
	"github.com/ghalamif/vitalsync/internal/app/pipeline"
)

// SyncRuntimeOption customizes the dependencies used by SyncRuntime.
type SyncRuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	store         RecordStore
	transmitter   Transmitter
	gate          PermissionGate
	presenter     Presenter
	observability Observability
	clock         Clock
	httpClient    *http.Client
	logger        *logrus.Logger
}

// WithRecordStore injects a custom record store (device bridge, simulator, etc.).
func WithRecordStore(s RecordStore) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = s
	}
}

// WithTransmitter replaces the HTTP transmitter.
func WithTransmitter(t Transmitter) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.transmitter = t
	}
}

// WithPermissionGate replaces the config-backed permission grant.
func WithPermissionGate(g PermissionGate) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.gate = g
	}
}

// WithPresenter receives the values of every run before they are sent.
func WithPresenter(p Presenter) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.presenter = p
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithClock pins "now", mostly for tests and replays.
func WithClock(c Clock) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.clock = c
	}
}

// WithHTTPClient sets the client used by the default HTTP transmitter.
func WithHTTPClient(c *http.Client) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.httpClient = c
	}
}

// WithLogger replaces the logger built from the log config section.
func WithLogger(l *logrus.Logger) SyncRuntimeOption {
	return func(o *runtimeOverrides) {
		o.logger = l
	}
}

// SyncRuntime wires the record store → reduce → transmit pipeline and exposes
// simple lifecycle hooks for embedding vitalsync inside any Go service.
type SyncRuntime struct {
	cfg         *Config
	logger      *logrus.Logger
	registry    *prometheus.Registry
	obs         Observability
	store       RecordStore
	transmitter Transmitter
	gate        PermissionGate
	presenter   Presenter
	clock       Clock
	syncer      *pipeline.Syncer
	db          *sql.DB
	closeStore  func(context.Context) error

	mu         sync.Mutex
	metricsSrv *http.Server
	metricsLn  net.Listener
}

// NewSyncRuntime bootstraps the default adapters (Timescale or OPC UA record
// store, HTTP transmitter, config-backed permission gate, Prometheus
// observability). Callers can use SyncRuntimeOption values to override any
// dependency.
func NewSyncRuntime(cfg *Config, opts ...SyncRuntimeOption) (*SyncRuntime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	logger := overrides.logger
	if logger == nil {
		var err error
		logger, err = observability.NewLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs(reg, logger)
	}

	rt := &SyncRuntime{
		cfg:       cfg,
		logger:    logger,
		registry:  reg,
		obs:       obs,
		presenter: overrides.presenter,
		clock:     overrides.clock,
	}
	if rt.clock == nil {
		rt.clock = systemClock{}
	}

	var err error
	if rt.store = overrides.store; rt.store == nil {
		if err = rt.openStore(); err != nil {
			return nil, err
		}
	}

	if rt.transmitter = overrides.transmitter; rt.transmitter == nil {
		rt.transmitter, err = transport.NewHTTPTransmitter(cfg.Endpoint, overrides.httpClient)
		if err != nil {
			return nil, errors.Join(err, rt.closeResources(context.Background()))
		}
	}

	if rt.gate = overrides.gate; rt.gate == nil {
		rt.gate, err = permission.NewStaticGate(cfg.Permissions.Granted)
		if err != nil {
			return nil, errors.Join(err, rt.closeResources(context.Background()))
		}
	}

	rt.syncer, err = pipeline.NewSyncer(rt.store, rt.transmitter, rt.gate, rt.presenter, rt.clock, rt.obs)
	if err != nil {
		return nil, errors.Join(err, rt.closeResources(context.Background()))
	}
	return rt, nil
}

func (r *SyncRuntime) openStore() error {
	switch r.cfg.Provider.Kind {
	case config.ProviderOPCUA:
		store, err := opcua.NewRecordStore(r.cfg.OPCUA)
		if err != nil {
			return err
		}
		r.store = store
		r.closeStore = store.Close
	case config.ProviderTimescale, "":
		db, err := sql.Open("postgres", r.cfg.Timescale.ConnString)
		if err != nil {
			return err
		}
		r.db = db
		r.store = timescale.NewRecordStore(db, r.cfg.Timescale)
	default:
		return fmt.Errorf("unknown provider kind %q", r.cfg.Provider.Kind)
	}
	return nil
}

// SyncOnce performs a single run and reports how it ended.
func (r *SyncRuntime) SyncOnce(ctx context.Context) (Report, error) {
	if r == nil {
		return Report{}, fmt.Errorf("sync runtime is nil")
	}
	return r.syncer.Sync(ctx)
}

// Run starts the metrics server and performs runs until ctx is cancelled.
// With a zero schedule.interval it performs exactly one run and returns its
// error. Failed runs on a schedule are logged and counted, not returned.
func (r *SyncRuntime) Run(ctx context.Context) error {
	if err := r.startMetrics(); err != nil {
		return err
	}

	shutdown := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return r.Shutdown(shutdownCtx)
	}

	interval := r.cfg.Schedule.Interval
	if interval <= 0 {
		_, runErr := r.SyncOnce(ctx)
		return errors.Join(runErr, shutdown())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_, _ = r.SyncOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return shutdown()
		case <-ticker.C:
			_, _ = r.SyncOnce(ctx)
		}
	}
}

// MetricsAddr returns the bound metrics address once Run has started it.
func (r *SyncRuntime) MetricsAddr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.metricsLn == nil {
		return ""
	}
	return r.metricsLn.Addr().String()
}

// Shutdown stops the metrics server and releases the record store.
func (r *SyncRuntime) Shutdown(ctx context.Context) error {
	var errs []error

	r.mu.Lock()
	srv := r.metricsSrv
	r.metricsSrv = nil
	r.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}
	errs = append(errs, r.closeResources(ctx))
	return errors.Join(errs...)
}

func (r *SyncRuntime) closeResources(ctx context.Context) error {
	var errs []error
	if r.closeStore != nil {
		if err := r.closeStore(ctx); err != nil {
			errs = append(errs, err)
		}
		r.closeStore = nil
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
		r.db = nil
	}
	return errors.Join(errs...)
}

func (r *SyncRuntime) startMetrics() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ln, err := net.Listen("tcp", r.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", r.cfg.Metrics.Addr, err)
	}
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.mu.Lock()
	r.metricsSrv = srv
	r.metricsLn = ln
	r.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.WithError(err).Error("metrics server exited")
		}
	}()
	return nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
