package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/ghalamif/vitalsync/internal/ports"
)

// PromObs implements ports.Observability with Prometheus metrics and logrus logs.
type PromObs struct {
	log      *logrus.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
	failures *prometheus.CounterVec
}

// NewPromObs registers the sync metrics on reg (the default registerer when
// nil). A nil logger falls back to logrus' standard logger.
func NewPromObs(reg prometheus.Registerer, logger *logrus.Logger) *PromObs {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitalsync_runs_total",
		Help: "Sync runs started.",
	})
	succeeded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitalsync_runs_succeeded_total",
		Help: "Sync runs whose payload was accepted by the endpoint.",
	})
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitalsync_records_read_total",
		Help: "Heart-rate and body-temperature records returned by the provider.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vitalsync_runs_failed_total",
		Help: "Sync runs that ended in Failed, by reason.",
	}, []string{"reason"})
	lastBPM := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vitalsync_last_heart_rate_bpm",
		Help: "Most recent heart rate seen by a sync run.",
	})
	lastTemp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vitalsync_last_body_temperature_celsius",
		Help: "Most recent body temperature seen by a sync run.",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vitalsync_last_success_timestamp_seconds",
		Help: "Unix time of the last successful sync run.",
	})
	sendLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vitalsync_send_latency_seconds",
		Help:    "Time spent posting the payload to the collection endpoint.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})
	readLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vitalsync_read_latency_seconds",
		Help:    "Time spent waiting for both provider reads.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	reg.MustRegister(runs, succeeded, records, failures, lastBPM, lastTemp, lastSuccess, sendLatency, readLatency)

	return &PromObs{
		log: logger,
		counters: map[string]prometheus.Counter{
			"vitalsync_runs_total":           runs,
			"vitalsync_runs_succeeded_total": succeeded,
			"vitalsync_records_read_total":   records,
		},
		gauges: map[string]prometheus.Gauge{
			"vitalsync_last_heart_rate_bpm":            lastBPM,
			"vitalsync_last_body_temperature_celsius":  lastTemp,
			"vitalsync_last_success_timestamp_seconds": lastSuccess,
		},
		histos: map[string]prometheus.Observer{
			"vitalsync_send_latency_seconds": sendLatency,
			"vitalsync_read_latency_seconds": readLatency,
		},
		failures: failures,
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.WithFields(toLogrus(fields)).Info(msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.log.WithFields(toLogrus(fields)).WithError(err).Error(msg)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	p.log.WithFields(toLogrus(fields)).WithField("severity", "critical").WithError(err).Error(msg)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordFailure(reason string, err error, fields ...ports.Field) {
	if reason == "" {
		reason = "internal"
	}
	p.failures.WithLabelValues(reason).Inc()
	p.LogError("sync_failed", err, append(fields, ports.Field{Key: "reason", Value: reason})...)
}

func toLogrus(fields []ports.Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
