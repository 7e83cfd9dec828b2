package timescale

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ghalamif/vitalsync/internal/domain"
	"github.com/ghalamif/vitalsync/internal/ports"
)

// Config names the tables the health provider writes into.
type Config struct {
	ConnString           string `yaml:"conn_string"`
	HeartRateTable       string `yaml:"heart_rate_table"`
	BodyTemperatureTable string `yaml:"body_temperature_table"`
}

func (c *Config) ApplyDefaults() {
	if c.HeartRateTable == "" {
		c.HeartRateTable = "heart_rate_samples"
	}
	if c.BodyTemperatureTable == "" {
		c.BodyTemperatureTable = "body_temperature_records"
	}
}

func (c *Config) Validate() error {
	if c.ConnString == "" {
		return fmt.Errorf("conn_string is required")
	}
	return nil
}

// RecordStore reads health records from Postgres/Timescale tables. Rows are
// returned in insertion order (the id column), which is the provider order.
//
//	heart_rate_samples(id bigserial, record_id text, ts timestamptz, bpm double precision)
//	body_temperature_records(id bigserial, record_id text, ts timestamptz, celsius double precision)
type RecordStore struct {
	db      *sql.DB
	hrTable string
	btTable string
}

func NewRecordStore(db *sql.DB, cfg Config) *RecordStore {
	cfg.ApplyDefaults()
	return &RecordStore{db: db, hrTable: cfg.HeartRateTable, btTable: cfg.BodyTemperatureTable}
}

func (s *RecordStore) Name() string { return "timescaledb" }

func (s *RecordStore) ReadHeartRateRecords(ctx context.Context, w domain.TimeWindow) ([]domain.HeartRateRecord, error) {
	// A record is the span of its samples; every sample of a record
	// overlapping w is returned, including those before w.Start.
	q := "SELECT record_id, ts, bpm FROM " + s.hrTable +
		" WHERE record_id IN (SELECT record_id FROM " + s.hrTable +
		" GROUP BY record_id HAVING MIN(ts) <= $2 AND MAX(ts) >= $1) ORDER BY id"
	rows, err := s.db.QueryContext(ctx, q, w.Start, w.End)
	if err != nil {
		return nil, providerErr(domain.RecordTypeHeartRate, err)
	}
	defer rows.Close()

	var (
		out   []domain.HeartRateRecord
		index = make(map[string]int)
	)
	for rows.Next() {
		var (
			recordID string
			ts       time.Time
			bpm      float64
		)
		if err := rows.Scan(&recordID, &ts, &bpm); err != nil {
			return nil, providerErr(domain.RecordTypeHeartRate, fmt.Errorf("scan: %w", err))
		}
		if bpm < 0 {
			return nil, providerErr(domain.RecordTypeHeartRate,
				fmt.Errorf("record %s: negative bpm %v", recordID, bpm))
		}
		i, ok := index[recordID]
		if !ok {
			i = len(out)
			index[recordID] = i
			out = append(out, domain.HeartRateRecord{ID: recordID})
		}
		out[i].Samples = append(out[i].Samples, domain.HeartRateSample{BeatsPerMinute: bpm, Time: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, providerErr(domain.RecordTypeHeartRate, err)
	}
	return out, nil
}

func (s *RecordStore) ReadBodyTemperatureRecords(ctx context.Context, w domain.TimeWindow) ([]domain.BodyTemperatureRecord, error) {
	q := "SELECT record_id, ts, celsius FROM " + s.btTable + " WHERE ts >= $1 AND ts <= $2 ORDER BY id"
	rows, err := s.db.QueryContext(ctx, q, w.Start, w.End)
	if err != nil {
		return nil, providerErr(domain.RecordTypeBodyTemperature, err)
	}
	defer rows.Close()

	var out []domain.BodyTemperatureRecord
	for rows.Next() {
		var rec domain.BodyTemperatureRecord
		if err := rows.Scan(&rec.ID, &rec.Time, &rec.TemperatureCelsius); err != nil {
			return nil, providerErr(domain.RecordTypeBodyTemperature, fmt.Errorf("scan: %w", err))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, providerErr(domain.RecordTypeBodyTemperature, err)
	}
	return out, nil
}

func providerErr(t domain.RecordType, err error) error {
	return &domain.ProviderError{Type: t, Err: err}
}

var _ ports.RecordStore = (*RecordStore)(nil)
