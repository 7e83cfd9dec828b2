package opcua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/ghalamif/vitalsync/internal/domain"
	"github.com/ghalamif/vitalsync/internal/ports"
)

// Config captures the historian session and the nodes holding each metric.
// Every heart-rate node is read as one record; every historical value of a
// body-temperature node is one record.
type Config struct {
	Endpoint             string   `yaml:"endpoint"`
	Username             string   `yaml:"username"`
	Password             string   `yaml:"password"`
	SecurityMode         string   `yaml:"security_mode"`
	SecurityPolicy       string   `yaml:"security_policy"`
	ApplicationName      string   `yaml:"application_name"`
	HeartRateNodes       []string `yaml:"heart_rate_nodes"`
	BodyTemperatureNodes []string `yaml:"body_temperature_nodes"`
	MaxValuesPerRequest  uint32   `yaml:"max_values_per_request"`
}

func (c *Config) ApplyDefaults() {
	if c.SecurityMode == "" {
		c.SecurityMode = "None"
	}
	if c.SecurityPolicy == "" {
		c.SecurityPolicy = "None"
	}
	if c.ApplicationName == "" {
		c.ApplicationName = "vitalsync"
	}
	if c.MaxValuesPerRequest == 0 {
		c.MaxValuesPerRequest = 1000
	}
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if len(c.HeartRateNodes) == 0 {
		return errors.New("at least one heart_rate node must be configured")
	}
	if len(c.BodyTemperatureNodes) == 0 {
		return errors.New("at least one body_temperature node must be configured")
	}
	for _, n := range append(append([]string(nil), c.HeartRateNodes...), c.BodyTemperatureNodes...) {
		if _, err := ua.ParseNodeID(n); err != nil {
			return fmt.Errorf("parse node id %q: %w", n, err)
		}
	}
	return nil
}

// RecordStore reads raw history from an OPC UA historian. The session is
// opened on first use and shared by concurrent reads.
type RecordStore struct {
	cfg    Config
	mu     sync.Mutex
	client *opcua.Client
}

func NewRecordStore(cfg Config) (*RecordStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RecordStore{cfg: cfg}, nil
}

func (s *RecordStore) Name() string { return "opcua" }

func (s *RecordStore) ReadHeartRateRecords(ctx context.Context, w domain.TimeWindow) ([]domain.HeartRateRecord, error) {
	history, err := s.readHistory(ctx, s.cfg.HeartRateNodes, w)
	if err != nil {
		return nil, &domain.ProviderError{Type: domain.RecordTypeHeartRate, Err: err}
	}
	records, err := heartRateRecordsFromHistory(s.cfg.HeartRateNodes, history)
	if err != nil {
		return nil, &domain.ProviderError{Type: domain.RecordTypeHeartRate, Err: err}
	}
	return records, nil
}

func (s *RecordStore) ReadBodyTemperatureRecords(ctx context.Context, w domain.TimeWindow) ([]domain.BodyTemperatureRecord, error) {
	history, err := s.readHistory(ctx, s.cfg.BodyTemperatureNodes, w)
	if err != nil {
		return nil, &domain.ProviderError{Type: domain.RecordTypeBodyTemperature, Err: err}
	}
	records, err := bodyTemperatureRecordsFromHistory(s.cfg.BodyTemperatureNodes, history)
	if err != nil {
		return nil, &domain.ProviderError{Type: domain.RecordTypeBodyTemperature, Err: err}
	}
	return records, nil
}

// Close ends the historian session, if one was opened.
func (s *RecordStore) Close(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *RecordStore) connect(ctx context.Context) (*opcua.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}

	client, err := opcua.NewClient(s.cfg.Endpoint, s.buildClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("opcua new client: %w", err)
	}
	if err := connectOrClose(ctx, client); err != nil {
		return nil, fmt.Errorf("opcua connect: %w", err)
	}
	s.client = client
	return client, nil
}

type session interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
}

// connectOrClose releases the half-open client when Connect fails so the
// next read starts from a clean client.
func connectOrClose(ctx context.Context, c session) error {
	if err := c.Connect(ctx); err != nil {
		_ = c.Close(ctx)
		return err
	}
	return nil
}

// readHistory returns the raw values of every node inside w, one slice per
// node in cfg order, following continuation points until each node is drained.
func (s *RecordStore) readHistory(ctx context.Context, nodes []string, w domain.TimeWindow) ([][]*ua.DataValue, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	details := &ua.ReadRawModifiedDetails{
		IsReadModified:   false,
		StartTime:        w.Start.UTC(),
		EndTime:          w.End.UTC(),
		NumValuesPerNode: s.cfg.MaxValuesPerRequest,
		ReturnBounds:     false,
	}

	out := make([][]*ua.DataValue, len(nodes))
	for i, node := range nodes {
		nodeID, err := ua.ParseNodeID(node)
		if err != nil {
			return nil, fmt.Errorf("parse node id %q: %w", node, err)
		}

		var continuation []byte
		for {
			req := &ua.HistoryReadValueID{
				NodeID:            nodeID,
				DataEncoding:      &ua.QualifiedName{},
				ContinuationPoint: continuation,
			}
			resp, err := client.HistoryReadRawModified(ctx, []*ua.HistoryReadValueID{req}, details)
			if err != nil {
				return nil, fmt.Errorf("history read %q: %w", node, err)
			}
			if len(resp.Results) != 1 {
				return nil, fmt.Errorf("history read %q: expected 1 result, got %d", node, len(resp.Results))
			}
			res := resp.Results[0]
			if isBad(res.StatusCode) {
				return nil, fmt.Errorf("history read %q failed: %s", node, res.StatusCode)
			}
			if res.HistoryData != nil {
				hist, ok := res.HistoryData.Value.(*ua.HistoryData)
				if !ok {
					return nil, fmt.Errorf("history read %q: unexpected payload %T", node, res.HistoryData.Value)
				}
				out[i] = append(out[i], hist.DataValues...)
			}
			if len(res.ContinuationPoint) == 0 {
				break
			}
			continuation = res.ContinuationPoint
		}
	}
	return out, nil
}

func heartRateRecordsFromHistory(nodes []string, history [][]*ua.DataValue) ([]domain.HeartRateRecord, error) {
	records := make([]domain.HeartRateRecord, 0, len(nodes))
	for i, node := range nodes {
		rec := domain.HeartRateRecord{ID: node}
		for _, dv := range history[i] {
			bpm, ts, err := readingFromDataValue(node, dv)
			if err != nil {
				return nil, err
			}
			if bpm < 0 {
				return nil, fmt.Errorf("node %s: negative bpm %v", node, bpm)
			}
			rec.Samples = append(rec.Samples, domain.HeartRateSample{BeatsPerMinute: bpm, Time: ts})
		}
		records = append(records, rec)
	}
	return records, nil
}

func bodyTemperatureRecordsFromHistory(nodes []string, history [][]*ua.DataValue) ([]domain.BodyTemperatureRecord, error) {
	var records []domain.BodyTemperatureRecord
	for i, node := range nodes {
		for k, dv := range history[i] {
			celsius, ts, err := readingFromDataValue(node, dv)
			if err != nil {
				return nil, err
			}
			records = append(records, domain.BodyTemperatureRecord{
				ID:                 fmt.Sprintf("%s#%d", node, k),
				TemperatureCelsius: celsius,
				Time:               ts,
			})
		}
	}
	return records, nil
}

func readingFromDataValue(node string, dv *ua.DataValue) (float64, time.Time, error) {
	if dv == nil {
		return 0, time.Time{}, fmt.Errorf("node %s: nil data value", node)
	}
	v, ok := variantToFloat(dv.Value)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("node %s: unsupported value type %T", node, dv.Value)
	}
	ts := dv.SourceTimestamp
	if ts.IsZero() {
		ts = dv.ServerTimestamp
	}
	if ts.IsZero() {
		return 0, time.Time{}, fmt.Errorf("node %s: value without timestamp", node)
	}
	return v, ts, nil
}

func (s *RecordStore) buildClientOptions() []opcua.Option {
	opts := []opcua.Option{
		opcua.SecurityModeString(normalizeSecurityMode(s.cfg.SecurityMode)),
		opcua.SecurityPolicy(normalizeSecurityPolicy(s.cfg.SecurityPolicy)),
		opcua.ApplicationName(s.cfg.ApplicationName),
		opcua.AutoReconnect(true),
	}

	if s.cfg.Username != "" {
		opts = append(opts, opcua.AuthUsername(s.cfg.Username, s.cfg.Password))
	} else {
		opts = append(opts, opcua.AuthAnonymous())
	}
	return opts
}

// isBad reports a Bad severity; Good and Uncertain results carry data.
func isBad(code ua.StatusCode) bool {
	return uint32(code)&0x80000000 != 0
}

func variantToFloat(v *ua.Variant) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.Value().(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case int8:
		return float64(val), true
	case uint8:
		return float64(val), true
	case int16:
		return float64(val), true
	case uint16:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

func normalizeSecurityMode(mode string) string {
	switch strings.ToLower(mode) {
	case "sign":
		return "Sign"
	case "signandencrypt", "signencrypt", "sign_and_encrypt", "sign+encrypt":
		return "SignAndEncrypt"
	default:
		return "None"
	}
}

func normalizeSecurityPolicy(policy string) string {
	if policy == "" {
		return "None"
	}
	return policy
}

var _ ports.RecordStore = (*RecordStore)(nil)
