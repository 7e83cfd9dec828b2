package opcua

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gopcua/opcua/ua"
)

func dataValue(v any, source time.Time) *ua.DataValue {
	return &ua.DataValue{Value: ua.MustVariant(v), SourceTimestamp: source}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{Endpoint: "opc.tcp://localhost:4840"}
	cfg.ApplyDefaults()
	if cfg.SecurityMode != "None" || cfg.ApplicationName != "vitalsync" || cfg.MaxValuesPerRequest != 1000 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without nodes")
	}

	cfg.HeartRateNodes = []string{"ns=2;s=Vitals.HeartRate"}
	cfg.BodyTemperatureNodes = []string{"ns=abc;s=Vitals.BodyTemp"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for malformed node id")
	}

	cfg.BodyTemperatureNodes = []string{"ns=2;s=Vitals.BodyTemp"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestHeartRateRecordsFromHistory(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	nodes := []string{"ns=2;s=Watch.HR", "ns=2;s=Band.HR"}
	history := [][]*ua.DataValue{
		{dataValue(int32(72), base), dataValue(float64(75), base.Add(time.Minute))},
		nil,
	}

	records, err := heartRateRecordsFromHistory(nodes, history)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected one record per node, got %d", len(records))
	}
	if records[0].ID != nodes[0] || len(records[0].Samples) != 2 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[0].Samples[1].BeatsPerMinute != 75 || !records[0].Samples[1].Time.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected sample: %+v", records[0].Samples[1])
	}
	if len(records[1].Samples) != 0 {
		t.Fatalf("expected empty second record, got %+v", records[1])
	}
}

func TestBodyTemperatureRecordsFromHistoryKeepsOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	nodes := []string{"ns=2;s=Thermo"}
	history := [][]*ua.DataValue{{
		dataValue(float32(20.5), base.Add(10*time.Second)),
		{Value: ua.MustVariant(19.5), ServerTimestamp: base.Add(5 * time.Second)},
	}}

	records, err := bodyTemperatureRecordsFromHistory(nodes, history)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].TemperatureCelsius != 19.5 || records[1].ID != "ns=2;s=Thermo#1" {
		t.Fatalf("unexpected last record: %+v", records[1])
	}
	if !records[1].Time.Equal(base.Add(5 * time.Second)) {
		t.Fatalf("expected server timestamp fallback, got %s", records[1].Time)
	}
}

func TestHistoryConversionRejectsMalformedValues(t *testing.T) {
	nodes := []string{"ns=2;s=HR"}
	if _, err := heartRateRecordsFromHistory(nodes, [][]*ua.DataValue{{dataValue("fast", time.Now())}}); err == nil {
		t.Fatalf("expected error for string value")
	}
	if _, err := heartRateRecordsFromHistory(nodes, [][]*ua.DataValue{{{Value: ua.MustVariant(70.0)}}}); err == nil {
		t.Fatalf("expected error for missing timestamp")
	}
	if _, err := heartRateRecordsFromHistory(nodes, [][]*ua.DataValue{{dataValue(-3.0, time.Now())}}); err == nil {
		t.Fatalf("expected error for negative bpm")
	}
}

func TestIsBad(t *testing.T) {
	if isBad(ua.StatusOK) {
		t.Fatalf("StatusOK is not bad")
	}
	if !isBad(ua.StatusBadNodeIDUnknown) {
		t.Fatalf("BadNodeIDUnknown should be bad")
	}
}

func TestCloseWithoutSession(t *testing.T) {
	store, err := NewRecordStore(Config{
		Endpoint:             "opc.tcp://localhost:4840",
		HeartRateNodes:       []string{"ns=2;s=HR"},
		BodyTemperatureNodes: []string{"ns=2;s=BT"},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if store.Name() != "opcua" {
		t.Fatalf("unexpected name %s", store.Name())
	}
}

type fakeSession struct {
	connectErr error
	closed     int
}

func (f *fakeSession) Connect(context.Context) error { return f.connectErr }
func (f *fakeSession) Close(context.Context) error   { f.closed++; return nil }

func TestConnectOrCloseReleasesClientOnFailure(t *testing.T) {
	failing := &fakeSession{connectErr: errors.New("dial tcp: connection refused")}
	if err := connectOrClose(context.Background(), failing); err == nil {
		t.Fatalf("expected connect error")
	}
	if failing.closed != 1 {
		t.Fatalf("expected client closed once after failed connect, got %d", failing.closed)
	}

	ok := &fakeSession{}
	if err := connectOrClose(context.Background(), ok); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if ok.closed != 0 {
		t.Fatalf("connected client must stay open, closed %d times", ok.closed)
	}
}

func TestFailedConnectLeavesNoSession(t *testing.T) {
	store, err := NewRecordStore(Config{
		Endpoint:             "opc.tcp://127.0.0.1:1",
		HeartRateNodes:       []string{"ns=2;s=HR"},
		BodyTemperatureNodes: []string{"ns=2;s=BT"},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := store.connect(ctx); err == nil {
		t.Fatalf("expected connect to fail against a closed port")
	}
	if store.client != nil {
		t.Fatalf("failed connect must not keep a client")
	}
}
