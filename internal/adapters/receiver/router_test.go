package receiver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ghalamif/vitalsync/internal/domain"
)

func TestRouterAcceptsPayload(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	var got domain.SyncPayload
	r := NewRouter("/hh/receive", func(_ context.Context, p domain.SyncPayload) error {
		got = p
		return nil
	}, logger)

	body := `{"heartRateData":[{"bpm":75.0,"time":"2024-05-01T08:05:00Z"}],"bodyTemperature":36.6}`
	req := httptest.NewRequest(http.MethodPost, "/hh/receive", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.BodyTemperature != 36.6 || got.HeartRateData[0].BPM != 75 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRouterRejectsMalformedPayload(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := NewRouter("/hh/receive", func(context.Context, domain.SyncPayload) error { return nil }, logger)

	for _, body := range []string{`{`, `{"heartRateData":[],"bodyTemperature":1}`} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hh/receive", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
	if len(hook.Entries) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(hook.Entries))
	}
}

func TestRouterHandlerErrorIs500(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	r := NewRouter("/hh/receive", func(context.Context, domain.SyncPayload) error {
		return errors.New("disk full")
	}, logger)

	body := `{"heartRateData":[{"bpm":0,"time":"null"}],"bodyTemperature":0}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hh/receive", strings.NewReader(body)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRouterMethodAndHealth(t *testing.T) {
	r := NewRouter("/hh/receive", func(context.Context, domain.SyncPayload) error { return nil }, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hh/receive", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}
