// Package receiver implements the collection endpoint side of the wire
// protocol. It backs the local `receive` command and stands in for the
// remote server in tests.
package receiver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ghalamif/vitalsync/internal/domain"
)

const maxBodyBytes = 1 << 20

// Handler consumes an accepted payload. Returning an error answers 500.
type Handler func(ctx context.Context, p domain.SyncPayload) error

// NewRouter serves POST path and GET /healthz.
func NewRouter(path string, h Handler, logger *logrus.Logger) *mux.Router {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := mux.NewRouter()
	r.HandleFunc(path, receive(h, logger)).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return r
}

func receive(h Handler, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decode(r.Body)
		if err != nil {
			logger.WithError(err).WithField("remote", r.RemoteAddr).Warn("receive_bad_payload")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := h(r.Context(), p); err != nil {
			logger.WithError(err).Error("receive_handler_failed")
			http.Error(w, "handler failed", http.StatusInternalServerError)
			return
		}

		logger.WithFields(logrus.Fields{
			"bpm":              p.HeartRateData[0].BPM,
			"time":             p.HeartRateData[0].Time,
			"body_temperature": p.BodyTemperature,
		}).Info("receive_ok")
		w.WriteHeader(http.StatusOK)
	}
}

func decode(body io.Reader) (domain.SyncPayload, error) {
	var p domain.SyncPayload
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		return domain.SyncPayload{}, fmt.Errorf("decode payload: %w", err)
	}
	if len(p.HeartRateData) == 0 {
		return domain.SyncPayload{}, errors.New("heartRateData must contain an entry")
	}
	return p, nil
}
