package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ghalamif/vitalsync/internal/adapters/receiver"
	"github.com/ghalamif/vitalsync/internal/adapters/transport"
	"github.com/ghalamif/vitalsync/internal/domain"
)

func newReceiveCmd() *cobra.Command {
	var (
		addr string
		path string
	)
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Run a local collection endpoint that logs every payload it accepts",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger := logrus.New()
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			srv := &http.Server{
				Addr:              addr,
				Handler:           receiver.NewRouter(path, logPayload(logger), logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			logger.WithFields(logrus.Fields{"addr": addr, "path": path}).Info("receiver listening")

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("receiver: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&path, "path", transport.DefaultPath, "Receive path")
	return cmd
}

func logPayload(logger *logrus.Logger) receiver.Handler {
	return func(_ context.Context, p domain.SyncPayload) error {
		entry := p.HeartRateData[0]
		logger.WithFields(logrus.Fields{
			"bpm":              entry.BPM,
			"bpm_time":         entry.Time,
			"body_temperature": p.BodyTemperature,
		}).Info("payload received")
		return nil
	}
}
