package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghalamif/vitalsync"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Perform one sync run and print the values that were sent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := vitalsync.LoadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			rt, err := vitalsync.NewSyncRuntime(cfg,
				vitalsync.WithPresenter(newTextPresenter(out)))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rep, runErr := rt.SyncOnce(ctx)
			shutdownErr := rt.Shutdown(context.Background())
			if runErr != nil {
				return errors.Join(fmt.Errorf("run %s: %w", rep.RunID, runErr), shutdownErr)
			}
			fmt.Fprintf(out, "sent to %s (run %s)\n", cfg.Endpoint.BaseURL, rep.RunID)
			return shutdownErr
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve metrics and sync on schedule.interval until interrupted",
		RunE: func(_ *cobra.Command, _ []string) error {
			flow, err := vitalsync.Conf(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return flow.Run(ctx, vitalsync.StreamOutPresenter(newTextPresenter(os.Stdout)))
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a config file without syncing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := vitalsync.LoadConfig(cfgPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config %s looks good ✅\n", cfgPath)
			return nil
		},
	}
}

// newTextPresenter prints each run's values the way the device screen shows
// them: "no data" instead of a zero reading.
func newTextPresenter(w io.Writer) vitalsync.Presenter {
	return vitalsync.NewCallbackPresenter(func(hr []vitalsync.HeartRateEntry, bt float64) {
		fmt.Fprintln(w, formatReading(hr, bt))
	})
}

func formatReading(hr []vitalsync.HeartRateEntry, bt float64) string {
	heart := "no data"
	var parts []string
	for _, e := range hr {
		if e.Time == "null" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%g bpm @ %s", e.BPM, e.Time))
	}
	if len(parts) > 0 {
		heart = strings.Join(parts, ", ")
	}

	temp := "no data"
	if bt > 0 {
		temp = fmt.Sprintf("%.1f°C", bt)
	}
	return fmt.Sprintf("heart rate: %s | body temperature: %s", heart, temp)
}
