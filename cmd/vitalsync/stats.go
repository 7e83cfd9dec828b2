package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var statsMetrics = []string{
	"vitalsync_runs_total",
	"vitalsync_runs_succeeded_total",
	"vitalsync_last_heart_rate_bpm",
	"vitalsync_last_body_temperature_celsius",
}

func newStatsCmd() *cobra.Command {
	var (
		url      string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Poll the Prometheus metrics endpoint and print live counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Streaming metrics from %s (Ctrl+C to stop)\n", url)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := printMetricsSnapshot(out, url); err != nil {
						fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Refresh interval")
	return cmd
}

func printMetricsSnapshot(w io.Writer, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	values, err := scanMetrics(resp.Body, statsMetrics)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "[%s] runs=%g ok=%g failed=%g bpm=%g temp_c=%g\n",
		time.Now().Format(time.RFC3339),
		values["vitalsync_runs_total"],
		values["vitalsync_runs_succeeded_total"],
		values["vitalsync_runs_failed_total"],
		values["vitalsync_last_heart_rate_bpm"],
		values["vitalsync_last_body_temperature_celsius"],
	)
	return nil
}

// scanMetrics reads the text exposition format and returns the unlabelled
// value of each target. Labelled vitalsync_runs_failed_total series are
// summed across reasons.
func scanMetrics(r io.Reader, targets []string) (map[string]float64, error) {
	values := make(map[string]float64, len(targets)+1)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "vitalsync_runs_failed_total{") {
			if v, ok := lastField(line); ok {
				values["vitalsync_runs_failed_total"] += v
			}
			continue
		}
		for _, key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					values[key] = value
				}
			}
		}
	}
	return values, scanner.Err()
}

func lastField(line string) (float64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	var v float64
	if _, err := fmt.Sscanf(fields[len(fields)-1], "%g", &v); err != nil {
		return 0, false
	}
	return v, true
}
