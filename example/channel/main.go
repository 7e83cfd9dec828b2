package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/vitalsync"
)

func main() {
	flow, err := vitalsync.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if flow.Config().Schedule.Interval == 0 {
		flow.Config().Schedule.Interval = time.Minute
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	presenter, readings, closeReadings := vitalsync.NewChannelPresenter(32)
	defer closeReadings()

	go display("watch", readings)

	if err := flow.Run(ctx, vitalsync.StreamOutPresenter(presenter)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func display(name string, readings <-chan vitalsync.Reading) {
	for r := range readings {
		fmt.Printf("[%s] %d heart rate entries, %.1f°C at %s\n",
			name, len(r.HeartRateData), r.BodyTemperature, time.Now().Format(time.RFC3339))
	}
}
