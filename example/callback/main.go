package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ghalamif/vitalsync/pkg/vitalsync"
)

func main() {
	flow, err := vitalsync.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rt, err := flow.StreamOUT(vitalsync.StreamOutCallback(func(hr []vitalsync.HeartRateEntry, bt float64) {
		for _, e := range hr {
			fmt.Printf("heart rate %g bpm at %s\n", e.BPM, e.Time)
		}
		fmt.Printf("body temperature %.1f°C\n", bt)
	}))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}
	defer rt.Shutdown(context.Background())

	rep, err := rt.SyncOnce(context.Background())
	if err != nil {
		log.Fatalf("run %s failed: %v", rep.RunID, err)
	}
}
