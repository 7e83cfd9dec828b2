package domain

import "time"

// HeartRateSample is a single timestamped heart-rate measurement.
type HeartRateSample struct {
	BeatsPerMinute float64   `json:"bpm"`
	Time           time.Time `json:"time"`
}

// HeartRateRecord batches samples in provider order; samples are not
// guaranteed to be time-sorted.
type HeartRateRecord struct {
	ID      string            `json:"id,omitempty"`
	Samples []HeartRateSample `json:"samples"`
}

// BodyTemperatureRecord is one body-temperature reading.
type BodyTemperatureRecord struct {
	ID                 string    `json:"id,omitempty"`
	TemperatureCelsius float64   `json:"temperature_celsius"`
	Time               time.Time `json:"time"`
}

// ReducedMetrics holds the representative value per metric. A nil field
// means the window had no data, which is not the same as a zero reading.
type ReducedMetrics struct {
	LatestHeartRate              *HeartRateSample
	LatestBodyTemperatureCelsius *float64
}

// HeartRateEntry is the wire form of a heart-rate sample.
type HeartRateEntry struct {
	BPM  float64 `json:"bpm"`
	Time string  `json:"time"`
}

// SyncPayload is the JSON body posted to the collection endpoint.
type SyncPayload struct {
	HeartRateData   []HeartRateEntry `json:"heartRateData"`
	BodyTemperature float64          `json:"bodyTemperature"`
}
