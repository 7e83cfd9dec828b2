package pipeline

import (
	"time"

	"github.com/ghalamif/vitalsync/internal/domain"
)

// absentInstant is sent in place of a timestamp when no heart-rate sample
// exists; receivers already parse it.
const absentInstant = "null"

// BuildPayload maps reduced metrics onto the wire shape. It always emits
// exactly one heart-rate entry; missing values become zero and "null".
func BuildPayload(m domain.ReducedMetrics) domain.SyncPayload {
	entry := domain.HeartRateEntry{BPM: 0, Time: absentInstant}
	if hr := m.LatestHeartRate; hr != nil {
		entry = domain.HeartRateEntry{BPM: hr.BeatsPerMinute, Time: FormatInstant(hr.Time)}
	}

	var temp float64
	if m.LatestBodyTemperatureCelsius != nil {
		temp = *m.LatestBodyTemperatureCelsius
	}

	return domain.SyncPayload{
		HeartRateData:   []domain.HeartRateEntry{entry},
		BodyTemperature: temp,
	}
}

const (
	instantSeconds = "2006-01-02T15:04:05Z"
	instantMillis  = "2006-01-02T15:04:05.000Z"
	instantMicros  = "2006-01-02T15:04:05.000000Z"
	instantNanos   = "2006-01-02T15:04:05.000000000Z"
)

// FormatInstant renders t as an ISO-8601 UTC instant. The fraction is
// printed in whole groups of three digits (.500, not .5), which is what
// existing receivers were written against.
func FormatInstant(t time.Time) string {
	t = t.UTC()
	ns := t.Nanosecond()
	switch {
	case ns == 0:
		return t.Format(instantSeconds)
	case ns%1_000_000 == 0:
		return t.Format(instantMillis)
	case ns%1_000 == 0:
		return t.Format(instantMicros)
	default:
		return t.Format(instantNanos)
	}
}
