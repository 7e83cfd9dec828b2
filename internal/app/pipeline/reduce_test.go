package pipeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/vitalsync/internal/domain"
)

func at(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func TestReduceNoHeartRateSamples(t *testing.T) {
	records := []domain.HeartRateRecord{{ID: "a"}, {ID: "b", Samples: nil}}

	m := Reduce(records, nil)
	assert.Nil(t, m.LatestHeartRate)
	assert.Nil(t, m.LatestBodyTemperatureCelsius)

	p := BuildPayload(m)
	require.Len(t, p.HeartRateData, 1)
	assert.Equal(t, 0.0, p.HeartRateData[0].BPM)
	assert.Equal(t, "null", p.HeartRateData[0].Time)
	assert.Equal(t, 0.0, p.BodyTemperature)
}

func TestReducePicksLatestSampleAcrossRecords(t *testing.T) {
	records := []domain.HeartRateRecord{
		{ID: "r1", Samples: []domain.HeartRateSample{
			{BeatsPerMinute: 80, Time: at(50)},
			{BeatsPerMinute: 60, Time: at(10)},
		}},
		{ID: "r2", Samples: []domain.HeartRateSample{
			{BeatsPerMinute: 91, Time: at(70)},
			{BeatsPerMinute: 65, Time: at(30)},
		}},
		{ID: "r3"},
	}

	m := Reduce(records, nil)
	require.NotNil(t, m.LatestHeartRate)
	assert.Equal(t, 91.0, m.LatestHeartRate.BeatsPerMinute)

	for _, r := range records {
		for _, s := range r.Samples {
			assert.False(t, s.Time.After(m.LatestHeartRate.Time),
				"sample at %s is newer than chosen %s", s.Time, m.LatestHeartRate.Time)
		}
	}
}

func TestReduceTieKeepsOneOfTheTiedSamples(t *testing.T) {
	records := []domain.HeartRateRecord{
		{Samples: []domain.HeartRateSample{{BeatsPerMinute: 70, Time: at(5)}}},
		{Samples: []domain.HeartRateSample{{BeatsPerMinute: 72, Time: at(5)}}},
	}

	m := Reduce(records, nil)
	require.NotNil(t, m.LatestHeartRate)
	assert.True(t, m.LatestHeartRate.Time.Equal(at(5)))
	assert.Contains(t, []float64{70, 72}, m.LatestHeartRate.BeatsPerMinute)
}

func TestReduceBodyTemperatureIsLastByPosition(t *testing.T) {
	bt := []domain.BodyTemperatureRecord{
		{TemperatureCelsius: 20.1, Time: at(10)},
		{TemperatureCelsius: 19.8, Time: at(5)},
	}

	m := Reduce(nil, bt)
	require.NotNil(t, m.LatestBodyTemperatureCelsius)
	assert.Equal(t, 19.8, *m.LatestBodyTemperatureCelsius)
}

func TestReduceDoesNotAliasInput(t *testing.T) {
	records := []domain.HeartRateRecord{
		{Samples: []domain.HeartRateSample{{BeatsPerMinute: 70, Time: at(5)}}},
	}
	m := Reduce(records, nil)
	records[0].Samples[0].BeatsPerMinute = 1

	assert.Equal(t, 70.0, m.LatestHeartRate.BeatsPerMinute)
}

func TestBuildPayloadIsDeterministic(t *testing.T) {
	temp := 36.6
	m := domain.ReducedMetrics{
		LatestHeartRate:              &domain.HeartRateSample{BeatsPerMinute: 75, Time: time.Date(2024, 5, 1, 9, 30, 0, 500_000_000, time.FixedZone("KST", 9*3600))},
		LatestBodyTemperatureCelsius: &temp,
	}

	first, err := json.Marshal(BuildPayload(m))
	require.NoError(t, err)
	second, err := json.Marshal(BuildPayload(m))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.JSONEq(t, `{"heartRateData":[{"bpm":75.0,"time":"2024-05-01T00:30:00.500Z"}],"bodyTemperature":36.6}`, string(first))
}

func TestBuildPayloadZeroReadingIsNotAbsent(t *testing.T) {
	zero := 0.0
	m := domain.ReducedMetrics{
		LatestHeartRate:              &domain.HeartRateSample{BeatsPerMinute: 0, Time: at(0)},
		LatestBodyTemperatureCelsius: &zero,
	}

	p := BuildPayload(m)
	assert.Equal(t, "1970-01-01T00:00:00Z", p.HeartRateData[0].Time)
}

func TestFormatInstantKeepsThreeDigitFractionGroups(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("KST", 9*3600))
	cases := []struct {
		nanos int
		want  string
	}{
		{0, "2024-05-01T00:30:00Z"},
		{500_000_000, "2024-05-01T00:30:00.500Z"},
		{120_000_000, "2024-05-01T00:30:00.120Z"},
		{1_500_000, "2024-05-01T00:30:00.001500Z"},
		{123_456_789, "2024-05-01T00:30:00.123456789Z"},
		{10, "2024-05-01T00:30:00.000000010Z"},
	}
	for _, tc := range cases {
		got := FormatInstant(base.Add(time.Duration(tc.nanos)))
		assert.Equal(t, tc.want, got, "nanos=%d", tc.nanos)
	}
}
