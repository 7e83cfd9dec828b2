package pipeline

import "github.com/ghalamif/vitalsync/internal/domain"

// Reduce picks one representative value per metric.
//
// Heart rate is the sample with the greatest timestamp across all records;
// on equal timestamps the first one seen wins. Body temperature is the last
// record in provider order, regardless of its timestamp. The two rules are
// intentionally different and must stay that way until the provider order
// is known to be chronological.
func Reduce(hr []domain.HeartRateRecord, bt []domain.BodyTemperatureRecord) domain.ReducedMetrics {
	return domain.ReducedMetrics{
		LatestHeartRate:              latestHeartRateSample(hr),
		LatestBodyTemperatureCelsius: lastBodyTemperature(bt),
	}
}

func latestHeartRateSample(records []domain.HeartRateRecord) *domain.HeartRateSample {
	var latest *domain.HeartRateSample
	for i := range records {
		for _, s := range records[i].Samples {
			if latest == nil || s.Time.After(latest.Time) {
				picked := s
				latest = &picked
			}
		}
	}
	return latest
}

func lastBodyTemperature(records []domain.BodyTemperatureRecord) *float64 {
	if len(records) == 0 {
		return nil
	}
	v := records[len(records)-1].TemperatureCelsius
	return &v
}
