package ports

import "github.com/ghalamif/vitalsync/internal/domain"

// Presenter receives the reduced values once per run, before transmission.
type Presenter interface {
	OnDataFetched(heartRate []domain.HeartRateEntry, bodyTemperatureCelsius float64)
}
