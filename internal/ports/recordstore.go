package ports

import (
	"context"

	"github.com/ghalamif/vitalsync/internal/domain"
)

// RecordStore reads health records from the provider. Implementations return
// exactly what the provider reports for the window, unsorted, or a
// *domain.ProviderError with no partial results.
type RecordStore interface {
	ReadHeartRateRecords(ctx context.Context, w domain.TimeWindow) ([]domain.HeartRateRecord, error)
	ReadBodyTemperatureRecords(ctx context.Context, w domain.TimeWindow) ([]domain.BodyTemperatureRecord, error)
	Name() string
}
