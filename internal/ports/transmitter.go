package ports

import (
	"context"

	"github.com/ghalamif/vitalsync/internal/domain"
)

// Transmitter delivers a payload to the collection endpoint in a single attempt.
type Transmitter interface {
	Send(ctx context.Context, p domain.SyncPayload) error
	Name() string
}
