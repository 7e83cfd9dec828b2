package ports

import (
	"context"

	"github.com/ghalamif/vitalsync/internal/domain"
)

// PermissionGate reports the permissions the user granted. It may block
// while a grant flow is outstanding.
type PermissionGate interface {
	Granted(ctx context.Context) domain.PermissionSet
}
