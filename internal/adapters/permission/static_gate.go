package permission

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghalamif/vitalsync/internal/domain"
	"github.com/ghalamif/vitalsync/internal/ports"
)

// Health Connect names for the same capabilities, as granted on device.
var aliases = map[string]domain.Permission{
	"android.permission.health.READ_HEART_RATE":       domain.PermissionReadHeartRate,
	"android.permission.health.READ_BODY_TEMPERATURE": domain.PermissionReadBodyTemperature,
}

// Parse turns configured identifiers into a permission set. Unknown
// identifiers are kept as-is; they never satisfy a required permission.
func Parse(ids []string) (domain.PermissionSet, error) {
	set := domain.NewPermissionSet()
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, fmt.Errorf("empty permission identifier")
		}
		if p, ok := aliases[id]; ok {
			set[p] = struct{}{}
			continue
		}
		set[domain.Permission(id)] = struct{}{}
	}
	return set, nil
}

// StaticGate answers with a fixed grant decided ahead of the run, e.g. by
// the operator in the config file.
type StaticGate struct {
	granted domain.PermissionSet
}

func NewStaticGate(ids []string) (*StaticGate, error) {
	set, err := Parse(ids)
	if err != nil {
		return nil, err
	}
	return &StaticGate{granted: set}, nil
}

func (g *StaticGate) Granted(context.Context) domain.PermissionSet {
	out := make(domain.PermissionSet, len(g.granted))
	for p := range g.granted {
		out[p] = struct{}{}
	}
	return out
}

var _ ports.PermissionGate = (*StaticGate)(nil)
