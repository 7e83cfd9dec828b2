package permission

import (
	"context"
	"testing"

	"github.com/ghalamif/vitalsync/internal/domain"
)

func TestStaticGateGrantsConfiguredSet(t *testing.T) {
	gate, err := NewStaticGate([]string{"ReadHeartRate", "ReadBodyTemperature"})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if !gate.Granted(context.Background()).ContainsAll(domain.RequiredPermissions()) {
		t.Fatalf("expected full grant")
	}
}

func TestStaticGateResolvesHealthConnectNames(t *testing.T) {
	gate, err := NewStaticGate([]string{
		"android.permission.health.READ_HEART_RATE",
		" android.permission.health.READ_BODY_TEMPERATURE ",
	})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if missing := gate.Granted(context.Background()).Missing(domain.RequiredPermissions()); len(missing) != 0 {
		t.Fatalf("expected aliases to satisfy required set, missing %v", missing)
	}
}

func TestStaticGatePartialGrant(t *testing.T) {
	gate, err := NewStaticGate([]string{"ReadHeartRate", "ReadSteps"})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	missing := gate.Granted(context.Background()).Missing(domain.RequiredPermissions())
	if len(missing) != 1 || missing[0] != domain.PermissionReadBodyTemperature {
		t.Fatalf("expected ReadBodyTemperature missing, got %v", missing)
	}
}

func TestStaticGateReturnsCopy(t *testing.T) {
	gate, _ := NewStaticGate([]string{"ReadHeartRate"})
	got := gate.Granted(context.Background())
	got[domain.PermissionReadBodyTemperature] = struct{}{}

	if gate.Granted(context.Background()).ContainsAll(domain.RequiredPermissions()) {
		t.Fatalf("mutating the returned set must not change the gate")
	}
}

func TestParseRejectsEmptyIdentifier(t *testing.T) {
	if _, err := Parse([]string{"ReadHeartRate", "  "}); err == nil {
		t.Fatalf("expected error for blank identifier")
	}
}
