package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestPermissionSetMissing(t *testing.T) {
	granted := NewPermissionSet(PermissionReadHeartRate)

	missing := granted.Missing(RequiredPermissions())
	if len(missing) != 1 || missing[0] != PermissionReadBodyTemperature {
		t.Fatalf("expected ReadBodyTemperature missing, got %v", missing)
	}
	if granted.ContainsAll(RequiredPermissions()) {
		t.Fatalf("partial grant must not satisfy the required set")
	}

	granted[PermissionReadBodyTemperature] = struct{}{}
	granted["WriteSteps"] = struct{}{}
	if !granted.ContainsAll(RequiredPermissions()) {
		t.Fatalf("superset should satisfy the required set")
	}
}

func TestFailureReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: missing", ErrPermissionDenied), "permission_denied"},
		{&ProviderError{Type: RecordTypeHeartRate, Err: errors.New("down")}, "provider"},
		{&TransportError{Op: "status", StatusCode: 500, Err: errors.New("boom")}, "transport"},
		{&ProviderError{Type: RecordTypeBodyTemperature, Err: context.Canceled}, "cancelled"},
		{context.DeadlineExceeded, "cancelled"},
		{errors.New("other"), "internal"},
	}
	for _, tc := range cases {
		if got := FailureReason(tc.err); got != tc.want {
			t.Fatalf("FailureReason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestTransportErrorMessage(t *testing.T) {
	err := &TransportError{Op: "status", StatusCode: 503, Err: errors.New("unavailable")}
	if got := err.Error(); got != "transport status: status 503: unavailable" {
		t.Fatalf("unexpected message %q", got)
	}
}
