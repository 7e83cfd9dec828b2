package domain

import (
	"context"
	"errors"
	"fmt"
)

// RecordType names the kind of record requested from the provider.
type RecordType string

const (
	RecordTypeHeartRate       RecordType = "HeartRate"
	RecordTypeBodyTemperature RecordType = "BodyTemperature"
)

// ErrPermissionDenied is returned when the granted set lacks a required permission.
var ErrPermissionDenied = errors.New("vitalsync: permission denied")

// ProviderError wraps a failed record store read. No partial results accompany it.
type ProviderError struct {
	Type RecordType
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("read %s records: %v", e.Type, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// TransportError covers encode, network and non-2xx failures on send.
type TransportError struct {
	Op         string // "encode", "request", "post", "status"
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FailureReason maps a run error onto a short label for logs and metrics.
func FailureReason(err error) string {
	var (
		provErr *ProviderError
		trErr   *TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.As(err, &provErr):
		return "provider"
	case errors.As(err, &trErr):
		return "transport"
	default:
		return "internal"
	}
}
