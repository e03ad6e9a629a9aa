package common

import (
	"errors"
	"fmt"
)

// Error kinds shared by the gateway, the chat assembler and the HTTP layer.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrNetwork          = errors.New("network error")
	ErrDecode           = errors.New("decode error")
	ErrStoreRead        = errors.New("store read error")
)

// StatusError reports a non-success HTTP status from an upstream endpoint.
// It matches ErrNetwork under errors.Is.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrNetwork, e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrNetwork
}

// Wrap attaches kind to err so callers can match on either.
func Wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}
