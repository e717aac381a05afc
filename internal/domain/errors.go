package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUnknownKind signals a collection name outside literature/taxonomy/samples.
	ErrUnknownKind = errors.New("unknown collection")
	// ErrNotReady signals that the record store has not finished loading.
	ErrNotReady = errors.New("records not ready")
	// ErrSourceUnavailable signals a failing record source or remote API.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrEmptyRIS signals an empty RIS document.
	ErrEmptyRIS = errors.New("ris content is empty")
	// ErrNoRISFields signals a RIS document without any recognised tag.
	ErrNoRISFields = errors.New("no fields found in ris content")
)

// RemoteError wraps ErrSourceUnavailable with the HTTP status of a failed remote call.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", ErrSourceUnavailable.Error(), e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrSourceUnavailable.Error(), e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error { return ErrSourceUnavailable }

// NewRemoteError creates a remote error for a non-2xx response.
func NewRemoteError(status int, message string) error {
	return &RemoteError{Status: status, Message: message}
}
