package memoapi

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Fallback messages used when the backend gives no usable error text.
const (
	FallbackLoad   = "failed to load"
	FallbackSend   = "failed to send"
	FallbackUpdate = "failed to update"
	FallbackDelete = "failed to delete"
	FallbackMe     = "failed to load user"
	FallbackLogin  = "failed to log in"
	FallbackLogout = "failed to log out"
	FallbackHealth = "service unavailable"
)

var (
	// ErrAuthExpired means the session is gone. It is never shown as a
	// per-message error.
	ErrAuthExpired = errors.New("session expired")

	// ErrValidationRejected is returned, without any request being sent,
	// for an empty message body.
	ErrValidationRejected = errors.New("body is required")
)

// NetworkFailure wraps a transport error or an aborted request.
type NetworkFailure struct {
	Op  string
	Err error
}

func (e *NetworkFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkFailure) Unwrap() error {
	return e.Err
}

// ServerRejected is a non-2xx response. Message is the backend's error
// text, or the per-operation fallback.
type ServerRejected struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerRejected) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Message)
}

// UserMessage returns the text to show inline for err.
func UserMessage(err error, fallback string) string {
	if rejected, ok := errors.Into[*ServerRejected](err); ok {
		return rejected.Message
	}

	if errors.Is(err, ErrValidationRejected) {
		return ErrValidationRejected.Error()
	}

	return fallback
}

// IsAuthExpired reports whether err means the session ended.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}
