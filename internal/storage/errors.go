package storage

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by Read and Write before a successful Connect.
var ErrNotConnected = errors.New("storage provider is not connected")

// ErrPayloadTooLarge is returned when a stored snapshot exceeds the read limit.
var ErrPayloadTooLarge = errors.New("stored config is too large")

// AuthenticationError indicates the backend rejected the credentials.
type AuthenticationError struct {
	Provider string
	Err      error
}

func (e *AuthenticationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: authentication failed", e.Provider)
	}
	return fmt.Sprintf("%s: authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Is matches any AuthenticationError.
func (e *AuthenticationError) Is(target error) bool {
	_, ok := target.(*AuthenticationError)
	return ok
}

// NotFoundError indicates an explicitly requested resource does not exist.
type NotFoundError struct {
	Provider   string
	ResourceID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: resource %q not found", e.Provider, e.ResourceID)
}

// Is matches any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// IsAuthenticationError reports whether err is or wraps an AuthenticationError.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
