package syncer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStorageConfigured means no storage provider is registered.
	ErrNoStorageConfigured = errors.New("no storage provider configured")
	// ErrNoValidConnection means every registered provider failed to connect.
	ErrNoValidConnection = errors.New("no storage provider could be connected")
)

// ProviderFailure is one provider's error inside a batch operation.
type ProviderFailure struct {
	Provider string
	Err      error
}

func (f ProviderFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Provider, f.Err)
}

func (f ProviderFailure) Unwrap() error { return f.Err }

// PushFailedError is returned when no provider accepted the push.
type PushFailedError struct {
	Total    int
	Failures []ProviderFailure
}

func (e *PushFailedError) Error() string {
	return fmt.Sprintf("push failed on all %d storage providers", e.Total)
}

// Unwrap exposes the individual provider errors.
func (e *PushFailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Is matches any PushFailedError.
func (e *PushFailedError) Is(target error) bool {
	_, ok := target.(*PushFailedError)
	return ok
}

// connectionError reports that no provider connected, keeping the causes
// reachable through errors.Is and errors.As.
func connectionError(failures []ProviderFailure) error {
	errs := []error{ErrNoValidConnection}
	for _, f := range failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}
