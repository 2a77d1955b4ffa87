package app

import (
	"context"
	"errors"

	"edsync/internal/editorconfig"
	"edsync/internal/registry"
	"edsync/internal/syncer"
)

// ErrRegistryDeferred is returned by the registry hand-off when the user
// declined to rewrite the profile registry now.
var ErrRegistryDeferred = errors.New("profile registry not updated: close the editor and pull again, or pass --wait-pid")

// confirmingHelper asks before applying the registry in-process. It only
// asks when a pull actually produced profiles.
type confirmingHelper struct {
	assumeYes bool
	confirm   func(string) (bool, error)
	next      syncer.RegistryHelper
}

func (h confirmingHelper) Handoff(ctx context.Context, profiles []editorconfig.ProfileEntry) error {
	if !h.assumeYes {
		if h.confirm == nil {
			return ErrRegistryDeferred
		}
		ok, err := h.confirm("Is the editor closed? Update its profile registry now?")
		if err != nil {
			return err
		}
		if !ok {
			return ErrRegistryDeferred
		}
	}
	return h.next.Handoff(ctx, profiles)
}

// newRegistryHelper returns the detached helper when there is an editor
// process to wait for, else an in-process apply behind a confirmation.
func newRegistryHelper(cfg *Config, target string) syncer.RegistryHelper {
	if cfg.WaitPID > 0 {
		return registry.DetachedHelper{Target: target, WaitPID: cfg.WaitPID}
	}
	return confirmingHelper{
		assumeYes: cfg.AssumeYes,
		confirm:   cfg.Confirm,
		next:      registry.ImmediateHelper{Target: target},
	}
}
