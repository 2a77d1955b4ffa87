// Package syncer pushes the local editor configuration to every registered
// storage provider and pulls it back from the first one that has it.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"edsync/internal/editorconfig"
	"edsync/internal/extensions"
	"edsync/internal/providers"
	"edsync/internal/storage"
	"edsync/pkg/logging"
)

const subsystem = "Orchestrator"

// ConfigReader reads the local editor configuration.
type ConfigReader interface {
	ReadLocalConfig(ctx context.Context) (*editorconfig.EditorConfig, error)
}

// ConfigWriter applies a configuration locally and returns the profile
// registry to hand off.
type ConfigWriter interface {
	WriteLocalConfig(ctx context.Context, cfg *editorconfig.EditorConfig) ([]editorconfig.ProfileEntry, error)
}

// ProviderStore is the part of providers.Store the orchestrator needs.
type ProviderStore interface {
	List() ([]providers.SavedProvider, error)
	Token() (string, error)
	GistID(providerID string) (string, error)
	SetGistID(providerID, gistID string) error
	ClearGistID(providerID string) error
}

// ProviderFactory creates fresh, disconnected providers.
type ProviderFactory interface {
	New(providerType string) (storage.Provider, error)
}

// RegistryHelper applies a merged profile registry to the live editor.
type RegistryHelper interface {
	Handoff(ctx context.Context, profiles []editorconfig.ProfileEntry) error
}

// ExtensionInstaller installs extensions missing locally.
type ExtensionInstaller interface {
	InstallMissing(ctx context.Context, wanted []string) (*extensions.Report, error)
}

// Notifier receives user-facing messages.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
}

// Deps are the collaborators of an Orchestrator. Registry, Extensions and
// Notifier are optional.
type Deps struct {
	Store      ProviderStore
	Factory    ProviderFactory
	Reader     ConfigReader
	Writer     ConfigWriter
	Registry   RegistryHelper
	Extensions ExtensionInstaller
	Notifier   Notifier
}

// Options tune orchestrator behaviour.
type Options struct {
	// AutoInstallExtensions installs default-profile extensions missing
	// locally after a pull.
	AutoInstallExtensions bool
	// LocalPath is the local backup path for local providers that do not
	// set their own.
	LocalPath string
}

// Orchestrator runs push, pull and sync. It keeps no connections between
// calls: every operation builds and connects fresh provider instances.
type Orchestrator struct {
	deps Deps
	opts Options
}

// New creates an Orchestrator.
func New(deps Deps, opts Options) *Orchestrator {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	return &Orchestrator{deps: deps, opts: opts}
}

// Connection is a connected provider together with its saved record.
type Connection struct {
	Saved    providers.SavedProvider
	Provider storage.Provider
}

// Label names the connection in messages.
func (c Connection) Label() string {
	if c.Saved.Name != "" {
		return c.Saved.Name
	}
	return c.Provider.Name()
}

// InitProviders connects every registered provider in registration order.
// Providers that fail to connect are skipped with a warning.
func (o *Orchestrator) InitProviders(ctx context.Context) ([]Connection, error) {
	saved, err := o.deps.Store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	if len(saved) == 0 {
		return nil, ErrNoStorageConfigured
	}

	var (
		conns    []Connection
		failures []ProviderFailure
	)
	for _, sp := range saved {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := o.connect(ctx, sp)
		if err != nil {
			logging.Warn(subsystem, "Skipping provider %s (%s): %v", sp.Name, sp.ID, err)
			failures = append(failures, ProviderFailure{Provider: sp.Name, Err: err})
			continue
		}
		conns = append(conns, Connection{Saved: sp, Provider: p})
	}

	if len(conns) == 0 {
		return nil, connectionError(failures)
	}
	logging.Debug(subsystem, "Connected %d of %d providers", len(conns), len(saved))
	return conns, nil
}

func (o *Orchestrator) connect(ctx context.Context, sp providers.SavedProvider) (storage.Provider, error) {
	p, err := o.deps.Factory.New(sp.Type)
	if err != nil {
		return nil, err
	}

	switch storage.NormalizeType(sp.Type) {
	case storage.TypeGist:
		return o.connectGist(ctx, sp, p)
	default:
		path := sp.Config["path"]
		if path == "" {
			path = o.opts.LocalPath
		}
		if err := p.Connect(ctx, storage.Credentials{Path: path}); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// connectGist connects with the remembered gist id. A stale id is forgotten
// and the connection retried so the owned gist is found or recreated.
func (o *Orchestrator) connectGist(ctx context.Context, sp providers.SavedProvider, p storage.Provider) (storage.Provider, error) {
	token, err := o.deps.Store.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &storage.AuthenticationError{Provider: p.Name(), Err: errors.New("no GitHub token stored")}
	}
	gistID, err := o.deps.Store.GistID(sp.ID)
	if err != nil {
		return nil, err
	}

	err = p.Connect(ctx, storage.Credentials{Token: token, ResourceID: gistID})
	if err != nil && gistID != "" && storage.IsNotFound(err) {
		logging.Warn(subsystem, "Stored gist %s for provider %s no longer exists, looking for a replacement", gistID, sp.ID)
		if cerr := o.deps.Store.ClearGistID(sp.ID); cerr != nil {
			logging.Warn(subsystem, "Failed to clear stale gist id: %v", cerr)
		}
		gistID = ""
		err = p.Connect(ctx, storage.Credentials{Token: token})
	}
	if err != nil {
		return nil, err
	}

	if ri, ok := p.(storage.ResourceIdentifier); ok && ri.ResourceID() != "" && ri.ResourceID() != gistID {
		if err := o.deps.Store.SetGistID(sp.ID, ri.ResourceID()); err != nil {
			logging.Warn(subsystem, "Failed to remember gist id: %v", err)
		}
	}
	return p, nil
}

// PushOptions tune a push.
type PushOptions struct {
	// Quiet suppresses the success notice. Auto-sync pushes are quiet.
	Quiet bool
}

// PushResult summarizes a push.
type PushResult struct {
	Succeeded int
	Total     int
	Failures  []ProviderFailure
}

// Push reads the local configuration once and writes it to every connected
// provider concurrently. It fails only if no provider accepted the write.
func (o *Orchestrator) Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	conns, err := o.InitProviders(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := o.deps.Reader.ReadLocalConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read local configuration: %w", err)
	}

	result := &PushResult{Total: len(conns)}
	var mu sync.Mutex
	var g errgroup.Group
	for _, c := range conns {
		g.Go(func() error {
			err := c.Provider.Write(ctx, cfg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.Error(subsystem, err, "Push to %s failed", c.Label())
				result.Failures = append(result.Failures, ProviderFailure{Provider: c.Label(), Err: err})
				return nil
			}
			result.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	if result.Succeeded == 0 {
		return result, &PushFailedError{Total: result.Total, Failures: result.Failures}
	}

	logging.Info(subsystem, "Pushed to %d of %d providers", result.Succeeded, result.Total)
	if len(result.Failures) > 0 {
		o.deps.Notifier.Warn(fmt.Sprintf("Pushed to %d of %d storage providers; %d failed", result.Succeeded, result.Total, len(result.Failures)))
	} else if !opts.Quiet {
		o.deps.Notifier.Info(fmt.Sprintf("Pushed configuration to %d storage provider(s)", result.Succeeded))
	}
	return result, nil
}

// PullResult summarizes a pull.
type PullResult struct {
	// Found is false when no provider held a configuration.
	Found bool
	// Source is the provider the configuration came from.
	Source string
	Config *editorconfig.EditorConfig
	// Profiles is the merged registry handed to the registry helper.
	Profiles []editorconfig.ProfileEntry
	// RegistryErr is set when the hand-off failed. Local files were still
	// written.
	RegistryErr error
	Extensions  *extensions.Report
	// ExtensionsErr is set when auto-install could not run.
	ExtensionsErr error
	// ReadFailures lists providers whose read failed before a winner.
	ReadFailures []ProviderFailure
}

// Pull tries providers in registration order and applies the first
// configuration found. Later providers are not consulted.
func (o *Orchestrator) Pull(ctx context.Context) (*PullResult, error) {
	conns, err := o.InitProviders(ctx)
	if err != nil {
		return nil, err
	}

	result := &PullResult{}
	for _, c := range conns {
		cfg, err := c.Provider.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.Error(subsystem, err, "Pull from %s failed, trying next provider", c.Label())
			result.ReadFailures = append(result.ReadFailures, ProviderFailure{Provider: c.Label(), Err: err})
			continue
		}
		if cfg == nil {
			logging.Debug(subsystem, "Provider %s holds no configuration", c.Label())
			continue
		}
		result.Found, result.Source, result.Config = true, c.Label(), cfg
		break
	}

	if !result.Found {
		o.deps.Notifier.Info("No saved configuration found in any storage provider")
		return result, nil
	}

	logging.Info(subsystem, "Applying configuration from %s", result.Source)
	merged, err := o.deps.Writer.WriteLocalConfig(ctx, result.Config)
	if err != nil {
		return result, fmt.Errorf("failed to apply configuration from %s: %w", result.Source, err)
	}
	result.Profiles = merged

	if len(merged) > 0 && o.deps.Registry != nil {
		if err := o.deps.Registry.Handoff(ctx, merged); err != nil {
			logging.Error(subsystem, err, "Profile registry hand-off failed")
			result.RegistryErr = err
			o.deps.Notifier.Warn(fmt.Sprintf("Profiles were written but could not be registered: %v", err))
		}
	}

	if o.opts.AutoInstallExtensions && o.deps.Extensions != nil && len(result.Config.Default.Extensions) > 0 {
		report, err := o.deps.Extensions.InstallMissing(ctx, result.Config.Default.Extensions)
		if err != nil {
			logging.Error(subsystem, err, "Extension auto-install failed")
			result.ExtensionsErr = err
		}
		result.Extensions = report
		if report != nil && len(report.Failed) > 0 {
			o.deps.Notifier.Warn(fmt.Sprintf("%d extension(s) could not be installed", len(report.Failed)))
		}
	}

	o.deps.Notifier.Info(fmt.Sprintf("Pulled configuration from %s", result.Source))
	return result, nil
}

// SyncResult is the outcome of a push followed by a pull.
type SyncResult struct {
	Push *PushResult
	Pull *PullResult
}

// Sync pushes, then pulls. The pull does not run if the push failed.
func (o *Orchestrator) Sync(ctx context.Context) (*SyncResult, error) {
	push, err := o.Push(ctx, PushOptions{})
	if err != nil {
		return &SyncResult{Push: push}, err
	}
	pull, err := o.Pull(ctx)
	return &SyncResult{Push: push, Pull: pull}, err
}

type nopNotifier struct{}

func (nopNotifier) Info(string) {}
func (nopNotifier) Warn(string) {}
