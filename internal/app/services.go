package app

import (
	"edsync/internal/cli"
	"edsync/internal/config"
	"edsync/internal/extensions"
	"edsync/internal/paths"
	"edsync/internal/providers"
	"edsync/internal/reader"
	"edsync/internal/storage"
	"edsync/internal/syncer"
	"edsync/internal/writer"
	"edsync/pkg/logging"
)

// Services holds the components a command may use directly.
type Services struct {
	// Store persists the provider list and credentials.
	Store *providers.Store

	// Factory builds disconnected storage providers.
	Factory *storage.Factory

	// Reader reads the editor's user data directory.
	Reader *reader.Reader

	// Orchestrator runs push, pull and sync.
	Orchestrator *syncer.Orchestrator
}

// InitializeServices builds the services for an application whose
// configuration and editor have been resolved.
func InitializeServices(a *Application) (*Services, error) {
	secrets, err := providers.NewFileSecretStore(providers.SecretStoreConfig{
		StorageDir: config.SecretsDir(a.ConfigPath),
		FileMode:   true,
	})
	if err != nil {
		return nil, err
	}
	store := providers.NewStore(secrets)

	localPath := a.Settings.LocalBackupPath
	if localPath == "" {
		if localPath, err = storage.DefaultLocalPath(); err != nil {
			return nil, err
		}
	}
	factory := storage.NewFactory(storage.FactoryOptions{LocalPath: localPath})

	home, _ := osUserHomeDir()
	var readerOpts []reader.Option
	var lister reader.ExtensionLister
	if dir := paths.ResolveExtensionsDir(a.Editor.Kind, home, paths.EnvFrom(osGetenv)); dir != "" {
		lister = reader.ManifestExtensionLister{Dir: dir}
		readerOpts = append(readerOpts, reader.WithExtensionLister(lister))
	}
	rd := reader.New(a.UserDataDir, readerOpts...)

	deps := syncer.Deps{
		Store:    store,
		Factory:  factory,
		Reader:   rd,
		Writer:   writer.New(a.UserDataDir),
		Registry: newRegistryHelper(a.Config, paths.Layout{UserDataDir: a.UserDataDir}.Registry()),
		Notifier: cli.Notifier{Out: notifierOut(a.Config), Quiet: a.Config.Quiet},
	}
	if bin := paths.CLICommand(a.Editor.Kind); bin != "" && lister != nil {
		deps.Extensions = extensions.NewInstaller(bin, lister)
	} else if a.Settings.AutoInstallExtensions {
		logging.Debug("Bootstrap", "No command line launcher known for %s, extension auto-install disabled", a.Editor.Kind)
	}

	orch := syncer.New(deps, syncer.Options{
		AutoInstallExtensions: a.Settings.AutoInstallExtensions,
		LocalPath:             localPath,
	})

	return &Services{
		Store:        store,
		Factory:      factory,
		Reader:       rd,
		Orchestrator: orch,
	}, nil
}
