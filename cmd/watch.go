package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"edsync/internal/app"
	"edsync/internal/autosync"
	"edsync/internal/config"
	"edsync/internal/syncer"
	"edsync/pkg/logging"
)

func newWatchCmd() *cobra.Command {
	var (
		delay     time.Duration
		force     bool
		logFormat string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Push automatically whenever settings, keybindings or snippets change",
		Long: `Watches the editor's user data directory and pushes quietly once changes
have settled for the debounce delay. Requires autoSync: true in config.yaml
(or EDSYNC_AUTO_SYNC=true) unless --force is given.

Under systemd (Type=notify) the service reports readiness once the
watches are in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, delay, force, logFormat)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 0, "Debounce delay (default from config, 5s)")
	cmd.Flags().BoolVar(&force, "force", false, "Watch even when autoSync is disabled")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	return cmd
}

func runWatch(cmd *cobra.Command, delay time.Duration, force bool, logFormat string) error {
	if logFormat != "text" && logFormat != "json" {
		return fmt.Errorf("unsupported log format %q (use text or json)", logFormat)
	}
	a, err := newApplication(cmd, nil)
	if err != nil {
		return err
	}
	if !a.Settings.AutoSync && !force {
		return fmt.Errorf("auto-sync is disabled: set autoSync: true in %s/config.yaml or pass --force", a.ConfigPath)
	}
	initWatchLogging(cmd, a.Settings.LogLevel, logFormat)
	if delay <= 0 {
		delay = a.Settings.AutoSyncDelay
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := a.Services.Orchestrator
	watcher := autosync.NewWatcher(autosync.WatcherConfig{
		UserDataDir: a.UserDataDir,
		Delay:       delay,
		Push: func(ctx context.Context) error {
			_, err := orch.Push(ctx, syncer.PushOptions{Quiet: true})
			return err
		},
		OnReady: func() {
			logging.Info("Watch", "Watching %s (debounce %s)", a.UserDataDir, delay)
			notifySystemd(daemon.SdNotifyReady)
		},
	})

	err = watcher.Run(ctx)
	notifySystemd(daemon.SdNotifyStopping)
	return err
}

// initWatchLogging logs at info level unless a level was configured, since
// a long-running watcher is otherwise silent.
func initWatchLogging(cmd *cobra.Command, configured, format string) {
	level := configured
	if level == config.DefaultLogLevel {
		level = "info"
	}
	if format == "text" {
		app.InitLogging(globalFlags.Debug, level, cmd.ErrOrStderr())
		return
	}
	logLevel, _ := logging.ParseLevel(level)
	if globalFlags.Debug {
		logLevel = logging.LevelDebug
	}
	logging.InitForJSON(logLevel, cmd.ErrOrStderr())
}

// notifySystemd sends a state to the service manager when running under
// systemd with NOTIFY_SOCKET set. Otherwise it does nothing.
func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("Watch", "Failed to notify systemd: %v", err)
		return
	}
	if sent {
		logging.Debug("Watch", "Notified systemd: %s", state)
	}
}
