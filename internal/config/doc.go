// Package config loads edsync's own settings.
//
// Settings live in config.yaml inside the configuration directory, which
// defaults to ~/.config/edsync and can be changed with --config-path. The
// same directory holds the secrets/ store for provider records and tokens.
//
// A missing config.yaml means defaults. Environment variables override the
// file:
//
//	EDSYNC_EDITOR             editor display name or kind
//	EDSYNC_USER_DATA_DIR      custom user data directory
//	EDSYNC_LOCAL_BACKUP_PATH  local backup file or directory
//	EDSYNC_AUTO_SYNC          true/false
//
// Example config.yaml:
//
//	editor: Cursor
//	autoSync: true
//	autoSyncDelay: 10s
//	autoInstallExtensions: false
//	localBackupPath: ~/Dropbox/edsync
//	logLevel: info
package config
