// Package logging provides subsystem-tagged structured logging for edsync.
//
// It is a thin layer over log/slog: every entry carries a "subsystem"
// attribute (Reader, Writer, Orchestrator, GistProvider, ...) and, for
// Error, an "error" attribute.
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Reader", "Reading config from %s", dir)
//	logging.Error("Writer", err, "Failed to write %s", path)
//
// Before initialization only warnings and errors are emitted, through the
// default slog logger.
package logging
