// Package app wires edsync's components together for the commands in cmd/.
//
// NewApplication performs the bootstrap sequence:
//
//  1. Configures logging from the --debug flag and the configured log level
//  2. Loads config.yaml from the configuration directory (defaults when absent)
//  3. Resolves the editor kind and its user data directory
//  4. Builds the secret store, provider store, storage factory, reader,
//     writer, registry helper and extension installer
//  5. Assembles the sync orchestrator
//
// Editor detection order: the --editor flag, then the configured editor
// (which EDSYNC_EDITOR overrides), then TERM_PROGRAM together with
// IDX_WORKSPACE_URL, and finally Visual Studio Code.
package app
