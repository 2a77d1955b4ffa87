// Package cli provides the terminal presentation layer for edsync commands.
//
// # Components
//
//   - Tables rendered with go-pretty, with colored headers
//   - Structured output in JSON or YAML for scripting (-o json, -o yaml)
//   - A Notifier that prints orchestrator messages with success (✓) and
//     warning (⚠) markers
//   - Progress spinners for pushes and pulls
//   - Prompts for hidden token entry and yes/no confirmations
//
// Commands in cmd/ use this package so output looks the same everywhere.
package cli
