// Package jsondoc holds editor-defined JSON payloads (settings, keybindings,
// snippets) as opaque documents.
//
// Editors allow comments and trailing commas in their JSON files, and the
// payloads are open-ended, so edsync never maps them onto Go structs: a
// Document is the compact encoding of whatever value the editor wrote, and
// only the handful of fields edsync reasons about are queried with gjson paths.
package jsondoc
