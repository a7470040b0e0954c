// Package format contains pure string formatting helpers shared by the CLI,
// the TUI and the HTTP server.
package format
