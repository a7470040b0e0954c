// Package logging provides the structured logging interface used by the
// server, the WebAssembly host and the application layer. Production code
// logs through zerolog, with each subsystem tagged by a "component" field.
package logging
