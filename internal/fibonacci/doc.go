// Package fibonacci implements the two Fibonacci entry points shared by every
// host of this module: a naive recursive variant and a linear iterative
// variant. Both map a uint32 index to a uint64 value with unguarded
// arithmetic, so results past F(93) wrap modulo 2^64 identically in both.
//
// The package also provides the Calculator abstraction and a name-keyed
// factory used by the CLI, the HTTP server and the TUI to run either variant
// (or a WebAssembly-hosted one) under a context.
package fibonacci
