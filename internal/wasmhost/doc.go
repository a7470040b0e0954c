// Package wasmhost runs the Fibonacci exports of a WebAssembly module inside
// the wazero runtime and exposes them as fibonacci.Calculator values.
//
// The embedded guest (fibonacci.wat) exports calculate_fibonacci and
// calculate_fibonacci_optimized, both (i32) -> i64, with the same wrapping
// semantics as the Go implementations. Every call instantiates a fresh,
// anonymous module instance, so a Host is safe for concurrent use.
package wasmhost
