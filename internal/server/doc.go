// Package server exposes the Fibonacci calculators over HTTP.
//
// Routes:
//
//	GET /fibonacci/{n}        native calculators (?algo=naive|iterative)
//	GET /fibonacci-wasm/{n}   WebAssembly exports (?algo=naive|optimized)
//	GET /health               liveness check
//	GET /metrics              Prometheus metrics
package server
