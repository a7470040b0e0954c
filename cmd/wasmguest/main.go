//go:build wasip1

// Command wasmguest builds the Fibonacci functions as a WebAssembly reactor
// module for the wasmhost package:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o fibonacci.wasm ./cmd/wasmguest
//
// The embedded module in internal/wasmhost is a hand-assembled equivalent
// with the same exports and no WASI imports.
package main

import "github.com/agbru/fibwasm/internal/fibonacci"

//go:wasmexport calculate_fibonacci
func calculateFibonacci(n uint32) uint64 {
	return fibonacci.Naive(n)
}

//go:wasmexport calculate_fibonacci_optimized
func calculateFibonacciOptimized(n uint32) uint64 {
	return fibonacci.Iterative(n)
}

func main() {}
