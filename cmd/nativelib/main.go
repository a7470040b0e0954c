//go:build cgo

// Command nativelib builds the naive Fibonacci function as a C shared
// library:
//
//	go build -buildmode=c-shared -o libfibonacci.so ./cmd/nativelib
//
// It exports calculate_fibonacci(uint32_t) -> uint64_t.
package main

// #include <stdint.h>
import "C"

import "github.com/agbru/fibwasm/internal/fibonacci"

//export calculate_fibonacci
func calculate_fibonacci(n C.uint32_t) C.uint64_t {
	return C.uint64_t(fibonacci.Naive(uint32(n)))
}

func main() {}
