package fibonacci

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestRecurrenceRelation_PropertyBased verifies the defining recurrence
//
//	F(n) = F(n-1) + F(n-2)  for n >= 2
//
// for both implementations. Iterative is checked over the whole wrapped range
// since uint64 addition is associative modulo 2^64.
func TestRecurrenceRelation_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Iterative satisfies F(n) = F(n-1) + F(n-2)", prop.ForAll(
		func(n uint32) bool {
			return Iterative(n) == Iterative(n-1)+Iterative(n-2)
		},
		gen.UInt32Range(2, 5000),
	))

	properties.Property("Naive satisfies F(n) = F(n-1) + F(n-2)", prop.ForAll(
		func(n uint32) bool {
			return Naive(n) == Naive(n-1)+Naive(n-2)
		},
		gen.UInt32Range(2, 22),
	))

	properties.TestingRun(t)
}

// TestMonotonicity_PropertyBased verifies F(n+1) >= F(n) for every n >= 1
// whose successor is still exact.
func TestMonotonicity_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Iterative is non-decreasing up to F(93)", prop.ForAll(
		func(n uint32) bool {
			return Iterative(n+1) >= Iterative(n)
		},
		gen.UInt32Range(1, MaxExactIndex-1),
	))

	properties.TestingRun(t)
}

// TestImplementationsAgree_PropertyBased verifies Naive and Iterative return
// identical values where the naive recursion is affordable.
func TestImplementationsAgree_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Naive(n) == Iterative(n)", prop.ForAll(
		func(n uint32) bool {
			return Naive(n) == Iterative(n)
		},
		gen.UInt32Range(0, 27),
	))

	properties.Property("Iterative(n) matches the big.Int oracle mod 2^64", prop.ForAll(
		func(n uint32) bool {
			return Iterative(n) == wrapped(fibOracle(n))
		},
		gen.UInt32Range(0, 3000),
	))

	properties.TestingRun(t)
}
