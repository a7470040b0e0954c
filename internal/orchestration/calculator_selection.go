package orchestration

import (
	"github.com/agbru/fibwasm/internal/fibonacci"
)

// GetCalculatorsToRun resolves an algorithm selection against the factory.
// "all" returns every registered calculator in key order; any other value
// returns the single named calculator, or nil if it is not registered.
func GetCalculatorsToRun(algo string, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if algo == "all" {
		keys := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}
