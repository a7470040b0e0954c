package fibonacci

import (
	"fmt"
	"sort"
	"sync"
)

// Registry keys for the built-in calculators.
const (
	NaiveKey     = "naive"
	IterativeKey = "iterative"
)

// CalculatorFactory creates and looks up calculators by name.
type CalculatorFactory interface {
	// Register adds a calculator under name, replacing any previous entry.
	Register(name string, calc Calculator) error
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered names in sorted order.
	List() []string
	// GetAll returns a copy of the registry.
	GetAll() map[string]Calculator
}

// DefaultFactory is a thread-safe, map-backed CalculatorFactory.
type DefaultFactory struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

// NewDefaultFactory returns a factory pre-populated with the naive and
// iterative calculators.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{calculators: make(map[string]Calculator)}
	f.calculators[NaiveKey] = NewCalculator("Naive Recursive (O(φⁿ))", Naive)
	f.calculators[IterativeKey] = NewCalculator("Iterative (O(n))", Iterative)
	return f
}

// Register adds calc under name.
func (f *DefaultFactory) Register(name string, calc Calculator) error {
	if name == "" {
		return fmt.Errorf("calculator name must not be empty")
	}
	if calc == nil {
		return fmt.Errorf("calculator %q is nil", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calculators[name] = calc
	return nil
}

// Get returns the calculator registered under name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	calc, ok := f.calculators[name]
	if !ok {
		return nil, fmt.Errorf("unknown calculator: %q", name)
	}
	return calc, nil
}

// List returns the registered calculator names, sorted.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a snapshot of the registry.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		out[name] = calc
	}
	return out
}
