// Package orchestration runs Fibonacci calculators concurrently and compares
// their results. Presentation is injected through the ProgressReporter,
// ResultPresenter and ErrorHandler interfaces.
package orchestration
