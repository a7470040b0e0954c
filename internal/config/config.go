// Package config parses command-line flags and FIBWASM_ environment variables
// into the AppConfig consumed by the application layer.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/fibonacci"
)

// EnvPrefix prefixes every environment variable read by this package.
const EnvPrefix = "FIBWASM_"

// Defaults applied when neither a flag nor an environment variable is set.
const (
	DefaultN              = 30
	DefaultAlgo           = "all"
	DefaultTimeout        = 1 * time.Minute
	DefaultAddr           = ":8000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// N is the Fibonacci index to compute.
	N uint32
	// Algo selects the calculator to run, or "all" to compare every one.
	Algo string
	// Timeout bounds a one-shot calculation run.
	Timeout time.Duration
	// Verbose prints additional detail, such as the exact value's digit count.
	Verbose bool
	// Quiet prints the bare value only.
	Quiet bool
	// JSON prints the results as a JSON document.
	JSON bool
	// NoColor disables ANSI colors.
	NoColor bool
	// LogLevel is the zerolog level name.
	LogLevel string

	// Serve starts the HTTP API instead of a one-shot run.
	Serve bool
	// Addr is the listen address in server mode.
	Addr string
	// MaxN is the largest index accepted by the HTTP API.
	MaxN uint32
	// RequestTimeout bounds each HTTP calculation.
	RequestTimeout time.Duration

	// TUI starts the interactive dashboard.
	TUI bool
	// Interactive starts the REPL.
	Interactive bool
}

// uint32Value is a flag.Value rejecting anything outside the uint32 range.
type uint32Value uint32

func (v *uint32Value) String() string { return strconv.FormatUint(uint64(*v), 10) }

func (v *uint32Value) Set(s string) error {
	parsed, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("must be an integer in [0, %d]", uint32(math.MaxUint32))
	}
	*v = uint32Value(parsed)
	return nil
}

// ParseConfig parses args into an AppConfig, applies environment overrides and
// validates the result.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments, without the program name.
//   - errWriter: Where usage and parse errors are written.
//   - availableAlgos: The calculator names accepted by --algo.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{
		N:              DefaultN,
		MaxN:           fibonacci.MaxExactIndex,
		Algo:           DefaultAlgo,
		Timeout:        DefaultTimeout,
		Addr:           DefaultAddr,
		RequestTimeout: DefaultRequestTimeout,
		LogLevel:       DefaultLogLevel,
	}

	fs.Var((*uint32Value)(&cfg.N), "n", "The index of the Fibonacci number to calculate.")
	fs.StringVar(&cfg.Algo, "algo", cfg.Algo, fmt.Sprintf("Calculator to use: 'all' or one of [%s].", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum execution time for a calculation run.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Show additional result details.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the value, for scripting.")
	fs.BoolVar(&cfg.JSON, "json", false, "Print results as JSON.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	fs.BoolVar(&cfg.Serve, "serve", false, "Start the HTTP API.")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address for --serve.")
	fs.Var((*uint32Value)(&cfg.MaxN), "max-n", "Largest index accepted by the HTTP API.")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Maximum time per HTTP calculation.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Start the interactive dashboard.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start the interactive REPL.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintf(errWriter, "Computes Fibonacci numbers natively and through an embedded WebAssembly module.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&cfg, fs)
	cfg.Algo = strings.ToLower(cfg.Algo)

	if err := cfg.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.RequestTimeout <= 0 {
		return apperrors.NewConfigError("--request-timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown algorithm %q (available: all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	modes := 0
	for _, on := range []bool{c.Serve, c.TUI, c.Interactive} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("--serve, --tui and --interactive are mutually exclusive")
	}
	if c.Quiet && c.JSON {
		return apperrors.NewConfigError("--quiet and --json are mutually exclusive")
	}
	return nil
}
