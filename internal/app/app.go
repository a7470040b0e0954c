// Package app wires configuration, the calculator factory and the WebAssembly
// host together and dispatches to the selected run mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/fibwasm/internal/cli"
	"github.com/agbru/fibwasm/internal/config"
	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/fibonacci"
	"github.com/agbru/fibwasm/internal/logging"
	"github.com/agbru/fibwasm/internal/orchestration"
	"github.com/agbru/fibwasm/internal/server"
	"github.com/agbru/fibwasm/internal/tui"
	"github.com/agbru/fibwasm/internal/ui"
	"github.com/agbru/fibwasm/internal/wasmhost"
)

// Application represents the fibwasm application instance.
type Application struct {
	Config    config.AppConfig
	Factory   fibonacci.CalculatorFactory
	ErrWriter io.Writer
	// In feeds the REPL; nil means os.Stdin.
	In io.Reader

	logger *logging.ZerologAdapter
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory for the application. The
// WebAssembly calculators are still registered into it by Run.
func WithFactory(f fibonacci.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithInput sets the reader used by the REPL.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = fibonacci.NewDefaultFactory()
	}

	// The WASM calculators are registered by Run, but --algo may name them.
	availableAlgos := append(app.Factory.List(), wasmhost.CalculatorKeys()...)
	slices.Sort(availableAlgos)
	availableAlgos = slices.Compact(availableAlgos)

	programName := "fibwasm"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	app.logger = newLogger(errWriter, cfg)
	return app, nil
}

func newLogger(w io.Writer, cfg config.AppConfig) *logging.ZerologAdapter {
	output := zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: time.RFC3339}
	base := zerolog.New(output).With().Timestamp().Logger()
	return logging.NewZerologAdapter(base).WithLevel(logging.ParseLevel(cfg.LogLevel))
}

// Run starts the WebAssembly host, registers its calculators and executes
// the configured mode. It returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	if a.logger == nil {
		a.logger = newLogger(a.ErrWriter, a.Config)
	}

	host, err := wasmhost.New(ctx, wasmhost.WithLogger(a.logger.Component("wasmhost")))
	if err != nil {
		a.logger.Error("failed to start the WebAssembly host", err)
		return apperrors.ExitErrorGeneric
	}
	defer host.Close(context.WithoutCancel(ctx))

	if _, err := a.Factory.Get(wasmhost.NaiveKey); err != nil {
		if err := wasmhost.RegisterCalculators(a.Factory, host); err != nil {
			a.logger.Error("failed to register WebAssembly calculators", err)
			return apperrors.ExitErrorGeneric
		}
	}

	switch {
	case a.Config.Serve:
		return a.runServer(ctx)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.Interactive:
		return a.runREPL(ctx, out)
	default:
		return a.runCalculate(ctx, out)
	}
}

// runServer serves the HTTP API until SIGINT or SIGTERM.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	srv := server.New(a.Factory, server.Config{
		Addr:           a.Config.Addr,
		MaxN:           a.Config.MaxN,
		RequestTimeout: a.Config.RequestTimeout,
		Security:       server.DefaultSecurityConfig(),
	}, a.logger.Component("server"))
	if err := srv.Start(ctx); err != nil {
		a.logger.Error("HTTP server failed", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard. Each run in the dashboard is
// cancelled with r rather than bounded by --timeout.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	return tui.Run(ctx, calculatorsToRun, a.Config, Version)
}

// runREPL starts the interactive command loop on stdin.
func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
	})
	repl.SetOutput(out)
	if a.In != nil {
		repl.SetInput(a.In)
	}
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeForError maps an error returned by New to a process exit code.
// Parse errors have already been printed with the usage.
func ExitCodeForError(err error) int {
	if err == nil || IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	return apperrors.ExitErrorConfig
}

// printError reports a fatal error on the error writer.
func (a *Application) printError(format string, args ...any) {
	fmt.Fprintf(a.ErrWriter, "%sError: %s%s\n", ui.ColorRed(), fmt.Sprintf(format, args...), ui.ColorReset())
}
