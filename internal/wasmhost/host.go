package wasmhost

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/logging"
)

// Exported symbol names, shared with the native library and the Go guest.
const (
	ExportNaive     = "calculate_fibonacci"
	ExportOptimized = "calculate_fibonacci_optimized"
)

// RequiredExports lists the functions a guest module must export with the
// signature (i32) -> i64.
var RequiredExports = []string{ExportNaive, ExportOptimized}

//go:embed fibonacci.wasm
var defaultModule []byte

var tracer = otel.Tracer("github.com/agbru/fibwasm/internal/wasmhost")

// ExportError reports a guest module whose exports do not match
// RequiredExports.
type ExportError struct {
	Export string
	Reason string
}

func (e ExportError) Error() string {
	return fmt.Sprintf("wasm export %q: %s", e.Export, e.Reason)
}

type options struct {
	module           []byte
	logger           logging.Logger
	memoryLimitPages uint32
}

// Option configures a Host.
type Option func(*options)

// WithModule replaces the embedded guest with the given module binary.
func WithModule(binary []byte) Option {
	return func(o *options) { o.module = binary }
}

// WithLogger sets the logger used for call tracing at debug level.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMemoryLimitPages caps the linear memory of each instance, in 64 KiB
// pages. Zero keeps the wazero default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(o *options) { o.memoryLimitPages = pages }
}

// Host owns a wazero runtime and the compiled guest module.
type Host struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	config   wazero.ModuleConfig
	logger   logging.Logger
}

// New compiles the guest module and validates its exports.
//
// The runtime is configured to abort guest execution when the context passed
// to Call is done, which is what bounds the naive recursion. Guests that
// import WASI, such as a reactor built with GOOS=wasip1, get the
// wasi_snapshot_preview1 host module and have _initialize run on every
// instance before the export is called.
func New(ctx context.Context, opts ...Option) (*Host, error) {
	o := options{module: defaultModule, logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}

	rc := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if o.memoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(o.memoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rc)

	compiled, err := rt.CompileModule(ctx, o.module)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, apperrors.WrapError(err, "compiling wasm module")
	}
	if err := validateExports(compiled.ExportedFunctions()); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	if importsWASI(compiled.ImportedFunctions()) {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			_ = rt.Close(ctx)
			return nil, apperrors.WrapError(err, "instantiating %s", wasi_snapshot_preview1.ModuleName)
		}
		o.logger.Debug("wasi imports provided", logging.String("module", wasi_snapshot_preview1.ModuleName))
	}

	o.logger.Debug("wasm module compiled", logging.Int("bytes", len(o.module)))
	return &Host{
		runtime:  rt,
		compiled: compiled,
		config:   wazero.NewModuleConfig().WithName("").WithStartFunctions("_initialize"),
		logger:   o.logger,
	}, nil
}

func importsWASI(defs []api.FunctionDefinition) bool {
	for _, def := range defs {
		if module, _, ok := def.Import(); ok && module == wasi_snapshot_preview1.ModuleName {
			return true
		}
	}
	return false
}

func validateExports(defs map[string]api.FunctionDefinition) error {
	for _, name := range RequiredExports {
		def, ok := defs[name]
		if !ok {
			return ExportError{Export: name, Reason: "not exported"}
		}
		params, results := def.ParamTypes(), def.ResultTypes()
		if !slices.Equal(params, []api.ValueType{api.ValueTypeI32}) ||
			!slices.Equal(results, []api.ValueType{api.ValueTypeI64}) {
			return ExportError{Export: name, Reason: fmt.Sprintf("signature is %s, want (i32) -> i64", signature(params, results))}
		}
	}
	return nil
}

func signature(params, results []api.ValueType) string {
	name := func(ts []api.ValueType) string {
		s := ""
		for i, t := range ts {
			if i > 0 {
				s += ", "
			}
			s += api.ValueTypeName(t)
		}
		return s
	}
	return fmt.Sprintf("(%s) -> %s", name(params), name(results))
}

// Call invokes export with n on a fresh instance and returns the i64 result
// reinterpreted as uint64.
//
// If ctx is done first, the guest is aborted; an expired deadline is returned
// as an apperrors.TimeoutError and cancellation as the context error. Guest traps (including call-stack exhaustion in the naive export)
// are returned as a CalculationError.
func (h *Host) Call(ctx context.Context, export string, n uint32) (uint64, error) {
	ctx, span := tracer.Start(ctx, "wasm.call")
	defer span.End()
	span.SetAttributes(attribute.String("wasm.export", export), attribute.Int64("fibonacci.n", int64(n)))

	result, err := h.call(ctx, export, n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (h *Host) call(ctx context.Context, export string, n uint32) (uint64, error) {
	start := time.Now()
	operation := fmt.Sprintf("wasm %s(%d)", export, n)
	if ctx.Err() != nil {
		return 0, apperrors.FromContext(ctx, operation, start)
	}

	mod, err := h.runtime.InstantiateModule(ctx, h.compiled, h.config)
	if err != nil {
		if ctx.Err() != nil {
			return 0, apperrors.FromContext(ctx, operation, start)
		}
		return 0, apperrors.CalculationError{Cause: fmt.Errorf("instantiating wasm module: %w", err)}
	}
	defer mod.Close(context.WithoutCancel(ctx))

	fn := mod.ExportedFunction(export)
	if fn == nil {
		return 0, ExportError{Export: export, Reason: "not exported"}
	}

	results, err := fn.Call(ctx, api.EncodeU32(n))
	if err != nil {
		if ctx.Err() != nil {
			return 0, apperrors.FromContext(ctx, operation, start)
		}
		h.logger.Error("wasm call failed", err, logging.String("export", export), logging.Uint64("n", uint64(n)))
		return 0, apperrors.CalculationError{Cause: fmt.Errorf("%s: %w", operation, err)}
	}
	if len(results) != 1 {
		return 0, apperrors.CalculationError{Cause: errors.New("wasm call returned no result")}
	}

	h.logger.Debug("wasm call",
		logging.String("export", export),
		logging.Uint64("n", uint64(n)),
		logging.Float64("elapsed_ms", float64(time.Since(start).Microseconds())/1000))
	return results[0], nil
}

// Close releases the compiled module and the runtime.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}
