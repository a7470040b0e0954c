package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/fibwasm/internal/errors"
	"github.com/agbru/fibwasm/internal/fibonacci"
	"github.com/agbru/fibwasm/internal/logging"
	"github.com/agbru/fibwasm/internal/wasmhost"
)

// Response method labels.
const (
	MethodNative = "native"
	MethodWASM   = "WASM"
)

const (
	// DefaultShutdownTimeout bounds graceful shutdown in Start.
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

var tracer = otel.Tracer("github.com/agbru/fibwasm/internal/server")

// route maps the ?algo= values accepted by one endpoint to factory keys.
// maxIndex caps n for implementations that cannot be interrupted once
// started.
type route struct {
	endpoint   string
	method     string
	defaultAlg string
	algos      map[string]string
	maxIndex   map[string]uint32
	suffix     string
}

var (
	nativeRoute = route{
		endpoint:   "/fibonacci",
		method:     MethodNative,
		defaultAlg: "naive",
		algos: map[string]string{
			"naive":     fibonacci.NaiveKey,
			"iterative": fibonacci.IterativeKey,
		},
		maxIndex: map[string]uint32{
			"naive": fibonacci.MaxPracticalNaiveIndex,
		},
	}
	wasmRoute = route{
		endpoint:   "/fibonacci-wasm",
		method:     MethodWASM,
		defaultAlg: "naive",
		algos: map[string]string{
			"naive":     wasmhost.NaiveKey,
			"optimized": wasmhost.OptimizedKey,
		},
		suffix: " (calculated using WASM)",
	}
)

// Config holds the server settings.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// MaxN is the largest accepted index.
	MaxN uint32
	// RequestTimeout bounds each calculation.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown; zero uses DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
	// Security configures SecurityMiddleware.
	Security SecurityConfig
}

// FibonacciResponse is the 200 body of both calculation endpoints.
// The "fibonancy" field name is part of the public wire format.
type FibonacciResponse struct {
	Number        uint32  `json:"number"`
	Fibonancy     uint64  `json:"fibonancy"`
	Message       string  `json:"message"`
	ExecutionTime float64 `json:"execution_time"`
	Method        string  `json:"method"`
	Overflowed    bool    `json:"overflowed"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the HTTP API.
type Server struct {
	cfg     Config
	factory fibonacci.CalculatorFactory
	metrics *Metrics
	logger  logging.Logger
	mux     *http.ServeMux
}

// New creates a server resolving calculators from factory. The native route
// needs the "naive" and "iterative" keys; the WASM route needs the keys
// registered by wasmhost.RegisterCalculators.
func New(factory fibonacci.CalculatorFactory, cfg Config, logger logging.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	s := &Server{
		cfg:     cfg,
		factory: factory,
		metrics: NewMetrics(),
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	s.handle("/fibonacci/{n}", nativeRoute.endpoint, s.calculationHandler(nativeRoute))
	s.handle("/fibonacci-wasm/{n}", wasmRoute.endpoint, s.calculationHandler(wasmRoute))
	s.handle("/health", "/health", s.handleHealth)
	s.handle("/metrics", "/metrics", s.handleMetrics)
	return s
}

func (s *Server) handle(pattern, endpoint string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, SecurityMiddleware(s.cfg.Security, s.metricsMiddleware(endpoint, h)))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.RecordRequest(endpoint, rec.status)
	}
}

func (s *Server) calculationHandler(rt route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		n, key, err := s.parseRequest(rt, r)
		if err != nil {
			var invalid apperrors.ValidationError
			if errors.As(err, &invalid) {
				s.writeError(w, http.StatusBadRequest, invalid.Message)
				return
			}
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		calc, err := s.factory.Get(key)
		if err != nil {
			s.logger.Error("calculator not registered", err, logging.String("key", key))
			s.writeError(w, http.StatusInternalServerError, "calculator unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()
		ctx, span := tracer.Start(ctx, "http"+rt.endpoint, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		span.SetAttributes(attribute.String("calculator", key), attribute.Int64("fibonacci.n", int64(n)))

		start := time.Now()
		value, err := calc.Calculate(ctx, n)
		elapsed := time.Since(start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, context.DeadlineExceeded) {
				s.logger.Info("calculation timed out", logging.String("calculator", key), logging.Uint64("n", uint64(n)))
				s.writeError(w, http.StatusGatewayTimeout, fmt.Sprintf("calculation of F(%d) exceeded %s", n, s.cfg.RequestTimeout))
				return
			}
			s.logger.Error("calculation failed", err, logging.String("calculator", key), logging.Uint64("n", uint64(n)))
			s.writeError(w, http.StatusInternalServerError, "calculation failed")
			return
		}
		s.metrics.ObserveCalculation(rt.method, elapsed)

		s.logger.Debug("calculation",
			logging.String("calculator", key),
			logging.Uint64("n", uint64(n)),
			logging.Float64("seconds", elapsed.Seconds()))

		s.writeJSON(w, http.StatusOK, FibonacciResponse{
			Number:        n,
			Fibonancy:     value,
			Message:       fmt.Sprintf("Fibonancy of %d is %d%s", n, value, rt.suffix),
			ExecutionTime: elapsed.Seconds(),
			Method:        rt.method,
			Overflowed:    fibonacci.Overflows(n),
		})
	}
}

// parseRequest resolves the index and factory key of a calculation request.
// Rejections are apperrors.ValidationError values with a client-facing
// Message.
func (s *Server) parseRequest(rt route, r *http.Request) (uint32, string, error) {
	n, err := s.parseIndex(r.PathValue("n"))
	if err != nil {
		return 0, "", err
	}

	algo := r.URL.Query().Get("algo")
	if algo == "" {
		algo = rt.defaultAlg
	}
	key, ok := rt.algos[algo]
	if !ok {
		return 0, "", apperrors.ValidationError{Field: "algo", Message: fmt.Sprintf("unknown algo %q", algo)}
	}
	if limit, ok := rt.maxIndex[algo]; ok && n > limit {
		return 0, "", apperrors.ValidationError{
			Field:   "n",
			Message: fmt.Sprintf("algo %s is limited to n <= %d", algo, limit),
		}
	}
	return n, key, nil
}

// parseIndex validates the {n} path segment.
func (s *Server) parseIndex(raw string) (uint32, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("n must be an integer, got %q", raw)}
	}
	if v < 0 {
		return 0, apperrors.ValidationError{Field: "n", Message: "Fibonacci is not defined for negative numbers"}
	}
	if v > int64(s.cfg.MaxN) {
		return 0, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("n must be at most %d", s.cfg.MaxN)}
	}
	return uint32(v), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("writing response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
