// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, health-check handlers, and slog-based lifecycle logging. It is
// router-agnostic: Run accepts any http.Handler, typically a chi router.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var (
	// ErrStart indicates the server failed to start or exited abnormally.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown indicates graceful shutdown failed.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
)

// Config carries server settings loadable from the environment.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type options struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures the server.
type Option func(*options)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.cfg.Addr = addr
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cfg.ShutdownTimeout = d
		}
	}
}

// WithLogger sets the lifecycle logger; nil keeps the silent default.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// Server runs an http.Server until its context is cancelled or the process
// receives an interrupt/TERM signal, then shuts down gracefully.
type Server struct {
	opts options
	srv  *http.Server
	mu   sync.Mutex
	once sync.Once
}

// New creates a server with default config, adjusted by opts.
func New(opts ...Option) *Server {
	return NewFromConfig(Config{
		Addr:            ":8080",
		ShutdownTimeout: 5 * time.Second,
	}, opts...)
}

// NewFromConfig creates a server from an environment-loaded Config.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	o := options{cfg: cfg, logger: slog.New(discardHandler{})}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{opts: o}
}

// Run starts serving and blocks until shutdown. Listen failures and abnormal
// exits are wrapped with ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}
	cfg := s.opts.cfg
	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	srv := s.srv
	s.mu.Unlock()

	s.opts.logger.InfoContext(ctx, "http server starting", "addr", cfg.Addr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case <-stop:
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	s.opts.logger.InfoContext(ctx, "http server stopped")
	return nil
}

// Shutdown stops the server gracefully; safe to call repeatedly.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, s.opts.cfg.ShutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

// Healthcheck returns a handler usable as liveness (no checks) or readiness
// (with dependency checks) probe.
func Healthcheck(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				if log != nil {
					log.ErrorContext(r.Context(), "healthcheck failed", "error", err)
				}
				http.Error(w, "NOT_READY", http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// discardHandler drops every record; used when no logger is supplied.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
