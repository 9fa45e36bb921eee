package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/cafe/core/logger"
)

// Server wraps http.Server with a context-driven lifecycle and graceful shutdown.
// A Server runs at most once.
type Server struct {
	mu      sync.Mutex
	addr    string
	server  *http.Server
	bound   net.Addr
	started chan struct{}
	running bool

	logger            *slog.Logger
	shutdown          time.Duration
	readHeaderTimeout time.Duration
	readTimeout       time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	maxHeaderBytes    int
	tlsConfig         *tls.Config
}

// New creates a Server listening on addr. Use ":0" to pick a free port.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:              addr,
		started:           make(chan struct{}),
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdown:          DefaultShutdownTimeout,
		readHeaderTimeout: DefaultReadHeaderTimeout,
		readTimeout:       DefaultReadTimeout,
		writeTimeout:      DefaultWriteTimeout,
		idleTimeout:       DefaultIdleTimeout,
		maxHeaderBytes:    DefaultMaxHeaderBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run listens on the configured address and serves handler until ctx is done,
// then drains in-flight requests within the shutdown timeout.
// It returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if s.addr == "" {
		return ErrMissingAddress
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	s.running = true
	s.bound = ln.Addr()
	s.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.readHeaderTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
		MaxHeaderBytes:    s.maxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	srv := s.server
	close(s.started)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "server listening",
		slog.String("addr", ln.Addr().String()),
		slog.Bool("tls", s.tlsConfig != nil),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.ErrorContext(ctx, "server stopped unexpectedly", logger.Error(err))
		return err
	case <-ctx.Done():
	}

	return s.stop(srv, errCh)
}

func (s *Server) stop(srv *http.Server, errCh <-chan error) error {
	s.logger.Info("shutting down server", slog.Duration("timeout", s.shutdown))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", logger.Error(err))
		_ = srv.Close()
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Started is closed once the listener is bound.
func (s *Server) Started() <-chan struct{} {
	return s.started
}

// Addr returns the bound listener address, or the configured one before Run.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bound != nil {
		return s.bound.String()
	}
	return s.addr
}

// Run creates a server with default settings and runs it until ctx is done.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	return New(addr).Run(ctx, handler)
}
