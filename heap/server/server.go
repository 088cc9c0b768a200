// Package server exposes one allocator over a small JSON HTTP API.
//
// Routes:
//
//	GET  /api/stats       aggregate statistics
//	GET  /api/blocks      ledger in address order
//	GET  /api/check       ledger invariant check
//	POST /api/allocate    {"size": n}
//	POST /api/deallocate  {"handle": h} or {"address": off}
//	POST /api/strategy    {"strategy": "best-fit"}
//	POST /api/reset
//
// The allocator is not thread-safe; every handler holds the server mutex
// for the duration of its engine call.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/internal/logger"
)

// ShutdownTimeout bounds graceful shutdown once the run context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server owns an allocator and serializes access to it.
type Server struct {
	mu    sync.Mutex
	alloc *alloc.Allocator

	log     logrus.FieldLogger
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a server around a. The caller must not use a directly while
// the server is running.
func New(a *alloc.Allocator, opts ...Option) *Server {
	s := &Server{
		alloc: a,
		log:   logger.Component("server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/blocks", s.handleBlocks)
	mux.HandleFunc("GET /api/check", s.handleCheck)
	mux.HandleFunc("POST /api/allocate", s.handleAllocate)
	mux.HandleFunc("POST /api/deallocate", s.handleDeallocate)
	mux.HandleFunc("POST /api/strategy", s.handleStrategy)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	s.handler = s.withRequestLog(mux)
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("addr", ln.Addr().String()).Info("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
