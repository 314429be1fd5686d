package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
)

// Server is a chi mux behind a stdlib http.Server
type Server struct {
	addr  string
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer reads API_PORT and the API_*_TIMEOUT knobs from cfg
// opts receive the *chi.Mux before any route is mounted
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("API_PORT", ":4000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: cfg.MayDuration("API_READ_HEADER_TIMEOUT", 10*time.Second),
			WriteTimeout:      cfg.MayDuration("API_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:       cfg.MayDuration("API_IDLE_TIMEOUT", 2*time.Minute),
		},
		grace: cfg.MayDuration("API_SHUTDOWN_GRACE", 15*time.Second),
	}
}

// Router is the mountable view of the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx ends, then drains in-flight requests for the shutdown grace period
// a listen failure is returned as is
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.addr).Msg("http listening")
		if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Dur("grace", s.grace).Msg("http shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
		defer cancel()
		return s.srv.Shutdown(sctx)
	})
	return g.Wait()
}

// Shutdown drains and stops the listener; Run returns once it has
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
