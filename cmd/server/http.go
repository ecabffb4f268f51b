package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/casetrail/casetrail/internal/config"
	"github.com/casetrail/casetrail/pkg/lifecycle"
)

type httpServer struct {
	srv          *http.Server
	logger       *slog.Logger
	drainTimeout time.Duration
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger:       logger.With("system", "http"),
		drainTimeout: cfg.ShutdownTimeoutDuration(),
	}
}

// Start begins listening and ties a graceful drain to lifecycle shutdown.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	go s.listen()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.stop()
	})

	return nil
}

func (s *httpServer) listen() {
	s.logger.Info("listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("listener stopped", "error", err)
	}
}

func (s *httpServer) stop() {
	s.logger.Info("draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("drain incomplete", "error", err)
		return
	}

	s.logger.Info("http server stopped")
}
