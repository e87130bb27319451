package server

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	router http.Handler
}

// New creates a new Server instance
func New(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
	}
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// ListenAndServe serves srv over HTTPS when both PEM files exist and over
// plain HTTP otherwise. A graceful shutdown is not reported as an error.
func (s *Server) ListenAndServe(srv *http.Server) error {
	var err error
	if s.cfg.TLS.Enabled() {
		s.logger.Info("Server starting with TLS",
			zap.String("addr", srv.Addr),
			zap.String("cert", s.cfg.TLS.CertFile))
		err = srv.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	} else {
		s.logger.Info("Server starting", zap.String("addr", srv.Addr))
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// GetLogger returns the logger instance
func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

// GetConfig returns the configuration
func (s *Server) GetConfig() *config.Config {
	return s.cfg
}
