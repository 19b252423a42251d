package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alabanza/alabanza/logging"
)

type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

func New(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logging.WithFields(logging.Fields{
			"component": "http_server",
		}),
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting API server", logging.Fields{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
