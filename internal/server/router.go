package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// NewRouter builds the gin engine serving cupboard.
func NewRouter(cupboard types.Cupboard, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		recovery(logger),
		requestID(),
		requestLogger(logger),
	)

	h := &handler{cupboard: cupboard}
	v1 := router.Group("/v1")
	{
		v1.GET("/health", h.health)

		v1.GET("/:table", h.list)
		v1.POST("/:table", h.create)
		v1.GET("/:table/:id", h.get)
		v1.PUT("/:table/:id", h.put)
		v1.PATCH("/:table/:id", h.patch)
		v1.DELETE("/:table/:id", h.delete)
	}
	return router
}

// Server runs the data service on an address.
type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

// New creates a server for cupboard listening on addr.
func New(addr string, cupboard types.Cupboard, logger zerolog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:           addr,
			Handler:        NewRouter(cupboard, logger),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("data service listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down data service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
