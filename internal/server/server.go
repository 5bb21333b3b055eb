package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/middleware"
)

// Routes mounts application endpoints on the engine.
type Routes interface {
	Register(router *gin.Engine)
}

type HTTPServer struct {
	server          *http.Server
	shutdownTimeout time.Duration
	log             zerolog.Logger
}

// NewEngine builds the gin engine with the shared middleware chain (request
// id, access log, recovery, CORS) and mounts routes.
func NewEngine(cfg *config.AppConfig, log zerolog.Logger, routes Routes) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true
	engine.HandleMethodNotAllowed = true
	engine.MaxMultipartMemory = cfg.Storage.MaxBytes

	origins := append([]string{cfg.FrontendURL}, cfg.AllowCORSOrigins...)
	engine.Use(
		middleware.RequestID(log),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(origins...),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	routes.Register(engine)
	return engine
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, routes Routes) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:           NewEngine(cfg, log, routes),
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
		log:             log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.server.Addr).Msg("http server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("http server shutting down")
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
