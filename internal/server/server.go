package server

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"contactiq/internal/aggregator"
	"contactiq/internal/config"
	"contactiq/internal/handlers"
	"contactiq/internal/storage"
)

// Server represents the application server
type Server struct {
	echo       *echo.Echo
	store      *storage.Store
	aggregator *aggregator.Aggregator
	config     *config.Config
	logger     zerolog.Logger
}

// New creates a new server instance
func New(cfg *config.Config, store *storage.Store, agg *aggregator.Aggregator, logger zerolog.Logger) *Server {
	return &Server{
		config:     cfg,
		store:      store,
		aggregator: agg,
		logger:     logger,
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	s.echo.HideBanner = true

	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", handlers.HealthHandler(s.config.Version))
	if s.store != nil {
		api.GET("/health/db", handlers.DBHealthHandler(s.store.DB()))
	}

	api.GET("/contacts", handlers.ListContactsHandler(s.aggregator))
	api.GET("/contacts/:email", handlers.GetContactHandler(s.aggregator))
	api.GET("/contacts/:email/score", handlers.ScoreContactHandler(s.aggregator))

	api.POST("/contacts/merge/preview", handlers.MergePreviewHandler(s.aggregator))
	api.POST("/contacts/merge", handlers.MergeCommitHandler(s.aggregator))

	api.POST("/records", handlers.IngestHandler(s.aggregator))
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("starting server")
	return s.echo.Start(":" + s.config.Port)
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
