// Package server assembles the router, middleware stack, and service
// providers.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/evisynth/backend/internal/config"
	httphandlers "github.com/evisynth/backend/internal/http"
	"github.com/evisynth/backend/internal/logging"
	"github.com/evisynth/backend/internal/middleware"
	"github.com/evisynth/backend/internal/monitoring"
	"github.com/evisynth/backend/internal/providers/synthesis"
	"github.com/evisynth/backend/internal/service"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	logger   *logging.Logger
}

// New creates a new server instance
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	scoring, err := cfg.LoadScoring()
	if err != nil {
		return nil, err
	}

	registry := service.NewRegistry()
	if err := registry.Register(synthesis.NewProvider(scoring)); err != nil {
		return nil, err
	}
	stats := registry.Stats()
	logger.Info("registered services",
		zap.Any("total_services", stats["total_services"]),
		zap.Any("total_tools", stats["total_tools"]),
	)

	metrics := monitoring.NewMetrics()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handlers := httphandlers.NewHandlers(registry, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	return &Server{
		router:   router,
		registry: registry,
		logger:   logger,
	}, nil
}

// Run starts the server
func (s *Server) Run(addr string) error {
	s.logger.Info("starting synthesis service", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router exposes the gin engine (for tests)
func (s *Server) Router() *gin.Engine {
	return s.router
}
