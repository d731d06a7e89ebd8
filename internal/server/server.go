package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-mealplanner/backend/config"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/api"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/database"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/middleware"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/router"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router          *gin.Engine
	http            *http.Server
	log             *logger.Logger
	shutdownTimeout time.Duration
}

// NewServices wires the domain services over one store.
func NewServices(db *gorm.DB, jwtSecret string, log *logger.Logger) api.Services {
	store := repository.NewStore(db, log)

	settings := service.NewSettingsService(store, log)
	recipes := service.NewRecipeService(store, log)
	inventory := service.NewInventoryService(store, settings, log)
	ratings := service.NewRatingService(store, settings, log)
	notifications := service.NewNotificationService(store, inventory, log)
	recipes.NotifyUpdatesTo(notifications)

	return api.Services{
		Recipes:       recipes,
		Inventory:     inventory,
		Ratings:       ratings,
		MenuPlans:     service.NewMenuPlanService(store, recipes, inventory, log),
		Shopping:      service.NewShoppingListService(store, inventory, log),
		Suggestions:   service.NewSuggestionService(store, ratings, settings, log),
		Settings:      settings,
		Notifications: notifications,
		Statistics:    service.NewStatisticsService(store, inventory, ratings, log),
		Tokens:        service.NewTokenService(jwtSecret),
	}
}

// New creates a server for cfg. rdb may be nil, in which case writes are not rate limited.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *logger.Logger) *Server {
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]api.HealthChecker{
		"database": database.HealthCheck(db),
	}
	var limiter *middleware.RateLimiter
	if rdb != nil {
		limiter = middleware.NewMutationRateLimiter(rdb, cfg.RateLimitPerMinute, log)
		checks["redis"] = database.RedisHealthCheck(rdb)
	}

	engine := router.SetupRouter(log, cfg.CORSOrigins, NewServices(db, cfg.JWTSecret, log), limiter, checks)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log:             log,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, waiting at most the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}
