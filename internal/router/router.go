package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/api"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/middleware"
)

// SetupRouter builds the gin engine: panic recovery, request logging and error mapping on every
// route, CORS for the configured origins, then the API surface.
func SetupRouter(
	log *logger.Logger,
	corsOrigins []string,
	svc api.Services,
	limiter *middleware.RateLimiter,
	checks map[string]api.HealthChecker,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(corsOrigins))

	api.RegisterRoutes(router, svc, limiter, checks)
	return router
}
