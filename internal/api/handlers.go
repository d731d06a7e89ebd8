package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/middleware"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

const Version = "v1.0.0"

// Services is everything the HTTP layer calls into.
type Services struct {
	Recipes       service.IRecipeService
	Inventory     service.IInventoryService
	Ratings       service.IRatingService
	MenuPlans     service.IMenuPlanService
	Shopping      service.IShoppingListService
	Suggestions   service.ISuggestionService
	Settings      service.ISettingsService
	Notifications service.INotificationService
	Statistics    service.IStatisticsService
	Tokens        middleware.TokenValidator
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func(ctx context.Context) error

// HealthCheck answers 200 while every checker passes and 503 otherwise.
func HealthCheck(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"version": Version,
			"checks":  results,
		})
	}
}

// RegisterRoutes mounts the /api/v1 surface. Every route needs a valid token; writes go
// through limiter when one is configured. Settings changes and statistics need the admin role.
func RegisterRoutes(router *gin.Engine, svc Services, limiter *middleware.RateLimiter, checks map[string]HealthChecker) {
	router.GET("/health", HealthCheck(checks))
	router.GET("/api/health", HealthCheck(checks))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(svc.Tokens))

	read := v1.Group("")
	write := v1.Group("")
	if limiter != nil {
		write.Use(limiter.Middleware())
		read.GET("/rate-limits", rateLimitStatus(limiter))
	}
	admin := write.Group("")
	admin.Use(middleware.RequireRole(types.RoleAdmin))
	adminRead := read.Group("")
	adminRead.Use(middleware.RequireRole(types.RoleAdmin))

	NewRecipeHandler(svc.Recipes).RegisterRoutes(read, write)
	NewRatingHandler(svc.Ratings).RegisterRoutes(read, write)
	NewInventoryHandler(svc.Inventory).RegisterRoutes(read, write)
	NewMenuPlanHandler(svc.MenuPlans, svc.Shopping).RegisterRoutes(read, write)
	NewSuggestionHandler(svc.Suggestions).RegisterRoutes(read)
	NewSettingsHandler(svc.Settings).RegisterRoutes(read, admin)
	NewNotificationHandler(svc.Notifications).RegisterRoutes(read, write)
	NewStatisticsHandler(svc.Statistics).RegisterRoutes(adminRead)
}

func rateLimitStatus(limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		remaining, resetTime, err := limiter.Remaining(c.Request.Context(), userID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}
		cfg := limiter.Config()
		c.JSON(http.StatusOK, gin.H{
			"limit":      cfg.Limit,
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     cfg.Window.String(),
		})
	}
}
