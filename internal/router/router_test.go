package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/api"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSetupRouterTurnsPanicsIntoServerErrors(t *testing.T) {
	router := SetupRouter(logger.Nop(), []string{"http://localhost:3000"}, api.Services{}, nil, nil)
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestSetupRouterServesHealth(t *testing.T) {
	router := SetupRouter(logger.Nop(), []string{"http://localhost:3000"}, api.Services{}, nil, map[string]api.HealthChecker{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
