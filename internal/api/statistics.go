package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

type StatisticsHandler struct {
	statistics service.IStatisticsService
}

func NewStatisticsHandler(statistics service.IStatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics}
}

func (h *StatisticsHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/admin/statistics", h.Snapshot)
}

func (h *StatisticsHandler) Snapshot(c *gin.Context) {
	stats, err := h.statistics.Snapshot(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
