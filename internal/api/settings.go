package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

type SettingsHandler struct {
	settings service.ISettingsService
}

func NewSettingsHandler(settings service.ISettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// RegisterRoutes expects admin to already require the admin role.
func (h *SettingsHandler) RegisterRoutes(read, admin *gin.RouterGroup) {
	read.GET("/settings", h.GetSettings)
	admin.PUT("/settings", h.UpdateSettings)
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Current(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req service.SettingsUpdate
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
