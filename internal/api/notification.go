package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

// NotificationHandler serves the caller's own notifications.
type NotificationHandler struct {
	notifications service.INotificationService
}

func NewNotificationHandler(notifications service.INotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) RegisterRoutes(read, write *gin.RouterGroup) {
	read.GET("/notifications", h.List)
	read.GET("/notifications/unread-count", h.UnreadCount)

	write.POST("/notifications/mark-all-read", h.MarkAllRead)
	write.POST("/notifications/:id/mark-read", h.MarkRead)
	write.DELETE("/notifications/:id", h.Delete)
	write.POST("/notifications/generate/low-stock", h.GenerateLowStock)
	write.POST("/notifications/generate/expiring", h.GenerateExpiring)
	write.POST("/notifications/generate/meal-reminders", h.GenerateMealReminders)
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	list, err := h.notifications.List(c.Request.Context(), userID, queryBool(c, "unread_only"), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	notification, err := h.notifications.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	count, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) GenerateLowStock(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	created, err := h.notifications.GenerateLowStock(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications_created": created})
}

// GenerateExpiring takes an optional days query parameter.
func (h *NotificationHandler) GenerateExpiring(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	created, err := h.notifications.GenerateExpiring(c.Request.Context(), userID, days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications_created": created})
}

func (h *NotificationHandler) GenerateMealReminders(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	created, err := h.notifications.GenerateMealReminders(c.Request.Context(), userID, days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications_created": created})
}
