package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

type InventoryHandler struct {
	inventory service.IInventoryService
}

func NewInventoryHandler(inventory service.IInventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) RegisterRoutes(read, write *gin.RouterGroup) {
	read.GET("/inventory", h.ListItems)
	read.GET("/inventory/low-stock", h.LowStock)
	read.GET("/inventory/expiring", h.Expiring)
	read.GET("/inventory/:id", h.GetItem)
	read.GET("/inventory/:id/history", h.History)

	write.POST("/inventory", h.CreateItem)
	write.PUT("/inventory/:id", h.UpdateItem)
	write.POST("/inventory/:id/adjust", h.Adjust)
	write.DELETE("/inventory/:id", h.DeleteItem)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventory.ListItems(c.Request.Context(), repository.InventoryFilter{
		Location: models.Location(c.Query("location")),
		Category: c.Query("category"),
		Search:   c.Query("q"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventory.GetItem(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req types.InventoryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.inventory.CreateItem(c.Request.Context(), userID, inventoryInput(req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.InventoryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.inventory.UpdateItem(c.Request.Context(), userID, id, inventoryInput(req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeleteItem(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Adjust applies a signed quantity change. The response carries a warning when the change
// had to stop at zero.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.AdjustInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.inventory.Adjust(c.Request.Context(), userID, id, req.QuantityChange, req.ChangeType, req.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.inventory.History(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventory.LowStock(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *InventoryHandler) Expiring(c *gin.Context) {
	var days *int
	if c.Query("days") != "" {
		n, ok := queryInt(c, "days")
		if !ok {
			return
		}
		days = &n
	}
	items, err := h.inventory.ExpiringWithin(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func inventoryInput(req types.InventoryItemRequest) service.InventoryItemInput {
	var expiration *time.Time
	if req.ExpirationDate != nil && !req.ExpirationDate.IsZero() {
		t := req.ExpirationDate.Time
		expiration = &t
	}
	return service.InventoryItemInput{
		Name:           req.Name,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Category:       req.Category,
		Location:       req.Location,
		ExpirationDate: expiration,
		MinimumStock:   req.MinimumStock,
		Notes:          req.Notes,
	}
}
