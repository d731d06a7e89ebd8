package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/middleware"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

// pathID parses a UUID route parameter, answering 400 itself when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func actor(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	}
	return id, ok
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		_ = c.Error(&service.ValidationError{Field: name, Message: "must be an integer"})
		return 0, false
	}
	return n, true
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}

func queryDate(c *gin.Context, name string) (*types.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		_ = c.Error(&service.ValidationError{Field: name, Message: err.Error()})
		return nil, false
	}
	return &d, true
}
