package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

type RatingHandler struct {
	ratings service.IRatingService
}

func NewRatingHandler(ratings service.IRatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

func (h *RatingHandler) RegisterRoutes(read, write *gin.RouterGroup) {
	read.GET("/recipes/:id/ratings", h.ListRatings)
	read.GET("/recipes/:id/ratings/summary", h.Summary)

	write.POST("/recipes/:id/ratings", h.Rate)
	write.PUT("/ratings/:ratingId", h.UpdateRating)
	write.DELETE("/ratings/:ratingId", h.DeleteRating)
}

// Rate creates or replaces the caller's rating for the recipe.
func (h *RatingHandler) Rate(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RatingRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.ratings.Rate(c.Request.Context(), recipeID, userID, *req.ThumbsUp, req.Feedback, req.Modifications)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) UpdateRating(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "ratingId")
	if !ok {
		return
	}
	var req types.UpdateRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.ratings.UpdateRating(c.Request.Context(), ratingID, userID, service.RatingUpdate{
		ThumbsUp:      req.ThumbsUp,
		Feedback:      req.Feedback,
		Modifications: req.Modifications,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "ratingId")
	if !ok {
		return
	}
	if err := h.ratings.DeleteRating(c.Request.Context(), ratingID, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RatingHandler) ListRatings(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ratings, err := h.ratings.ListRatings(c.Request.Context(), recipeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *RatingHandler) Summary(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.ratings.Summary(c.Request.Context(), recipeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
