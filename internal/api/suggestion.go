package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

type SuggestionHandler struct {
	suggestions service.ISuggestionService
}

func NewSuggestionHandler(suggestions service.ISuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

func (h *SuggestionHandler) RegisterRoutes(read *gin.RouterGroup) {
	read.GET("/suggestions", h.Suggest)
	read.GET("/suggestions/strategies", h.Strategies)
}

func (h *SuggestionHandler) Suggest(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	strategy := service.Strategy(c.DefaultQuery("strategy", string(service.StrategyRotation)))

	suggestions, err := h.suggestions.Suggest(c.Request.Context(), strategy, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"strategy":    strategy,
		"suggestions": suggestions,
	})
}

func (h *SuggestionHandler) Strategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": service.Strategies})
}
